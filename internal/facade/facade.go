package facade

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/congo-pay/localwallet/internal/domain"
	"github.com/congo-pay/localwallet/internal/identity"
	"github.com/congo-pay/localwallet/internal/logging"
	"github.com/congo-pay/localwallet/internal/metrics"
	"github.com/congo-pay/localwallet/internal/wallet"
)

// Operation names used in logs and metrics.
const (
	OpRegister   = "register"
	OpLogin      = "login"
	OpGetWallet  = "get_wallet"
	OpDeposit    = "deposit"
	OpTransfer   = "transfer"
	OpGetHistory = "get_history"
)

// Facade wraps the identity and wallet services in a request/response
// contract. Failures never escape as errors: every outcome is a Response.
type Facade struct {
	identity *identity.Service
	wallets  *wallet.Service
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// New builds a facade. metrics and logger may be nil.
func New(ids *identity.Service, wallets *wallet.Service, m *metrics.Metrics, logger *slog.Logger) *Facade {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Facade{identity: ids, wallets: wallets, metrics: m, logger: logger}
}

// Register signs up a user and opens their wallet.
func (f *Facade) Register(ctx context.Context, req Request[RegisterBody]) (resp Response) {
	defer f.observe(OpRegister, time.Now(), &resp)

	b := req.Body
	if b.Username == "" || b.Email == "" || b.Password == "" {
		return f.fail(ctx, OpRegister, http.StatusBadRequest, domain.ErrMissingFields)
	}
	reg, err := f.identity.Register(ctx, b.Username, b.Email, b.Password)
	if err != nil {
		return f.fail(ctx, OpRegister, http.StatusBadRequest, err)
	}
	return Response{Status: http.StatusCreated, Body: RegisterResult{
		Message: "User registered successfully",
		Data:    RegistrationData{User: newUserView(reg.User), Wallet: reg.Wallet},
	}}
}

// Login verifies credentials.
func (f *Facade) Login(ctx context.Context, req Request[LoginBody]) (resp Response) {
	defer f.observe(OpLogin, time.Now(), &resp)

	b := req.Body
	if b.Email == "" || b.Password == "" {
		return f.fail(ctx, OpLogin, http.StatusUnauthorized, domain.ErrMissingFields)
	}
	user, err := f.identity.Login(ctx, b.Email, b.Password)
	if err != nil {
		return f.fail(ctx, OpLogin, http.StatusUnauthorized, err)
	}
	return Response{Status: http.StatusOK, Body: LoginResult{Message: "Login successful", User: newUserView(user)}}
}

// GetWallet returns the caller's wallet, or a null body when they have none.
func (f *Facade) GetWallet(ctx context.Context, req Request[struct{}]) (resp Response) {
	defer f.observe(OpGetWallet, time.Now(), &resp)

	w, err := f.wallets.GetWallet(ctx, req.UserID)
	if err != nil {
		return f.fail(ctx, OpGetWallet, http.StatusBadRequest, err)
	}
	return Response{Status: http.StatusOK, Body: w}
}

// Deposit credits the caller's wallet.
func (f *Facade) Deposit(ctx context.Context, req Request[DepositBody]) (resp Response) {
	defer f.observe(OpDeposit, time.Now(), &resp)

	amount, err := parseAmount(req.Body.Amount)
	if err != nil {
		return f.fail(ctx, OpDeposit, http.StatusBadRequest, err)
	}
	w, err := f.wallets.Deposit(ctx, req.UserID, amount)
	if err != nil {
		return f.fail(ctx, OpDeposit, http.StatusBadRequest, err)
	}
	return Response{Status: http.StatusOK, Body: WalletResult{Message: "Deposit successful", Wallet: w}}
}

// Transfer moves funds from the caller to another user by username.
func (f *Facade) Transfer(ctx context.Context, req Request[TransferBody]) (resp Response) {
	defer f.observe(OpTransfer, time.Now(), &resp)

	amount, err := parseAmount(req.Body.Amount)
	if err != nil {
		return f.fail(ctx, OpTransfer, http.StatusBadRequest, err)
	}
	w, err := f.wallets.Transfer(ctx, req.UserID, req.Body.ReceiverUsername, amount)
	if err != nil {
		return f.fail(ctx, OpTransfer, http.StatusBadRequest, err)
	}
	return Response{Status: http.StatusOK, Body: WalletResult{Message: "Transfer successful", Wallet: w}}
}

// GetHistory lists the caller's transactions, newest first.
func (f *Facade) GetHistory(ctx context.Context, req Request[struct{}]) (resp Response) {
	defer f.observe(OpGetHistory, time.Now(), &resp)

	history, err := f.wallets.History(ctx, req.UserID)
	if err != nil {
		return f.fail(ctx, OpGetHistory, http.StatusBadRequest, err)
	}
	return Response{Status: http.StatusOK, Body: history}
}

// fail maps err onto a response. Domain failures get the operation's failure
// status and their message; anything else is an internal error.
func (f *Facade) fail(ctx context.Context, op string, status int, err error) Response {
	if kind, ok := domain.KindOf(err); ok {
		f.logger.DebugContext(ctx, "facade request rejected",
			slog.String("operation", op),
			slog.String("kind", kind.String()),
		)
		return Response{Status: status, Body: ErrorBody{Error: err.Error()}}
	}
	f.logger.ErrorContext(ctx, "facade request failed",
		slog.String("operation", op),
		slog.Any("error", err),
	)
	return Response{Status: http.StatusInternalServerError, Body: ErrorBody{Error: "internal error"}}
}

func (f *Facade) observe(op string, start time.Time, resp *Response) {
	f.metrics.Observe(op, resp.Status, start)
}
