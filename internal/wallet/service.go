package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/congo-pay/localwallet/internal/domain"
	"github.com/congo-pay/localwallet/internal/logging"
	"github.com/congo-pay/localwallet/internal/notification"
	"github.com/congo-pay/localwallet/internal/storage"
)

// Service exposes balance queries, deposits, transfers and history.
type Service struct {
	// mu serialises balance read-validate-write sequences across callers.
	mu       sync.Mutex
	repo     Repository
	users    UserFinder
	notifier notification.Notifier
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the timestamp source for new transactions.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides wallet and transaction id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// NewService builds a wallet service. notifier and logger may be nil.
func NewService(repo Repository, users UserFinder, notifier notification.Notifier, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Service{
		repo:     repo,
		users:    users,
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open provisions the zero-balance wallet bound to userID.
func (s *Service) Open(ctx context.Context, userID string) (domain.Wallet, error) {
	w := domain.Wallet{
		ID:       s.newID(),
		UserID:   userID,
		Balance:  decimal.Zero,
		Currency: domain.DefaultCurrency,
	}
	saved, err := s.repo.SaveWallet(ctx, w)
	if err != nil {
		return domain.Wallet{}, fmt.Errorf("save wallet: %w", err)
	}
	return saved, nil
}

// GetWallet looks up the wallet owned by userID. It returns nil without an
// error when the user has none.
func (s *Service) GetWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	w, err := s.repo.FindWalletByUserID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Deposit credits amount to the user's wallet and records a DEPOSIT entry.
func (s *Service) Deposit(ctx context.Context, userID string, amount decimal.Decimal) (domain.Wallet, error) {
	if !amount.IsPositive() {
		return domain.Wallet{}, domain.ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.repo.FindWalletByUserID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Wallet{}, domain.ErrWalletNotFound
	}
	if err != nil {
		return domain.Wallet{}, err
	}

	w.Balance = w.Balance.Add(amount)
	if err := s.repo.UpdateWallet(ctx, w); err != nil {
		return domain.Wallet{}, fmt.Errorf("update wallet: %w", err)
	}

	tx := domain.Transaction{
		ID:               s.newID(),
		Amount:           amount,
		Type:             domain.TransactionDeposit,
		ReceiverWalletID: w.ID,
		Timestamp:        s.now(),
	}
	if _, err := s.repo.SaveTransaction(ctx, tx); err != nil {
		return domain.Wallet{}, fmt.Errorf("save transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "wallet.deposit completed",
		slog.String("user_id", userID),
		slog.String("wallet_id", w.ID),
		slog.String("amount", amount.String()),
		slog.String("transaction_id", tx.ID),
	)
	return w, nil
}

// Transfer moves amount from the sender's wallet to the wallet of the user
// named receiverUsername. Checks run in a fixed order and nothing is written
// until all of them pass.
func (s *Service) Transfer(ctx context.Context, senderUserID, receiverUsername string, amount decimal.Decimal) (domain.Wallet, error) {
	if !amount.IsPositive() {
		return domain.Wallet{}, domain.ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sender, err := s.repo.FindWalletByUserID(ctx, senderUserID)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Wallet{}, domain.ErrSenderWalletNotFound
	}
	if err != nil {
		return domain.Wallet{}, err
	}

	if sender.Balance.LessThan(amount) {
		return domain.Wallet{}, domain.ErrInsufficientBalance
	}

	receiverUser, err := s.users.FindUserByUsername(ctx, receiverUsername)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Wallet{}, domain.ErrReceiverNotFound
	}
	if err != nil {
		return domain.Wallet{}, err
	}

	receiver, err := s.repo.FindWalletByUserID(ctx, receiverUser.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Wallet{}, domain.ErrReceiverWalletNotFound
	}
	if err != nil {
		return domain.Wallet{}, err
	}

	if sender.ID == receiver.ID {
		return domain.Wallet{}, domain.ErrSelfTransfer
	}

	sender.Balance = sender.Balance.Sub(amount)
	receiver.Balance = receiver.Balance.Add(amount)
	if err := s.repo.UpdateWallets(ctx, sender, receiver); err != nil {
		return domain.Wallet{}, fmt.Errorf("update wallets: %w", err)
	}

	senderWalletID := sender.ID
	tx := domain.Transaction{
		ID:               s.newID(),
		Amount:           amount,
		Type:             domain.TransactionTransfer,
		SenderWalletID:   &senderWalletID,
		ReceiverWalletID: receiver.ID,
		Timestamp:        s.now(),
	}
	if _, err := s.repo.SaveTransaction(ctx, tx); err != nil {
		return domain.Wallet{}, fmt.Errorf("save transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "wallet.transfer completed",
		slog.String("sender_wallet_id", sender.ID),
		slog.String("receiver_wallet_id", receiver.ID),
		slog.String("amount", amount.String()),
		slog.String("transaction_id", tx.ID),
	)

	if s.notifier != nil {
		msg := notification.Message{
			Kind:     notification.KindTransferReceived,
			UserID:   receiverUser.ID,
			WalletID: receiver.ID,
			Body:     fmt.Sprintf("You received %s %s from wallet %s", amount.String(), receiver.Currency, sender.ID),
		}
		if err := s.notifier.Send(ctx, msg); err != nil {
			s.logger.WarnContext(ctx, "transfer notification failed", slog.String("transaction_id", tx.ID), slog.Any("error", err))
		}
	}

	return sender, nil
}

// History returns every transaction touching the user's wallet, newest
// first. A user without a wallet has an empty history.
func (s *Service) History(ctx context.Context, userID string) ([]domain.Transaction, error) {
	w, err := s.repo.FindWalletByUserID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return []domain.Transaction{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.repo.FindTransactionsByWalletID(ctx, w.ID)
}
