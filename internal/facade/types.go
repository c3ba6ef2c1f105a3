package facade

import (
	"time"

	"github.com/congo-pay/localwallet/internal/domain"
)

// Request carries the pre-authenticated caller and the operation parameters.
type Request[B any] struct {
	UserID string
	Body   B
}

// Response is the uniform status-coded result of every facade operation.
type Response struct {
	Status int
	Body   any
}

type RegisterBody struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// DepositBody takes the amount as received; it is coerced before the
// service sees it.
type DepositBody struct {
	Amount any `json:"amount"`
}

type TransferBody struct {
	ReceiverUsername string `json:"receiver_username"`
	Amount           any    `json:"amount"`
}

// ErrorBody is the failure payload of every operation.
type ErrorBody struct {
	Error string `json:"error"`
}

// UserView is a user as shown to callers, without the stored credential.
type UserView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserView(u domain.User) UserView {
	return UserView{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}

type RegistrationData struct {
	User   UserView      `json:"user"`
	Wallet domain.Wallet `json:"wallet"`
}

type RegisterResult struct {
	Message string           `json:"message"`
	Data    RegistrationData `json:"data"`
}

type LoginResult struct {
	Message string   `json:"message"`
	User    UserView `json:"user"`
}

// WalletResult is returned by deposit and transfer.
type WalletResult struct {
	Message string        `json:"message"`
	Wallet  domain.Wallet `json:"wallet"`
}
