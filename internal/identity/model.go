package identity

import "github.com/congo-pay/localwallet/internal/domain"

// Registration is the outcome of a successful sign-up: the new user and the
// wallet opened for it.
type Registration struct {
	User   domain.User   `json:"user"`
	Wallet domain.Wallet `json:"wallet"`
}
