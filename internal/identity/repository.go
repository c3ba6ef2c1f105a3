package identity

import (
	"context"

	"github.com/congo-pay/localwallet/internal/domain"
)

// Repository persists users. *storage.Store satisfies it.
type Repository interface {
	SaveUser(ctx context.Context, user domain.User) (domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (domain.User, error)
}

// WalletOpener provisions the wallet paired with a new user.
// *wallet.Service satisfies it.
type WalletOpener interface {
	Open(ctx context.Context, userID string) (domain.Wallet, error)
}
