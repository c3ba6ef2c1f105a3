package wallet

import (
	"context"

	"github.com/congo-pay/localwallet/internal/domain"
)

// Repository is the slice of the storage collections the wallet service
// reads and writes. *storage.Store satisfies it.
type Repository interface {
	SaveWallet(ctx context.Context, wallet domain.Wallet) (domain.Wallet, error)
	FindWalletByUserID(ctx context.Context, userID string) (domain.Wallet, error)
	UpdateWallet(ctx context.Context, wallet domain.Wallet) error
	UpdateWallets(ctx context.Context, wallets ...domain.Wallet) error
	SaveTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error)
	FindTransactionsByWalletID(ctx context.Context, walletID string) ([]domain.Transaction, error)
}

// UserFinder resolves transfer receivers by username.
type UserFinder interface {
	FindUserByUsername(ctx context.Context, username string) (domain.User, error)
}
