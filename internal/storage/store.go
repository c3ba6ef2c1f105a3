package storage

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/congo-pay/localwallet/internal/domain"
)

// Well-known blob keys, one per collection.
const (
	UsersKey        = "users"
	WalletsKey      = "wallets"
	TransactionsKey = "transactions"
)

// Store owns the canonical users, wallets and transactions collections. It is
// created once at process start and passed to the services that need it.
type Store struct {
	users        *Collection[domain.User]
	wallets      *Collection[domain.Wallet]
	transactions *Collection[domain.Transaction]
	closed       atomic.Bool
}

// Open binds the three collections to blobs, creating any that are missing.
// Opening an already initialised blob store leaves its contents untouched.
func Open(ctx context.Context, blobs BlobStore) (*Store, error) {
	s := &Store{
		users:        newCollection[domain.User](UsersKey, blobs),
		wallets:      newCollection[domain.Wallet](WalletsKey, blobs),
		transactions: newCollection[domain.Transaction](TransactionsKey, blobs),
	}
	if err := s.users.ensure(ctx); err != nil {
		return nil, fmt.Errorf("init users: %w", err)
	}
	if err := s.wallets.ensure(ctx); err != nil {
		return nil, fmt.Errorf("init wallets: %w", err)
	}
	if err := s.transactions.ensure(ctx); err != nil {
		return nil, fmt.Errorf("init transactions: %w", err)
	}
	return s, nil
}

// Close stops the store from serving further calls. Every write is already
// persisted when it returns, so there is nothing left to flush.
func (s *Store) Close(_ context.Context) error {
	s.closed.Store(true)
	return nil
}

func (s *Store) guard() error {
	if s.closed.Load() {
		return ErrClosed
	}
	return nil
}

// --- users ---

// SaveUser appends user to the users collection.
func (s *Store) SaveUser(ctx context.Context, user domain.User) (domain.User, error) {
	if err := s.guard(); err != nil {
		return domain.User{}, err
	}
	if err := s.users.Append(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Users returns every registered user.
func (s *Store) Users(ctx context.Context) ([]domain.User, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	return s.users.All(ctx)
}

// FindUserByEmail returns the user registered with email, or ErrNotFound.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (domain.User, error) {
	if err := s.guard(); err != nil {
		return domain.User{}, err
	}
	return s.users.Find(ctx, func(u domain.User) bool { return u.Email == email })
}

// FindUserByUsername returns the user with username, or ErrNotFound.
func (s *Store) FindUserByUsername(ctx context.Context, username string) (domain.User, error) {
	if err := s.guard(); err != nil {
		return domain.User{}, err
	}
	return s.users.Find(ctx, func(u domain.User) bool { return u.Username == username })
}

// FindUserByID returns the user with id, or ErrNotFound.
func (s *Store) FindUserByID(ctx context.Context, id string) (domain.User, error) {
	if err := s.guard(); err != nil {
		return domain.User{}, err
	}
	return s.users.Find(ctx, func(u domain.User) bool { return u.ID == id })
}

// --- wallets ---

// SaveWallet appends wallet to the wallets collection.
func (s *Store) SaveWallet(ctx context.Context, wallet domain.Wallet) (domain.Wallet, error) {
	if err := s.guard(); err != nil {
		return domain.Wallet{}, err
	}
	if err := s.wallets.Append(ctx, wallet); err != nil {
		return domain.Wallet{}, err
	}
	return wallet, nil
}

// UpdateWallet replaces the stored wallet with the same ID. An unknown ID is
// silently ignored and nothing is written.
func (s *Store) UpdateWallet(ctx context.Context, wallet domain.Wallet) error {
	return s.UpdateWallets(ctx, wallet)
}

// UpdateWallets replaces several wallets in a single collection write, so a
// transfer's debit and credit land together or not at all. Unknown IDs are
// skipped.
func (s *Store) UpdateWallets(ctx context.Context, wallets ...domain.Wallet) error {
	if err := s.guard(); err != nil {
		return err
	}
	return s.wallets.Mutate(ctx, func(records []domain.Wallet) ([]domain.Wallet, bool, error) {
		changed := false
		for _, w := range wallets {
			idx := slices.IndexFunc(records, func(r domain.Wallet) bool { return r.ID == w.ID })
			if idx == -1 {
				continue
			}
			records[idx] = w
			changed = true
		}
		return records, changed, nil
	})
}

// Wallets returns every wallet.
func (s *Store) Wallets(ctx context.Context) ([]domain.Wallet, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	return s.wallets.All(ctx)
}

// FindWalletByUserID returns the wallet owned by userID, or ErrNotFound.
func (s *Store) FindWalletByUserID(ctx context.Context, userID string) (domain.Wallet, error) {
	if err := s.guard(); err != nil {
		return domain.Wallet{}, err
	}
	return s.wallets.Find(ctx, func(w domain.Wallet) bool { return w.UserID == userID })
}

// FindWalletByID returns the wallet with id, or ErrNotFound.
func (s *Store) FindWalletByID(ctx context.Context, id string) (domain.Wallet, error) {
	if err := s.guard(); err != nil {
		return domain.Wallet{}, err
	}
	return s.wallets.Find(ctx, func(w domain.Wallet) bool { return w.ID == id })
}

// --- transactions ---

// SaveTransaction appends tx to the ledger.
func (s *Store) SaveTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	if err := s.guard(); err != nil {
		return domain.Transaction{}, err
	}
	if err := s.transactions.Append(ctx, tx); err != nil {
		return domain.Transaction{}, err
	}
	return tx, nil
}

// Transactions returns the whole ledger in insertion order.
func (s *Store) Transactions(ctx context.Context) ([]domain.Transaction, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	return s.transactions.All(ctx)
}

// FindTransactionsByWalletID returns every transaction sending from or
// receiving into walletID, most recent first. Records with equal timestamps
// are ordered latest-appended first.
func (s *Store) FindTransactionsByWalletID(ctx context.Context, walletID string) ([]domain.Transaction, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	txs, err := s.transactions.Filter(ctx, func(t domain.Transaction) bool { return t.Touches(walletID) })
	if err != nil {
		return nil, err
	}
	slices.Reverse(txs)
	slices.SortStableFunc(txs, func(a, b domain.Transaction) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return txs, nil
}
