package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/congo-pay/localwallet/internal/domain"
	"github.com/congo-pay/localwallet/internal/storage"
	"github.com/congo-pay/localwallet/internal/wallet"
)

func newTestService(t *testing.T, encoder CredentialEncoder) (*Service, *storage.Store, *wallet.Service) {
	t.Helper()
	store, err := storage.Open(context.Background(), storage.NewMemoryBlobStore())
	require.NoError(t, err)
	wallets := wallet.NewService(store, store, nil, nil)
	return NewService(store, wallets, encoder, nil), store, wallets
}

type failingOpener struct{}

func (failingOpener) Open(context.Context, string) (domain.Wallet, error) {
	return domain.Wallet{}, errors.New("disk full")
}

func TestRegisterCreatesUserAndWallet(t *testing.T) {
	ctx := context.Background()
	svc, store, wallets := newTestService(t, nil)

	reg, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret")
	require.NoError(t, err)

	assert.NotEmpty(t, reg.User.ID)
	assert.Equal(t, "alice", reg.User.Username)
	assert.Equal(t, "alice@example.com", reg.User.Email)
	assert.NotEqual(t, "s3cret", reg.User.Credential)
	assert.False(t, reg.User.CreatedAt.IsZero())

	assert.Equal(t, reg.User.ID, reg.Wallet.UserID)
	assert.True(t, reg.Wallet.Balance.IsZero())
	assert.Equal(t, domain.DefaultCurrency, reg.Wallet.Currency)

	all, err := store.Wallets(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	fetched, err := wallets.GetWallet(ctx, reg.User.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, reg.Wallet.ID, fetched.ID)
}

func TestRegisterStoresBase64Credential(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	reg, err := svc.Register(context.Background(), "alice", "alice@example.com", "password")
	require.NoError(t, err)
	assert.Equal(t, "cGFzc3dvcmQ=", reg.User.Credential)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t, nil)

	_, err := svc.Register(ctx, "alice", "shared@example.com", "pw")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "bob", "shared@example.com", "pw")
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	users, err := store.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, nil)

	_, err := svc.Register(ctx, "alice", "a1@example.com", "pw")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "a2@example.com", "pw")
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)
}

func TestRegisterEmailCheckedBeforeUsername(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, nil)

	_, err := svc.Register(ctx, "alice", "alice@example.com", "pw")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "alice@example.com", "pw")
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestRegisterWalletFailureSurfaces(t *testing.T) {
	store, err := storage.Open(context.Background(), storage.NewMemoryBlobStore())
	require.NoError(t, err)
	svc := NewService(store, failingOpener{}, nil, nil)

	_, err = svc.Register(context.Background(), "alice", "alice@example.com", "pw")
	require.Error(t, err)
	_, isDomain := domain.KindOf(err)
	assert.False(t, isDomain)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, nil)

	reg, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret")
	require.NoError(t, err)

	user, err := svc.Login(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, user.ID)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, nil)

	_, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret")
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, "alice@example.com", "guess")
	_, unknownEmail := svc.Login(ctx, "mallory@example.com", "s3cret")

	require.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, domain.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLoginWithBcryptEncoder(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, BcryptEncoder{Cost: 4})

	reg, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "czNjcmV0", reg.User.Credential)

	_, err = svc.Login(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
