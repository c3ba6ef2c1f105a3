package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/congo-pay/localwallet/internal/domain"
	"github.com/congo-pay/localwallet/internal/logging"
	"github.com/congo-pay/localwallet/internal/storage"
)

// Service manages registration and login.
type Service struct {
	// mu keeps the uniqueness checks and the user insert together.
	mu      sync.Mutex
	repo    Repository
	wallets WalletOpener
	encoder CredentialEncoder
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates an identity service. A nil encoder means Base64Encoder
// and a nil logger discards output.
func NewService(repo Repository, wallets WalletOpener, encoder CredentialEncoder, logger *slog.Logger) *Service {
	if encoder == nil {
		encoder = Base64Encoder{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{
		repo:    repo,
		wallets: wallets,
		encoder: encoder,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a user with a unique email and username, then opens the
// user's wallet. A failed wallet open after the user was stored is returned
// as an error; the stored user is not rolled back.
func (s *Service) Register(ctx context.Context, username, email, password string) (Registration, error) {
	user, err := s.createUser(ctx, username, email, password)
	if err != nil {
		return Registration{}, err
	}

	w, err := s.wallets.Open(ctx, user.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "identity.register wallet open failed",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
		return Registration{}, fmt.Errorf("open wallet: %w", err)
	}

	s.logger.InfoContext(ctx, "identity.register completed",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
		slog.String("wallet_id", w.ID),
	)
	return Registration{User: user, Wallet: w}, nil
}

func (s *Service) createUser(ctx context.Context, username, email, password string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.repo.FindUserByEmail(ctx, email); err == nil {
		return domain.User{}, domain.ErrDuplicateEmail
	} else if !errors.Is(err, storage.ErrNotFound) {
		return domain.User{}, err
	}

	if _, err := s.repo.FindUserByUsername(ctx, username); err == nil {
		return domain.User{}, domain.ErrDuplicateUsername
	} else if !errors.Is(err, storage.ErrNotFound) {
		return domain.User{}, err
	}

	credential, err := s.encoder.Encode(password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:         uuid.NewString(),
		Username:   username,
		Email:      email,
		Credential: credential,
		CreatedAt:  s.now(),
	}
	saved, err := s.repo.SaveUser(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("save user: %w", err)
	}
	return saved, nil
}

// Login verifies the email/password pair. Unknown emails and wrong
// passwords fail with the same error.
func (s *Service) Login(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.repo.FindUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.InfoContext(ctx, "identity.login failed", slog.String("email", email))
		return domain.User{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, err
	}

	if !s.encoder.Matches(user.Credential, password) {
		s.logger.InfoContext(ctx, "identity.login failed", slog.String("email", email))
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return user, nil
}
