package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/congo-pay/localwallet/internal/domain"
)

var alice = domain.User{ID: "user-1", Username: "alice", Email: "alice@example.com"}

func TestIssueAndVerify(t *testing.T) {
	svc := NewService("secret", "localwallet", 15*time.Minute)

	tok, err := svc.Issue(alice)
	require.NoError(t, err)
	assert.NotEmpty(t, tok.AccessToken)
	assert.Equal(t, int64(900), tok.ExpiresIn)

	claims, err := svc.Verify(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "localwallet", claims.Issuer)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tok, err := NewService("secret", "localwallet", time.Minute).Issue(alice)
	require.NoError(t, err)

	_, err = NewService("other", "localwallet", time.Minute).Verify(tok.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	tok, err := NewService("secret", "someone-else", time.Minute).Issue(alice)
	require.NoError(t, err)

	_, err = NewService("secret", "localwallet", time.Minute).Verify(tok.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	svc := NewService("secret", "localwallet", time.Minute)
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }
	tok, err := svc.Issue(alice)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Verify(tok.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{Username: "alice", RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "localwallet",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewService("secret", "localwallet", time.Minute).Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := NewService("secret", "localwallet", time.Minute).Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMissingSecret(t *testing.T) {
	svc := NewService("", "localwallet", time.Minute)
	_, err := svc.Issue(alice)
	assert.ErrorIs(t, err, ErrNoSecret)
	_, err = svc.Verify("x")
	assert.ErrorIs(t, err, ErrNoSecret)
}
