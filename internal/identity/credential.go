package identity

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Credential encoding names accepted by NewEncoder.
const (
	EncodingBase64 = "base64"
	EncodingBcrypt = "bcrypt"
)

// CredentialEncoder turns a password into the stored credential and checks
// a login attempt against it.
type CredentialEncoder interface {
	Encode(password string) (string, error)
	Matches(credential, password string) bool
}

// Base64Encoder stores the password as reversible standard base64. It is not
// a password hash: anyone who can read the users collection can recover
// every password. Deployments that care must switch to BcryptEncoder.
type Base64Encoder struct{}

func (Base64Encoder) Encode(password string) (string, error) {
	return base64.StdEncoding.EncodeToString([]byte(password)), nil
}

// Matches re-derives the encoding and compares it with the stored value.
func (e Base64Encoder) Matches(credential, password string) bool {
	encoded, _ := e.Encode(password)
	return subtle.ConstantTimeCompare([]byte(encoded), []byte(credential)) == 1
}

// BcryptEncoder stores a bcrypt hash of the password.
type BcryptEncoder struct {
	Cost int
}

func (e BcryptEncoder) Encode(password string) (string, error) {
	cost := e.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (BcryptEncoder) Matches(credential, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(credential), []byte(password)) == nil
}

// NewEncoder resolves an encoder by configuration name.
func NewEncoder(name string) (CredentialEncoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EncodingBase64:
		return Base64Encoder{}, nil
	case EncodingBcrypt:
		return BcryptEncoder{}, nil
	default:
		return nil, fmt.Errorf("unknown credential encoding %q", name)
	}
}
