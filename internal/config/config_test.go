package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"APP_NAME", "APP_ENV", "PORT", "LOG_LEVEL", "LOG_FORMAT", "STORAGE_BACKEND",
	"DATABASE_URL", "REDIS_URL", "REDIS_KEY_PREFIX", "CREDENTIAL_ENCODING",
	"JWT_SECRET", "ACCESS_TOKEN_TTL", "LOGIN_ATTEMPTS_PER_MINUTE",
	shutdownSecondsEnvVar, shutdownDurationEnvVar, idemTTLSecondsEnvVar, idemTTLDurEnvVar,
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "LocalWallet", cfg.AppName)
	assert.Equal(t, BackendMemory, cfg.StorageBackend)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "localwallet:v1:", cfg.RedisKeyPrefix)
	assert.Equal(t, "base64", cfg.CredentialEncoding)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 10*time.Second, cfg.ShutdownPeriod)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, 5, cfg.LoginAttempts)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Equal(t, ":8080", cfg.Address())
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", ":9000")
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CREDENTIAL_ENCODING", "bcrypt")
	t.Setenv(shutdownSecondsEnvVar, "3")
	t.Setenv(idemTTLDurEnvVar, "90m")
	t.Setenv("ACCESS_TOKEN_TTL", "1h")
	t.Setenv("LOGIN_ATTEMPTS_PER_MINUTE", "10")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Address())
	assert.Equal(t, BackendRedis, cfg.StorageBackend)
	assert.Equal(t, "bcrypt", cfg.CredentialEncoding)
	assert.Equal(t, 3*time.Second, cfg.ShutdownPeriod)
	assert.Equal(t, 90*time.Minute, cfg.IdempotencyTTL)
	assert.Equal(t, time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, 10, cfg.LoginAttempts)
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown backend":      {"STORAGE_BACKEND": "mongo"},
		"redis without url":    {"STORAGE_BACKEND": "redis"},
		"postgres without url": {"STORAGE_BACKEND": "postgres"},
		"bad log format":       {"LOG_FORMAT": "xml"},
		"bad encoding":         {"CREDENTIAL_ENCODING": "rot13"},
		"bad shutdown":         {shutdownSecondsEnvVar: "soon"},
		"bad idempotency ttl":  {idemTTLDurEnvVar: "forever"},
		"bad token ttl":        {"ACCESS_TOKEN_TTL": "1x"},
		"bad attempts":         {"LOGIN_ATTEMPTS_PER_MINUTE": "0"},
		"no secret in prod":    {"APP_ENV": "production"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestProductionUsesConfiguredSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "prod-secret")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "prod-secret", cfg.JWTSecret)
}
