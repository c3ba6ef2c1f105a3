package infra

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/localwallet/internal/config"
	"github.com/congo-pay/localwallet/internal/storage"
)

// Backends holds the external connections the process runs on. DB and Cache
// are nil when not configured.
type Backends struct {
	DB    *pgxpool.Pool
	Cache *redis.Client
	Blobs storage.BlobStore
}

// Connect dials the configured backends and selects the blob store named by
// cfg.StorageBackend. Redis is connected whenever REDIS_URL is set since the
// HTTP middleware uses it independently of storage.
func Connect(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Backends, error) {
	b := &Backends{}

	if cfg.DatabaseURL != "" {
		pool, err := NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		b.DB = pool
	}

	if cfg.RedisURL != "" {
		client, err := NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.Cache = client
	}

	blobs, err := SelectBlobStore(ctx, cfg, b.DB, b.Cache)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.Blobs = blobs

	logger.Info("backends connected",
		slog.String("storage_backend", cfg.StorageBackend),
		slog.Bool("postgres", b.DB != nil),
		slog.Bool("redis", b.Cache != nil),
	)
	return b, nil
}

// SelectBlobStore returns the blob store for cfg.StorageBackend. The
// Postgres table is created when missing.
func SelectBlobStore(ctx context.Context, cfg config.Config, db *pgxpool.Pool, cache *redis.Client) (storage.BlobStore, error) {
	switch cfg.StorageBackend {
	case config.BackendMemory, "":
		return storage.NewMemoryBlobStore(), nil
	case config.BackendRedis:
		if cache == nil {
			return nil, fmt.Errorf("redis storage selected without a redis client")
		}
		return storage.NewRedisBlobStore(cache, cfg.RedisKeyPrefix), nil
	case config.BackendPostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres storage selected without a database pool")
		}
		pg := storage.NewPostgresBlobStore(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("ensure blob schema: %w", err)
		}
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// Close releases every open connection.
func (b *Backends) Close() {
	if b.Cache != nil {
		_ = b.Cache.Close()
	}
	if b.DB != nil {
		b.DB.Close()
	}
}
