package record

import (
	"context"
	"fmt"
	"time"

	"journalapi/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Backend is an opened record store with its health check and cleanup.
type Backend struct {
	Name  string
	Repo  Repository
	Ping  func(ctx context.Context) error
	Close func()
}

func noPing(context.Context) error { return nil }

// Open connects the backend named by cfg.Backend. Network backends are pinged
// before returning.
func Open(ctx context.Context, cfg config.StoreConfig) (*Backend, error) {
	switch cfg.Backend {
	case "memory", "":
		return &Backend{Name: "memory", Repo: NewBlobRepo(NewMemoryStore()), Ping: noPing, Close: func() {}}, nil

	case "disk":
		return &Backend{Name: "disk", Repo: NewBlobRepo(NewDiskStore(cfg.DiskPath)), Ping: noPing, Close: func() {}}, nil

	case "redis":
		client := NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		store := NewRedisStore(client, cfg.RedisTTL)
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
		}
		return &Backend{Name: "redis", Repo: NewBlobRepo(store), Ping: store.Ping, Close: func() { _ = client.Close() }}, nil

	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("create db pool: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		return &Backend{Name: "postgres", Repo: NewPostgresRepo(pool, cfg.Timeout), Ping: pool.Ping, Close: pool.Close}, nil

	default:
		return nil, fmt.Errorf("unknown record store %q", cfg.Backend)
	}
}
