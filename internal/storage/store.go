// Package storage persists small string values for one client installation across restarts.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/analify/dashboard-gateway/internal/config"
)

// ErrUnreadable is returned when a stored value exists but cannot be decoded.
var ErrUnreadable = errors.New("stored value unreadable")

// Store is a synchronous key-value store. Removing a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Pinger is implemented by stores that depend on a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Backends carries the connections a driver may need.
type Backends struct {
	Redis    *redis.Client
	Postgres DBTX
}

// New builds the store selected by cfg.Driver, sealed when cfg.Secret is set.
func New(cfg config.StorageConfig, backends Backends) (Store, error) {
	var (
		store Store
		err   error
	)

	switch cfg.Driver {
	case config.StorageDriverMemory:
		store = NewMemoryStore()
	case config.StorageDriverFile:
		store, err = NewFileStore(cfg.FilePath)
	case config.StorageDriverRedis:
		if backends.Redis == nil {
			return nil, errors.New("redis storage requires a redis client")
		}
		store = NewRedisStore(backends.Redis, cfg.InstallationID)
	case config.StorageDriverPostgres:
		if backends.Postgres == nil {
			return nil, errors.New("postgres storage requires a connection pool")
		}
		store = NewPostgresStore(backends.Postgres, cfg.InstallationID)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Secret == "" {
		return store, nil
	}
	sealed, err := Sealed(store, cfg.Secret)
	if err != nil {
		return nil, err
	}
	return sealed, nil
}

// Ping checks the store's backing service, when it has one.
func Ping(ctx context.Context, s Store) error {
	if p, ok := s.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
