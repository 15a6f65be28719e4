package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/config"
	"storefront/internal/db"
)

var (
	// ErrNotFound is returned when no record matches.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// Repositories groups the repositories of one backend.
type Repositories struct {
	Items ItemRepository
	Users UserRepository
	Carts CartRepository

	close func(ctx context.Context) error
}

// Close releases the backend connection.
func (r *Repositories) Close(ctx context.Context) error {
	if r.close == nil {
		return nil
	}
	return r.close(ctx)
}

// Open connects to the store selected by cfg.StoreDriver and prepares its
// indexes or tables.
func Open(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := db.NewMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		database := client.Database(cfg.MongoDatabase)
		if err := EnsureMongoIndexes(ctx, database); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		repos := NewMongoRepositories(database)
		repos.close = client.Disconnect
		return repos, nil

	case config.DriverMySQL, config.DriverPostgres:
		gormDB, err := db.NewSQL(cfg.StoreDriver, cfg.SQLDSN)
		if err != nil {
			return nil, err
		}
		if err := AutoMigrate(gormDB); err != nil {
			return nil, err
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, fmt.Errorf("sql handle: %w", err)
		}
		repos := NewGormRepositories(gormDB)
		repos.close = func(context.Context) error { return sqlDB.Close() }
		return repos, nil

	case config.DriverMemory:
		return NewMemoryRepositories(), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
