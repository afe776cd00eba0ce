package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Open connects the backend named by driver. The Redis client is nil for the
// memory driver; callers close it when it is not.
func Open(ctx context.Context, driver, databaseURL, redisURL string) (Storage, *redis.Client, error) {
	switch driver {
	case DriverMemory:
		slog.Warn("using in-memory store, records are lost on exit")
		return NewMemoryStore(), nil, nil
	case DriverPostgres:
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", driver)
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}

	svc := NewStorageService(db, rdb)
	if err := svc.Migrate(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	slog.Info("database and redis connections established, migrations complete")
	return svc, rdb, nil
}
