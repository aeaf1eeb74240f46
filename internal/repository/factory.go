package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dan9191/deferred-payment/internal/config"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// NewStore opens the store selected by cfg.StoreDriver
func NewStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Info("Using in-memory store")
		return NewMemoryStore(), nil

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		log.Infof("Using redis store at %s", cfg.RedisAddr)
		return NewRedisStore(client, cfg.PlanTTL), nil

	case config.DriverPostgres:
		db, err := sql.Open("postgres", cfg.DBConn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		store := NewPostgresStore(db)
		if err := store.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		log.Info("Using postgres store")
		return store, nil
	}

	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
