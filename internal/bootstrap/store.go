// Package bootstrap builds the service's collaborators from configuration.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/restaurant/services/menu/internal/config"
	"github.com/restaurant/services/menu/internal/db"
	"github.com/restaurant/services/menu/internal/events"
	"github.com/restaurant/services/menu/internal/mongodb"
	"github.com/restaurant/services/menu/internal/store"
	"go.uber.org/zap"
)

// OpenStore connects to the backend named by cfg.StoreDriver. SQL backends
// are migrated before they are returned.
func OpenStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		log.Info("Connecting to MongoDB",
			zap.String("database", cfg.MongoDatabase),
			zap.String("collection", cfg.MongoCollection),
		)
		s, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, cfg.StoreTimeout)
		if err != nil {
			return nil, err
		}
		return s, nil

	case config.DriverPostgres, config.DriverSQLite:
		dsn := cfg.PGDSN
		if cfg.StoreDriver == config.DriverSQLite {
			dsn = cfg.SQLitePath
		}

		log.Info("Connecting to database", zap.String("driver", cfg.StoreDriver))
		database, err := db.Connect(cfg.StoreDriver, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		log.Info("Running database migrations")
		if err := db.RunMigrations(database); err != nil {
			database.Close(ctx)
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return database, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

// OpenPublisher connects to RabbitMQ, or returns a NopPublisher when no
// broker URL is configured.
func OpenPublisher(cfg *config.Config, log *zap.Logger) (events.EventPublisher, error) {
	if cfg.RabbitMQURL == "" {
		log.Info("RABBITMQ_URL not set, events disabled")
		return events.NopPublisher{}, nil
	}

	log.Info("Connecting to RabbitMQ")
	p, err := events.NewPublisher(cfg.RabbitMQURL, log)
	if err != nil {
		return nil, err
	}
	return p, nil
}
