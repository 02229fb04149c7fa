// Package db selects and opens the persistence backend named by the
// configuration.
package db

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/ports"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/infrastructure/db/memory"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/infrastructure/db/mongo"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/infrastructure/db/postgres"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/pkg/config"
)

// Repositories bundles the repositories of one backend.
type Repositories struct {
	Driver    string
	Users     ports.UserRepository
	Posts     ports.PostRepository
	Comments  ports.CommentRepository
	Retention ports.RetentionStore

	// Ping reports whether the backend is reachable.
	Ping func(ctx context.Context) error

	close func(ctx context.Context) error
}

// Close releases the backend connection.
func (r *Repositories) Close(ctx context.Context) error {
	if r.close == nil {
		return nil
	}
	return r.close(ctx)
}

// Open connects to the backend selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Repositories, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, database, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		store := mongo.NewStore(database)
		if err := store.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to ensure mongo indexes")
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")
		return &Repositories{
			Driver:    cfg.StoreDriver,
			Users:     store.Users(),
			Posts:     store.Posts(),
			Comments:  store.Comments(),
			Retention: store.Retention(),
			Ping:      store.Ping,
			close:     client.Disconnect,
		}, nil

	case config.DriverPostgres:
		sqlDB, err := postgres.Open(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		store := postgres.NewStore(sqlDB)
		log.Info().Msg("connected to postgres")
		return &Repositories{
			Driver:    cfg.StoreDriver,
			Users:     store.Users(),
			Posts:     store.Posts(),
			Comments:  store.Comments(),
			Retention: store.Retention(),
			Ping:      store.Ping,
			close:     func(context.Context) error { return sqlDB.Close() },
		}, nil

	case config.DriverMemory:
		return NewMemory(), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// NewMemory returns repositories backed by a fresh in-process store.
func NewMemory() *Repositories {
	store := memory.NewStore()
	return &Repositories{
		Driver:    config.DriverMemory,
		Users:     store.Users(),
		Posts:     store.Posts(),
		Comments:  store.Comments(),
		Retention: store.Retention(),
		Ping:      store.Ping,
	}
}
