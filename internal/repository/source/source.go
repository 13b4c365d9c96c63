// Package source opens the SKU repository selected by configuration.
package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/andresuchdata/roasboard/backend-go/internal/config"
	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
	"github.com/andresuchdata/roasboard/backend-go/internal/repository"
	"github.com/andresuchdata/roasboard/backend-go/internal/repository/firestore"
	"github.com/andresuchdata/roasboard/backend-go/internal/repository/postgres"
	"github.com/rs/zerolog/log"
)

const (
	DriverMock      = "mock"
	DriverPostgres  = "postgres"
	DriverFirestore = "firestore"

	defaultCollection = "skus"
)

// Open returns the repository for cfg.Source.Driver and a function releasing its
// connections. An empty driver selects the mock generator.
func Open(ctx context.Context, cfg *config.Config) (repository.SKURepository, func() error, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Source.Driver))
	switch driver {
	case "", DriverMock:
		log.Info().Uint64("seed", cfg.Source.MockSeed).Msg("using generated mock sku data")
		return repository.NewMockRepository(cfg.Source.MockSeed), noop, nil

	case DriverPostgres:
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			return nil, nil, err
		}
		log.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.DBName).Msg("using postgres sku data")
		return postgres.NewSKURepository(db), db.Close, nil

	case DriverFirestore:
		client, err := firestore.NewClient(ctx, cfg.Firestore)
		if err != nil {
			return nil, nil, err
		}
		collection := cfg.Firestore.Collection
		if collection == "" {
			collection = defaultCollection
		}
		log.Info().Str("project", cfg.Firestore.ProjectID).Str("collection", collection).Msg("using firestore sku data")
		return firestore.NewSKURepository(client, collection), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("driver %q: %w", cfg.Source.Driver, domain.ErrUnknownSource)
	}
}

func noop() error { return nil }
