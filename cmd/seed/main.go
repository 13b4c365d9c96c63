package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/andresuchdata/roasboard/backend-go/internal/config"
	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
	"github.com/andresuchdata/roasboard/backend-go/internal/export"
	"github.com/andresuchdata/roasboard/backend-go/internal/mockdata"
	"github.com/andresuchdata/roasboard/backend-go/internal/repository"
	"github.com/andresuchdata/roasboard/backend-go/internal/repository/firestore"
	"github.com/andresuchdata/roasboard/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/roasboard/backend-go/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func newInputFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "input",
		Usage:   "SKU snapshot CSV to load instead of generated data",
		EnvVars: []string{"SEED_INPUT"},
	}
}

func newSeedFlag() *cli.Uint64Flag {
	return &cli.Uint64Flag{
		Name:    "seed",
		Usage:   "Random seed for generated SKU data",
		Value:   42,
		EnvVars: []string{"SOURCE_MOCK_SEED"},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Err(err).Msg("could not load .env file")
	}
	logger.SetLevel(os.Getenv("LOG_LEVEL"))

	app := &cli.App{
		Name:  "seed",
		Usage: "Seed a SKU store with generated or snapshot data",
		Commands: []*cli.Command{
			{
				Name:  "postgres",
				Usage: "Migrate the schema and upsert SKUs into Postgres",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db-url",
						Usage:    "Database connection string",
						Required: true,
						EnvVars:  []string{"DATABASE_URL"},
					},
					newInputFlag(),
					newSeedFlag(),
				},
				Action: seedPostgres,
			},
			{
				Name:  "firestore",
				Usage: "Write SKU documents into a Firestore collection",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "project", Usage: "GCP project id", Required: true, EnvVars: []string{"FIRESTORE_PROJECT_ID"}},
					&cli.StringFlag{Name: "collection", Usage: "Target collection", Value: "skus", EnvVars: []string{"FIRESTORE_COLLECTION"}},
					&cli.StringFlag{Name: "credentials-file", Usage: "Service account JSON file", EnvVars: []string{"FIRESTORE_CREDENTIALS_FILE"}},
					newInputFlag(),
					newSeedFlag(),
				},
				Action: seedFirestore,
			},
			{
				Name:  "csv",
				Usage: "Write a generated SKU snapshot to a CSV file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "output",
						Usage: "Destination file",
						Value: "./data/seeds/skus.csv",
					},
					newSeedFlag(),
				},
				Action: writeSnapshot,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
}

// loadSKUs reads the snapshot at path, or generates a catalog from seed when path is empty.
func loadSKUs(path string, seed uint64) ([]domain.SKU, error) {
	if path == "" {
		return mockdata.New(seed).SKUs(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer f.Close()

	skus, err := export.ReadSKUs(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	return skus, nil
}

func seedPostgres(c *cli.Context) error {
	skus, err := loadSKUs(c.String("input"), c.Uint64("seed"))
	if err != nil {
		return err
	}

	sqlDB, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(c.Context); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	db := postgres.Wrap(sqlx.NewDb(sqlDB, "pgx"))
	if err := db.Migrate(c.Context); err != nil {
		return err
	}

	return save(c.Context, postgres.NewSKURepository(db), skus, "postgres")
}

func seedFirestore(c *cli.Context) error {
	skus, err := loadSKUs(c.String("input"), c.Uint64("seed"))
	if err != nil {
		return err
	}

	client, err := firestore.NewClient(c.Context, config.FirestoreConfig{
		ProjectID:       c.String("project"),
		Collection:      c.String("collection"),
		CredentialsFile: c.String("credentials-file"),
	})
	if err != nil {
		return err
	}
	defer client.Close()

	return save(c.Context, firestore.NewSKURepository(client, c.String("collection")), skus, "firestore")
}

func save(ctx context.Context, repo repository.SKURepository, skus []domain.SKU, target string) error {
	log.Info().Str("target", target).Int("skus", len(skus)).Msg("Starting seeding...")
	if err := repo.SaveSKUs(ctx, skus); err != nil {
		return fmt.Errorf("failed to seed %s: %w", target, err)
	}
	log.Info().Str("target", target).Msg("Seeding completed successfully")
	return nil
}

func writeSnapshot(c *cli.Context) error {
	out := c.String("output")
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	skus := mockdata.New(c.Uint64("seed")).SKUs()
	if err := export.WriteSKUs(f, skus, nil); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	log.Info().Str("file", out).Int("skus", len(skus)).Msg("Snapshot written")
	return nil
}
