// Package firestore reads and writes SKU documents in a Cloud Firestore collection.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	gfs "cloud.google.com/go/firestore"
	"github.com/andresuchdata/roasboard/backend-go/internal/config"
	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
	"github.com/andresuchdata/roasboard/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const datastoreScope = "https://www.googleapis.com/auth/datastore"

// NewClient opens a Firestore client. Explicit credentials take precedence over the
// credentials file; without either the application default credentials are used.
func NewClient(ctx context.Context, cfg config.FirestoreConfig) (*gfs.Client, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("firestore project id is required")
	}

	credentialsJSON := []byte(cfg.CredentialsJSON)
	if len(credentialsJSON) == 0 && cfg.CredentialsFile != "" {
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("unable to read firestore credentials: %w", err)
		}
		credentialsJSON = data
	}

	var opts []option.ClientOption
	if len(credentialsJSON) > 0 {
		creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, datastoreScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse firestore credentials: %w", err)
		}
		opts = append(opts, option.WithCredentials(creds))
	}

	client, err := gfs.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create firestore client: %w", err)
	}
	return client, nil
}

type SKURepository struct {
	client     *gfs.Client
	collection string
}

func NewSKURepository(client *gfs.Client, collection string) *SKURepository {
	return &SKURepository{client: client, collection: collection}
}

func (r *SKURepository) ListSKUs(ctx context.Context) ([]domain.SKU, error) {
	iter := r.client.Collection(r.collection).Documents(ctx)
	defer iter.Stop()

	var skus []domain.SKU
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s documents: %w", r.collection, err)
		}
		skus = append(skus, repository.SKUFromDocument(doc.Ref.ID, doc.Data()))
	}

	sort.SliceStable(skus, func(i, j int) bool { return skus[i].ID < skus[j].ID })
	log.Debug().Str("collection", r.collection).Int("skus", len(skus)).Msg("loaded skus from firestore")
	return skus, nil
}

func (r *SKURepository) SaveSKUs(ctx context.Context, skus []domain.SKU) error {
	bw := r.client.BulkWriter(ctx)
	col := r.client.Collection(r.collection)

	jobs := make([]*gfs.BulkWriterJob, 0, len(skus))
	for _, sku := range skus {
		job, err := bw.Set(col.Doc(sku.ID), repository.SKUToDocument(sku))
		if err != nil {
			bw.End()
			return fmt.Errorf("failed to queue sku %s: %w", sku.ID, err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	for i, job := range jobs {
		if _, err := job.Results(); err != nil {
			return fmt.Errorf("failed to write sku %s: %w", skus[i].ID, err)
		}
	}
	return nil
}
