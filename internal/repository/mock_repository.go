package repository

import (
	"context"
	"sync"

	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
	"github.com/andresuchdata/roasboard/backend-go/internal/mockdata"
	"github.com/rs/zerolog/log"
)

// MockRepository serves generated demo data from memory. Refresh regenerates the catalog
// from the next seed.
type MockRepository struct {
	mu   sync.RWMutex
	seed uint64
	opts []mockdata.Option
	skus []domain.SKU
}

func NewMockRepository(seed uint64, opts ...mockdata.Option) *MockRepository {
	r := &MockRepository{seed: seed, opts: opts}
	r.skus = mockdata.New(seed, opts...).SKUs()
	return r
}

func (r *MockRepository) ListSKUs(ctx context.Context) ([]domain.SKU, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return domain.CloneSKUs(r.skus), nil
}

func (r *MockRepository) SaveSKUs(ctx context.Context, skus []domain.SKU) error {
	next := make([]domain.SKU, len(skus))
	for i, s := range skus {
		next[i] = s.Clone().Derive()
	}

	r.mu.Lock()
	r.skus = next
	r.mu.Unlock()
	return nil
}

func (r *MockRepository) Refresh(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seed++
	r.skus = mockdata.New(r.seed, r.opts...).SKUs()
	log.Info().Uint64("seed", r.seed).Int("skus", len(r.skus)).Msg("regenerated mock sku data")
	return nil
}
