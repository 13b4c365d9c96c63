// backend-go/internal/repository/sku_repository.go
package repository

import (
	"context"

	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
)

// SKURepository is a source of SKU records. Implementations coerce raw fields at the
// boundary so callers always see derived ROAS and stock status.
type SKURepository interface {
	ListSKUs(ctx context.Context) ([]domain.SKU, error)
	SaveSKUs(ctx context.Context, skus []domain.SKU) error
}

// Refresher is implemented by sources that can regenerate or reload their data.
type Refresher interface {
	Refresh(ctx context.Context) error
}
