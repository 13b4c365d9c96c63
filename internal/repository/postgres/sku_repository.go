// backend-go/internal/repository/postgres/sku_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
	"github.com/andresuchdata/roasboard/backend-go/internal/repository"
	"github.com/jmoiron/sqlx"
)

type skuRow struct {
	ID            string          `db:"id"`
	Name          string          `db:"name"`
	Category      string          `db:"category"`
	Brand         string          `db:"brand"`
	AdSpend       float64         `db:"ad_spend"`
	Revenue       float64         `db:"revenue"`
	Clicks        int             `db:"clicks"`
	Impressions   int             `db:"impressions"`
	Conversions   int             `db:"conversions"`
	Inventory     int             `db:"inventory"`
	CostOfGoods   sql.NullFloat64 `db:"cost_of_goods"`
	SellingPrice  sql.NullFloat64 `db:"selling_price"`
	GrossMargin   sql.NullFloat64 `db:"gross_margin"`
	MarginPercent sql.NullFloat64 `db:"margin_percent"`
	LastUpdated   time.Time       `db:"last_updated"`
}

func (r skuRow) toDomain() domain.SKU {
	sku := domain.SKU{
		ID:          r.ID,
		Name:        r.Name,
		Category:    r.Category,
		Brand:       r.Brand,
		AdSpend:     max(0, r.AdSpend),
		Revenue:     max(0, r.Revenue),
		Clicks:      max(0, r.Clicks),
		Impressions: max(0, r.Impressions),
		Conversions: max(0, r.Conversions),
		Inventory:   max(0, r.Inventory),
		LastUpdated: r.LastUpdated.UTC(),
	}
	if r.MarginPercent.Valid && r.CostOfGoods.Valid {
		sku.Margin = &domain.Margin{
			CostOfGoods:   r.CostOfGoods.Float64,
			SellingPrice:  r.SellingPrice.Float64,
			GrossMargin:   r.GrossMargin.Float64,
			MarginPercent: repository.NormalizeMarginPercent(r.MarginPercent.Float64),
		}
	}
	return sku.Derive()
}

func rowFromDomain(s domain.SKU) skuRow {
	row := skuRow{
		ID:          s.ID,
		Name:        s.Name,
		Category:    s.Category,
		Brand:       s.Brand,
		AdSpend:     s.AdSpend,
		Revenue:     s.Revenue,
		Clicks:      s.Clicks,
		Impressions: s.Impressions,
		Conversions: s.Conversions,
		Inventory:   s.Inventory,
		LastUpdated: s.LastUpdated,
	}
	if s.Margin != nil {
		row.CostOfGoods = sql.NullFloat64{Float64: s.Margin.CostOfGoods, Valid: true}
		row.SellingPrice = sql.NullFloat64{Float64: s.Margin.SellingPrice, Valid: true}
		row.GrossMargin = sql.NullFloat64{Float64: s.Margin.GrossMargin, Valid: true}
		row.MarginPercent = sql.NullFloat64{Float64: s.Margin.MarginPercent, Valid: true}
	}
	if row.LastUpdated.IsZero() {
		row.LastUpdated = time.Now().UTC()
	}
	return row
}

type skuRepository struct {
	db *DB
}

func NewSKURepository(db *DB) *skuRepository {
	return &skuRepository{db: db}
}

func (r *skuRepository) ListSKUs(ctx context.Context) ([]domain.SKU, error) {
	query := `
		SELECT
			id, name, category, brand,
			ad_spend, revenue, clicks, impressions, conversions, inventory,
			cost_of_goods, selling_price, gross_margin, margin_percent,
			last_updated
		FROM skus
		ORDER BY id
	`

	var rows []skuRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list skus: %w", err)
	}

	skus := make([]domain.SKU, 0, len(rows))
	for _, row := range rows {
		skus = append(skus, row.toDomain())
	}
	return skus, nil
}

func (r *skuRepository) SaveSKUs(ctx context.Context, skus []domain.SKU) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO skus (
				id, name, category, brand,
				ad_spend, revenue, clicks, impressions, conversions, inventory,
				cost_of_goods, selling_price, gross_margin, margin_percent,
				last_updated
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			ON CONFLICT (id)
			DO UPDATE SET
				name = EXCLUDED.name,
				category = EXCLUDED.category,
				brand = EXCLUDED.brand,
				ad_spend = EXCLUDED.ad_spend,
				revenue = EXCLUDED.revenue,
				clicks = EXCLUDED.clicks,
				impressions = EXCLUDED.impressions,
				conversions = EXCLUDED.conversions,
				inventory = EXCLUDED.inventory,
				cost_of_goods = EXCLUDED.cost_of_goods,
				selling_price = EXCLUDED.selling_price,
				gross_margin = EXCLUDED.gross_margin,
				margin_percent = EXCLUDED.margin_percent,
				last_updated = EXCLUDED.last_updated,
				updated_at = NOW()
		`

		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, sku := range skus {
			row := rowFromDomain(sku)
			_, err := stmt.ExecContext(
				ctx,
				row.ID,
				row.Name,
				row.Category,
				row.Brand,
				row.AdSpend,
				row.Revenue,
				row.Clicks,
				row.Impressions,
				row.Conversions,
				row.Inventory,
				row.CostOfGoods,
				row.SellingPrice,
				row.GrossMargin,
				row.MarginPercent,
				row.LastUpdated,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert sku %s: %w", sku.ID, err)
			}
		}

		return nil
	})
}
