package postgres

import (
	"database/sql"
	"testing"
	"time"

	"github.com/andresuchdata/roasboard/backend-go/internal/config"
	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestRowToDomain(t *testing.T) {
	require := require.New(t)

	row := skuRow{
		ID:            "SKU-001",
		AdSpend:       200,
		Revenue:       600,
		Inventory:     30,
		CostOfGoods:   sql.NullFloat64{Float64: 5, Valid: true},
		SellingPrice:  sql.NullFloat64{Float64: 10, Valid: true},
		MarginPercent: sql.NullFloat64{Float64: 50, Valid: true},
	}

	sku := row.toDomain()
	require.Equal(3.0, sku.ROAS)
	require.Equal(domain.StockLow, sku.StockStatus)
	require.NotNil(sku.Margin)
	require.Equal(0.5, sku.Margin.MarginPercent)

	row.CostOfGoods = sql.NullFloat64{}
	require.Nil(row.toDomain().Margin)
}

func TestRowFromDomain(t *testing.T) {
	require := require.New(t)

	row := rowFromDomain(domain.SKU{ID: "a"})
	require.False(row.MarginPercent.Valid)
	require.False(row.LastUpdated.IsZero())

	ts := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	row = rowFromDomain(domain.SKU{ID: "b", LastUpdated: ts, Margin: &domain.Margin{MarginPercent: 0.3, CostOfGoods: 7}})
	require.True(row.MarginPercent.Valid)
	require.Equal(0.3, row.MarginPercent.Float64)
	require.Equal(7.0, row.CostOfGoods.Float64)
	require.Equal(ts, row.LastUpdated)
}

func TestDSN(t *testing.T) {
	require.Equal(t,
		"host=db port=5432 user=u password=p dbname=roasboard sslmode=disable",
		DSN(&config.DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "roasboard", SSLMode: "disable"}),
	)
}
