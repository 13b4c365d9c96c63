package repository

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestCoerceFloat(t *testing.T) {
	require := require.New(t)

	require.Equal(1.5, CoerceFloat(1.5))
	require.Equal(3.0, CoerceFloat(int64(3)))
	require.Equal(2.25, CoerceFloat(" 2.25 "))
	require.Equal(7.0, CoerceFloat(json.Number("7")))
	require.Equal(0.0, CoerceFloat("abc"))
	require.Equal(0.0, CoerceFloat(nil))
	require.Equal(0.0, CoerceFloat(true))
	require.Equal(0.0, CoerceFloat(math.NaN()))
	require.Equal(0.0, CoerceFloat(math.Inf(1)))

	require.Equal(4, CoerceInt(4.9))
	require.Equal(0, CoerceInt("x"))
}

func TestNormalizeMarginPercent(t *testing.T) {
	require := require.New(t)

	require.Equal(0.35, NormalizeMarginPercent(0.35))
	require.Equal(0.35, NormalizeMarginPercent(35))
	require.Equal(1.0, NormalizeMarginPercent(250))
	require.Equal(0.0, NormalizeMarginPercent(-0.2))
	require.Equal(1.0, NormalizeMarginPercent(1))
}

func TestSKUFromDocument(t *testing.T) {
	require := require.New(t)

	sku := SKUFromDocument("doc-1", map[string]any{
		"name":          "Yoga Mat",
		"adSpend":       "200",
		"revenue":       500.0,
		"clicks":        int64(40),
		"conversions":   "not a number",
		"inventory":     int64(12),
		"marginPercent": 42.0,
		"costOfGoods":   11.6,
		"sellingPrice":  20,
		"lastUpdated":   "2024-05-01T10:00:00Z",
	})

	require.Equal("doc-1", sku.ID)
	require.Equal(200.0, sku.AdSpend)
	require.Equal(2.5, sku.ROAS)
	require.Equal(0, sku.Conversions)
	require.Equal(domain.StockLow, sku.StockStatus)
	require.NotNil(sku.Margin)
	require.Equal(0.42, sku.Margin.MarginPercent)
	require.Equal(20.0, sku.Margin.SellingPrice)
	require.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), sku.LastUpdated)
}

func TestSKUFromDocumentMarginNeedsBothFields(t *testing.T) {
	require := require.New(t)

	sku := SKUFromDocument("a", map[string]any{"id": "SKU-9", "marginPercent": 0.3})
	require.Equal("SKU-9", sku.ID)
	require.Nil(sku.Margin)
	require.Equal(domain.StockOut, sku.StockStatus)
	require.Equal(0.0, sku.ROAS)

	sku = SKUFromDocument("a", map[string]any{"marginPercent": 0.3, "costOfGoods": nil})
	require.Nil(sku.Margin)
}

func TestSKUDocumentRoundTrip(t *testing.T) {
	require := require.New(t)

	in := domain.SKU{
		ID: "SKU-001", Name: "Perfume", Category: "Beauty", Brand: "GlowUp",
		AdSpend: 100, Revenue: 300, Clicks: 10, Impressions: 500, Conversions: 3, Inventory: 250,
		Margin:      &domain.Margin{CostOfGoods: 6, SellingPrice: 10, GrossMargin: 4, MarginPercent: 0.4},
		LastUpdated: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}.Derive()

	out := SKUFromDocument("", SKUToDocument(in))
	require.Equal(in, out)
}

func TestMockRepository(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	repo := NewMockRepository(5)
	first, err := repo.ListSKUs(ctx)
	require.NoError(err)
	require.Len(first, 100)

	first[0].AdSpend = -1
	again, err := repo.ListSKUs(ctx)
	require.NoError(err)
	require.NotEqual(-1.0, again[0].AdSpend)

	require.NoError(repo.Refresh(ctx))
	refreshed, err := repo.ListSKUs(ctx)
	require.NoError(err)
	require.NotEqual(again, refreshed)

	require.NoError(repo.SaveSKUs(ctx, []domain.SKU{{ID: "x", AdSpend: 10, Revenue: 30, Inventory: 60}}))
	saved, err := repo.ListSKUs(ctx)
	require.NoError(err)
	require.Len(saved, 1)
	require.Equal(3.0, saved[0].ROAS)
	require.Equal(domain.StockMedium, saved[0].StockStatus)
}
