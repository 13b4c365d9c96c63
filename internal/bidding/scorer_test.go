package bidding

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
	"github.com/stretchr/testify/require"
)

func withMargin(sku domain.SKU, pct float64) domain.SKU {
	sku.Margin = &domain.Margin{CostOfGoods: 10 * (1 - pct), SellingPrice: 10, GrossMargin: 10 * pct, MarginPercent: pct}
	return sku
}

// fixtureSKUs returns 20 SKUs. The first 15 carry margins with strictly decreasing
// scores, the last 5 carry none.
func fixtureSKUs() []domain.SKU {
	skus := make([]domain.SKU, 0, 20)
	for i := 0; i < 20; i++ {
		sku := domain.SKU{
			ID:          fmt.Sprintf("SKU-%03d", i+1),
			AdSpend:     1000,
			ROAS:        3 - float64(i)*0.1,
			Conversions: 50,
			Inventory:   100,
		}
		sku.Revenue = sku.AdSpend * sku.ROAS
		if i < 15 {
			sku = withMargin(sku, 0.5)
		}
		skus = append(skus, sku)
	}
	return skus
}

func TestInitializeSkipsMissingMarginsAndIsIdempotent(t *testing.T) {
	require := require.New(t)
	s := NewScorer(DefaultConfig())
	skus := fixtureSKUs()

	s.Initialize(skus)
	first := s.AllMarginData()
	require.Len(first, 15)

	s.Initialize(skus)
	require.Equal(first, s.AllMarginData())

	_, ok := s.MarginData("SKU-020")
	require.False(ok)
	m, ok := s.MarginData("SKU-001")
	require.True(ok)
	require.Equal(0.5, m.MarginPercent)

	s.Initialize(skus[15:])
	require.Empty(s.AllMarginData())
}

func TestScore(t *testing.T) {
	require := require.New(t)
	s := NewScorer(DefaultConfig())

	sku := withMargin(domain.SKU{ID: "a", ROAS: 6, Conversions: 200, Inventory: 51}, 0.5)
	s.Initialize([]domain.SKU{sku})
	// capped roas 0.3 + margin 0.2 + capped volume 0.2 + inventory 0.1
	require.InDelta(0.8, s.Score(sku), 1e-9)

	sku.ROAS = 1.5
	sku.Conversions = 25
	sku.Inventory = 50
	require.InDelta(0.15+0.2+0.1, s.Score(sku), 1e-9)

	require.Equal(0.0, s.Score(domain.SKU{ID: "unknown", ROAS: 3}))
}

func TestRecommendTiers(t *testing.T) {
	require := require.New(t)
	s := NewScorer(DefaultConfig())
	skus := fixtureSKUs()

	recs := s.Recommend(skus)
	require.Len(recs, 20)

	for i := 0; i < 5; i++ {
		require.Equal(skus[i].ID, recs[i].SKUID)
		require.Equal(domain.PriorityHigh, recs[i].Priority)
		require.Greater(recs[i].RecommendedSpend, recs[i].CurrentSpend)
	}
	for i := 5; i < 15; i++ {
		require.Equal(domain.PriorityMedium, recs[i].Priority)
		require.Contains(recs[i].Reason, "50% margin")
	}

	noMargin := 0
	for _, r := range recs {
		if strings.Contains(r.Reason, "No margin data") {
			noMargin++
			require.Equal(domain.PriorityMedium, r.Priority)
			require.Equal(r.CurrentSpend, r.RecommendedSpend)
			require.Equal(0.0, r.SpendChange)
			require.Equal(0.0, r.ExpectedProfit)
		}
	}
	require.Equal(5, noMargin)
}

func TestRecommendLowTierForRankFifteenAndBelow(t *testing.T) {
	require := require.New(t)
	s := NewScorer(DefaultConfig())

	skus := fixtureSKUs()
	for i := range skus {
		if skus[i].Margin == nil {
			skus[i] = withMargin(skus[i], 0.5)
		}
	}

	recs := s.Recommend(skus)
	for i := 15; i < 20; i++ {
		r := recs[i]
		require.Equal(domain.PriorityLow, r.Priority)
		require.Equal(reasonLow, r.Reason)
		mult := 0.7 + skus[i].ROAS*0.1
		require.InDelta(1000*mult, r.RecommendedSpend, 0.005)
	}
}

func TestRecommendationArithmetic(t *testing.T) {
	require := require.New(t)
	s := NewScorer(DefaultConfig())

	sku := withMargin(domain.SKU{ID: "a", AdSpend: 1000, Revenue: 2000, ROAS: 2, Conversions: 10, Inventory: 100}, 0.4)
	recs := s.Recommend([]domain.SKU{sku})
	require.Len(recs, 1)

	r := recs[0]
	require.Equal(domain.PriorityHigh, r.Priority)
	require.Equal(reasonTop, r.Reason)
	require.InDelta(1400.0, r.RecommendedSpend, 1e-9)
	require.InDelta(400.0, r.SpendChange, 1e-9)
	require.Equal(40.0, r.SpendChangePercent)
	require.InDelta(1.9, r.ExpectedROAS, 1e-9)
	require.InDelta(-336.0, r.ExpectedProfit, 1e-9)
}

func TestRecommendLimitedInventory(t *testing.T) {
	require := require.New(t)
	s := NewScorer(DefaultConfig())

	sku := withMargin(domain.SKU{ID: "a", AdSpend: 1000, Revenue: 2000, ROAS: 2, Inventory: 10}, 0.4)
	r := s.Recommend([]domain.SKU{sku})[0]

	require.InDelta(700.0, r.RecommendedSpend, 1e-9)
	require.Equal(-30.0, r.SpendChangePercent)
	require.True(strings.HasSuffix(r.Reason, "Limited inventory requires spend reduction."))
	require.InDelta(2.1, r.ExpectedROAS, 1e-9)
}

func TestRecommendZeroSpend(t *testing.T) {
	require := require.New(t)
	s := NewScorer(DefaultConfig())

	sku := withMargin(domain.SKU{ID: "a", Inventory: 100}, 0.3)
	r := s.Recommend([]domain.SKU{sku})[0]

	require.Equal(0.0, r.RecommendedSpend)
	require.Equal(0.0, r.SpendChangePercent)
	require.False(math.IsNaN(r.ExpectedProfit))
}

func TestReallocateToBudget(t *testing.T) {
	require := require.New(t)
	s := NewScorer(DefaultConfig())
	skus := fixtureSKUs()

	recs, err := s.ReallocateToBudget(skus, 10000)
	require.NoError(err)
	require.Len(recs, 20)

	var total float64
	for _, r := range recs {
		total += r.RecommendedSpend
		require.InDelta(r.RecommendedSpend-r.CurrentSpend, r.SpendChange, 0.011)
	}
	require.InDelta(10000.0, total, 0.01*float64(len(recs)))
}

func TestReallocateToBudgetErrors(t *testing.T) {
	require := require.New(t)
	s := NewScorer(DefaultConfig())

	_, err := s.ReallocateToBudget(fixtureSKUs(), -1)
	require.True(errors.Is(err, domain.ErrInvalidBudget))

	_, err = s.ReallocateToBudget([]domain.SKU{{ID: "a"}, {ID: "b"}}, 100)
	require.True(errors.Is(err, domain.ErrNoRecommendedSpend))

	_, err = s.ReallocateToBudget(nil, 100)
	require.True(errors.Is(err, domain.ErrNoRecommendedSpend))
}
