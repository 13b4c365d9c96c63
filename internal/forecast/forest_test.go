package forecast

import (
	"testing"
	"time"

	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
	"github.com/stretchr/testify/require"
)

func epochForest() *Forest {
	return NewForest(WithClock(func() time.Time { return time.Unix(0, 0) }))
}

func TestPredictFastSellerLowInventory(t *testing.T) {
	require := require.New(t)
	f := epochForest()

	p := f.Predict(domain.SKU{ID: "a", AdSpend: 500, ROAS: 2, Conversions: 70, Inventory: 30, StockStatus: domain.StockLow})
	require.Equal("a", p.SKUID)
	require.Equal(0.8, p.StockoutRisk)
	require.Equal(1.0, p.Confidence)
	require.Equal(3, p.DaysUntilStockout)
	// 70*7 * 0.7 * (1 + 0.1)
	require.Equal(377.0, p.DemandForecast)
	require.Equal(domain.StockoutHigh, p.RiskLevel)
	require.InDelta(0.7, p.Factors.Seasonality, 1e-9)
	require.Equal(-0.1, p.Factors.AdSpendImpact)
	require.Equal(-0.5, p.Factors.InventoryTrend)
}

func TestPredictSplitVote(t *testing.T) {
	require := require.New(t)
	f := epochForest()

	p := f.Predict(domain.SKU{ID: "b", AdSpend: 2000, ROAS: 1, Conversions: 140, Inventory: 500, StockStatus: domain.StockHigh})
	require.Equal(0.45, p.StockoutRisk)
	require.Equal(0.98, p.Confidence)
	require.Equal(25, p.DaysUntilStockout)
	require.Equal(domain.StockoutLow, p.RiskLevel)
	require.Equal(0.2, p.Factors.AdSpendImpact)
	require.Equal(0.2, p.Factors.InventoryTrend)
}

func TestPredictNoSales(t *testing.T) {
	require := require.New(t)
	f := epochForest()

	p := f.Predict(domain.SKU{ID: "c", Inventory: 0, StockStatus: domain.StockOut})
	require.Equal(999, p.DaysUntilStockout)
	require.Equal(0.0, p.DemandForecast)
	require.Equal(domain.StockoutCritical, p.RiskLevel)
}

func TestBatchPredictKeepsOrder(t *testing.T) {
	require := require.New(t)
	f := epochForest()

	preds := f.BatchPredict([]domain.SKU{{ID: "x"}, {ID: "y"}, {ID: "z"}})
	require.Len(preds, 3)
	require.Equal("x", preds[0].SKUID)
	require.Equal("z", preds[2].SKUID)
	require.Empty(f.BatchPredict(nil))
}

func TestFeatureImportance(t *testing.T) {
	require := require.New(t)
	f := epochForest()

	imp := f.FeatureImportance()
	require.Len(imp, 5)
	require.InDelta(0.35, imp[FeatureSalesVelocity], 1e-9)
	require.InDelta(0.05, imp[FeatureConversionRate], 1e-9)

	var total float64
	for _, v := range imp {
		total += v
	}
	require.InDelta(1.0, total, 1e-9)

	imp[FeatureSalesVelocity] = 0
	require.InDelta(0.35, f.FeatureImportance()[FeatureSalesVelocity], 1e-9)
}
