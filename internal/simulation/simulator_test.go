package simulation

import (
	"errors"
	"testing"
	"time"

	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
	"github.com/stretchr/testify/require"
)

func baseSKUs() []domain.SKU {
	return []domain.SKU{
		{ID: "SKU-001", Name: "Headphones", AdSpend: 100, Revenue: 200, ROAS: 2, Conversions: 20, Inventory: 300, StockStatus: domain.StockHigh,
			Margin: &domain.Margin{MarginPercent: 0.5}},
		{ID: "SKU-002", Name: "Yoga Mat", AdSpend: 500, Revenue: 1000, ROAS: 2, Conversions: 100, Inventory: 150, StockStatus: domain.StockMedium},
	}
}

func TestBuiltinScenarios(t *testing.T) {
	require := require.New(t)
	s := NewSimulator(DefaultConfig(), nil)

	scenarios := s.Scenarios()
	require.Len(scenarios, 3)
	require.Equal(ScenarioIncreaseTopPerformers, scenarios[0].ID)
	require.Equal(ScenarioReduceLowPerformers, scenarios[1].ID)
	require.Equal(ScenarioRestockCritical, scenarios[2].ID)
	for _, sc := range scenarios {
		require.NotNil(sc.Changes)
		require.Empty(sc.Changes)
		require.False(sc.CreatedAt.IsZero())
	}
}

func TestCreateScenarioUniqueIDsInSameInstant(t *testing.T) {
	require := require.New(t)
	s := NewSimulator(DefaultConfig(), nil)
	frozen := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return frozen }

	a := s.CreateScenario("a", "", nil)
	b := s.CreateScenario("b", "", nil)
	require.NotEqual(a, b)
	require.Equal("scenario-1717243200000-1", a)

	sc, err := s.Scenario(b)
	require.NoError(err)
	require.Equal("b", sc.Name)
	require.Equal(frozen, sc.CreatedAt)
	require.Len(s.Scenarios(), 5)
}

func TestCreateScenarioCopiesChanges(t *testing.T) {
	require := require.New(t)
	s := NewSimulator(DefaultConfig(), nil)

	changes := SpendAdjustment("SKU-001", 100, 100)
	id := s.CreateScenario("double", "", changes)
	changes[0].NewValue = 1

	sc, err := s.Scenario(id)
	require.NoError(err)
	require.Equal(200.0, sc.Changes[0].NewValue)
}

func TestRunUnknownScenario(t *testing.T) {
	require := require.New(t)
	s := NewSimulator(DefaultConfig(), nil)

	res, err := s.Run("nope", baseSKUs())
	require.Nil(res)
	require.True(errors.Is(err, domain.ErrScenarioNotFound))
}

func TestRunSpendChange(t *testing.T) {
	require := require.New(t)
	s := NewSimulator(DefaultConfig(), nil)
	skus := baseSKUs()

	id := s.CreateScenario("double spend", "", SpendAdjustment("SKU-001", 100, 100))
	res, err := s.Run(id, skus)
	require.NoError(err)

	require.Equal(id, res.ScenarioID)
	require.Equal(400.0, res.SKUResults[0].ProjectedRevenue)
	require.Equal(200.0, res.SKUResults[0].CurrentRevenue)
	require.Equal(600.0, res.ProjectedMetrics.TotalSpend)
	require.Equal(1400.0, res.ProjectedMetrics.TotalRevenue)
	require.Equal(2.33, res.ProjectedMetrics.TotalROAS)

	// input untouched
	require.Equal(100.0, skus[0].AdSpend)
	require.Equal(200.0, skus[0].Revenue)

	// +100% is a large increase
	require.Contains(res.RiskFactors, "Large spend increases may impact campaign efficiency")
}

func TestRunPriceChange(t *testing.T) {
	require := require.New(t)
	s := NewSimulator(DefaultConfig(), nil)

	skus := []domain.SKU{{ID: "p", AdSpend: 500, Revenue: 1000, ROAS: 2, Conversions: 100, Inventory: 300}}
	id := s.CreateScenario("price up", "", []domain.SimulationChange{
		{SKUID: "p", Type: domain.ChangePrice, CurrentValue: 10, NewValue: 20, ChangePercent: 100},
	})

	res, err := s.Run(id, skus)
	require.NoError(err)
	require.Equal(71, res.ProjectedMetrics.TotalConversions)
	require.Equal(1420.0, res.ProjectedMetrics.TotalRevenue)
	require.InDelta(2.84, res.SKUResults[0].ProjectedROAS, 1e-9)
}

func TestRunPriceChangeIgnoresNonPositivePrices(t *testing.T) {
	require := require.New(t)
	s := NewSimulator(DefaultConfig(), nil)

	skus := []domain.SKU{{ID: "p", AdSpend: 500, Revenue: 1000, ROAS: 2, Conversions: 100, Inventory: 300}}
	id := s.CreateScenario("bad price", "", []domain.SimulationChange{
		{SKUID: "p", Type: domain.ChangePrice, CurrentValue: 0, NewValue: 20},
	})

	res, err := s.Run(id, skus)
	require.NoError(err)
	require.Equal(100, res.ProjectedMetrics.TotalConversions)
	require.Equal(1000.0, res.ProjectedMetrics.TotalRevenue)
}

func TestRunInventoryChangeFlagsStockout(t *testing.T) {
	require := require.New(t)
	s := NewSimulator(DefaultConfig(), nil)

	id := s.CreateScenario("drain", "", []domain.SimulationChange{
		{SKUID: "SKU-002", Type: domain.ChangeInventory, CurrentValue: 150, NewValue: 10},
		{SKUID: "missing", Type: domain.ChangeInventory, NewValue: 0},
	})

	res, err := s.Run(id, baseSKUs())
	require.NoError(err)
	require.Equal(domain.RiskLow, res.SKUResults[0].RiskLevel)
	require.Equal(domain.RiskHigh, res.SKUResults[1].RiskLevel)
	require.Equal([]string{"1 SKUs at risk of stockout"}, res.RiskFactors)
	require.Len(res.SKUResults, 2)
}

func TestRunRiskLevels(t *testing.T) {
	require := require.New(t)
	s := NewSimulator(DefaultConfig(), nil)

	require.Equal(domain.RiskHigh, s.riskLevel(domain.SKU{ROAS: 0.9, Inventory: 500}))
	require.Equal(domain.RiskHigh, s.riskLevel(domain.SKU{ROAS: 3, Inventory: 19}))
	require.Equal(domain.RiskMedium, s.riskLevel(domain.SKU{ROAS: 1.2, Inventory: 500}))
	require.Equal(domain.RiskMedium, s.riskLevel(domain.SKU{ROAS: 3, Inventory: 49}))
	require.Equal(domain.RiskLow, s.riskLevel(domain.SKU{ROAS: 1.5, Inventory: 50}))
}

func TestRunMarginChangeIsNoop(t *testing.T) {
	require := require.New(t)
	margins := domain.NewMarginTable(baseSKUs())
	s := NewSimulator(DefaultConfig(), margins)

	noop := s.CreateScenario("margin", "", []domain.SimulationChange{
		{SKUID: "SKU-001", Type: domain.ChangeMargin, CurrentValue: 0.5, NewValue: 0.9},
	})
	empty := s.CreateScenario("empty", "", nil)

	a, err := s.Run(noop, baseSKUs())
	require.NoError(err)
	b, err := s.Run(empty, baseSKUs())
	require.NoError(err)

	require.Equal(b.ProjectedMetrics, a.ProjectedMetrics)
	require.Equal(b.SKUResults, a.SKUResults)
}

func TestRunProfitUsesKnownMarginsOnly(t *testing.T) {
	require := require.New(t)
	skus := baseSKUs()
	skus[0].Margin.MarginPercent = 0.8
	s := NewSimulator(DefaultConfig(), domain.NewMarginTable(skus))

	res, err := s.Run(ScenarioRestockCritical, skus)
	require.NoError(err)
	// 200*0.8-100 for SKU-001, SKU-002 has no margin
	require.Equal(60.0, res.ProjectedMetrics.TotalProfit)
	require.Equal(0.0, res.SKUResults[1].ProjectedProfit)

	id := s.CreateScenario("double", "", SpendAdjustment("SKU-001", 100, 100))
	res, err = s.Run(id, skus)
	require.NoError(err)
	require.Equal(60.0, res.SKUResults[0].CurrentProfit)
	require.Equal(120.0, res.SKUResults[0].ProjectedProfit)
	require.Equal(120.0, res.ProjectedMetrics.TotalProfit)
}

func TestRunWithoutBaselineHasZeroChanges(t *testing.T) {
	require := require.New(t)
	s := NewSimulator(DefaultConfig(), nil)

	res, err := s.Run(ScenarioIncreaseTopPerformers, baseSKUs())
	require.NoError(err)
	require.Equal(0.0, res.ProjectedMetrics.ROASChange)
	require.Equal(0.0, res.ProjectedMetrics.RevenueChange)
	require.Equal(0.0, res.ProjectedMetrics.ProfitChange)
	require.Equal([]string{"Scenario shows moderate impact - monitor closely if implemented"}, res.Recommendations)
	require.Empty(res.RiskFactors)
}

func TestRunAgainstBaseline(t *testing.T) {
	require := require.New(t)
	s := NewSimulator(DefaultConfig(), nil)

	s.SetBaseline(baseSKUs(), domain.DashboardMetrics{TotalROAS: 1, TotalRevenue: 600})

	res, err := s.Run(ScenarioIncreaseTopPerformers, baseSKUs())
	require.NoError(err)
	require.Equal(100.0, res.ProjectedMetrics.ROASChange)
	require.Equal(100.0, res.ProjectedMetrics.RevenueChange)
	// zero baseline profit
	require.Equal(0.0, res.ProjectedMetrics.ProfitChange)
	require.Equal([]string{"Strong ROAS improvement projected - consider implementing this scenario"}, res.Recommendations)

	s.SetBaseline(baseSKUs(), domain.DashboardMetrics{TotalROAS: 4, TotalRevenue: 2400})
	res, err = s.Run(ScenarioIncreaseTopPerformers, baseSKUs())
	require.NoError(err)
	require.Equal(-50.0, res.ProjectedMetrics.ROASChange)
	require.Equal([]string{"ROAS decline projected - review changes carefully before implementing"}, res.Recommendations)
}

func TestRunPhasedRecommendation(t *testing.T) {
	require := require.New(t)
	s := NewSimulator(DefaultConfig(), nil)

	skus := []domain.SKU{{ID: "a", AdSpend: 100, Revenue: 50, ROAS: 0.5, Inventory: 5}}
	id := s.CreateScenario("risky", "", []domain.SimulationChange{
		{SKUID: "a", Type: domain.ChangeSpend, CurrentValue: 100, NewValue: 200, ChangePercent: 100},
	})

	res, err := s.Run(id, skus)
	require.NoError(err)
	require.Len(res.RiskFactors, 3)
	require.Equal("1 SKUs projected to have ROAS below 1.0", res.RiskFactors[0])
	require.Contains(res.Recommendations, "Multiple risk factors identified - consider phased implementation")
}

func TestRunZeroSpendTotals(t *testing.T) {
	require := require.New(t)
	s := NewSimulator(DefaultConfig(), nil)

	res, err := s.Run(ScenarioRestockCritical, []domain.SKU{{ID: "a", Revenue: 10, Inventory: 100}})
	require.NoError(err)
	require.Equal(0.0, res.ProjectedMetrics.TotalROAS)
	require.NotEmpty(res.Recommendations)
}

func TestSetBaselineCopiesInput(t *testing.T) {
	require := require.New(t)
	s := NewSimulator(DefaultConfig(), nil)

	_, _, ok := s.Baseline()
	require.False(ok)

	skus := baseSKUs()
	s.SetBaseline(skus, domain.DashboardMetrics{TotalROAS: 2})
	skus[0].AdSpend = 9999
	skus[0].Margin.MarginPercent = 0.99

	got, metrics, ok := s.Baseline()
	require.True(ok)
	require.Equal(100.0, got[0].AdSpend)
	require.Equal(0.5, got[0].Margin.MarginPercent)
	require.Equal(2.0, metrics.TotalROAS)
}

func TestDeleteScenario(t *testing.T) {
	require := require.New(t)
	s := NewSimulator(DefaultConfig(), nil)

	require.True(s.DeleteScenario(ScenarioReduceLowPerformers))
	require.False(s.DeleteScenario(ScenarioReduceLowPerformers))
	require.Len(s.Scenarios(), 2)

	_, err := s.Run(ScenarioReduceLowPerformers, nil)
	require.True(errors.Is(err, domain.ErrScenarioNotFound))
}

func TestSpendAdjustmentAndValidate(t *testing.T) {
	require := require.New(t)

	changes := SpendAdjustment("a", 50, 200)
	require.Equal(250.0, changes[0].NewValue)
	require.Equal(25.0, changes[0].ChangePercent)
	require.Equal(0.0, SpendAdjustment("a", 50, 0)[0].ChangePercent)

	require.NoError(ValidateChanges(changes))
	err := ValidateChanges([]domain.SimulationChange{{SKUID: "a", Type: "discount"}})
	require.True(errors.Is(err, domain.ErrInvalidChange))
	err = ValidateChanges([]domain.SimulationChange{{Type: domain.ChangeSpend}})
	require.True(errors.Is(err, domain.ErrInvalidChange))
}
