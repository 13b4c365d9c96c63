// Package simulation runs what-if scenarios against a SKU list and compares the outcome
// with a captured baseline.
package simulation

import (
	"fmt"
	"math"
	"time"

	"github.com/andresuchdata/roasboard/backend-go/internal/analytics"
	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
)

// Built-in scenario ids.
const (
	ScenarioIncreaseTopPerformers = "increase-top-performers"
	ScenarioReduceLowPerformers   = "reduce-low-performers"
	ScenarioRestockCritical       = "restock-critical"
)

const (
	riskLowROAS       = "%d SKUs projected to have ROAS below 1.0"
	riskStockout      = "%d SKUs at risk of stockout"
	riskLargeIncrease = "Large spend increases may impact campaign efficiency"

	adviceStrongROAS   = "Strong ROAS improvement projected - consider implementing this scenario"
	adviceROASDecline  = "ROAS decline projected - review changes carefully before implementing"
	adviceStrongProfit = "Significant profit increase expected - prioritize this scenario"
	advicePhased       = "Multiple risk factors identified - consider phased implementation"
	adviceModerate     = "Scenario shows moderate impact - monitor closely if implemented"
)

type baseline struct {
	skus    []domain.SKU
	metrics domain.DashboardMetrics
}

// Simulator keeps the scenario registry and the baseline. It is not safe for concurrent
// use; callers serialize access.
type Simulator struct {
	cfg     Config
	margins domain.MarginLookup

	scenarios map[string]domain.Scenario
	order     []string
	baseline  *baseline

	counter uint64
	now     func() time.Time
}

// NewSimulator returns a simulator seeded with the built-in scenarios. margins may be nil,
// in which case every profit figure is 0.
func NewSimulator(cfg Config, margins domain.MarginLookup) *Simulator {
	s := &Simulator{
		cfg:       cfg,
		margins:   margins,
		scenarios: make(map[string]domain.Scenario),
		now:       time.Now,
	}

	builtins := []domain.Scenario{
		{
			ID:          ScenarioIncreaseTopPerformers,
			Name:        "Increase Top Performers Spend by 50%",
			Description: "Boost ad spend on top 5 performing SKUs to maximize revenue",
		},
		{
			ID:          ScenarioReduceLowPerformers,
			Name:        "Reduce Low Performers Spend by 30%",
			Description: "Cut spending on underperforming SKUs to improve efficiency",
		},
		{
			ID:          ScenarioRestockCritical,
			Name:        "Restock Critical Inventory",
			Description: "Add inventory to SKUs at risk of stockout",
		},
	}
	for _, sc := range builtins {
		sc.Changes = []domain.SimulationChange{}
		sc.CreatedAt = s.now().UTC()
		s.store(sc)
	}

	return s
}

func (s *Simulator) store(sc domain.Scenario) {
	if _, exists := s.scenarios[sc.ID]; !exists {
		s.order = append(s.order, sc.ID)
	}
	s.scenarios[sc.ID] = sc
}

// SetBaseline stores copies of skus and metrics for later percent-change comparisons,
// replacing any previous baseline.
func (s *Simulator) SetBaseline(skus []domain.SKU, metrics domain.DashboardMetrics) {
	s.baseline = &baseline{
		skus:    domain.CloneSKUs(skus),
		metrics: metrics,
	}
}

// Baseline returns a copy of the stored baseline.
func (s *Simulator) Baseline() ([]domain.SKU, domain.DashboardMetrics, bool) {
	if s.baseline == nil {
		return nil, domain.DashboardMetrics{}, false
	}
	return domain.CloneSKUs(s.baseline.skus), s.baseline.metrics, true
}

// CreateScenario stores a new scenario and returns its id.
func (s *Simulator) CreateScenario(name, description string, changes []domain.SimulationChange) string {
	s.counter++
	now := s.now()
	id := fmt.Sprintf("scenario-%d-%d", now.UnixMilli(), s.counter)

	cp := make([]domain.SimulationChange, len(changes))
	copy(cp, changes)

	s.store(domain.Scenario{
		ID:          id,
		Name:        name,
		Description: description,
		Changes:     cp,
		CreatedAt:   now.UTC(),
	})
	return id
}

func (s *Simulator) Scenario(id string) (domain.Scenario, error) {
	sc, ok := s.scenarios[id]
	if !ok {
		return domain.Scenario{}, fmt.Errorf("scenario %q: %w", id, domain.ErrScenarioNotFound)
	}
	return sc, nil
}

// Scenarios lists every scenario in creation order.
func (s *Simulator) Scenarios() []domain.Scenario {
	out := make([]domain.Scenario, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.scenarios[id])
	}
	return out
}

// DeleteScenario removes a scenario and reports whether it existed.
func (s *Simulator) DeleteScenario(id string) bool {
	if _, ok := s.scenarios[id]; !ok {
		return false
	}
	delete(s.scenarios, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Run applies the scenario's changes to a copy of skus and projects the outcome.
func (s *Simulator) Run(scenarioID string, skus []domain.SKU) (*domain.SimulationResult, error) {
	sc, err := s.Scenario(scenarioID)
	if err != nil {
		return nil, err
	}

	simulated := s.apply(skus, sc.Changes)
	metrics := s.projectMetrics(simulated)
	risks := s.riskFactors(simulated, sc.Changes)

	return &domain.SimulationResult{
		ScenarioID:       scenarioID,
		ProjectedMetrics: metrics,
		SKUResults:       s.skuResults(skus, simulated),
		RiskFactors:      risks,
		Recommendations:  s.recommendations(metrics, risks),
	}, nil
}

func (s *Simulator) apply(skus []domain.SKU, changes []domain.SimulationChange) []domain.SKU {
	simulated := domain.CloneSKUs(skus)
	index := make(map[string]int, len(simulated))
	for i := len(simulated) - 1; i >= 0; i-- {
		index[simulated[i].ID] = i
	}

	for _, change := range changes {
		i, ok := index[change.SKUID]
		if !ok {
			continue
		}
		sku := &simulated[i]

		switch change.Type {
		case domain.ChangeSpend:
			sku.AdSpend = change.NewValue
			sku.Revenue = sku.AdSpend * sku.ROAS
		case domain.ChangeInventory:
			sku.Inventory = int(math.Max(0, math.Round(change.NewValue)))
			sku.StockStatus = domain.StockStatusFor(sku.Inventory)
		case domain.ChangePrice:
			if change.CurrentValue <= 0 || change.NewValue <= 0 {
				continue
			}
			ratio := change.NewValue / change.CurrentValue
			sku.Conversions = int(math.Round(float64(sku.Conversions) / math.Pow(ratio, s.cfg.PriceElasticity)))
			sku.Revenue = float64(sku.Conversions) * change.NewValue
			sku.ROAS = domain.ComputeROAS(sku.Revenue, sku.AdSpend)
		case domain.ChangeMargin:
			// accepted, no effect
		default:
			log.Warn().Str("sku_id", change.SKUID).Str("type", string(change.Type)).Msg("skipping unknown change type")
		}
	}

	return simulated
}

func (s *Simulator) projectMetrics(simulated []domain.SKU) domain.ProjectedMetrics {
	totals := analytics.Sum(simulated, s.margins)
	roas := totals.ROAS()

	m := domain.ProjectedMetrics{
		TotalROAS:        analytics.Round(roas, 2),
		TotalSpend:       analytics.RoundCents(totals.Spend),
		TotalRevenue:     analytics.RoundCents(totals.Revenue),
		TotalProfit:      analytics.RoundCents(totals.Profit),
		TotalConversions: totals.Conversions,
	}

	if s.baseline != nil {
		b := s.baseline.metrics
		m.ROASChange = analytics.Round(analytics.PercentChange(roas, b.TotalROAS), 2)
		m.RevenueChange = analytics.Round(analytics.PercentChange(totals.Revenue, b.TotalRevenue), 2)
		m.ProfitChange = analytics.Round(analytics.PercentChange(totals.Profit, b.TotalProfit), 2)
	}

	return m
}

func (s *Simulator) skuResults(current, simulated []domain.SKU) []domain.SKUSimulationResult {
	results := make([]domain.SKUSimulationResult, 0, len(simulated))
	for i, sim := range simulated {
		cur := current[i]
		results = append(results, domain.SKUSimulationResult{
			SKUID:            sim.ID,
			Name:             sim.Name,
			CurrentROAS:      cur.ROAS,
			ProjectedROAS:    sim.ROAS,
			CurrentRevenue:   cur.Revenue,
			ProjectedRevenue: sim.Revenue,
			CurrentProfit:    analytics.RoundCents(analytics.SKUProfit(cur, s.margins)),
			ProjectedProfit:  analytics.RoundCents(analytics.SKUProfit(sim, s.margins)),
			RiskLevel:        s.riskLevel(sim),
		})
	}
	return results
}

func (s *Simulator) riskLevel(sku domain.SKU) domain.RiskLevel {
	switch {
	case sku.ROAS < s.cfg.HighRiskROASBelow || sku.Inventory < s.cfg.HighRiskInventoryBelow:
		return domain.RiskHigh
	case sku.ROAS < s.cfg.MediumRiskROASBelow || sku.Inventory < s.cfg.MediumRiskInventoryBelow:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

func (s *Simulator) riskFactors(simulated []domain.SKU, changes []domain.SimulationChange) []string {
	risks := []string{}

	var lowROAS, lowStock int
	for _, sku := range simulated {
		if sku.ROAS < s.cfg.HighRiskROASBelow {
			lowROAS++
		}
		if sku.Inventory < s.cfg.HighRiskInventoryBelow {
			lowStock++
		}
	}
	if lowROAS > 0 {
		risks = append(risks, fmt.Sprintf(riskLowROAS, lowROAS))
	}
	if lowStock > 0 {
		risks = append(risks, fmt.Sprintf(riskStockout, lowStock))
	}

	for _, c := range changes {
		if c.Type == domain.ChangeSpend && c.ChangePercent > s.cfg.LargeSpendIncreasePercent {
			risks = append(risks, riskLargeIncrease)
			break
		}
	}

	return risks
}

func (s *Simulator) recommendations(m domain.ProjectedMetrics, risks []string) []string {
	var advice []string

	switch {
	case m.ROASChange > s.cfg.StrongROASGainPercent:
		advice = append(advice, adviceStrongROAS)
	case m.ROASChange < s.cfg.ROASDeclinePercent:
		advice = append(advice, adviceROASDecline)
	}
	if m.ProfitChange > s.cfg.StrongProfitGainPercent {
		advice = append(advice, adviceStrongProfit)
	}
	if len(risks) > s.cfg.MaxRiskFactors {
		advice = append(advice, advicePhased)
	}
	if len(advice) == 0 {
		advice = append(advice, adviceModerate)
	}

	return advice
}

// SpendAdjustment builds a single spend change moving currentSpend by spendChange.
func SpendAdjustment(skuID string, spendChange, currentSpend float64) []domain.SimulationChange {
	pct := 0.0
	if currentSpend != 0 {
		pct = spendChange / currentSpend * 100
	}
	return []domain.SimulationChange{{
		SKUID:         skuID,
		Type:          domain.ChangeSpend,
		CurrentValue:  currentSpend,
		NewValue:      currentSpend + spendChange,
		ChangePercent: pct,
	}}
}

// ValidateChanges rejects changes without a SKU id or with an unknown type.
func ValidateChanges(changes []domain.SimulationChange) error {
	for i, c := range changes {
		if c.SKUID == "" {
			return fmt.Errorf("change %d: missing sku id: %w", i, domain.ErrInvalidChange)
		}
		if !c.Type.Valid() {
			return fmt.Errorf("change %d: type %q: %w", i, c.Type, domain.ErrInvalidChange)
		}
	}
	return nil
}
