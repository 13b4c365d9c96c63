package domain

import "time"

// ChangeType is the field a simulation change edits.
type ChangeType string

const (
	ChangeSpend     ChangeType = "spend"
	ChangeInventory ChangeType = "inventory"
	ChangePrice     ChangeType = "price"
	// ChangeMargin is accepted but has no effect yet.
	ChangeMargin ChangeType = "margin"
)

// Valid reports whether t is one of the four accepted change types.
func (t ChangeType) Valid() bool {
	switch t {
	case ChangeSpend, ChangeInventory, ChangePrice, ChangeMargin:
		return true
	}
	return false
}

// SimulationChange is one hypothetical field edit.
type SimulationChange struct {
	SKUID         string     `json:"sku_id"`
	Type          ChangeType `json:"type"`
	CurrentValue  float64    `json:"current_value"`
	NewValue      float64    `json:"new_value"`
	ChangePercent float64    `json:"change_percent"`
}

// Scenario is a named, ordered set of changes.
type Scenario struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Changes     []SimulationChange `json:"changes"`
	CreatedAt   time.Time          `json:"created_at"`
}

// RiskLevel grades a simulated SKU.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ProjectedMetrics aggregates a simulated SKU list. The *Change fields are percentages
// against the stored baseline.
type ProjectedMetrics struct {
	TotalROAS        float64 `json:"total_roas"`
	TotalSpend       float64 `json:"total_spend"`
	TotalRevenue     float64 `json:"total_revenue"`
	TotalProfit      float64 `json:"total_profit"`
	TotalConversions int     `json:"total_conversions"`
	ROASChange       float64 `json:"roas_change"`
	RevenueChange    float64 `json:"revenue_change"`
	ProfitChange     float64 `json:"profit_change"`
}

// SKUSimulationResult pairs a SKU before and after a scenario.
type SKUSimulationResult struct {
	SKUID            string    `json:"sku_id"`
	Name             string    `json:"name"`
	CurrentROAS      float64   `json:"current_roas"`
	ProjectedROAS    float64   `json:"projected_roas"`
	CurrentRevenue   float64   `json:"current_revenue"`
	ProjectedRevenue float64   `json:"projected_revenue"`
	CurrentProfit    float64   `json:"current_profit"`
	ProjectedProfit  float64   `json:"projected_profit"`
	RiskLevel        RiskLevel `json:"risk_level"`
}

// SimulationResult is the outcome of running a scenario.
type SimulationResult struct {
	ScenarioID       string                `json:"scenario_id"`
	ProjectedMetrics ProjectedMetrics      `json:"projected_metrics"`
	SKUResults       []SKUSimulationResult `json:"sku_results"`
	RiskFactors      []string              `json:"risk_factors"`
	Recommendations  []string              `json:"recommendations"`
}
