package domain

import "strings"

// StockoutRisk is the qualitative bucket derived from projected depletion timing.
type StockoutRisk string

const (
	StockoutLow      StockoutRisk = "low"
	StockoutMedium   StockoutRisk = "medium"
	StockoutHigh     StockoutRisk = "high"
	StockoutCritical StockoutRisk = "critical"
)

// StockoutRiskFor buckets a SKU by stock status and predicted days until stockout.
func StockoutRiskFor(status StockStatus, daysUntilStockout int) StockoutRisk {
	switch {
	case status == StockOut:
		return StockoutCritical
	case daysUntilStockout < 7:
		return StockoutHigh
	case daysUntilStockout < 14:
		return StockoutMedium
	default:
		return StockoutLow
	}
}

// MarginTier groups margin percents for display and bid hints.
type MarginTier string

const (
	MarginTierLow     MarginTier = "low"
	MarginTierMedium  MarginTier = "medium"
	MarginTierHigh    MarginTier = "high"
	MarginTierPremium MarginTier = "premium"
)

var marginTierBidAdjustments = map[MarginTier]float64{
	MarginTierLow:     0.8,
	MarginTierMedium:  1.0,
	MarginTierHigh:    1.1,
	MarginTierPremium: 1.2,
}

// MarginTierFor buckets a margin fraction.
func MarginTierFor(marginPercent float64) MarginTier {
	switch {
	case marginPercent < 0.25:
		return MarginTierLow
	case marginPercent < 0.4:
		return MarginTierMedium
	case marginPercent < 0.6:
		return MarginTierHigh
	default:
		return MarginTierPremium
	}
}

// BidAdjustment returns the static bid hint for a tier, 1.0 for unknown tiers.
func (t MarginTier) BidAdjustment() float64 {
	if adj, ok := marginTierBidAdjustments[t]; ok {
		return adj
	}

	return 1.0
}

// ParsePriority returns the priority for a label (case-insensitive).
func ParsePriority(label string) (Priority, bool) {
	switch Priority(strings.ToLower(strings.TrimSpace(label))) {
	case PriorityHigh:
		return PriorityHigh, true
	case PriorityMedium:
		return PriorityMedium, true
	case PriorityLow:
		return PriorityLow, true
	}

	return "", false
}
