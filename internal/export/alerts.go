package export

import (
	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
	"github.com/andresuchdata/roasboard/backend-go/internal/forecast"
)

// AlertLevel grades an inventory alert.
type AlertLevel string

const (
	AlertCritical AlertLevel = "Critical"
	AlertHigh     AlertLevel = "High"
	AlertMedium   AlertLevel = "Medium"
)

const (
	actionPause    = "Pause advertising immediately & reorder"
	actionReduce   = "Reduce ad spend by 50% & expedite reorder"
	actionReorder  = "Place urgent reorder & adjust bidding"
	actionMonitor  = "Monitor closely"
	heavySpendOver = 1000
	urgentDays     = 7
)

// InventoryAlert is one low or out-of-stock SKU with the suggested response.
type InventoryAlert struct {
	SKU                   domain.SKU          `json:"sku"`
	PredictedStockoutDays int                 `json:"predicted_stockout_days"`
	StockoutRisk          domain.StockoutRisk `json:"stockout_risk"`
	MarginTier            domain.MarginTier   `json:"margin_tier"`
	Level                 AlertLevel          `json:"level"`
	Action                string              `json:"action"`
}

// InventoryAlerts selects SKUs whose stock status is low or out and grades each one.
func InventoryAlerts(skus []domain.SKU, predictions map[string]forecast.Prediction) []InventoryAlert {
	var alerts []InventoryAlert
	for _, s := range skus {
		if s.StockStatus != domain.StockLow && s.StockStatus != domain.StockOut {
			continue
		}

		a := InventoryAlert{SKU: s, StockoutRisk: domain.StockoutLow, MarginTier: domain.MarginTierMedium}
		p, predicted := predictions[s.ID]
		if predicted {
			a.PredictedStockoutDays, a.StockoutRisk = p.DaysUntilStockout, p.RiskLevel
		}
		if s.Margin != nil {
			a.MarginTier = domain.MarginTierFor(s.Margin.MarginPercent)
		}

		switch {
		case s.StockStatus == domain.StockOut:
			a.Level, a.Action = AlertCritical, actionPause
		case s.AdSpend > heavySpendOver:
			a.Level, a.Action = AlertHigh, actionReduce
		case predicted && p.DaysUntilStockout > 0 && p.DaysUntilStockout < urgentDays:
			a.Level, a.Action = AlertHigh, actionReorder
		default:
			a.Level, a.Action = AlertMedium, actionMonitor
		}
		alerts = append(alerts, a)
	}
	return alerts
}

// PredictionIndex keys predictions by SKU id.
func PredictionIndex(predictions []forecast.Prediction) map[string]forecast.Prediction {
	idx := make(map[string]forecast.Prediction, len(predictions))
	for _, p := range predictions {
		idx[p.SKUID] = p
	}
	return idx
}
