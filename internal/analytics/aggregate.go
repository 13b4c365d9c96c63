// Package analytics holds the aggregate helpers shared by the dashboard, the bidding
// scorer and the scenario simulator.
package analytics

import (
	"fmt"
	"sort"

	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultCampaignNames are the campaign rollups shown on the dashboard.
var DefaultCampaignNames = []string{
	"Summer Sale 2024",
	"Black Friday Deals",
	"New Product Launch",
	"Holiday Special",
	"Spring Collection",
}

const campaignSize = 5

// Totals are plain sums over a SKU list.
type Totals struct {
	Spend       float64
	Revenue     float64
	Profit      float64
	Conversions int
	Clicks      int
	Impressions int
}

// ROAS is total revenue over total spend, 0 without spend.
func (t Totals) ROAS() float64 {
	return domain.ComputeROAS(t.Revenue, t.Spend)
}

// Sum totals the SKUs. Profit only counts SKUs with known margins.
func Sum(skus []domain.SKU, margins domain.MarginLookup) Totals {
	var t Totals
	for _, s := range skus {
		t.Spend += s.AdSpend
		t.Revenue += s.Revenue
		t.Conversions += s.Conversions
		t.Clicks += s.Clicks
		t.Impressions += s.Impressions
		t.Profit += SKUProfit(s, margins)
	}
	return t
}

// SKUProfit is revenue x margin percent - ad spend, or 0 when the margin is unknown.
func SKUProfit(s domain.SKU, margins domain.MarginLookup) float64 {
	if margins == nil {
		return 0
	}
	m, ok := margins.MarginData(s.ID)
	if !ok {
		return 0
	}
	return s.Revenue*m.MarginPercent - s.AdSpend
}

// PercentChange returns the change from baseline in percent, 0 when baseline is 0.
func PercentChange(current, baseline float64) float64 {
	if baseline == 0 {
		return 0
	}
	return (current - baseline) / baseline * 100
}

// Round rounds half away from zero to the given number of decimal places.
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// RoundCents rounds a currency amount to cents.
func RoundCents(v float64) float64 {
	return Round(v, 2)
}

// DashboardMetrics computes the summary cards for a SKU list. Profit uses each SKU's
// own margin data.
func DashboardMetrics(skus []domain.SKU) domain.DashboardMetrics {
	totals := Sum(skus, domain.NewMarginTable(skus))

	metrics := domain.DashboardMetrics{
		TotalROAS:          Round(totals.ROAS(), 2),
		TotalSpend:         RoundCents(totals.Spend),
		TotalRevenue:       RoundCents(totals.Revenue),
		TotalProfit:        RoundCents(totals.Profit),
		TotalConversions:   totals.Conversions,
		TopPerformingSKU:   "N/A",
		WorstPerformingSKU: "N/A",
	}
	if totals.Clicks > 0 {
		metrics.AverageConversionRate = Round(float64(totals.Conversions)/float64(totals.Clicks)*100, 2)
	}

	if len(skus) > 0 {
		byROAS := make([]domain.SKU, len(skus))
		copy(byROAS, skus)
		sort.SliceStable(byROAS, func(i, j int) bool { return byROAS[i].ROAS > byROAS[j].ROAS })
		metrics.TopPerformingSKU = byROAS[0].Name
		metrics.WorstPerformingSKU = byROAS[len(byROAS)-1].Name
	}

	for _, s := range skus {
		if s.StockStatus == domain.StockLow || s.StockStatus == domain.StockOut {
			metrics.LowStockAlerts++
		}
	}

	return metrics
}

// Campaigns assigns consecutive groups of five SKUs to each named campaign.
func Campaigns(skus []domain.SKU, names []string) []domain.Campaign {
	campaigns := make([]domain.Campaign, 0, len(names))
	for i, name := range names {
		start := i * campaignSize
		end := start + campaignSize
		if start > len(skus) {
			start = len(skus)
		}
		if end > len(skus) {
			end = len(skus)
		}
		group := skus[start:end]
		totals := Sum(group, nil)

		ids := make([]string, 0, len(group))
		for _, s := range group {
			ids = append(ids, s.ID)
		}

		campaigns = append(campaigns, domain.Campaign{
			ID:               fmt.Sprintf("CAMP-%03d", i+1),
			Name:             name,
			TotalSpend:       RoundCents(totals.Spend),
			TotalRevenue:     RoundCents(totals.Revenue),
			TotalROAS:        Round(totals.ROAS(), 2),
			TotalClicks:      totals.Clicks,
			TotalImpressions: totals.Impressions,
			TotalConversions: totals.Conversions,
			SKUIDs:           ids,
			DateRange:        "Last 30 days",
		})
	}
	return campaigns
}
