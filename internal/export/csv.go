// Package export renders dashboard data as CSV reports and reads SKU snapshots back.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
	"github.com/andresuchdata/roasboard/backend-go/internal/forecast"
)

// Report names a CSV export.
type Report string

const (
	ReportSKUs            Report = "skus"
	ReportCampaigns       Report = "campaigns"
	ReportInventoryAlerts Report = "inventory-alerts"
	ReportRecommendations Report = "recommendations"
	ReportSimulation      Report = "simulation"
)

// Filename returns the dated file name used for downloads and uploads.
func (r Report) Filename(date time.Time) string {
	return fmt.Sprintf("%s-%s.csv", r, date.Format("2006-01-02"))
}

// ParseReport returns the report for a name.
func ParseReport(name string) (Report, bool) {
	switch r := Report(name); r {
	case ReportSKUs, ReportCampaigns, ReportInventoryAlerts, ReportRecommendations, ReportSimulation:
		return r, true
	}
	return "", false
}

var skuHeader = []string{
	"SKU ID", "Product Name", "Category", "Brand", "Ad Spend", "Revenue", "ROAS",
	"Clicks", "Impressions", "Conversions", "Conversion Rate", "Inventory", "Stock Status",
	"Predicted Stockout Days", "Stockout Risk", "Cost of Goods", "Selling Price",
	"Gross Margin", "Margin Percent", "Margin Tier", "Recommended Bid Adjustment", "Last Updated",
}

// WriteSKUs writes the full SKU table. predictions is keyed by SKU id and may be nil.
func WriteSKUs(w io.Writer, skus []domain.SKU, predictions map[string]forecast.Prediction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(skuHeader); err != nil {
		return err
	}

	for _, s := range skus {
		days, risk := 0, domain.StockoutLow
		if p, ok := predictions[s.ID]; ok {
			days, risk = p.DaysUntilStockout, p.RiskLevel
		}

		// Margin cells stay empty when the SKU has no margin data.
		margin := make([]string, 4)
		tier := domain.MarginTierMedium
		if m := s.Margin; m != nil {
			margin = []string{formatFloat(m.CostOfGoods), formatFloat(m.SellingPrice), formatFloat(m.GrossMargin), formatFloat(m.MarginPercent)}
			tier = domain.MarginTierFor(m.MarginPercent)
		}

		record := []string{
			s.ID, s.Name, s.Category, s.Brand,
			formatFloat(s.AdSpend), formatFloat(s.Revenue), formatFloat(s.ROAS),
			strconv.Itoa(s.Clicks), strconv.Itoa(s.Impressions), strconv.Itoa(s.Conversions),
			formatFloat(s.ConversionRate()), strconv.Itoa(s.Inventory), string(s.StockStatus),
			strconv.Itoa(days), string(risk),
		}
		record = append(record, margin...)
		record = append(record, string(tier), formatFloat(tier.BidAdjustment()), s.LastUpdated.UTC().Format(time.RFC3339))
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCampaigns writes one row per campaign.
func WriteCampaigns(w io.Writer, campaigns []domain.Campaign) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"Campaign ID", "Campaign Name", "Total Spend", "Total Revenue", "Total ROAS",
		"Total Clicks", "Total Impressions", "Total Conversions", "SKU Count", "Date Range",
	}); err != nil {
		return err
	}

	for _, c := range campaigns {
		if err := cw.Write([]string{
			c.ID, c.Name, formatFloat(c.TotalSpend), formatFloat(c.TotalRevenue), formatFloat(c.TotalROAS),
			strconv.Itoa(c.TotalClicks), strconv.Itoa(c.TotalImpressions), strconv.Itoa(c.TotalConversions),
			strconv.Itoa(len(c.SKUIDs)), c.DateRange,
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteInventoryAlerts writes the low and out-of-stock SKUs with an action per row.
func WriteInventoryAlerts(w io.Writer, skus []domain.SKU, predictions map[string]forecast.Prediction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"SKU ID", "Product Name", "Brand", "Category", "Current Inventory", "Stock Status",
		"Predicted Stockout Days", "Stockout Risk", "Ad Spend", "ROAS", "Margin Tier",
		"Risk Level", "Recommended Action",
	}); err != nil {
		return err
	}

	for _, a := range InventoryAlerts(skus, predictions) {
		if err := cw.Write([]string{
			a.SKU.ID, a.SKU.Name, a.SKU.Brand, a.SKU.Category, strconv.Itoa(a.SKU.Inventory),
			string(a.SKU.StockStatus), strconv.Itoa(a.PredictedStockoutDays), string(a.StockoutRisk),
			formatFloat(a.SKU.AdSpend), formatFloat(a.SKU.ROAS), string(a.MarginTier),
			string(a.Level), a.Action,
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteRecommendations writes bidding recommendations in the order given.
func WriteRecommendations(w io.Writer, recs []domain.BiddingRecommendation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"SKU ID", "Current Spend", "Recommended Spend", "Spend Change", "Spend Change Percent",
		"Expected ROAS", "Expected Profit", "Priority", "Reason",
	}); err != nil {
		return err
	}

	for _, r := range recs {
		if err := cw.Write([]string{
			r.SKUID, formatFloat(r.CurrentSpend), formatFloat(r.RecommendedSpend), formatFloat(r.SpendChange),
			formatFloat(r.SpendChangePercent), formatFloat(r.ExpectedROAS), formatFloat(r.ExpectedProfit),
			string(r.Priority), r.Reason,
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSimulation writes the per-SKU before/after rows of a simulation result.
func WriteSimulation(w io.Writer, result *domain.SimulationResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"Scenario ID", "SKU ID", "Product Name", "Current ROAS", "Projected ROAS",
		"Current Revenue", "Projected Revenue", "Current Profit", "Projected Profit", "Risk Level",
	}); err != nil {
		return err
	}

	if result != nil {
		for _, r := range result.SKUResults {
			if err := cw.Write([]string{
				result.ScenarioID, r.SKUID, r.Name, formatFloat(r.CurrentROAS), formatFloat(r.ProjectedROAS),
				formatFloat(r.CurrentRevenue), formatFloat(r.ProjectedRevenue),
				formatFloat(r.CurrentProfit), formatFloat(r.ProjectedProfit), string(r.RiskLevel),
			}); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
