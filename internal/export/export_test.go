package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
	"github.com/andresuchdata/roasboard/backend-go/internal/forecast"
	"github.com/stretchr/testify/require"
)

var updated = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func fixtureSKUs() []domain.SKU {
	return []domain.SKU{
		domain.SKU{ID: "SKU-001", Name: "Wireless Headphones, Black", Category: "Electronics", Brand: "TechPro",
			AdSpend: 500, Revenue: 1500, Clicks: 100, Impressions: 4000, Conversions: 10, Inventory: 0,
			Margin: &domain.Margin{CostOfGoods: 30, SellingPrice: 100, GrossMargin: 70, MarginPercent: 0.7}, LastUpdated: updated}.Derive(),
		domain.SKU{ID: "SKU-002", Name: "Yoga Mat", Category: "Sports", Brand: "FitLife",
			AdSpend: 1500, Revenue: 2000, Clicks: 80, Conversions: 4, Inventory: 30, LastUpdated: updated}.Derive(),
		domain.SKU{ID: "SKU-003", Name: "Coffee Maker", Category: "Home", Brand: "HomeStyle",
			AdSpend: 200, Revenue: 300, Conversions: 3, Inventory: 10, LastUpdated: updated}.Derive(),
		domain.SKU{ID: "SKU-004", Name: "Face Cream", Category: "Beauty", Brand: "GlowUp",
			AdSpend: 200, Revenue: 300, Conversions: 3, Inventory: 40, LastUpdated: updated}.Derive(),
		domain.SKU{ID: "SKU-005", Name: "Desk Lamp", Category: "Home", Brand: "HomeStyle",
			AdSpend: 100, Revenue: 400, Inventory: 500, LastUpdated: updated}.Derive(),
	}
}

func TestInventoryAlerts(t *testing.T) {
	require := require.New(t)

	predictions := map[string]forecast.Prediction{
		"SKU-003": {SKUID: "SKU-003", DaysUntilStockout: 3, RiskLevel: domain.StockoutHigh},
		"SKU-004": {SKUID: "SKU-004", DaysUntilStockout: 20, RiskLevel: domain.StockoutLow},
	}

	alerts := InventoryAlerts(fixtureSKUs(), predictions)
	require.Len(alerts, 4)

	require.Equal("SKU-001", alerts[0].SKU.ID)
	require.Equal(AlertCritical, alerts[0].Level)
	require.Equal(actionPause, alerts[0].Action)
	require.Equal(domain.MarginTierPremium, alerts[0].MarginTier)

	require.Equal(AlertHigh, alerts[1].Level)
	require.Equal(actionReduce, alerts[1].Action)

	require.Equal(AlertHigh, alerts[2].Level)
	require.Equal(actionReorder, alerts[2].Action)
	require.Equal(3, alerts[2].PredictedStockoutDays)

	require.Equal(AlertMedium, alerts[3].Level)
	require.Equal(actionMonitor, alerts[3].Action)
}

func TestWriteInventoryAlerts(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	require.NoError(WriteInventoryAlerts(&buf, fixtureSKUs(), nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(err)
	require.Len(rows, 5)
	require.Equal("Recommended Action", rows[0][len(rows[0])-1])
	require.Equal("Pause advertising immediately & reorder", rows[1][len(rows[1])-1])
}

func TestSKUSnapshotRoundTrip(t *testing.T) {
	require := require.New(t)

	in := fixtureSKUs()
	var buf bytes.Buffer
	require.NoError(WriteSKUs(&buf, in, nil))

	// Quoted commas survive the writer.
	require.Contains(buf.String(), `"Wireless Headphones, Black"`)

	out, err := ReadSKUs(&buf)
	require.NoError(err)
	require.Equal(in, out)
}

func TestReadSKUsAcceptsDocumentHeaders(t *testing.T) {
	require := require.New(t)

	input := "id,name,adSpend,revenue,inventory,marginPercent,costOfGoods,extra\n" +
		"SKU-9,Tent,200,500,12,45,20,ignored\n" +
		"SKU-10,Stove,abc,100,,,,\n" +
		",missing id,1,1,1,,,\n"

	skus, err := ReadSKUs(strings.NewReader(input))
	require.NoError(err)
	require.Len(skus, 2)

	require.Equal(2.5, skus[0].ROAS)
	require.Equal(domain.StockLow, skus[0].StockStatus)
	require.NotNil(skus[0].Margin)
	require.Equal(0.45, skus[0].Margin.MarginPercent)

	require.Equal(0.0, skus[1].AdSpend)
	require.Equal(0.0, skus[1].ROAS)
	require.Equal(domain.StockOut, skus[1].StockStatus)
	require.Nil(skus[1].Margin)
}

func TestReadSKUsRequiresID(t *testing.T) {
	_, err := ReadSKUs(strings.NewReader("name,revenue\nTent,1\n"))
	require.Error(t, err)
}

func TestWriteRecommendationsAndSimulation(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	require.NoError(WriteRecommendations(&buf, []domain.BiddingRecommendation{
		{SKUID: "SKU-001", CurrentSpend: 100, RecommendedSpend: 145, SpendChange: 45, SpendChangePercent: 45,
			ExpectedROAS: 2.85, ExpectedProfit: 12.5, Priority: domain.PriorityHigh, Reason: "Top performer"},
	}))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(err)
	require.Equal([]string{"SKU-001", "100", "145", "45", "45", "2.85", "12.5", "high", "Top performer"}, rows[1])

	buf.Reset()
	require.NoError(WriteSimulation(&buf, &domain.SimulationResult{
		ScenarioID: "scenario-1",
		SKUResults: []domain.SKUSimulationResult{{SKUID: "SKU-001", Name: "Tent", RiskLevel: domain.RiskLow}},
	}))
	rows, err = csv.NewReader(&buf).ReadAll()
	require.NoError(err)
	require.Len(rows, 2)
	require.Equal("scenario-1", rows[1][0])
	require.Equal("low", rows[1][9])
}

func TestReportFilename(t *testing.T) {
	require := require.New(t)

	require.Equal("inventory-alerts-2024-03-15.csv", ReportInventoryAlerts.Filename(updated))
	r, ok := ParseReport("campaigns")
	require.True(ok)
	require.Equal(ReportCampaigns, r)
	_, ok = ParseReport("po")
	require.False(ok)
}
