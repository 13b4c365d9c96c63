package domain

// DashboardMetrics represents the summary cards of the ROAS dashboard
type DashboardMetrics struct {
	TotalROAS             float64 `json:"total_roas"`
	TotalSpend            float64 `json:"total_spend"`
	TotalRevenue          float64 `json:"total_revenue"`
	TotalProfit           float64 `json:"total_profit"`
	TotalConversions      int     `json:"total_conversions"`
	AverageConversionRate float64 `json:"average_conversion_rate"`
	TopPerformingSKU      string  `json:"top_performing_sku"`
	WorstPerformingSKU    string  `json:"worst_performing_sku"`
	LowStockAlerts        int     `json:"low_stock_alerts"`
}

// Campaign represents a rollup of SKUs advertised together
type Campaign struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	TotalSpend       float64  `json:"total_spend"`
	TotalRevenue     float64  `json:"total_revenue"`
	TotalROAS        float64  `json:"total_roas"`
	TotalClicks      int      `json:"total_clicks"`
	TotalImpressions int      `json:"total_impressions"`
	TotalConversions int      `json:"total_conversions"`
	SKUIDs           []string `json:"sku_ids"`
	DateRange        string   `json:"date_range"`
}

// TimeSeriesPoint represents a data point in the ROAS trend chart
type TimeSeriesPoint struct {
	Date        string  `json:"date"` // YYYY-MM-DD
	ROAS        float64 `json:"roas"`
	Spend       float64 `json:"spend"`
	Revenue     float64 `json:"revenue"`
	Conversions int     `json:"conversions"`
}

// Dashboard aggregates all dashboard data
type Dashboard struct {
	Metrics    DashboardMetrics  `json:"metrics"`
	Campaigns  []Campaign        `json:"campaigns"`
	TimeSeries []TimeSeriesPoint `json:"time_series"`
}
