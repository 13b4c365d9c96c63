package domain

import "sort"

// Priority ranks a bidding recommendation.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// MarginData is the per-SKU margin subset cached by the bidding scorer.
type MarginData struct {
	SKUID         string  `json:"sku_id"`
	CostOfGoods   float64 `json:"cost_of_goods"`
	SellingPrice  float64 `json:"selling_price"`
	GrossMargin   float64 `json:"gross_margin"`
	MarginPercent float64 `json:"margin_percent"`
}

// MarginLookup resolves margin data by SKU id.
type MarginLookup interface {
	MarginData(skuID string) (MarginData, bool)
}

// MarginTable maps SKU id to margin data.
type MarginTable map[string]MarginData

// NewMarginTable builds a table from every SKU that carries margin data.
func NewMarginTable(skus []SKU) MarginTable {
	table := make(MarginTable, len(skus))
	for _, s := range skus {
		if s.Margin == nil {
			continue
		}
		table[s.ID] = MarginData{
			SKUID:         s.ID,
			CostOfGoods:   s.Margin.CostOfGoods,
			SellingPrice:  s.Margin.SellingPrice,
			GrossMargin:   s.Margin.GrossMargin,
			MarginPercent: s.Margin.MarginPercent,
		}
	}
	return table
}

func (t MarginTable) MarginData(skuID string) (MarginData, bool) {
	m, ok := t[skuID]
	return m, ok
}

// Sorted returns the entries ordered by SKU id.
func (t MarginTable) Sorted() []MarginData {
	out := make([]MarginData, 0, len(t))
	for _, m := range t {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKUID < out[j].SKUID })
	return out
}

// BiddingRecommendation is the recommended spend adjustment for one SKU.
type BiddingRecommendation struct {
	SKUID              string   `json:"sku_id"`
	CurrentSpend       float64  `json:"current_spend"`
	RecommendedSpend   float64  `json:"recommended_spend"`
	SpendChange        float64  `json:"spend_change"`
	SpendChangePercent float64  `json:"spend_change_percent"`
	Reason             string   `json:"reason"`
	ExpectedROAS       float64  `json:"expected_roas"`
	ExpectedProfit     float64  `json:"expected_profit"`
	Priority           Priority `json:"priority"`
}
