package domain

import (
	"strings"
	"time"
)

// StockStatus buckets a SKU by on-hand inventory.
type StockStatus string

const (
	StockOut    StockStatus = "out"
	StockLow    StockStatus = "low"
	StockMedium StockStatus = "medium"
	StockHigh   StockStatus = "high"
)

const (
	LowStockThreshold    = 50
	MediumStockThreshold = 200
)

// StockStatusFor derives the stock status from inventory alone.
func StockStatusFor(inventory int) StockStatus {
	switch {
	case inventory <= 0:
		return StockOut
	case inventory < LowStockThreshold:
		return StockLow
	case inventory < MediumStockThreshold:
		return StockMedium
	default:
		return StockHigh
	}
}

// ParseStockStatus returns the status for a label (case-insensitive).
func ParseStockStatus(label string) (StockStatus, bool) {
	switch StockStatus(strings.ToLower(strings.TrimSpace(label))) {
	case StockOut:
		return StockOut, true
	case StockLow:
		return StockLow, true
	case StockMedium:
		return StockMedium, true
	case StockHigh:
		return StockHigh, true
	}
	return "", false
}

// ComputeROAS returns revenue / spend, or 0 when there is no spend.
func ComputeROAS(revenue, spend float64) float64 {
	if spend <= 0 {
		return 0
	}
	return revenue / spend
}

// Margin holds the optional unit economics of a SKU. MarginPercent is a fraction in [0,1].
type Margin struct {
	CostOfGoods   float64 `json:"cost_of_goods"`
	SellingPrice  float64 `json:"selling_price"`
	GrossMargin   float64 `json:"gross_margin"`
	MarginPercent float64 `json:"margin_percent"`
}

// SKU is one advertised product variant.
type SKU struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Category    string      `json:"category"`
	Brand       string      `json:"brand"`
	AdSpend     float64     `json:"ad_spend"`
	Revenue     float64     `json:"revenue"`
	ROAS        float64     `json:"roas"`
	Clicks      int         `json:"clicks"`
	Impressions int         `json:"impressions"`
	Conversions int         `json:"conversions"`
	Inventory   int         `json:"inventory"`
	StockStatus StockStatus `json:"stock_status"`
	Margin      *Margin     `json:"margin,omitempty"`
	LastUpdated time.Time   `json:"last_updated"`
}

// Derive returns a copy with ROAS and stock status recomputed from the raw fields.
func (s SKU) Derive() SKU {
	s.ROAS = ComputeROAS(s.Revenue, s.AdSpend)
	s.StockStatus = StockStatusFor(s.Inventory)
	return s
}

// HasMargin reports whether margin data is known for the SKU.
func (s SKU) HasMargin() bool {
	return s.Margin != nil
}

// ConversionRate is conversions per click as a percentage.
func (s SKU) ConversionRate() float64 {
	if s.Clicks <= 0 {
		return 0
	}
	return float64(s.Conversions) / float64(s.Clicks) * 100
}

// Clone copies the SKU including its margin.
func (s SKU) Clone() SKU {
	if s.Margin != nil {
		m := *s.Margin
		s.Margin = &m
	}
	return s
}

// CloneSKUs copies a SKU slice so the result never aliases the input.
func CloneSKUs(skus []SKU) []SKU {
	out := make([]SKU, len(skus))
	for i, s := range skus {
		out[i] = s.Clone()
	}
	return out
}

// SKUFilter narrows a SKU list the way the dashboard table does.
type SKUFilter struct {
	Search      string      `json:"search,omitempty" form:"search"`
	Category    string      `json:"category,omitempty" form:"category"`
	StockStatus StockStatus `json:"stock_status,omitempty" form:"stock_status"`
}

// IsZero reports whether the filter matches everything.
func (f SKUFilter) IsZero() bool {
	return strings.TrimSpace(f.Search) == "" && (f.Category == "" || f.Category == "all") &&
		(f.StockStatus == "" || f.StockStatus == "all")
}

// Matches applies a case-insensitive search on name or id plus exact category and status.
func (f SKUFilter) Matches(s SKU) bool {
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		if !strings.Contains(strings.ToLower(s.Name), term) && !strings.Contains(strings.ToLower(s.ID), term) {
			return false
		}
	}
	if f.Category != "" && f.Category != "all" && s.Category != f.Category {
		return false
	}
	if f.StockStatus != "" && f.StockStatus != "all" && s.StockStatus != f.StockStatus {
		return false
	}
	return true
}

// Apply returns the SKUs matching the filter, preserving order.
func (f SKUFilter) Apply(skus []SKU) []SKU {
	if f.IsZero() {
		return skus
	}
	out := make([]SKU, 0, len(skus))
	for _, s := range skus {
		if f.Matches(s) {
			out = append(out, s)
		}
	}
	return out
}

