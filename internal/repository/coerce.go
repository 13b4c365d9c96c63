package repository

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
)

// CoerceFloat converts loosely typed input to a finite float. Missing, non-numeric and
// non-finite values become 0.
func CoerceFloat(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// CoerceInt converts loosely typed input to an int, truncating fractions.
func CoerceInt(v any) int {
	return int(math.Trunc(CoerceFloat(v)))
}

func CoerceString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(s, 10)
	case int:
		return strconv.Itoa(s)
	}
	return ""
}

// CoerceTime accepts time.Time or an RFC 3339 string, anything else is the zero time.
func CoerceTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(t))
		if err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}

// NormalizeMarginPercent treats values above 1 as percentages and clamps the result to
// [0,1].
func NormalizeMarginPercent(p float64) float64 {
	if p > 1 {
		p /= 100
	}
	return math.Max(0, math.Min(1, p))
}

func nonNegative(f float64) float64 {
	return math.Max(0, f)
}

func present(doc map[string]any, key string) bool {
	v, ok := doc[key]
	return ok && v != nil
}

// SKUFromDocument builds a SKU from a loosely typed document keyed by camelCase field
// names. fallbackID is used when the document carries no id. Margin data is attached
// only when both marginPercent and costOfGoods are present.
func SKUFromDocument(fallbackID string, doc map[string]any) domain.SKU {
	id := CoerceString(doc["id"])
	if id == "" {
		id = fallbackID
	}

	sku := domain.SKU{
		ID:          id,
		Name:        CoerceString(doc["name"]),
		Category:    CoerceString(doc["category"]),
		Brand:       CoerceString(doc["brand"]),
		AdSpend:     nonNegative(CoerceFloat(doc["adSpend"])),
		Revenue:     nonNegative(CoerceFloat(doc["revenue"])),
		Clicks:      max(0, CoerceInt(doc["clicks"])),
		Impressions: max(0, CoerceInt(doc["impressions"])),
		Conversions: max(0, CoerceInt(doc["conversions"])),
		Inventory:   max(0, CoerceInt(doc["inventory"])),
		LastUpdated: CoerceTime(doc["lastUpdated"]),
	}

	if present(doc, "marginPercent") && present(doc, "costOfGoods") {
		sku.Margin = &domain.Margin{
			CostOfGoods:   CoerceFloat(doc["costOfGoods"]),
			SellingPrice:  CoerceFloat(doc["sellingPrice"]),
			GrossMargin:   CoerceFloat(doc["grossMargin"]),
			MarginPercent: NormalizeMarginPercent(CoerceFloat(doc["marginPercent"])),
		}
	}

	return sku.Derive()
}

// SKUToDocument is the inverse of SKUFromDocument.
func SKUToDocument(sku domain.SKU) map[string]any {
	doc := map[string]any{
		"id":          sku.ID,
		"name":        sku.Name,
		"category":    sku.Category,
		"brand":       sku.Brand,
		"adSpend":     sku.AdSpend,
		"revenue":     sku.Revenue,
		"roas":        sku.ROAS,
		"clicks":      sku.Clicks,
		"impressions": sku.Impressions,
		"conversions": sku.Conversions,
		"inventory":   sku.Inventory,
		"stockStatus": string(sku.StockStatus),
		"lastUpdated": sku.LastUpdated.UTC().Format(time.RFC3339Nano),
	}
	if sku.Margin != nil {
		doc["costOfGoods"] = sku.Margin.CostOfGoods
		doc["sellingPrice"] = sku.Margin.SellingPrice
		doc["grossMargin"] = sku.Margin.GrossMargin
		doc["marginPercent"] = sku.Margin.MarginPercent
	}
	return doc
}
