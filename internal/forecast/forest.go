// Package forecast predicts stockout risk and short-term demand with a fixed ensemble of
// shallow decision trees.
package forecast

import (
	"math"
	"time"

	"github.com/andresuchdata/roasboard/backend-go/internal/analytics"
	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
)

// Feature names used by the trees and the importance table.
const (
	FeatureSalesVelocity  = "salesVelocity"
	FeatureInventory      = "inventory"
	FeatureAdSpendTrend   = "adSpendTrend"
	FeatureSeasonality    = "seasonality"
	FeatureConversionRate = "conversionRate"
)

const (
	treeCount           = 10
	noSalesDays         = 999
	daysPerWeek         = 7
	highSpendAbove      = 1000
	lowInventoryBelow   = 100
	minConfidence       = 0.5
	seasonalAmplitude   = 0.3
	seasonalBaseline    = 0.7
	roasDemandSlope     = 0.1
	daysPerSeasonalYear = 365
)

var treeImportance = map[string]float64{
	FeatureSalesVelocity:  0.35,
	FeatureInventory:      0.25,
	FeatureAdSpendTrend:   0.2,
	FeatureSeasonality:    0.15,
	FeatureConversionRate: 0.05,
}

// Features are the model inputs extracted from one SKU.
type Features struct {
	SalesVelocity  float64 `json:"sales_velocity"`
	Inventory      float64 `json:"inventory"`
	AdSpendTrend   float64 `json:"ad_spend_trend"`
	Seasonality    float64 `json:"seasonality"`
	ConversionRate float64 `json:"conversion_rate"`
	InventoryTrend float64 `json:"inventory_trend"`
}

func (f Features) value(name string) float64 {
	switch name {
	case FeatureSalesVelocity:
		return f.SalesVelocity
	case FeatureInventory:
		return f.Inventory
	case FeatureAdSpendTrend:
		return f.AdSpendTrend
	case FeatureSeasonality:
		return f.Seasonality
	case FeatureConversionRate:
		return f.ConversionRate
	}
	return 0
}

// Factors are the explanatory inputs returned alongside a prediction.
type Factors struct {
	SalesVelocity  float64 `json:"sales_velocity"`
	Seasonality    float64 `json:"seasonality"`
	AdSpendImpact  float64 `json:"ad_spend_impact"`
	InventoryTrend float64 `json:"inventory_trend"`
}

// Prediction is the forecast for one SKU.
type Prediction struct {
	SKUID             string              `json:"sku_id"`
	StockoutRisk      float64             `json:"stockout_risk"`
	DaysUntilStockout int                 `json:"days_until_stockout"`
	DemandForecast    float64             `json:"demand_forecast"`
	Confidence        float64             `json:"confidence"`
	RiskLevel         domain.StockoutRisk `json:"risk_level"`
	Factors           Factors             `json:"factors"`
}

type node struct {
	feature    string
	threshold  float64
	left       *node
	right      *node
	leaf       bool
	prediction float64
}

func leaf(p float64) *node {
	return &node{leaf: true, prediction: p}
}

func (n *node) predict(f Features) float64 {
	if n.leaf {
		return n.prediction
	}
	next := n.right
	if f.value(n.feature) <= n.threshold {
		next = n.left
	}
	if next == nil {
		return 0.5
	}
	return next.predict(f)
}

type tree struct {
	root       *node
	importance map[string]float64
}

// Forest is a fixed ensemble of two-level trees. It is safe for concurrent use.
type Forest struct {
	trees      []tree
	importance map[string]float64
	now        func() time.Time
}

type Option func(*Forest)

// WithClock sets the clock used for the seasonality feature.
func WithClock(now func() time.Time) Option {
	return func(f *Forest) { f.now = now }
}

func NewForest(opts ...Option) *Forest {
	f := &Forest{now: time.Now}
	for _, opt := range opts {
		opt(f)
	}

	f.trees = make([]tree, 0, treeCount)
	for i := 0; i < treeCount; i++ {
		root := &node{
			feature:   FeatureSalesVelocity,
			threshold: float64(10 + i*2),
			left: &node{
				feature:   FeatureInventory,
				threshold: 50,
				left:      leaf(0.8),
				right:     leaf(0.3),
			},
			right: &node{
				feature:   FeatureAdSpendTrend,
				threshold: 0.1,
				left:      leaf(0.2),
				right:     leaf(0.6),
			},
		}
		f.trees = append(f.trees, tree{root: root, importance: treeImportance})
	}

	f.importance = make(map[string]float64, len(treeImportance))
	for name := range treeImportance {
		var sum float64
		for _, t := range f.trees {
			sum += t.importance[name]
		}
		f.importance[name] = sum / float64(len(f.trees))
	}

	return f
}

// Extract computes the model features of a SKU.
func (f *Forest) Extract(sku domain.SKU) Features {
	feat := Features{
		SalesVelocity:  float64(sku.Conversions) / daysPerWeek,
		Inventory:      float64(sku.Inventory),
		AdSpendTrend:   -0.1,
		Seasonality:    f.seasonality(),
		ConversionRate: sku.ConversionRate(),
		InventoryTrend: 0.2,
	}
	if sku.AdSpend > highSpendAbove {
		feat.AdSpendTrend = 0.2
	}
	if sku.Inventory < lowInventoryBelow {
		feat.InventoryTrend = -0.5
	}
	return feat
}

func (f *Forest) seasonality() float64 {
	years := float64(f.now().UnixMilli()) / float64((daysPerSeasonalYear * 24 * time.Hour).Milliseconds())
	return math.Sin(years*2*math.Pi)*seasonalAmplitude + seasonalBaseline
}

// Predict returns the ensemble forecast for a SKU.
func (f *Forest) Predict(sku domain.SKU) Prediction {
	feat := f.Extract(sku)

	votes := make([]float64, len(f.trees))
	var sum float64
	for i, t := range f.trees {
		votes[i] = t.root.predict(feat)
		sum += votes[i]
	}
	risk := sum / float64(len(votes))

	var variance float64
	for _, v := range votes {
		variance += (v - risk) * (v - risk)
	}
	variance /= float64(len(votes))

	days := noSalesDays
	if feat.SalesVelocity > 0 {
		days = int(math.Max(1, math.Floor(float64(sku.Inventory)/feat.SalesVelocity)))
	}

	demand := float64(sku.Conversions*daysPerWeek) * feat.Seasonality * (1 + (sku.ROAS-1)*roasDemandSlope)

	return Prediction{
		SKUID:             sku.ID,
		StockoutRisk:      analytics.Round(risk, 2),
		DaysUntilStockout: days,
		DemandForecast:    math.Round(demand),
		Confidence:        analytics.Round(math.Max(minConfidence, 1-variance), 2),
		RiskLevel:         domain.StockoutRiskFor(sku.StockStatus, days),
		Factors: Factors{
			SalesVelocity:  feat.SalesVelocity,
			Seasonality:    feat.Seasonality,
			AdSpendImpact:  feat.AdSpendTrend,
			InventoryTrend: feat.InventoryTrend,
		},
	}
}

// BatchPredict predicts every SKU in input order.
func (f *Forest) BatchPredict(skus []domain.SKU) []Prediction {
	out := make([]Prediction, 0, len(skus))
	for _, sku := range skus {
		out = append(out, f.Predict(sku))
	}
	return out
}

// FeatureImportance returns a copy of the averaged feature importance.
func (f *Forest) FeatureImportance() map[string]float64 {
	out := make(map[string]float64, len(f.importance))
	for k, v := range f.importance {
		out[k] = v
	}
	return out
}
