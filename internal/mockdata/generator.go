// Package mockdata generates a reproducible demo catalog with ad performance, inventory
// and margins.
package mockdata

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/andresuchdata/roasboard/backend-go/internal/analytics"
	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
)

const (
	clothingLimit   = 80
	outOfStockRatio = 0.1
	maxInventory    = 1000
)

type product struct {
	name      string
	category  string
	brand     string
	basePrice float64
}

var catalog = []product{
	{name: "Wireless Headphones", category: "Electronics"},
	{name: "Smart Watch", category: "Electronics"},
	{name: "Laptop Stand", category: "Electronics"},
	{name: "Phone Case", category: "Electronics"},
	{name: "Bluetooth Speaker", category: "Electronics"},
	{name: "Running Shoes", category: "Sports"},
	{name: "Yoga Mat", category: "Sports"},
	{name: "Water Bottle", category: "Sports"},
	{name: "Backpack", category: "Sports"},
	{name: "Sunglasses", category: "Sports"},
	{name: "Face Cream", category: "Beauty"},
	{name: "Shampoo", category: "Beauty"},
	{name: "Perfume", category: "Beauty"},
	{name: "Lipstick", category: "Beauty"},
	{name: "Moisturizer", category: "Beauty"},
	{name: "Coffee Maker", category: "Home & Garden"},
	{name: "Desk Lamp", category: "Home & Garden"},
	{name: "Plant Pot", category: "Home & Garden"},
	{name: "Throw Pillow", category: "Home & Garden"},
	{name: "Wall Art", category: "Home & Garden"},
}

var brands = []string{"TechPro", "StyleMax", "HomeComfort", "ActiveLife", "GlowUp", "PremiumChoice", "EcoFriendly"}

var (
	tshirtStyles = []string{"Classic Crew", "V-Neck", "Henley", "Polo", "Tank Top", "Long Sleeve", "Graphic Tee"}
	tshirtColors = []string{"Black", "White", "Navy", "Gray", "Red", "Blue", "Green", "Pink", "Purple", "Yellow", "Orange", "Maroon"}
	tshirtSizes  = []string{"XS", "S", "M", "L", "XL", "XXL", "XXXL"}
	tshirtBrands = []string{"StyleMax", "UrbanFit"}

	jeansStyles = []string{"Skinny", "Straight", "Bootcut", "Wide Leg", "Tapered", "Relaxed", "Slim Straight"}
	jeansColors = []string{"Dark Wash", "Light Wash", "Medium Wash", "Black", "White", "Distressed Blue", "Raw Denim", "Faded Black"}
	jeansSizes  = []string{"26", "28", "30", "32", "34", "36", "38", "40", "42"}
	jeansBrands = []string{"PremiumDenim", "ClassicWear", "TrendyThreads", "ComfortZone", "CasualChic"}
)

// Generator produces demo data from a seeded source. It is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

type Option func(*Generator)

func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

func New(seed uint64, opts ...Option) *Generator {
	g := &Generator{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) between(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func (g *Generator) pick(values []string) string {
	return values[g.rng.IntN(len(values))]
}

// clothing yields t-shirt then jeans variations until limit entries exist.
func (g *Generator) clothing(limit int) []product {
	out := make([]product, 0, limit)
	for _, style := range tshirtStyles {
		for _, color := range tshirtColors {
			for _, size := range tshirtSizes {
				for _, brand := range tshirtBrands {
					if len(out) == limit {
						return out
					}
					out = append(out, product{
						name:      fmt.Sprintf("%s T-Shirt (%s, %s)", style, color, size),
						category:  "Clothing",
						brand:     brand,
						basePrice: g.between(15, 50),
					})
				}
			}
		}
	}
	for _, style := range jeansStyles {
		for _, color := range jeansColors {
			for _, size := range jeansSizes {
				if len(out) == limit {
					return out
				}
				out = append(out, product{
					name:      fmt.Sprintf("%s Jeans (%s, %s)", style, color, size),
					category:  "Clothing",
					brand:     g.pick(jeansBrands),
					basePrice: g.between(40, 120),
				})
			}
		}
	}
	return out
}

// SKUs returns the catalog products followed by the clothing variations.
func (g *Generator) SKUs() []domain.SKU {
	products := append(append([]product{}, catalog...), g.clothing(clothingLimit)...)
	now := g.now().UTC()

	skus := make([]domain.SKU, 0, len(products))
	for i, p := range products {
		adSpend := g.between(500, 5500)
		revenue := adSpend * g.between(0.5, 4.5)
		clicks := 100 + g.rng.IntN(2000)
		impressions := int(float64(clicks) * g.between(10, 60))
		conversions := int(math.Floor(float64(clicks) * g.between(0.01, 0.09)))

		inventory := g.rng.IntN(maxInventory)
		if g.rng.Float64() < outOfStockRatio {
			inventory = 0
		}

		price := p.basePrice
		if price == 0 {
			price = g.between(50, 250)
		}
		marginPct := g.between(0.15, 0.70)
		cost := price * (1 - marginPct)

		brand := p.brand
		if brand == "" {
			brand = g.pick(brands)
		}

		sku := domain.SKU{
			ID:          fmt.Sprintf("SKU-%03d", i+1),
			Name:        p.name,
			Category:    p.category,
			Brand:       brand,
			AdSpend:     analytics.RoundCents(adSpend),
			Revenue:     analytics.RoundCents(revenue),
			Clicks:      clicks,
			Impressions: impressions,
			Conversions: conversions,
			Inventory:   inventory,
			Margin: &domain.Margin{
				CostOfGoods:   analytics.RoundCents(cost),
				SellingPrice:  analytics.RoundCents(price),
				GrossMargin:   analytics.RoundCents(price - cost),
				MarginPercent: analytics.Round(marginPct, 2),
			},
			LastUpdated: now.Add(-time.Duration(g.rng.Int64N(int64(7 * 24 * time.Hour)))),
		}
		sku = sku.Derive()
		sku.ROAS = analytics.Round(sku.ROAS, 2)
		skus = append(skus, sku)
	}

	return skus
}

// Campaigns groups skus into the default dashboard campaigns.
func Campaigns(skus []domain.SKU) []domain.Campaign {
	return analytics.Campaigns(skus, analytics.DefaultCampaignNames)
}

// TimeSeries returns one point per day ending today, oldest first.
func (g *Generator) TimeSeries(days int) []domain.TimeSeriesPoint {
	if days <= 0 {
		return []domain.TimeSeriesPoint{}
	}

	today := g.now().UTC()
	points := make([]domain.TimeSeriesPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		points = append(points, domain.TimeSeriesPoint{
			Date:        today.AddDate(0, 0, -i).Format(time.DateOnly),
			ROAS:        analytics.Round(g.between(1, 4), 2),
			Spend:       analytics.RoundCents(g.between(500, 2500)),
			Revenue:     analytics.RoundCents(g.between(1000, 6000)),
			Conversions: 10 + g.rng.IntN(100),
		})
	}
	return points
}
