// Package bidding ranks SKUs by margin-weighted performance and turns the ranking into
// spend recommendations.
package bidding

import (
	"fmt"
	"math"
	"sort"

	"github.com/andresuchdata/roasboard/backend-go/internal/analytics"
	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	reasonNoMargin     = "No margin data available. Maintain current spend."
	reasonTop          = "High-margin, top performer. Increase spend to capture more profitable sales."
	reasonMiddle       = "Solid performer with %d%% margin. Maintain current strategy."
	reasonLow          = "Lower performance. Reduce spend and optimize targeting."
	reasonLimitedStock = " Limited inventory requires spend reduction."
)

// Scorer is not safe for concurrent use; callers serialize access.
type Scorer struct {
	cfg     Config
	margins domain.MarginTable
}

func NewScorer(cfg Config) *Scorer {
	return &Scorer{
		cfg:     cfg,
		margins: domain.MarginTable{},
	}
}

// Initialize replaces the margin table with the margins of skus. SKUs without margin data
// are left out.
func (s *Scorer) Initialize(skus []domain.SKU) {
	s.margins = domain.NewMarginTable(skus)
}

// Score returns the bidding score of a SKU, 0 when it has no margin entry.
func (s *Scorer) Score(sku domain.SKU) float64 {
	m, ok := s.margins[sku.ID]
	if !ok {
		return 0
	}

	roasScore := math.Min(sku.ROAS/s.cfg.ROASCap, 1) * s.cfg.ROASWeight
	marginScore := m.MarginPercent * s.cfg.MarginWeight
	volumeScore := math.Min(float64(sku.Conversions)/s.cfg.ConversionCap, 1) * s.cfg.ConversionWeight
	inventoryScore := 0.0
	if sku.Inventory > s.cfg.InventoryBonusAt {
		inventoryScore = s.cfg.InventoryBonus
	}

	return roasScore + marginScore + volumeScore + inventoryScore
}

// Recommend re-initializes from skus and returns one recommendation per SKU in ranking
// order. Ties keep input order.
func (s *Scorer) Recommend(skus []domain.SKU) []domain.BiddingRecommendation {
	s.Initialize(skus)

	type scored struct {
		sku   domain.SKU
		score float64
	}
	ranked := make([]scored, len(skus))
	for i, sku := range skus {
		ranked[i] = scored{sku: sku, score: s.Score(sku)}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	recs := make([]domain.BiddingRecommendation, 0, len(ranked))
	for rank, r := range ranked {
		recs = append(recs, s.recommendation(r.sku, rank))
	}
	return recs
}

func (s *Scorer) recommendation(sku domain.SKU, rank int) domain.BiddingRecommendation {
	m, ok := s.margins[sku.ID]
	if !ok {
		log.Debug().Str("sku_id", sku.ID).Msg("no margin data for sku, keeping spend")
		return domain.BiddingRecommendation{
			SKUID:            sku.ID,
			CurrentSpend:     sku.AdSpend,
			RecommendedSpend: sku.AdSpend,
			Reason:           reasonNoMargin,
			ExpectedROAS:     sku.ROAS,
			Priority:         domain.PriorityMedium,
		}
	}

	var (
		multiplier float64
		reason     string
		priority   domain.Priority
	)
	switch {
	case rank < s.cfg.TopRankCutoff:
		multiplier = s.cfg.TopBase + m.MarginPercent*s.cfg.TopMarginFactor
		reason = reasonTop
		priority = domain.PriorityHigh
	case rank < s.cfg.MiddleRankCutoff:
		multiplier = s.cfg.MidBase + m.MarginPercent*s.cfg.MidMarginFactor
		reason = fmt.Sprintf(reasonMiddle, int(math.Round(m.MarginPercent*100)))
		priority = domain.PriorityMedium
	default:
		multiplier = s.cfg.LowBase + sku.ROAS*s.cfg.LowROASFactor
		reason = reasonLow
		priority = domain.PriorityLow
	}

	if sku.Inventory < s.cfg.LimitedInventoryBelow {
		multiplier *= s.cfg.LimitedInventoryScale
		reason += reasonLimitedStock
	}

	recommended := analytics.RoundCents(sku.AdSpend * multiplier)
	change := recommended - sku.AdSpend

	efficiency := s.cfg.ScaleDownEfficiency
	if multiplier > 1 {
		efficiency = s.cfg.ScaleUpEfficiency
	}
	expectedROAS := sku.ROAS * efficiency
	expectedProfit := recommended*expectedROAS*m.MarginPercent - recommended

	return domain.BiddingRecommendation{
		SKUID:              sku.ID,
		CurrentSpend:       sku.AdSpend,
		RecommendedSpend:   recommended,
		SpendChange:        analytics.RoundCents(change),
		SpendChangePercent: changePercent(change, sku.AdSpend),
		Reason:             reason,
		ExpectedROAS:       analytics.Round(expectedROAS, 2),
		ExpectedProfit:     analytics.RoundCents(expectedProfit),
		Priority:           priority,
	}
}

// ReallocateToBudget rescales the recommendations of skus so that their recommended
// spend sums to totalBudget.
func (s *Scorer) ReallocateToBudget(skus []domain.SKU, totalBudget float64) ([]domain.BiddingRecommendation, error) {
	if totalBudget < 0 || math.IsNaN(totalBudget) || math.IsInf(totalBudget, 0) {
		return nil, fmt.Errorf("reallocate to %v: %w", totalBudget, domain.ErrInvalidBudget)
	}

	recs := s.Recommend(skus)

	var total float64
	for _, r := range recs {
		total += r.RecommendedSpend
	}
	if total <= 0 {
		return nil, fmt.Errorf("reallocate %d skus: %w", len(recs), domain.ErrNoRecommendedSpend)
	}

	ratio := totalBudget / total
	for i := range recs {
		r := &recs[i]
		scaled := r.RecommendedSpend * ratio
		change := scaled - r.CurrentSpend
		r.RecommendedSpend = analytics.RoundCents(scaled)
		r.SpendChange = analytics.RoundCents(change)
		r.SpendChangePercent = changePercent(change, r.CurrentSpend)
	}

	return recs, nil
}

// MarginData returns the cached margin entry of a SKU.
func (s *Scorer) MarginData(skuID string) (domain.MarginData, bool) {
	return s.margins.MarginData(skuID)
}

// AllMarginData returns every cached margin entry ordered by SKU id.
func (s *Scorer) AllMarginData() []domain.MarginData {
	return s.margins.Sorted()
}

func changePercent(change, current float64) float64 {
	if current == 0 {
		return 0
	}
	return math.Round(change / current * 100)
}
