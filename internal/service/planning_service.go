package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/andresuchdata/roasboard/backend-go/internal/analytics"
	"github.com/andresuchdata/roasboard/backend-go/internal/bidding"
	"github.com/andresuchdata/roasboard/backend-go/internal/cache"
	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
	"github.com/andresuchdata/roasboard/backend-go/internal/metrics"
	"github.com/andresuchdata/roasboard/backend-go/internal/repository"
	"github.com/andresuchdata/roasboard/backend-go/internal/simulation"
	"github.com/rs/zerolog/log"
)

const quickScenarioName = "Quick spend adjustment"

// PlanningService owns one bidding scorer and one scenario simulator. The simulator reads
// margins from the scorer, and mu serializes every call into either of them.
type PlanningService struct {
	repo    repository.SKURepository
	cache   cache.DashboardCache
	metrics *metrics.Registry

	mu        sync.Mutex
	scorer    *bidding.Scorer
	simulator *simulation.Simulator
}

func NewPlanningService(repo repository.SKURepository, cacheImpl cache.DashboardCache, biddingCfg bidding.Config, simCfg simulation.Config, reg *metrics.Registry) *PlanningService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	scorer := bidding.NewScorer(biddingCfg)
	return &PlanningService{
		repo:      repo,
		cache:     cacheImpl,
		metrics:   reg,
		scorer:    scorer,
		simulator: simulation.NewSimulator(simCfg, scorer),
	}
}

func (s *PlanningService) listSKUs(ctx context.Context, filter domain.SKUFilter) ([]domain.SKU, error) {
	skus, err := s.repo.ListSKUs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list skus: %w", err)
	}
	return filter.Apply(skus), nil
}

// Recommendations returns bidding recommendations for the SKUs matching filter, highest
// score first.
func (s *PlanningService) Recommendations(ctx context.Context, filter domain.SKUFilter) ([]domain.BiddingRecommendation, error) {
	if recs, ok, err := s.cache.GetRecommendations(ctx, filter); err == nil && ok {
		return recs, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("planning: cache get recommendations failed")
	}

	skus, err := s.listSKUs(ctx, filter)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	recs := s.scorer.Recommend(skus)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.Recommendations.Add(float64(len(recs)))
	}
	if err := s.cache.SetRecommendations(ctx, filter, recs); err != nil {
		log.Warn().Err(err).Msg("planning: cache set recommendations failed")
	}
	return recs, nil
}

// Reallocate rescales the recommendations for the matching SKUs to totalBudget.
func (s *PlanningService) Reallocate(ctx context.Context, filter domain.SKUFilter, totalBudget float64) ([]domain.BiddingRecommendation, error) {
	skus, err := s.listSKUs(ctx, filter)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	recs, err := s.scorer.ReallocateToBudget(skus, totalBudget)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.Reallocations.Inc()
	}
	return recs, nil
}

// Margins rebuilds the margin table from the current SKUs and returns it sorted by id.
func (s *PlanningService) Margins(ctx context.Context) ([]domain.MarginData, error) {
	skus, err := s.listSKUs(ctx, domain.SKUFilter{})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.scorer.Initialize(skus)
	return s.scorer.AllMarginData(), nil
}

func (s *PlanningService) CreateScenario(name, description string, changes []domain.SimulationChange) (domain.Scenario, error) {
	if err := simulation.ValidateChanges(changes); err != nil {
		return domain.Scenario{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.simulator.CreateScenario(name, description, changes)
	return s.simulator.Scenario(id)
}

func (s *PlanningService) Scenario(id string) (domain.Scenario, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.simulator.Scenario(id)
}

func (s *PlanningService) Scenarios() []domain.Scenario {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.simulator.Scenarios()
}

func (s *PlanningService) DeleteScenario(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.simulator.DeleteScenario(id) {
		return fmt.Errorf("scenario %q: %w", id, domain.ErrScenarioNotFound)
	}
	return nil
}

// CaptureBaseline snapshots the current SKUs and their dashboard metrics as the simulation
// baseline.
func (s *PlanningService) CaptureBaseline(ctx context.Context) (domain.DashboardMetrics, error) {
	skus, err := s.listSKUs(ctx, domain.SKUFilter{})
	if err != nil {
		return domain.DashboardMetrics{}, err
	}
	m := analytics.DashboardMetrics(skus)

	s.mu.Lock()
	s.simulator.SetBaseline(skus, m)
	s.mu.Unlock()

	log.Info().Int("skus", len(skus)).Float64("total_roas", m.TotalROAS).Msg("captured simulation baseline")
	return m, nil
}

// RunScenario runs a stored scenario against the current SKUs. The first run captures a
// baseline when none has been set yet.
func (s *PlanningService) RunScenario(ctx context.Context, id string) (*domain.SimulationResult, error) {
	skus, err := s.listSKUs(ctx, domain.SKUFilter{})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	s.mu.Lock()
	if _, _, ok := s.simulator.Baseline(); !ok {
		s.simulator.SetBaseline(skus, analytics.DashboardMetrics(skus))
	}
	s.scorer.Initialize(skus)
	result, err := s.simulator.Run(id, skus)
	s.mu.Unlock()

	s.observeSimulation(start, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SimulateSpendChange creates and runs a one-change scenario moving skuID's spend by
// spendChange.
func (s *PlanningService) SimulateSpendChange(ctx context.Context, skuID string, spendChange float64) (*domain.SimulationResult, error) {
	skus, err := s.listSKUs(ctx, domain.SKUFilter{})
	if err != nil {
		return nil, err
	}

	var current *domain.SKU
	for i := range skus {
		if skus[i].ID == skuID {
			current = &skus[i]
			break
		}
	}
	if current == nil {
		return nil, fmt.Errorf("sku %q: %w", skuID, domain.ErrSKUNotFound)
	}

	changes := simulation.SpendAdjustment(skuID, spendChange, current.AdSpend)
	description := fmt.Sprintf("Adjust %s spend by %.2f", skuID, spendChange)
	sc, err := s.CreateScenario(quickScenarioName, description, changes)
	if err != nil {
		return nil, err
	}
	return s.RunScenario(ctx, sc.ID)
}

func (s *PlanningService) observeSimulation(start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.metrics.SimulationsRun.WithLabelValues(outcome).Inc()
	s.metrics.SimulationLatency.Observe(time.Since(start).Seconds())
}
