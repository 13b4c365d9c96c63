package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/andresuchdata/roasboard/backend-go/internal/analytics"
	"github.com/andresuchdata/roasboard/backend-go/internal/cache"
	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
	"github.com/andresuchdata/roasboard/backend-go/internal/export"
	"github.com/andresuchdata/roasboard/backend-go/internal/forecast"
	"github.com/andresuchdata/roasboard/backend-go/internal/metrics"
	"github.com/andresuchdata/roasboard/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	defaultTimeSeriesDays = 30
	maxTimeSeriesDays     = 365
)

// TimeSeriesSource produces the daily ROAS trend.
type TimeSeriesSource interface {
	TimeSeries(days int) []domain.TimeSeriesPoint
}

type DashboardService struct {
	repo    repository.SKURepository
	cache   cache.DashboardCache
	forest  *forecast.Forest
	metrics *metrics.Registry

	seriesMu sync.Mutex
	series   TimeSeriesSource
}

func NewDashboardService(repo repository.SKURepository, cacheImpl cache.DashboardCache, forest *forecast.Forest, series TimeSeriesSource, reg *metrics.Registry) *DashboardService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	if forest == nil {
		forest = forecast.NewForest()
	}
	return &DashboardService{repo: repo, cache: cacheImpl, forest: forest, series: series, metrics: reg}
}

// SKUs lists the SKUs matching filter in repository order.
func (s *DashboardService) SKUs(ctx context.Context, filter domain.SKUFilter) ([]domain.SKU, error) {
	skus, err := s.repo.ListSKUs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list skus: %w", err)
	}
	if s.metrics != nil {
		s.metrics.SKUsLoaded.Set(float64(len(skus)))
	}
	return filter.Apply(skus), nil
}

// SKU returns one SKU by id.
func (s *DashboardService) SKU(ctx context.Context, id string) (domain.SKU, error) {
	skus, err := s.SKUs(ctx, domain.SKUFilter{})
	if err != nil {
		return domain.SKU{}, err
	}
	for _, sku := range skus {
		if sku.ID == id {
			return sku, nil
		}
	}
	return domain.SKU{}, fmt.Errorf("sku %q: %w", id, domain.ErrSKUNotFound)
}

func (s *DashboardService) Metrics(ctx context.Context, filter domain.SKUFilter) (*domain.DashboardMetrics, error) {
	if m, ok, err := s.cache.GetMetrics(ctx, filter); err == nil && ok {
		s.observeCache("metrics", "hit")
		return m, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("dashboard: cache get metrics failed")
	}
	s.observeCache("metrics", "miss")

	skus, err := s.SKUs(ctx, filter)
	if err != nil {
		return nil, err
	}
	m := analytics.DashboardMetrics(skus)

	if err := s.cache.SetMetrics(ctx, filter, &m); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache set metrics failed")
	}

	return &m, nil
}

func (s *DashboardService) Campaigns(ctx context.Context) ([]domain.Campaign, error) {
	skus, err := s.SKUs(ctx, domain.SKUFilter{})
	if err != nil {
		return nil, err
	}
	return analytics.Campaigns(skus, analytics.DefaultCampaignNames), nil
}

// TimeSeries returns the trend for the last days days, 30 by default and at most 365.
func (s *DashboardService) TimeSeries(days int) []domain.TimeSeriesPoint {
	if days <= 0 {
		days = defaultTimeSeriesDays
	}
	if days > maxTimeSeriesDays {
		days = maxTimeSeriesDays
	}
	if s.series == nil {
		return make([]domain.TimeSeriesPoint, 0)
	}

	s.seriesMu.Lock()
	defer s.seriesMu.Unlock()
	return s.series.TimeSeries(days)
}

func (s *DashboardService) Dashboard(ctx context.Context, days int, filter domain.SKUFilter) (*domain.Dashboard, error) {
	m, err := s.Metrics(ctx, filter)
	if err != nil {
		return nil, err
	}

	campaigns, err := s.Campaigns(ctx)
	if err != nil {
		return nil, err
	}
	if campaigns == nil {
		campaigns = make([]domain.Campaign, 0)
	}

	return &domain.Dashboard{
		Metrics:    *m,
		Campaigns:  campaigns,
		TimeSeries: s.TimeSeries(days),
	}, nil
}

// Predictions forecasts stockout risk for the SKUs matching filter.
func (s *DashboardService) Predictions(ctx context.Context, filter domain.SKUFilter) ([]forecast.Prediction, error) {
	skus, err := s.SKUs(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.forest.BatchPredict(skus), nil
}

func (s *DashboardService) FeatureImportance() map[string]float64 {
	return s.forest.FeatureImportance()
}

func (s *DashboardService) InventoryAlerts(ctx context.Context) ([]export.InventoryAlert, error) {
	skus, err := s.SKUs(ctx, domain.SKUFilter{})
	if err != nil {
		return nil, err
	}
	alerts := export.InventoryAlerts(skus, export.PredictionIndex(s.forest.BatchPredict(skus)))
	if alerts == nil {
		alerts = make([]export.InventoryAlert, 0)
	}
	return alerts, nil
}

// Refresh reloads the underlying data when the repository supports it and drops every
// cached dashboard payload.
func (s *DashboardService) Refresh(ctx context.Context) error {
	if r, ok := s.repo.(repository.Refresher); ok {
		if err := r.Refresh(ctx); err != nil {
			return fmt.Errorf("refresh skus: %w", err)
		}
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache invalidation failed")
	}
	return nil
}

func (s *DashboardService) observeCache(kind, result string) {
	if s.metrics != nil {
		s.metrics.CacheLookups.WithLabelValues(kind, result).Inc()
	}
}
