package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/roasboard/backend-go/internal/config"
	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	dashboardKeyPrefix       = "dashboard:"
	metricsKeyPrefix         = dashboardKeyPrefix + "metrics"
	recommendationsKeyPrefix = dashboardKeyPrefix + "recommendations"
)

// DashboardCache caches computed dashboard payloads per SKU filter.
type DashboardCache interface {
	GetMetrics(ctx context.Context, filter domain.SKUFilter) (*domain.DashboardMetrics, bool, error)
	SetMetrics(ctx context.Context, filter domain.SKUFilter, metrics *domain.DashboardMetrics) error
	GetRecommendations(ctx context.Context, filter domain.SKUFilter) ([]domain.BiddingRecommendation, bool, error)
	SetRecommendations(ctx context.Context, filter domain.SKUFilter, recs []domain.BiddingRecommendation) error
	InvalidateAll(ctx context.Context) error
	Close() error
}

type store interface {
	get(ctx context.Context, key string) ([]byte, bool, error)
	set(ctx context.Context, key string, payload []byte) error
	deletePrefix(ctx context.Context, prefix string) error
	close() error
}

type dashboardCache struct {
	store store
}

type noopDashboardCache struct{}

// NewDashboardCache returns a Redis or in-memory cache depending on cfg.Driver, or a
// no-op cache when caching is disabled.
func NewDashboardCache(cfg config.CacheConfig) (DashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	switch strings.ToLower(cfg.Driver) {
	case "memory":
		return NewMemoryDashboardCache(cacheTTL(cfg)), nil
	case "", "redis":
		client, ttl, err := newRedisClient(cfg)
		if err != nil {
			return nil, err
		}
		return &dashboardCache{store: &redisStore{client: client, ttl: ttl}}, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

func NewMemoryDashboardCache(ttl time.Duration) DashboardCache {
	return &dashboardCache{store: newMemoryStore(ttl)}
}

func NewNoopDashboardCache() DashboardCache {
	return &noopDashboardCache{}
}

func (c *dashboardCache) GetMetrics(ctx context.Context, filter domain.SKUFilter) (*domain.DashboardMetrics, bool, error) {
	var metrics domain.DashboardMetrics
	ok, err := c.load(ctx, buildFilterKey(metricsKeyPrefix, filter), &metrics)
	if !ok || err != nil {
		return nil, false, err
	}
	return &metrics, true, nil
}

func (c *dashboardCache) SetMetrics(ctx context.Context, filter domain.SKUFilter, metrics *domain.DashboardMetrics) error {
	return c.save(ctx, buildFilterKey(metricsKeyPrefix, filter), metrics)
}

func (c *dashboardCache) GetRecommendations(ctx context.Context, filter domain.SKUFilter) ([]domain.BiddingRecommendation, bool, error) {
	var recs []domain.BiddingRecommendation
	ok, err := c.load(ctx, buildFilterKey(recommendationsKeyPrefix, filter), &recs)
	if !ok || err != nil {
		return nil, false, err
	}
	return recs, true, nil
}

func (c *dashboardCache) SetRecommendations(ctx context.Context, filter domain.SKUFilter, recs []domain.BiddingRecommendation) error {
	return c.save(ctx, buildFilterKey(recommendationsKeyPrefix, filter), recs)
}

func (c *dashboardCache) InvalidateAll(ctx context.Context) error {
	return c.store.deletePrefix(ctx, dashboardKeyPrefix)
}

func (c *dashboardCache) Close() error {
	return c.store.close()
}

func (c *dashboardCache) load(ctx context.Context, key string, dst any) (bool, error) {
	payload, ok, err := c.store.get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("dropping undecodable cache entry")
		return false, fmt.Errorf("decode %s cache: %w", key, err)
	}
	return true, nil
}

func (c *dashboardCache) save(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s cache: %w", key, err)
	}
	return c.store.set(ctx, key, payload)
}

func (n *noopDashboardCache) GetMetrics(ctx context.Context, filter domain.SKUFilter) (*domain.DashboardMetrics, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) SetMetrics(ctx context.Context, filter domain.SKUFilter, metrics *domain.DashboardMetrics) error {
	return nil
}

func (n *noopDashboardCache) GetRecommendations(ctx context.Context, filter domain.SKUFilter) ([]domain.BiddingRecommendation, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) SetRecommendations(ctx context.Context, filter domain.SKUFilter, recs []domain.BiddingRecommendation) error {
	return nil
}

func (n *noopDashboardCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func (n *noopDashboardCache) Close() error {
	return nil
}

func buildFilterKey(prefix string, filter domain.SKUFilter) string {
	if filter.IsZero() {
		return prefix + ":default"
	}

	var parts []string
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		parts = append(parts, "search="+search)
	}
	if filter.Category != "" {
		parts = append(parts, "category="+filter.Category)
	}
	if filter.StockStatus != "" {
		parts = append(parts, "stock_status="+string(filter.StockStatus))
	}

	raw := strings.Join(parts, "|")
	hash := sha1.Sum([]byte(raw))
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}
