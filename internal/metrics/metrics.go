package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg               *prometheus.Registry
	HTTPRequests      *prometheus.CounterVec
	HTTPLatencySec    *prometheus.HistogramVec
	Recommendations   prometheus.Counter
	Reallocations     prometheus.Counter
	SimulationsRun    *prometheus.CounterVec
	SimulationLatency prometheus.Histogram
	SKUsLoaded        prometheus.Gauge
	CacheLookups      *prometheus.CounterVec
	ExportsWritten    *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roasboard_http_requests_total",
	}, []string{"method", "route", "status"})
	httpLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roasboard_http_request_duration_seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	recommendations := prometheus.NewCounter(prometheus.CounterOpts{Name: "roasboard_bidding_recommendations_total"})
	reallocations := prometheus.NewCounter(prometheus.CounterOpts{Name: "roasboard_bidding_reallocations_total"})
	simulations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roasboard_simulations_total",
	}, []string{"outcome"})
	simLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "roasboard_simulation_duration_seconds",
		Buckets: prometheus.DefBuckets,
	})
	skusLoaded := prometheus.NewGauge(prometheus.GaugeOpts{Name: "roasboard_skus_loaded"})
	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roasboard_cache_lookups_total",
	}, []string{"kind", "result"})
	exports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roasboard_exports_total",
	}, []string{"report"})

	r.MustRegister(httpRequests, httpLatency, recommendations, reallocations, simulations, simLatency, skusLoaded, cacheLookups, exports)
	return &Registry{
		reg:               r,
		HTTPRequests:      httpRequests,
		HTTPLatencySec:    httpLatency,
		Recommendations:   recommendations,
		Reallocations:     reallocations,
		SimulationsRun:    simulations,
		SimulationLatency: simLatency,
		SKUsLoaded:        skusLoaded,
		CacheLookups:      cacheLookups,
		ExportsWritten:    exports,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
