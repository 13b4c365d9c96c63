package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRegistryHandlerExposesCounters(t *testing.T) {
	require := require.New(t)

	r := NewRegistry()
	r.Recommendations.Inc()
	r.SimulationsRun.WithLabelValues("ok").Add(2)
	r.HTTPRequests.WithLabelValues("GET", "/api/v1/skus", "200").Inc()

	require.Equal(1.0, testutil.ToFloat64(r.Recommendations))
	require.Equal(2.0, testutil.ToFloat64(r.SimulationsRun.WithLabelValues("ok")))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(err)
	require.Contains(string(body), "roasboard_bidding_recommendations_total 1")
	require.Contains(string(body), `roasboard_http_requests_total{method="GET",route="/api/v1/skus",status="200"} 1`)
}
