package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rec.Body.String()
}

func TestMetricsExposition(t *testing.T) {
	ObserveHTTP(http.MethodGet, "/v2/telemetry/stations", 200, 0.05)
	ObserveUpstream("telemetrystations/telemetrystation", 0.2)
	IncCacheHit()
	IncCacheMiss()
	ObserveCacheOp("get", nil, 0.001)
	ObserveCacheOp("set", errors.New("boom"), 0.001)
	ObserveInvalidation("update", "telemetrystations", 12, 3*time.Millisecond, nil)
	IncKafkaConsumerError("decode")
	ExposeBuildInfo("test")

	body := scrape(t)
	for _, want := range []string{
		`http_requests_total{method="GET",route="/v2/telemetry/stations",status="200"} 1`,
		`cdss_upstream_latency_seconds_count{resource="telemetrystations/telemetrystation"} 1`,
		`cache_results_total{outcome="hit"} 1`,
		`cache_results_total{outcome="miss"} 1`,
		`cache_op_duration_seconds_count{op="set",status="error"} 1`,
		`invalidation_events_total{op="update",resource="telemetrystations",status="ok"} 1`,
		`invalidation_keys_total 12`,
		`kafka_consumer_errors_total{kind="decode"} 1`,
		`app_build_info{version="test"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
