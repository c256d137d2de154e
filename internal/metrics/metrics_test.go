package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Counters(t *testing.T) {
	t.Parallel()

	m := New()
	m.Operation("generate", "react", OutcomeSuccess)
	m.Operation("generate", "react", OutcomeSuccess)
	m.Operation("refine", "vue", OutcomeFallback)
	m.NormalizePath("fenced")

	if got := testutil.ToFloat64(m.operations.WithLabelValues("generate", "react", OutcomeSuccess)); got != 2 {
		t.Errorf("generate success = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.operations.WithLabelValues("refine", "vue", OutcomeFallback)); got != 1 {
		t.Errorf("refine fallback = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.normalizePath.WithLabelValues("fenced")); got != 1 {
		t.Errorf("fenced = %v, want 1", got)
	}
}

func TestMetrics_Gauges(t *testing.T) {
	t.Parallel()

	m := New()
	m.ConnectionOpened()
	m.ConnectionOpened()
	m.ConnectionClosed()
	m.BreakerState(1)

	if got := testutil.ToFloat64(m.wsConnections); got != 1 {
		t.Errorf("ws_connections = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.breakerState); got != 1 {
		t.Errorf("breaker state = %v, want 1", got)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.Operation("generate", "react", OutcomeSuccess)
	m.NormalizePath("raw")
	m.LLMRequest("generate", OutcomeError, time.Second)
	m.ConnectionOpened()
	m.ConnectionClosed()
	m.BreakerState(2)
	m.RateLimited()
}

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := New()
	m.LLMRequest("explain", OutcomeSuccess, 300*time.Millisecond)
	m.RateLimited()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(w.Result().Body)
	for _, want := range []string{
		"uiforge_llm_request_duration_seconds_count{operation=\"explain\",outcome=\"success\"} 1",
		"uiforge_rate_limited_total 1",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
