package metrics_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mikey/phish-verdict/internal/core"
	"github.com/mikey/phish-verdict/internal/metrics"
)

func TestRecorder_ObserveAnalysis(t *testing.T) {
	recorder := metrics.NewRecorder()
	recorder.ObserveAnalysis(core.OutcomeSuccess, core.SeverityCritical, 20*time.Millisecond)
	recorder.ObserveAnalysis(core.OutcomeSuccess, core.SeverityLow, 10*time.Millisecond)
	recorder.ObserveAnalysis(core.OutcomeTransport, "", time.Second)

	expected := `
# HELP phish_verdict_verdicts_total Verdicts produced by severity tier
# TYPE phish_verdict_verdicts_total counter
phish_verdict_verdicts_total{tier="critical"} 1
phish_verdict_verdicts_total{tier="low"} 1
`
	if err := testutil.GatherAndCompare(recorder.Registry(), strings.NewReader(expected), "phish_verdict_verdicts_total"); err != nil {
		t.Error(err)
	}

	expected = `
# HELP phish_verdict_analyses_total Email analyses by outcome
# TYPE phish_verdict_analyses_total counter
phish_verdict_analyses_total{outcome="success"} 2
phish_verdict_analyses_total{outcome="transport_error"} 1
`
	if err := testutil.GatherAndCompare(recorder.Registry(), strings.NewReader(expected), "phish_verdict_analyses_total"); err != nil {
		t.Error(err)
	}
}

func TestRecorder_Handler(t *testing.T) {
	recorder := metrics.NewRecorder()
	recorder.ObserveCacheLookup(true)
	recorder.ObserveCacheLookup(false)
	recorder.ObserveCacheLookup(false)

	rec := httptest.NewRecorder()
	recorder.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, `phish_verdict_cache_lookups_total{result="miss"} 2`) {
		t.Errorf("cache miss counter not exported:\n%s", body)
	}
}
