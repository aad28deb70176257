package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mikey/phish-verdict/internal/core"
)

// Recorder publishes analysis metrics to a Prometheus registry
type Recorder struct {
	registry *prometheus.Registry

	analyses *prometheus.CounterVec
	verdicts *prometheus.CounterVec
	duration *prometheus.HistogramVec
	cache    *prometheus.CounterVec
}

// NewRecorder creates a recorder with its own registry
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		analyses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phish_verdict_analyses_total",
				Help: "Email analyses by outcome",
			},
			[]string{"outcome"},
		),
		verdicts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phish_verdict_verdicts_total",
				Help: "Verdicts produced by severity tier",
			},
			[]string{"tier"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "phish_verdict_analysis_seconds",
				Help:    "Time spent analyzing an email, including the detector call",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		cache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phish_verdict_cache_lookups_total",
				Help: "Payload cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

// ObserveAnalysis records one finished analysis
func (r *Recorder) ObserveAnalysis(outcome string, tier core.SeverityTier, duration time.Duration) {
	r.analyses.WithLabelValues(outcome).Inc()
	r.duration.WithLabelValues(outcome).Observe(duration.Seconds())
	if tier != "" {
		r.verdicts.WithLabelValues(string(tier)).Inc()
	}
}

// ObserveCacheLookup records a payload cache hit or miss
func (r *Recorder) ObserveCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cache.WithLabelValues(result).Inc()
}

// Registry returns the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
