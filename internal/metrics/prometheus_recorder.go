package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	composeDuration prom.Histogram
	localeDuration  *prom.HistogramVec
	composeOutcome  *prom.CounterVec
	localesComposed prom.Gauge
	spliceWarnings  *prom.CounterVec
	resolverLookups *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.composeDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "sitecomposer",
			Name:      "compose_duration_seconds",
			Help:      "Total duration of one composition run",
			Buckets:   prom.DefBuckets,
		})
		pr.localeDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "sitecomposer",
			Name:      "locale_compose_duration_seconds",
			Help:      "Duration of composing a single locale",
			Buckets:   prom.DefBuckets,
		}, []string{"locale"})
		pr.composeOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitecomposer",
			Name:      "compose_outcomes_total",
			Help:      "Composition run outcomes by final status",
		}, []string{"outcome"})
		pr.localesComposed = prom.NewGauge(prom.GaugeOpts{
			Namespace: "sitecomposer",
			Name:      "locales_composed",
			Help:      "Number of locales produced by the last composition run",
		})
		pr.spliceWarnings = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitecomposer",
			Name:      "splice_warnings_total",
			Help:      "Path-splice precondition violations by field name",
		}, []string{"field"})
		pr.resolverLookups = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitecomposer",
			Name:      "resolver_lookups_total",
			Help:      "Page metadata resolver lookups by mixin match result",
		}, []string{"result"})
		reg.MustRegister(pr.composeDuration, pr.localeDuration, pr.composeOutcome, pr.localesComposed, pr.spliceWarnings, pr.resolverLookups)
	})
	return pr
}

func (pr *PrometheusRecorder) ObserveComposeDuration(d time.Duration) {
	pr.composeDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) ObserveLocaleDuration(locale string, d time.Duration) {
	pr.localeDuration.WithLabelValues(locale).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncComposeOutcome(outcome OutcomeLabel) {
	pr.composeOutcome.WithLabelValues(string(outcome)).Inc()
}

func (pr *PrometheusRecorder) SetLocalesComposed(n int) {
	pr.localesComposed.Set(float64(n))
}

func (pr *PrometheusRecorder) IncSpliceWarning(field string) {
	pr.spliceWarnings.WithLabelValues(field).Inc()
}

func (pr *PrometheusRecorder) IncResolverLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	pr.resolverLookups.WithLabelValues(result).Inc()
}
