package metrics

import "time"

// OutcomeLabel enumerates composition run outcomes for counters.
type OutcomeLabel string

const (
	OutcomeSuccess  OutcomeLabel = "success"
	OutcomeWarning  OutcomeLabel = "warning"
	OutcomeFailed   OutcomeLabel = "failed"
	OutcomeCanceled OutcomeLabel = "canceled"
)

// Recorder defines observability hooks for composition metrics. Implementations
// may forward to Prometheus, OpenTelemetry, etc. All methods must be safe on the
// zero NoopRecorder (allowing optional injection).
type Recorder interface {
	ObserveComposeDuration(d time.Duration)
	ObserveLocaleDuration(locale string, d time.Duration)
	IncComposeOutcome(outcome OutcomeLabel)
	SetLocalesComposed(n int)
	IncSpliceWarning(field string)
	IncResolverLookup(hit bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveComposeDuration(time.Duration)        {}
func (NoopRecorder) ObserveLocaleDuration(string, time.Duration) {}
func (NoopRecorder) IncComposeOutcome(OutcomeLabel)              {}
func (NoopRecorder) SetLocalesComposed(int)                      {}
func (NoopRecorder) IncSpliceWarning(string)                     {}
func (NoopRecorder) IncResolverLookup(bool)                      {}
