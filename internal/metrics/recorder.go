// Package metrics records generate-request observability data.
package metrics

import "time"

// Stage names used as metric labels.
const (
	StageParse     = "parse"
	StageFetch     = "fetch"
	StageNarrative = "narrative"
	StageAssemble  = "assemble"
)

// Outcome labels for completed requests.
const (
	OutcomeSuccess  = "success"
	OutcomeDegraded = "degraded"
	OutcomeFailed   = "failed"
)

// Recorder defines observability hooks for generate requests.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	IncRequestOutcome(outcome string, code string)
	IncNonFatalError(code string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) IncRequestOutcome(string, string)          {}
func (NoopRecorder) IncNonFatalError(string)                   {}
