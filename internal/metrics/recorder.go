package metrics

import "time"

// Recorder defines observability hooks for the error pipeline and tools.
type Recorder interface {
	IncNormalizedError(code, category string)
	IncUnhandled(operation string)
	IncHandlerRetry(operation string)
	IncCacheResult(hit bool)
	IncUpstreamRetry(tool string)
	ObserveToolDuration(tool string, d time.Duration, success bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncNormalizedError(string, string)               {}
func (NoopRecorder) IncUnhandled(string)                             {}
func (NoopRecorder) IncHandlerRetry(string)                          {}
func (NoopRecorder) IncCacheResult(bool)                             {}
func (NoopRecorder) IncUpstreamRetry(string)                         {}
func (NoopRecorder) ObserveToolDuration(string, time.Duration, bool) {}
