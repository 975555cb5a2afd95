package metrics

import "time"

// ResultLabel enumerates page result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultWarning ResultLabel = "warning"
	ResultFailed  ResultLabel = "failed"
)

// Recorder defines observability hooks for a migration run. Implementations must
// be safe for concurrent use; pages are transformed in parallel.
type Recorder interface {
	ObservePageDuration(d time.Duration)
	IncPageResult(result ResultLabel)
	IncWarning(kind string)
	ObserveConversionDuration(d time.Duration, success bool)
	ObserveRunDuration(d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObservePageDuration(time.Duration)             {}
func (NoopRecorder) IncPageResult(ResultLabel)                     {}
func (NoopRecorder) IncWarning(string)                             {}
func (NoopRecorder) ObserveConversionDuration(time.Duration, bool) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)              {}
