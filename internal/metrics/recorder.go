package metrics

import "time"

// ResultLabel enumerates page result categories for counters.
type ResultLabel string

const (
	ResultWritten   ResultLabel = "written"
	ResultUnchanged ResultLabel = "unchanged"
	ResultFailed    ResultLabel = "failed"
)

// Page kinds.
const (
	KindCatalog = "catalog"
	KindContent = "content"
)

// Recorder defines observability hooks for builds, chains and fetches.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string) // outcome: success|partial|failed
	IncPageResult(kind string, result ResultLabel)
	ObserveRenderStep(kind string, d time.Duration)
	ObserveChainLength(kind string, n int)
	ObserveFetchDuration(element string, d time.Duration, success bool)
	IncFetchRetry(element string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration)                 {}
func (NoopRecorder) IncBuildOutcome(string)                             {}
func (NoopRecorder) IncPageResult(string, ResultLabel)                  {}
func (NoopRecorder) ObserveRenderStep(string, time.Duration)            {}
func (NoopRecorder) ObserveChainLength(string, int)                     {}
func (NoopRecorder) ObserveFetchDuration(string, time.Duration, bool)   {}
func (NoopRecorder) IncFetchRetry(string)                               {}
