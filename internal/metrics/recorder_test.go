package metrics

import (
	"testing"
	"time"
)

var _ Recorder = NoopRecorder{}
var _ Recorder = (*PrometheusRecorder)(nil)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveBuildDuration(time.Second)
	r.IncBuildOutcome("success")
	r.IncPageResult(KindContent, ResultWritten)
	r.ObserveRenderStep(KindContent, time.Millisecond)
	r.ObserveChainLength(KindCatalog, 2)
	r.ObserveFetchDuration("x", time.Second, false)
	r.IncFetchRetry("x")
}
