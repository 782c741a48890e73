package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "sitebuilder"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	pages         *prom.CounterVec
	stepDuration  *prom.HistogramVec
	chainLength   *prom.HistogramVec
	fetchDuration *prom.HistogramVec
	fetchRetries  *prom.CounterVec
}

// NewPrometheusRecorder constructs metrics and registers them on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		pages: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_total",
			Help:      "Rendered pages by kind and result",
		}, []string{"kind", "result"}),
		stepDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "render_step_duration_seconds",
			Help:      "Duration of a single layout chain render step",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"kind"}),
		chainLength: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "chain_length",
			Help:      "Number of files in resolved layout chains",
			Buckets:   prom.LinearBuckets(1, 1, 8),
		}, []string{"kind"}),
		fetchDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of element repository fetches",
			Buckets:   prom.DefBuckets,
		}, []string{"result"}),
		fetchRetries: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_retries_total",
			Help:      "Element repository fetch retries (transient failures)",
		}, []string{"element"}),
	}
	reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.pages, pr.stepDuration, pr.chainLength, pr.fetchDuration, pr.fetchRetries)
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncPageResult(kind string, result ResultLabel) {
	if p == nil {
		return
	}
	p.pages.WithLabelValues(kind, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveRenderStep(kind string, d time.Duration) {
	if p == nil {
		return
	}
	p.stepDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveChainLength(kind string, n int) {
	if p == nil {
		return
	}
	p.chainLength.WithLabelValues(kind).Observe(float64(n))
}

// ObserveFetchDuration records fetch latency. The element name is not used
// as a label to keep cardinality bounded.
func (p *PrometheusRecorder) ObserveFetchDuration(_ string, d time.Duration, success bool) {
	if p == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.fetchDuration.WithLabelValues(res).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncFetchRetry(element string) {
	if p == nil {
		return
	}
	p.fetchRetries.WithLabelValues(element).Inc()
}

// WriteTextfile writes every metric in g to path in the text exposition format.
func WriteTextfile(path string, g prom.Gatherer) error {
	if err := prom.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
