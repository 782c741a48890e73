// Package metrics provides build metrics for sitebuilder.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	b := build.New(cfg, build.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// PrometheusRecorder registers its collectors on a caller supplied registry.
// WriteTextfile dumps that registry in the text exposition format, which is
// how one-shot builds hand their metrics to a node exporter textfile collector.
package metrics
