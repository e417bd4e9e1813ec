// Package metrics provides build metrics for mksite.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	assembler := site.NewAssembler(cfg, site.WithRecorder(metrics.NoopRecorder{}))
//
// PrometheusRecorder registers its collectors on a caller-supplied registry.
// A one-shot build has no scrape endpoint, so the registry is exported with
// WriteTextfile for the node_exporter textfile collector instead.
package metrics
