// Package metrics provides observability hooks for error normalization and
// tool execution.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection needs no nil checks:
//
//	recorder := metrics.NewPrometheusRecorder(registry)
//	h := handler.WithMetrics(recorder, handler.Transform())
//
// PrometheusRecorder registers its collectors on the supplied registry;
// HTTPHandler exposes that registry for scraping.
package metrics
