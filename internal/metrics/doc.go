// Package metrics records migration run metrics.
//
// Components receive a Recorder by dependency injection and default to
// NoopRecorder, so no call site needs a nil check:
//
//	recorder := metrics.NewPrometheusRecorder(registry)
//	runner := migrate.NewRunner(transformer, sink, migrate.WithRecorder(recorder))
//
// A one-shot migration has nobody to scrape it, so the Prometheus registry is
// written to a node-exporter textfile at the end of the run (WriteTextfile).
package metrics
