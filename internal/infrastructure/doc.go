// Package infrastructure provides the ambient services of a run: the JSON
// slog logger with trace_id injection, per-run trace IDs, OpenTelemetry
// tracing to a span file and Prometheus metrics written to a textfile.
package infrastructure
