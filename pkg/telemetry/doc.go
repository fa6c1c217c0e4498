// Package telemetry bundles the Prometheus metrics and OpenTelemetry
// tracer a component host reports to.
//
// A Telemetry value is created once and passed to the host explicitly;
// there is no package-level registry. A nil *Telemetry (or nil *Metrics) is
// valid and records nothing.
//
// Metrics collected (namespace "quoteboard" by default):
//   - renders_total{tag,status}: render passes by component tag and outcome
//   - render_duration_seconds{tag}: render pass duration
//   - channel_deliveries_total{channel,status}: subscriber invocations
//   - lookups_total{kind,status}: quote and symbol lookups by outcome
//   - lookup_duration_seconds{kind}: lookup duration
//   - dispatch_dropped_total: host turns dropped because the queue was full
//   - mounted_components: currently mounted components
//
// Spans are started from the global OpenTelemetry tracer provider unless
// WithTracerProvider is given:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	tel := telemetry.New(telemetry.WithTracerProvider(tp))
package telemetry
