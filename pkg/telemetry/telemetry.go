package telemetry

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Default tracer name.
const defaultTracerName = "quoteboard"

// Config configures metrics and tracing.
type Config struct {
	// Namespace is the metrics namespace (default: "quoteboard").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: a fresh prometheus.NewRegistry()
	Registry prometheus.Registerer

	// TracerName is the name of the tracer (default: "quoteboard").
	TracerName string

	// TracerProvider overrides the global tracer provider.
	TracerProvider trace.TracerProvider
}

// Option configures Telemetry.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// WithTracerName sets the tracer name.
func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Config) {
		c.TracerProvider = tp
	}
}

func defaultConfig() Config {
	return Config{
		Namespace:  "quoteboard",
		Buckets:    prometheus.DefBuckets,
		TracerName: defaultTracerName,
	}
}

// Telemetry holds metrics and the tracer.
type Telemetry struct {
	Metrics  *Metrics
	tracer   trace.Tracer
	gatherer prometheus.Gatherer
}

// New creates metrics registered on the configured registry and resolves
// the tracer.
func New(opts ...Option) *Telemetry {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}

	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	t := &Telemetry{
		Metrics: newMetrics(config),
		tracer:  tp.Tracer(config.TracerName),
	}
	if g, ok := config.Registry.(prometheus.Gatherer); ok {
		t.gatherer = g
	}
	return t
}

// Gatherer returns the registry metrics were registered on, if it can be
// gathered (the default registry and prometheus.NewRegistry both can).
func (t *Telemetry) Gatherer() prometheus.Gatherer {
	if t == nil {
		return nil
	}
	return t.gatherer
}

// Tracer returns the tracer; a no-op tracer for a nil Telemetry.
func (t *Telemetry) Tracer() trace.Tracer {
	if t == nil || t.tracer == nil {
		return noop.NewTracerProvider().Tracer(defaultTracerName)
	}
	return t.tracer
}

// M returns the metrics, or nil for a nil Telemetry.
func (t *Telemetry) M() *Metrics {
	if t == nil {
		return nil
	}
	return t.Metrics
}

// StartRender starts a span for one render pass.
func (t *Telemetry) StartRender(ctx context.Context, tag, id string) (context.Context, trace.Span) {
	return t.Tracer().Start(ctx, "render "+tag,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("quoteboard.component.tag", tag),
			attribute.String("quoteboard.component.id", id),
		),
	)
}

// StartLookup starts a span for an asynchronous lookup.
func (t *Telemetry) StartLookup(ctx context.Context, kind, key string) (context.Context, trace.Span) {
	return t.Tracer().Start(ctx, "lookup "+kind,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("quoteboard.lookup.kind", kind),
			attribute.String("quoteboard.lookup.key", key),
		),
	)
}

// EndSpan records err (if any) on span and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// Metrics holds the Prometheus collectors.
type Metrics struct {
	rendersTotal     *prometheus.CounterVec
	renderDuration   *prometheus.HistogramVec
	deliveriesTotal  *prometheus.CounterVec
	lookupsTotal     *prometheus.CounterVec
	lookupDuration   *prometheus.HistogramVec
	dispatchDropped  prometheus.Counter
	mountedComponent prometheus.Gauge
}

func newMetrics(config Config) *Metrics {
	factory := promauto.With(config.Registry)

	return &Metrics{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of component render passes",
			ConstLabels: config.ConstLabels,
		}, []string{"tag", "status"}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Render pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"tag"}),

		deliveriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "channel_deliveries_total",
			Help:        "Total number of channel subscriber invocations",
			ConstLabels: config.ConstLabels,
		}, []string{"channel", "status"}),

		lookupsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "lookups_total",
			Help:        "Total number of asynchronous lookups",
			ConstLabels: config.ConstLabels,
		}, []string{"kind", "status"}),

		lookupDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "lookup_duration_seconds",
			Help:        "Lookup duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"kind"}),

		dispatchDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_dropped_total",
			Help:        "Host turns dropped because the dispatch queue was full",
			ConstLabels: config.ConstLabels,
		}),

		mountedComponent: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mounted_components",
			Help:        "Number of currently mounted components",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// RecordRender records a render pass.
func (m *Metrics) RecordRender(tag string, seconds float64, err error) {
	if m == nil {
		return
	}
	m.renderDuration.WithLabelValues(tag).Observe(seconds)
	m.rendersTotal.WithLabelValues(tag, status(err)).Inc()
}

// RecordDelivery records one subscriber invocation.
func (m *Metrics) RecordDelivery(channel string, err error) {
	if m == nil {
		return
	}
	m.deliveriesTotal.WithLabelValues(channel, status(err)).Inc()
}

// RecordLookup records a finished lookup. outcome is a low-cardinality
// label such as "ok", "not_found", "timeout" or "error".
func (m *Metrics) RecordLookup(kind, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.lookupDuration.WithLabelValues(kind).Observe(seconds)
	m.lookupsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordDispatchDropped records a dropped host turn.
func (m *Metrics) RecordDispatchDropped() {
	if m == nil {
		return
	}
	m.dispatchDropped.Inc()
}

// RecordMount records a component mount.
func (m *Metrics) RecordMount() {
	if m == nil {
		return
	}
	m.mountedComponent.Inc()
}

// RecordUnmount records a component unmount.
func (m *Metrics) RecordUnmount() {
	if m == nil {
		return
	}
	m.mountedComponent.Dec()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
