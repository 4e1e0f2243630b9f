// Package observability provides OpenTelemetry integration and audit
// logging for harness runs.
package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// TelemetryConfig configures telemetry.
type TelemetryConfig struct {
	// ServiceName is the service name for tracing.
	ServiceName string

	// EnableTracing enables distributed tracing.
	EnableTracing bool

	// EnableMetrics enables metrics collection.
	EnableMetrics bool

	// MetricsPrefix is the prefix for all metrics.
	MetricsPrefix string
}

// DefaultTelemetryConfig returns default configuration.
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		ServiceName:   "runner-utils",
		EnableTracing: true,
		EnableMetrics: true,
		MetricsPrefix: "runner_",
	}
}

// Telemetry records harness runs through OpenTelemetry. It satisfies the
// harness.Telemetry interface.
type Telemetry struct {
	config TelemetryConfig
	tracer trace.Tracer
	meter  metric.Meter

	runCounter     metric.Int64Counter
	runDuration    metric.Float64Histogram
	timeoutCounter metric.Int64Counter
}

// NewTelemetry creates a new telemetry instance.
func NewTelemetry(config TelemetryConfig) (*Telemetry, error) {
	t := &Telemetry{
		config: config,
		tracer: otel.Tracer(config.ServiceName),
		meter:  otel.Meter(config.ServiceName),
	}

	var err error

	t.runCounter, err = t.meter.Int64Counter(
		config.MetricsPrefix+"runs_total",
		metric.WithDescription("Total number of binary runs"),
	)
	if err != nil {
		return nil, err
	}

	t.runDuration, err = t.meter.Float64Histogram(
		config.MetricsPrefix+"run_duration_seconds",
		metric.WithDescription("Duration of binary runs"),
	)
	if err != nil {
		return nil, err
	}

	t.timeoutCounter, err = t.meter.Int64Counter(
		config.MetricsPrefix+"timeouts_total",
		metric.WithDescription("Total number of runs killed after overrunning their deadline"),
	)
	if err != nil {
		return nil, err
	}

	return t, nil
}

// StartSpan starts a new trace span.
func (t *Telemetry) StartSpan(ctx context.Context, name string) (context.Context, func()) {
	if !t.config.EnableTracing {
		return ctx, func() {}
	}

	ctx, span := t.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
	)

	return ctx, func() {
		span.End()
	}
}

// RecordRun records the outcome of a single run.
func (t *Telemetry) RecordRun(binary, kind, status string, duration time.Duration) {
	if !t.config.EnableMetrics {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("binary", binary),
		attribute.String("kind", kind),
		attribute.String("status", status),
	)

	ctx := context.Background()
	t.runCounter.Add(ctx, 1, attrs)
	t.runDuration.Record(ctx, duration.Seconds(), attrs)
	if status == "timeout" {
		t.timeoutCounter.Add(ctx, 1, attrs)
	}
}
