package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/emiliopalmerini/mtrack/internal/ports"
)

const (
	serviceName    = "mtrack"
	serviceVersion = "1.0.0"
)

// Exporter exports tracking metrics to an OTEL Collector.
type Exporter struct {
	provider      *sdkmetric.MeterProvider
	entriesTotal  metric.Int64Counter
	minutesTotal  metric.Int64Counter
	timerFinishes metric.Int64Counter
	timerElapsed  metric.Float64Histogram
}

// NewExporter creates an exporter that pushes over OTLP/gRPC.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	return newExporter(ctx, sdkmetric.NewPeriodicReader(exp))
}

// newExporter wires the instruments to a reader. Tests pass a manual reader.
func newExporter(ctx context.Context, reader sdkmetric.Reader) (*Exporter, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	entriesTotal, err := meter.Int64Counter(
		"mtrack_entries_total",
		metric.WithDescription("Total number of time entries created"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating entries counter: %w", err)
	}

	minutesTotal, err := meter.Int64Counter(
		"mtrack_minutes_total",
		metric.WithDescription("Total minutes logged"),
		metric.WithUnit("min"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating minutes counter: %w", err)
	}

	timerFinishes, err := meter.Int64Counter(
		"mtrack_timer_finishes_total",
		metric.WithDescription("Total number of finished timers"),
		metric.WithUnit("{timer}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating timer counter: %w", err)
	}

	timerElapsed, err := meter.Float64Histogram(
		"mtrack_timer_elapsed_seconds",
		metric.WithDescription("Elapsed seconds of finished timers"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating timer histogram: %w", err)
	}

	return &Exporter{
		provider:      provider,
		entriesTotal:  entriesTotal,
		minutesTotal:  minutesTotal,
		timerFinishes: timerFinishes,
		timerElapsed:  timerElapsed,
	}, nil
}

// ExportEntry records a created entry.
func (e *Exporter) ExportEntry(ctx context.Context, m *ports.EntryMetrics) error {
	opt := metric.WithAttributes(
		attribute.String("user_id", m.UserID),
		attribute.String("project", m.Project),
		attribute.String("source", m.Source),
	)

	e.entriesTotal.Add(ctx, 1, opt)
	e.minutesTotal.Add(ctx, int64(m.Minutes), opt)
	return nil
}

// ExportTimerFinish records a finished timer.
func (e *Exporter) ExportTimerFinish(ctx context.Context, m *ports.TimerMetrics) error {
	opt := metric.WithAttributes(
		attribute.String("user_id", m.UserID),
		attribute.String("project", m.Project),
		attribute.Bool("recorded", m.Recorded),
	)

	e.timerFinishes.Add(ctx, 1, opt)
	e.timerElapsed.Record(ctx, float64(m.ElapsedSeconds), opt)
	return nil
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
