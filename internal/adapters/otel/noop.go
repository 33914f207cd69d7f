package otel

import (
	"context"

	"github.com/emiliopalmerini/mtrack/internal/ports"
)

// NoOpExporter is a metrics exporter that does nothing.
type NoOpExporter struct{}

// NewNoOpExporter creates a new no-op exporter for graceful degradation.
func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (e *NoOpExporter) ExportEntry(ctx context.Context, m *ports.EntryMetrics) error {
	return nil
}

func (e *NoOpExporter) ExportTimerFinish(ctx context.Context, m *ports.TimerMetrics) error {
	return nil
}

func (e *NoOpExporter) Close(ctx context.Context) error {
	return nil
}
