package ports

import (
	"context"
	"time"
)

// MetricsExporter exports tracking metrics to an external observability system.
type MetricsExporter interface {
	// ExportEntry records a newly created time entry.
	ExportEntry(ctx context.Context, m *EntryMetrics) error
	// ExportTimerFinish records a finished timer, whether or not it produced an entry.
	ExportTimerFinish(ctx context.Context, m *TimerMetrics) error
	// Close shuts down the exporter and flushes any pending metrics.
	Close(ctx context.Context) error
}

// EntryMetrics describes a created entry.
type EntryMetrics struct {
	UserID  string
	Project string
	Minutes int
	Source  string // "manual" or "timer"
	At      time.Time
}

// TimerMetrics describes a finished timer.
type TimerMetrics struct {
	UserID         string
	Project        string
	ElapsedSeconds int64
	Recorded       bool
}
