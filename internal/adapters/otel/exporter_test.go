package otel

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/emiliopalmerini/mtrack/internal/ports"
)

func TestNewExporter_Disabled(t *testing.T) {
	if _, err := NewExporter(context.Background(), Config{Enabled: false}); err == nil {
		t.Error("expected error for disabled exporter")
	}
	if _, err := NewExporter(context.Background(), Config{Enabled: true}); err == nil {
		t.Error("expected error for missing endpoint")
	}
}

func TestExporter_RecordsEntriesAndTimers(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()

	exp, err := newExporter(ctx, reader)
	if err != nil {
		t.Fatalf("newExporter() error: %v", err)
	}
	defer exp.Close(ctx)

	_ = exp.ExportEntry(ctx, &ports.EntryMetrics{UserID: "u1", Project: "X", Minutes: 90, Source: "manual"})
	_ = exp.ExportEntry(ctx, &ports.EntryMetrics{UserID: "u1", Project: "X", Minutes: 30, Source: "manual"})
	_ = exp.ExportTimerFinish(ctx, &ports.TimerMetrics{UserID: "u1", Project: "X", ElapsedSeconds: 45, Recorded: true})

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect() error: %v", err)
	}

	sums := map[string]int64{}
	seen := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			seen[m.Name] = true
			if s, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range s.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}

	if sums["mtrack_entries_total"] != 2 {
		t.Errorf("entries_total = %d, want 2", sums["mtrack_entries_total"])
	}
	if sums["mtrack_minutes_total"] != 120 {
		t.Errorf("minutes_total = %d, want 120", sums["mtrack_minutes_total"])
	}
	if sums["mtrack_timer_finishes_total"] != 1 {
		t.Errorf("timer_finishes_total = %d, want 1", sums["mtrack_timer_finishes_total"])
	}
	if !seen["mtrack_timer_elapsed_seconds"] {
		t.Error("timer histogram not exported")
	}
}
