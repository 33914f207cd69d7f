package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/emiliopalmerini/mtrack/internal/domain"
)

// Export formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ExportEntry is the flat export shape of a TimeEntry.
type ExportEntry struct {
	ID        string `json:"id"`
	Project   string `json:"project"`
	Date      string `json:"date"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
	Minutes   int    `json:"minutes"`
	CreatedAt string `json:"created_at"`
}

func toExport(entries []domain.TimeEntry) []ExportEntry {
	out := make([]ExportEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, ExportEntry{
			ID:        e.ID,
			Project:   e.Project,
			Date:      e.Date,
			StartTime: e.StartTime,
			EndTime:   e.EndTime,
			Minutes:   e.TimeSpent,
			CreatedAt: e.Timestamp.Format(time.RFC3339),
		})
	}
	return out
}

// WriteJSON writes entries as an indented JSON array.
func WriteJSON(w io.Writer, entries []domain.TimeEntry) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(toExport(entries)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// WriteCSV writes entries as CSV with a header row.
func WriteCSV(w io.Writer, entries []domain.TimeEntry) error {
	writer := csv.NewWriter(w)

	header := []string{"id", "project", "date", "start_time", "end_time", "minutes", "created_at"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, e := range toExport(entries) {
		row := []string{
			e.ID, e.Project, e.Date, e.StartTime, e.EndTime,
			strconv.Itoa(e.Minutes), e.CreatedAt,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
