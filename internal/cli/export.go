package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/mtrack/internal/aggregation"
	"github.com/emiliopalmerini/mtrack/internal/report"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a month of entries",
	Long: `Export the entries of a month as a text report, JSON or CSV.

The text report lists project totals and then the entries of each day.
With --save the report is written to TimeTracker_<Month>_<Year>.txt in the
current directory.

Examples:
  mtrack export                          # This month's report to stdout
  mtrack export --month 2024-03 --save   # Write TimeTracker_March_2024.txt
  mtrack export --format csv -o march.csv`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

// Flags
var (
	exportFormat string
	exportOutput string
	exportMonth  string
	exportSave   bool
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", report.FormatText, "Output format: text, json, csv")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
	exportCmd.Flags().BoolVar(&exportSave, "save", false, "Write the report to its suggested file name")
	exportCmd.Flags().StringVar(&exportMonth, "month", "", "Month YYYY-MM (default: this month)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	user, err := app.CurrentUser(ctx)
	if err != nil {
		return err
	}

	view, err := newViewState(app.Clock.Now(), "", exportMonth)
	if err != nil {
		return err
	}

	entries, err := app.Ledger.Entries(ctx, user.ID)
	if err != nil {
		return err
	}

	path := exportOutput
	if exportSave && path == "" {
		path = report.FileName(view.Year(), view.Month())
	}

	var output io.Writer = cmd.OutOrStdout()
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		output = f
	}

	inMonth := aggregation.InBounds(entries, aggregation.MonthBounds(view.Year(), view.Month()))
	switch exportFormat {
	case report.FormatText:
		if _, err := io.WriteString(output, report.Month(entries, view.Year(), view.Month())+"\n"); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	case report.FormatJSON:
		err = report.WriteJSON(output, inMonth)
	case report.FormatCSV:
		err = report.WriteCSV(output, inMonth)
	default:
		return fmt.Errorf("unsupported format: %s (use text, json or csv)", exportFormat)
	}
	if err != nil {
		return err
	}

	if path != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d entries to %s\n", len(inMonth), path)
	}
	return nil
}
