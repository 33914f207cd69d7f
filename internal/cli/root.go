package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// app is opened before every command that needs it. Tests set it up front.
var app *AppContext

var ownsApp bool

// skipApp marks commands that manage their own database connection.
const skipApp = "skip-app"

var rootCmd = &cobra.Command{
	Use:   "mtrack",
	Short: "Personal and team time tracking",
	Long: `mtrack records time entries against projects, runs stopwatch timers
and summarises where the time went.

Data lives in a local libsql database by default; set MTRACK_DATABASE_URL
and MTRACK_AUTH_TOKEN to use a remote Turso database instead.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: openApp,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if !ownsApp || app == nil {
			return nil
		}
		err := app.Close(cmd.Context())
		app = nil
		ownsApp = false
		return err
	},
}

func openApp(cmd *cobra.Command, args []string) error {
	if app != nil || cmd.Annotations[skipApp] == "true" {
		return nil
	}
	a, err := NewAppContext(cmd.Context())
	if err != nil {
		return err
	}
	app = a
	ownsApp = true
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles().Error.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
