package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/mtrack/internal/adapters/turso"
	"github.com/emiliopalmerini/mtrack/internal/infrastructure/config"
	"github.com/emiliopalmerini/mtrack/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Run database migrations",
	Long: `Run database migrations.

Without arguments, runs all pending migrations (up).
With a version number, migrates to that specific version (up or down as needed).
Other commands apply pending migrations automatically.

Examples:
  mtrack migrate      # Run all pending migrations
  mtrack migrate 1    # Migrate to version 1
  mtrack migrate 0    # Rollback all migrations`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{skipApp: "true"},
	RunE:        runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := turso.NewDB(cfg.Database.URL, cfg.Database.AuthToken, turso.Options{Ping: true})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	currentVersion, allMigrations, err := migrate.Prepare(ctx, db)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Current version: %d\n", currentVersion)

	if len(args) == 0 {
		fmt.Fprintln(out, "Running all pending migrations...")
		count, err := migrate.MigrateUpTo(ctx, db, out, allMigrations, currentVersion, -1)
		if err != nil {
			return err
		}
		if count == 0 {
			fmt.Fprintln(out, "No migrations to run")
			return nil
		}
		newVersion, _, _ := migrate.GetCurrentVersion(ctx, db)
		fmt.Fprintf(out, "Migrated to version %d (%d migrations applied)\n", newVersion, count)
		return nil
	}

	targetVersion, err := strconv.Atoi(args[0])
	if err != nil || targetVersion < 0 {
		return fmt.Errorf("invalid version number: %s", args[0])
	}

	switch {
	case targetVersion > currentVersion:
		fmt.Fprintf(out, "Migrating up to version %d...\n", targetVersion)
		if _, err := migrate.MigrateUpTo(ctx, db, out, allMigrations, currentVersion, targetVersion); err != nil {
			return err
		}
	case targetVersion < currentVersion:
		fmt.Fprintf(out, "Migrating down to version %d...\n", targetVersion)
		if err := migrate.MigrateDownTo(ctx, db, out, allMigrations, currentVersion, targetVersion); err != nil {
			return err
		}
	default:
		fmt.Fprintln(out, "Already at target version")
		return nil
	}

	fmt.Fprintf(out, "Migrated to version %d\n", targetVersion)
	return nil
}
