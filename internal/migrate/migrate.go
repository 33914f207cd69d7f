// Package migrate applies the embedded SQL migrations that create the
// collections table.
package migrate

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"slices"
	"strconv"
	"strings"

	"github.com/emiliopalmerini/mtrack/migrations"
)

const (
	upSuffix   = ".up.sql"
	downSuffix = ".down.sql"
)

// Direction selects which script of a migration runs.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Migration is one numbered schema change with its up and down scripts.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

func (m Migration) script(dir Direction) string {
	if dir == Down {
		return m.DownSQL
	}
	return m.UpSQL
}

func (m Migration) String() string {
	return fmt.Sprintf("%03d_%s", m.Version, m.Name)
}

// EnsureMigrationsTable creates the schema_migrations table if needed.
func EnsureMigrationsTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			dirty INTEGER NOT NULL DEFAULT 0
		)
	`)
	return err
}

// GetCurrentVersion returns the applied version and whether the last
// migration was interrupted. An empty table is version 0.
func GetCurrentVersion(ctx context.Context, db *sql.DB) (int, bool, error) {
	var version int
	var dirty bool

	row := db.QueryRowContext(ctx, `SELECT version, dirty FROM schema_migrations ORDER BY version DESC LIMIT 1`)
	switch err := row.Scan(&version, &dirty); {
	case errors.Is(err, sql.ErrNoRows):
		return 0, false, nil
	case err != nil:
		return 0, false, err
	}
	return version, dirty, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// setVersion replaces the single bookkeeping row. Version 0 leaves the
// table empty.
func setVersion(ctx context.Context, db execer, version int, dirty bool) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM schema_migrations`); err != nil {
		return err
	}
	if version == 0 {
		return nil
	}
	flag := 0
	if dirty {
		flag = 1
	}
	_, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version, dirty) VALUES (?, ?)`, version, flag)
	return err
}

// LoadMigrations reads the embedded scripts ordered by version. A missing
// down script leaves DownSQL empty.
func LoadMigrations() ([]Migration, error) {
	ups, err := fs.Glob(migrations.FS, "*"+upSuffix)
	if err != nil {
		return nil, err
	}

	result := make([]Migration, 0, len(ups))
	for _, path := range ups {
		base := strings.TrimSuffix(path, upSuffix)
		num, name, ok := strings.Cut(base, "_")
		if !ok {
			return nil, fmt.Errorf("migration %s: expected <version>_<name>%s", path, upSuffix)
		}
		version, err := strconv.Atoi(num)
		if err != nil || version <= 0 {
			return nil, fmt.Errorf("migration %s: invalid version %q", path, num)
		}

		up, err := fs.ReadFile(migrations.FS, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		down, err := fs.ReadFile(migrations.FS, base+downSuffix)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", base+downSuffix, err)
		}

		result = append(result, Migration{Version: version, Name: name, UpSQL: string(up), DownSQL: string(down)})
	}

	slices.SortFunc(result, func(a, b Migration) int { return cmp.Compare(a.Version, b.Version) })
	for i := 1; i < len(result); i++ {
		if result[i].Version == result[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", result[i].Version)
		}
	}
	return result, nil
}

// RunMigration applies one script inside a transaction. The version is
// marked dirty first so an interrupted run is detected by Prepare.
func RunMigration(ctx context.Context, db *sql.DB, w io.Writer, m Migration, dir Direction) error {
	fmt.Fprintf(w, "  %s %s\n", dir, m)

	if err := setVersion(ctx, db, m.Version, true); err != nil {
		return fmt.Errorf("failed to set dirty flag: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration %s: %w", m, err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range SplitSQL(m.script(dir)) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %s %s: %w\nSQL: %s", m, dir, err, stmt)
		}
	}

	target := m.Version
	if dir == Down {
		target = m.Version - 1
	}
	if err := setVersion(ctx, tx, target, false); err != nil {
		return fmt.Errorf("failed to clear dirty flag: %w", err)
	}
	return tx.Commit()
}

// SplitSQL splits a script into statements, dropping empty ones and
// full-line "--" comments.
func SplitSQL(script string) []string {
	var lines []string
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		lines = append(lines, line)
	}

	var stmts []string
	for _, stmt := range strings.Split(strings.Join(lines, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// MigrateUpTo applies pending migrations up to targetVersion and returns
// how many ran. A negative target applies all of them.
func MigrateUpTo(ctx context.Context, db *sql.DB, w io.Writer, all []Migration, currentVersion, targetVersion int) (int, error) {
	count := 0
	for _, m := range all {
		if m.Version <= currentVersion {
			continue
		}
		if targetVersion >= 0 && m.Version > targetVersion {
			break
		}
		if err := RunMigration(ctx, db, w, m, Up); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// MigrateDownTo reverts applied migrations newest first until
// targetVersion is reached.
func MigrateDownTo(ctx context.Context, db *sql.DB, w io.Writer, all []Migration, currentVersion, targetVersion int) error {
	for _, m := range slices.Backward(all) {
		if m.Version > currentVersion {
			continue
		}
		if m.Version <= targetVersion {
			break
		}
		if strings.TrimSpace(m.DownSQL) == "" {
			return fmt.Errorf("no down migration for %s", m)
		}
		if err := RunMigration(ctx, db, w, m, Down); err != nil {
			return err
		}
	}
	return nil
}

// Prepare ensures the bookkeeping table exists, refuses a dirty database
// and returns the current version with the embedded migrations.
func Prepare(ctx context.Context, db *sql.DB) (int, []Migration, error) {
	if err := EnsureMigrationsTable(ctx, db); err != nil {
		return 0, nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	current, dirty, err := GetCurrentVersion(ctx, db)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to get current version: %w", err)
	}
	if dirty {
		return 0, nil, fmt.Errorf("database is in dirty state at version %d", current)
	}

	all, err := LoadMigrations()
	if err != nil {
		return 0, nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	return current, all, nil
}

// RunAll applies every pending migration.
func RunAll(ctx context.Context, db *sql.DB) error {
	current, all, err := Prepare(ctx, db)
	if err != nil {
		return err
	}
	_, err = MigrateUpTo(ctx, db, io.Discard, all, current, -1)
	return err
}
