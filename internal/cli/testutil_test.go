package cli

import (
	"bytes"
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	_ "github.com/tursodatabase/go-libsql"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/mtrack/internal/adapters/memory"
	"github.com/emiliopalmerini/mtrack/internal/adapters/otel"
	"github.com/emiliopalmerini/mtrack/internal/adapters/turso"
	"github.com/emiliopalmerini/mtrack/internal/migrate"
	"github.com/emiliopalmerini/mtrack/internal/ports"
)

// testNow is a Friday.
var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

// testDBType specifies which store backs the commands under test.
type testDBType int

const (
	// DBTypeMemory uses the in-process map store (fast, for most tests)
	DBTypeMemory testDBType = iota
	// DBTypeTurso uses an in-memory libsql database with migrations applied
	DBTypeTurso
)

// testDB creates an in-memory libsql database with all migrations applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("libsql", "file::memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrate.RunAll(context.Background(), db); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// testApp installs an AppContext for the commands to use and returns its
// fake clock.
func testApp(t *testing.T, dbType testDBType) *clockwork.FakeClock {
	t.Helper()

	var store ports.KVStore = memory.NewKVStore()
	if dbType == DBTypeTurso {
		store = turso.NewKVStore(testDB(t))
	}

	clock := clockwork.NewFakeClockAt(testNow)
	app = NewAppContextWithStore(store, clock, zap.NewNop(), otel.NewNoOpExporter())
	ownsApp = false
	t.Cleanup(func() {
		app = nil
		ownsApp = false
	})
	return clock
}

// resetFlags restores every flag to its default. Flag values live in
// package globals and would otherwise leak between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the root command with args and returns its combined output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()

	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("mtrack %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

// loginAs registers an account and logs it in.
func loginAs(t *testing.T, name, email string) string {
	t.Helper()

	mustRun(t, "register", "--name", name, "--email", email, "--password", "pw", "--confirm", "pw")
	mustRun(t, "login", "--email", email, "--password", "pw")

	user, err := app.Identity.Current(context.Background())
	if err != nil {
		t.Fatalf("Failed to read session: %v", err)
	}
	return user.ID
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}
