package timer_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/mtrack/internal/adapters/collections"
	"github.com/emiliopalmerini/mtrack/internal/adapters/memory"
	otelexp "github.com/emiliopalmerini/mtrack/internal/adapters/otel"
	"github.com/emiliopalmerini/mtrack/internal/domain"
	"github.com/emiliopalmerini/mtrack/internal/ledger"
	"github.com/emiliopalmerini/mtrack/internal/timer"
)

const userID = "u1"

type fixture struct {
	store  *memory.KVStore
	engine *timer.Engine
	ledger *ledger.Service
	timers *collections.TimerRepository
	clock  *clockwork.FakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewKVStore()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	exporter := otelexp.NewNoOpExporter()

	entries := ledger.NewService(collections.NewLedgerRepository(store), exporter, clock, zap.NewNop())
	timers := collections.NewTimerRepository(store)

	return &fixture{
		store:  store,
		engine: timer.NewEngine(timers, entries, exporter, clock, zap.NewNop()),
		ledger: entries,
		timers: timers,
		clock:  clock,
	}
}

func (f *fixture) entries(t *testing.T) []domain.TimeEntry {
	t.Helper()
	entries, err := f.ledger.Entries(context.Background(), userID)
	require.NoError(t, err)
	return entries
}

func (f *fixture) stored(t *testing.T) domain.Timers {
	t.Helper()
	timers, err := f.timers.Get(context.Background(), userID)
	require.NoError(t, err)
	return timers
}

func TestStart_Fresh(t *testing.T) {
	f := newFixture(t)

	res, err := f.engine.Start(context.Background(), userID, "X")
	require.NoError(t, err)
	assert.True(t, res.State.IsRunning)
	assert.Zero(t, res.State.ElapsedSeconds)
	assert.Empty(t, res.Finished)

	assert.Equal(t, domain.TimerRunning, f.stored(t)["X"].Status())
}

func TestStart_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Start(context.Background(), userID, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStart_DifferentProjectFinishesRunning(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Start(ctx, userID, "A")
	require.NoError(t, err)
	f.clock.Advance(90 * time.Second)

	res, err := f.engine.Start(ctx, userID, "B")
	require.NoError(t, err)
	assert.Equal(t, "A", res.Finished)
	require.NotNil(t, res.Entry)

	entries := f.entries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, "A", entries[0].Project)
	assert.Equal(t, 2, entries[0].TimeSpent)

	timers := f.stored(t)
	require.Len(t, timers, 1)
	assert.True(t, timers["B"].IsRunning)
	assert.Zero(t, timers["B"].ElapsedSeconds)
}

func TestStart_SameProjectIsNoOp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.engine.Start(ctx, userID, "A")
	require.NoError(t, err)
	f.clock.Advance(10 * time.Second)

	again, err := f.engine.Start(ctx, userID, "A")
	require.NoError(t, err)
	assert.True(t, first.State.LastUpdated.Equal(again.State.LastUpdated))
	assert.Empty(t, f.entries(t))
}

func TestSingleRunningTimer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(7))
	projects := []string{"A", "B", "C", "D"}

	for i := 0; i < 50; i++ {
		p := projects[rng.Intn(len(projects))]
		switch rng.Intn(3) {
		case 0, 1:
			_, err := f.engine.Start(ctx, userID, p)
			require.NoError(t, err)
		case 2:
			_, err := f.engine.Pause(ctx, userID, p)
			require.NoError(t, err)
		}
		f.clock.Advance(time.Duration(rng.Intn(120)) * time.Second)

		running := 0
		for _, s := range f.stored(t) {
			if s.IsRunning {
				running++
			}
		}
		require.LessOrEqual(t, running, 1, "step %d", i)
	}
}

func TestPauseResume(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Start(ctx, userID, "X")
	require.NoError(t, err)
	f.clock.Advance(30 * time.Second)

	state, err := f.engine.Pause(ctx, userID, "X")
	require.NoError(t, err)
	assert.False(t, state.IsRunning)
	assert.Equal(t, int64(30), state.ElapsedSeconds)

	f.clock.Advance(time.Hour)
	state, err = f.engine.Pause(ctx, userID, "X")
	require.NoError(t, err)
	assert.Equal(t, int64(30), state.ElapsedSeconds, "pausing a paused timer is a no-op")

	status, elapsed, err := f.engine.Status(ctx, userID, "X")
	require.NoError(t, err)
	assert.Equal(t, domain.TimerPaused, status)
	assert.Equal(t, int64(30), elapsed)

	res, err := f.engine.Start(ctx, userID, "X")
	require.NoError(t, err)
	assert.Equal(t, int64(30), res.State.ElapsedSeconds)
	f.clock.Advance(20 * time.Second)

	status, elapsed, err = f.engine.Status(ctx, userID, "X")
	require.NoError(t, err)
	assert.Equal(t, domain.TimerRunning, status)
	assert.Equal(t, int64(50), elapsed)

	entry, err := f.engine.Finish(ctx, userID, "X")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 1, entry.TimeSpent)
}

func TestPause_Absent(t *testing.T) {
	f := newFixture(t)

	state, err := f.engine.Pause(context.Background(), userID, "nope")
	require.NoError(t, err)
	assert.Equal(t, domain.TimerState{}, state)
	assert.Empty(t, f.stored(t))
}

func TestFinish_Thresholds(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{"zero seconds creates nothing", 0, 0},
		{"one second rounds up", time.Second, 1},
		{"forty-five seconds", 45 * time.Second, 1},
		{"exactly a minute", time.Minute, 1},
		{"one past a minute", 61 * time.Second, 2},
		{"an hour", time.Hour, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()

			_, err := f.engine.Start(ctx, userID, "X")
			require.NoError(t, err)
			f.clock.Advance(tt.elapsed)

			entry, err := f.engine.Finish(ctx, userID, "X")
			require.NoError(t, err)
			assert.Empty(t, f.stored(t), "timer is removed in every case")

			if tt.want == 0 {
				assert.Nil(t, entry)
				assert.Empty(t, f.entries(t))
				return
			}

			require.NotNil(t, entry)
			assert.Equal(t, tt.want, entry.TimeSpent)
			assert.Equal(t, "2024-03-01", entry.Date)
			assert.Equal(t, f.clock.Now().Format(domain.ClockLayout), entry.EndTime)
			assert.Len(t, f.entries(t), 1)
		})
	}
}

func TestFinish_Absent(t *testing.T) {
	f := newFixture(t)

	entry, err := f.engine.Finish(context.Background(), userID, "nope")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestFinish_Paused(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Start(ctx, userID, "X")
	require.NoError(t, err)
	f.clock.Advance(125 * time.Second)
	_, err = f.engine.Pause(ctx, userID, "X")
	require.NoError(t, err)
	f.clock.Advance(time.Hour)

	entry, err := f.engine.Finish(ctx, userID, "X")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 3, entry.TimeSpent)
}

func TestLoad_Reconciliation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	now := f.clock.Now()
	require.NoError(t, f.timers.Save(ctx, userID, domain.Timers{
		"running": {StartTime: now.Add(-2 * time.Hour), LastUpdated: now.Add(-3600 * time.Second), ElapsedSeconds: 10, IsRunning: true},
		"paused":  {StartTime: now.Add(-2 * time.Hour), LastUpdated: now.Add(-3600 * time.Second), ElapsedSeconds: 20},
	}))

	timers, err := f.engine.Load(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(3610), timers["running"].ElapsedSeconds)
	assert.True(t, timers["running"].LastUpdated.Equal(now))
	assert.Equal(t, int64(20), timers["paused"].ElapsedSeconds)

	stored := f.stored(t)
	assert.Equal(t, int64(3610), stored["running"].ElapsedSeconds, "reconciled state is written back")

	timers, err = f.engine.Load(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(3610), timers["running"].ElapsedSeconds, "reloading without elapsed time adds nothing")
}

func TestStart_TrimsProjectName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Start(ctx, userID, "  X ")
	require.NoError(t, err)
	f.clock.Advance(time.Minute)

	res, err := f.engine.Start(ctx, userID, "X")
	require.NoError(t, err)
	assert.Empty(t, res.Finished)
	assert.Equal(t, []string{"X"}, keys(f.stored(t)))

	status, elapsed, err := f.engine.Status(ctx, userID, " X")
	require.NoError(t, err)
	assert.Equal(t, domain.TimerRunning, status)
	assert.Equal(t, int64(60), elapsed)

	state, err := f.engine.Pause(ctx, userID, "X  ")
	require.NoError(t, err)
	assert.False(t, state.IsRunning)

	entry, err := f.engine.Finish(ctx, userID, " X")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "X", entry.Project)
	assert.Empty(t, f.stored(t))
}

func keys(timers domain.Timers) []string {
	out := make([]string, 0, len(timers))
	for k := range timers {
		out = append(out, k)
	}
	return out
}

var errQuota = errors.New("quota exceeded")

func TestFinish_FailedTimerWriteRecordsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Start(ctx, userID, "A")
	require.NoError(t, err)
	f.clock.Advance(10 * time.Minute)

	f.store.FailKeys = map[string]error{collections.KeyTimers: errQuota}
	_, err = f.engine.Finish(ctx, userID, "A")
	require.ErrorIs(t, err, errQuota)

	assert.Empty(t, f.entries(t))
	assert.True(t, f.stored(t)["A"].IsRunning)

	f.store.FailKeys = nil
	entry, err := f.engine.Finish(ctx, userID, "A")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 10, entry.TimeSpent)
	assert.Len(t, f.entries(t), 1)
	assert.Empty(t, f.stored(t))
}

func TestFinish_FailedEntryWriteRestoresTimer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Start(ctx, userID, "A")
	require.NoError(t, err)
	f.clock.Advance(10 * time.Minute)

	f.store.FailKeys = map[string]error{collections.KeyLedgers: errQuota}
	_, err = f.engine.Finish(ctx, userID, "A")
	require.ErrorIs(t, err, errQuota)

	assert.Empty(t, f.entries(t))
	stored := f.stored(t)
	require.Contains(t, stored, "A")
	assert.True(t, stored["A"].IsRunning)
	assert.Equal(t, int64(600), f.engine.Elapsed(stored["A"]))

	f.store.FailKeys = nil
	entry, err := f.engine.Finish(ctx, userID, "A")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 10, entry.TimeSpent)
	assert.Len(t, f.entries(t), 1)
}

func TestStart_FailedWriteKeepsRunningTimer(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{name: "timers write fails", key: collections.KeyTimers},
		{name: "entry write fails", key: collections.KeyLedgers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()

			_, err := f.engine.Start(ctx, userID, "A")
			require.NoError(t, err)
			f.clock.Advance(10 * time.Minute)

			f.store.FailKeys = map[string]error{tt.key: errQuota}
			_, err = f.engine.Start(ctx, userID, "B")
			require.ErrorIs(t, err, errQuota)

			assert.Empty(t, f.entries(t))
			stored := f.stored(t)
			assert.Equal(t, []string{"A"}, keys(stored))
			assert.True(t, stored["A"].IsRunning)

			f.store.FailKeys = nil
			res, err := f.engine.Start(ctx, userID, "B")
			require.NoError(t, err)
			assert.Equal(t, "A", res.Finished)
			require.NotNil(t, res.Entry)
			assert.Equal(t, 10, res.Entry.TimeSpent)

			entries := f.entries(t)
			require.Len(t, entries, 1)
			assert.Equal(t, "A", entries[0].Project)
			assert.Equal(t, []string{"B"}, keys(f.stored(t)))
		})
	}
}
