// Package timer implements the per-project stopwatch on top of the ledger.
// A user has at most one running timer; finishing a timer turns its elapsed
// time into a ledger entry.
package timer

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/mtrack/internal/domain"
	"github.com/emiliopalmerini/mtrack/internal/ports"
)

// EntryCreator records the entry produced by a finished timer.
type EntryCreator interface {
	CreateFromTimer(ctx context.Context, userID string, in domain.EntryInput) (domain.TimeEntry, error)
}

// Engine drives timer state transitions. All transitions hold mu, so the
// display tick never observes a half-applied change.
type Engine struct {
	repo     ports.TimerRepository
	entries  EntryCreator
	exporter ports.MetricsExporter
	clock    clockwork.Clock
	logger   *zap.Logger

	mu       sync.Mutex
	displays map[string]*Display
}

// NewEngine creates a new timer engine.
func NewEngine(repo ports.TimerRepository, entries EntryCreator, exporter ports.MetricsExporter, clock clockwork.Clock, logger *zap.Logger) *Engine {
	return &Engine{
		repo:     repo,
		entries:  entries,
		exporter: exporter,
		clock:    clock,
		logger:   logger,
		displays: make(map[string]*Display),
	}
}

// StartResult describes the outcome of Start.
type StartResult struct {
	State domain.TimerState
	// Finished is the project whose running timer was finished to make room,
	// and Entry the entry it produced, if any.
	Finished string
	Entry    *domain.TimeEntry
}

// Start runs the project's timer. A different running timer is finished
// first; a paused timer resumes; an absent one starts from zero.
func (e *Engine) Start(ctx context.Context, userID, project string) (StartResult, error) {
	project = strings.TrimSpace(project)
	if project == "" {
		return StartResult{}, domain.NewValidationError("project", "Please enter a project name")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	timers, err := e.repo.Get(ctx, userID)
	if err != nil {
		return StartResult{}, fmt.Errorf("failed to load timers: %w", err)
	}
	original := maps.Clone(timers)
	now := e.clock.Now()

	var done *finished
	if running, ok := timers.Running(); ok && running != project {
		f := detach(timers, running, now)
		done = &f
	}

	changed := true
	state, exists := timers[project]
	switch {
	case exists && state.IsRunning:
		changed = done != nil
	case exists:
		state.IsRunning = true
		state.LastUpdated = now
	default:
		state = domain.TimerState{StartTime: now, LastUpdated: now, IsRunning: true}
	}
	timers[project] = state

	if err := e.save(ctx, userID, timers, changed); err != nil {
		return StartResult{}, err
	}

	result := StartResult{State: state}
	if done != nil {
		entry, err := e.record(ctx, userID, *done, original)
		if err != nil {
			return StartResult{}, err
		}
		result.Finished = done.project
		result.Entry = entry
	}

	e.logger.Debug("timer started",
		zap.String("user_id", userID),
		zap.String("project", project),
		zap.Int64("elapsed_seconds", state.ElapsedSeconds),
	)
	return result, nil
}

// Pause stops a running timer and banks its elapsed seconds. It is a no-op
// for paused and absent timers.
func (e *Engine) Pause(ctx context.Context, userID, project string) (domain.TimerState, error) {
	project = strings.TrimSpace(project)

	e.mu.Lock()
	defer e.mu.Unlock()

	timers, err := e.repo.Get(ctx, userID)
	if err != nil {
		return domain.TimerState{}, fmt.Errorf("failed to load timers: %w", err)
	}

	state, ok := timers[project]
	if !ok || !state.IsRunning {
		return state, nil
	}

	timers[project] = pause(state, e.clock.Now())
	if err := e.save(ctx, userID, timers, true); err != nil {
		return domain.TimerState{}, err
	}
	e.stopDisplay(userID, project)

	e.logger.Debug("timer paused", zap.String("user_id", userID), zap.String("project", project))
	return timers[project], nil
}

// Finish stops the timer and records ceil(elapsed/60) minutes in the ledger.
// Zero elapsed seconds produce no entry. The timer is removed either way;
// finishing an absent timer returns nil.
func (e *Engine) Finish(ctx context.Context, userID, project string) (*domain.TimeEntry, error) {
	project = strings.TrimSpace(project)

	e.mu.Lock()
	defer e.mu.Unlock()

	timers, err := e.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load timers: %w", err)
	}
	if _, ok := timers[project]; !ok {
		return nil, nil
	}
	original := maps.Clone(timers)

	f := detach(timers, project, e.clock.Now())
	if err := e.save(ctx, userID, timers, true); err != nil {
		return nil, err
	}
	return e.record(ctx, userID, f, original)
}

// finished is a timer taken out of the user's timers whose entry is not
// recorded yet.
type finished struct {
	project string
	state   domain.TimerState
	minutes int
	at      time.Time
}

// detach pauses project's timer at now and removes it from timers.
func detach(timers domain.Timers, project string, now time.Time) finished {
	state := timers[project]
	if state.IsRunning {
		state = pause(state, now)
	}
	delete(timers, project)

	return finished{
		project: project,
		state:   state,
		minutes: int((state.ElapsedSeconds + 59) / 60),
		at:      now,
	}
}

// record writes the entry of a detached timer. The timers without it must
// already be saved; if the entry cannot be written, original is saved back
// so neither collection changes.
func (e *Engine) record(ctx context.Context, userID string, f finished, original domain.Timers) (*domain.TimeEntry, error) {
	var entry *domain.TimeEntry
	if f.minutes > 0 {
		start, end := domain.SyntheticWindow(f.at, f.minutes)
		created, err := e.entries.CreateFromTimer(ctx, userID, domain.EntryInput{
			Project:   f.project,
			Date:      domain.DateOf(f.at),
			StartTime: start,
			EndTime:   end,
			Minutes:   f.minutes,
		})
		if err != nil {
			err = fmt.Errorf("failed to record timer entry: %w", err)
			if rerr := e.repo.Save(ctx, userID, original); rerr != nil {
				return nil, errors.Join(err, fmt.Errorf("failed to restore timers: %w", rerr))
			}
			return nil, err
		}
		entry = &created
	}

	e.stopDisplay(userID, f.project)

	if err := e.exporter.ExportTimerFinish(ctx, &ports.TimerMetrics{
		UserID:         userID,
		Project:        f.project,
		ElapsedSeconds: f.state.ElapsedSeconds,
		Recorded:       entry != nil,
	}); err != nil {
		e.logger.Warn("failed to export timer metrics", zap.Error(err))
	}

	e.logger.Debug("timer finished",
		zap.String("user_id", userID),
		zap.String("project", f.project),
		zap.Int64("elapsed_seconds", f.state.ElapsedSeconds),
		zap.Int("minutes", f.minutes),
	)
	return entry, nil
}

// Load reconciles the user's timers: every running timer absorbs the time
// elapsed since its last update, and the result is written back.
func (e *Engine) Load(ctx context.Context, userID string) (domain.Timers, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	timers, err := e.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load timers: %w", err)
	}

	now := e.clock.Now()
	changed := false
	for project, state := range timers {
		if !state.IsRunning {
			continue
		}
		state.ElapsedSeconds += domain.SecondsBetween(state.LastUpdated, now)
		state.LastUpdated = now
		timers[project] = state
		changed = true
	}

	if err := e.save(ctx, userID, timers, changed); err != nil {
		return nil, err
	}
	return timers, nil
}

// Timers returns the stored timers without reconciling them.
func (e *Engine) Timers(ctx context.Context, userID string) (domain.Timers, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	timers, err := e.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load timers: %w", err)
	}
	return timers, nil
}

// Status returns the state of one project's timer and its live elapsed
// seconds.
func (e *Engine) Status(ctx context.Context, userID, project string) (domain.TimerStatus, int64, error) {
	project = strings.TrimSpace(project)
	timers, err := e.Timers(ctx, userID)
	if err != nil {
		return domain.TimerAbsent, 0, err
	}
	state, ok := timers[project]
	if !ok {
		return domain.TimerAbsent, 0, nil
	}
	return state.Status(), e.Elapsed(state), nil
}

// Elapsed returns the live elapsed seconds of state now.
func (e *Engine) Elapsed(state domain.TimerState) int64 {
	return state.Elapsed(e.clock.Now())
}

func (e *Engine) save(ctx context.Context, userID string, timers domain.Timers, changed bool) error {
	if !changed {
		return nil
	}
	if err := e.repo.Save(ctx, userID, timers); err != nil {
		return fmt.Errorf("failed to save timers: %w", err)
	}
	return nil
}

func pause(state domain.TimerState, now time.Time) domain.TimerState {
	state.ElapsedSeconds += domain.SecondsBetween(state.LastUpdated, now)
	state.LastUpdated = now
	state.IsRunning = false
	return state
}
