package timer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/emiliopalmerini/mtrack/internal/domain"
)

// tickInterval is how often a running display re-renders.
const tickInterval = time.Second

// RenderFunc receives the live elapsed seconds of a timer.
type RenderFunc func(elapsedSeconds int64)

// Display is a running periodic render of one timer. It ends when the timer
// is paused or finished through the engine, when it is found not running, or
// when its context is cancelled. No render happens once Stop returns or Done
// is closed.
type Display struct {
	key    string
	state  domain.TimerState
	render RenderFunc
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	stopped bool
}

// Done is closed when the display has ended.
func (d *Display) Done() <-chan struct{} {
	return d.done
}

// Stop ends the display. It is safe to call more than once.
func (d *Display) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
	d.cancel()
}

func (d *Display) draw(elapsed int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return false
	}
	d.render(elapsed)
	return true
}

// Display renders the project's timer immediately and then once per second
// while it runs. A timer that is not running is rendered once and the
// returned display is already done.
func (e *Engine) Display(ctx context.Context, userID, project string, render RenderFunc) (*Display, error) {
	project = strings.TrimSpace(project)

	e.mu.Lock()
	defer e.mu.Unlock()

	timers, err := e.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load timers: %w", err)
	}
	state := timers[project]

	ctx, cancel := context.WithCancel(ctx)
	d := &Display{
		key:    displayKey(userID, project),
		state:  state,
		render: render,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	d.draw(state.Elapsed(e.clock.Now()))
	if !state.IsRunning {
		d.Stop()
		close(d.done)
		return d, nil
	}

	if prev, ok := e.displays[d.key]; ok {
		prev.Stop()
	}
	e.displays[d.key] = d

	ticker := e.clock.NewTicker(tickInterval)
	go e.runDisplay(ctx, d, ticker)
	return d, nil
}

func (e *Engine) runDisplay(ctx context.Context, d *Display, ticker clockwork.Ticker) {
	defer func() {
		ticker.Stop()
		d.Stop()

		e.mu.Lock()
		if e.displays[d.key] == d {
			delete(e.displays, d.key)
		}
		e.mu.Unlock()

		close(d.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if !d.draw(d.state.Elapsed(e.clock.Now())) {
				return
			}
		}
	}
}

// stopDisplay ends the display of a timer that is no longer running. The
// caller holds e.mu.
func (e *Engine) stopDisplay(userID, project string) {
	key := displayKey(userID, project)
	if d, ok := e.displays[key]; ok {
		d.Stop()
		delete(e.displays, key)
	}
}

func displayKey(userID, project string) string {
	return userID + "\x00" + project
}
