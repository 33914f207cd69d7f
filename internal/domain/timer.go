package domain

import "time"

// TimerStatus is the state of one project's timer as seen by callers.
type TimerStatus string

const (
	TimerAbsent  TimerStatus = "absent"
	TimerRunning TimerStatus = "running"
	TimerPaused  TimerStatus = "paused"
)

// TimerState is the persisted stopwatch of one project.
type TimerState struct {
	StartTime      time.Time `json:"startTime"`
	LastUpdated    time.Time `json:"lastUpdated"`
	ElapsedSeconds int64     `json:"elapsedSeconds"`
	IsRunning      bool      `json:"isRunning"`
}

// Status returns running or paused; a missing timer is TimerAbsent.
func (s TimerState) Status() TimerStatus {
	if s.IsRunning {
		return TimerRunning
	}
	return TimerPaused
}

// Elapsed returns the live elapsed seconds at now without mutating the state.
func (s TimerState) Elapsed(now time.Time) int64 {
	if !s.IsRunning {
		return s.ElapsedSeconds
	}
	return s.ElapsedSeconds + SecondsBetween(s.LastUpdated, now)
}

// SecondsBetween returns the whole seconds from a to b, never negative.
func SecondsBetween(a, b time.Time) int64 {
	d := b.Sub(a)
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}

// Timers maps project names to their timer state for one user.
type Timers map[string]TimerState

// Running returns the project whose timer is running, if any.
func (t Timers) Running() (string, bool) {
	for project, state := range t {
		if state.IsRunning {
			return project, true
		}
	}
	return "", false
}
