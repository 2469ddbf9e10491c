package trader

import (
	"sync/atomic"
	"time"
)

// State is the runtime state shared between the trading loop and the
// Telegram command listener. The running flag is the pause/resume switch;
// the cycle counters exist so /status can answer without touching the loop.
// Everything here is atomic; no other mutable state crosses the goroutine
// boundary.
type State struct {
	running   atomic.Bool
	cycles    atomic.Int64
	lastCycle atomic.Int64 // unix seconds, 0 until the first cycle
}

// NewState returns a State with the loop enabled.
func NewState() *State {
	s := &State{}
	s.running.Store(true)
	return s
}

// SetRunning toggles the trading loop.
func (s *State) SetRunning(v bool) { s.running.Store(v) }

// IsRunning reports whether the trading loop is active.
func (s *State) IsRunning() bool { return s.running.Load() }

// MarkCycle records a completed cycle.
func (s *State) MarkCycle() {
	s.cycles.Add(1)
	s.lastCycle.Store(time.Now().Unix())
}

// Cycles returns how many cycles have completed.
func (s *State) Cycles() int { return int(s.cycles.Load()) }

// LastCycle returns when the last cycle completed, zero if none has.
func (s *State) LastCycle() time.Time {
	ts := s.lastCycle.Load()
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0)
}
