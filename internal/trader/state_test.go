package trader

import "testing"

func TestState_RunningFlag(t *testing.T) {
	s := NewState()
	if !s.IsRunning() {
		t.Error("new state should be running")
	}
	s.SetRunning(false)
	if s.IsRunning() {
		t.Error("expected paused")
	}
	s.SetRunning(true)
	if !s.IsRunning() {
		t.Error("expected running")
	}
}

func TestState_CycleTracking(t *testing.T) {
	s := NewState()
	if s.Cycles() != 0 {
		t.Errorf("cycles: got %d, want 0", s.Cycles())
	}
	if !s.LastCycle().IsZero() {
		t.Error("last cycle should be zero before any cycle")
	}
	s.MarkCycle()
	s.MarkCycle()
	if s.Cycles() != 2 {
		t.Errorf("cycles: got %d, want 2", s.Cycles())
	}
	if s.LastCycle().IsZero() {
		t.Error("last cycle should be set")
	}
}
