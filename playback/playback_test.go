package playback

import (
	"testing"

	"github.com/elizafairlady/go-timeview/timeline"
)

func newStore(t *testing.T) *timeline.Store {
	t.Helper()
	s := timeline.NewStore(timeline.Config{})
	if err := s.Initialize(0, 100); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return s
}

func TestStepAdvancesBySpeed(t *testing.T) {
	s := newStore(t)
	c := NewController(s)
	c.Play()
	if err := c.SetSpeed(2); err != nil {
		t.Fatalf("SetSpeed: %v", err)
	}
	c.Step(1.5)
	if got := s.State().CurrentTime; got != 3 {
		t.Errorf("CurrentTime = %v, want 3", got)
	}
}

func TestStepWhilePausedIsNoop(t *testing.T) {
	s := newStore(t)
	c := NewController(s)
	c.Step(5)
	if got := s.State().CurrentTime; got != 0 {
		t.Errorf("CurrentTime = %v while paused, want 0", got)
	}
}

func TestStepPausesAtEnd(t *testing.T) {
	s := newStore(t)
	c := NewController(s)
	s.SetCurrentTime(99)
	c.Play()
	ended := false
	c.OnEnd = func() { ended = true }

	c.Step(10)
	if got := s.State().CurrentTime; got != 100 {
		t.Errorf("CurrentTime = %v, want pinned at 100", got)
	}
	if c.Playing() {
		t.Error("still playing past the end")
	}
	if !ended {
		t.Error("OnEnd did not fire")
	}
}

func TestPlayFromEndRestarts(t *testing.T) {
	s := newStore(t)
	c := NewController(s)
	s.SetCurrentTime(100)
	c.Play()
	if got := s.State().CurrentTime; got != 0 {
		t.Errorf("CurrentTime = %v after replay, want 0", got)
	}
	if !c.Playing() {
		t.Error("not playing after replay")
	}
}

func TestPlayUninitializedIsNoop(t *testing.T) {
	c := NewController(timeline.NewStore(timeline.Config{}))
	c.Play()
	if c.Playing() {
		t.Error("playing on an uninitialized store")
	}
}

func TestToggle(t *testing.T) {
	c := NewController(newStore(t))
	if !c.Toggle() {
		t.Error("first toggle did not start playback")
	}
	if c.Toggle() {
		t.Error("second toggle did not pause")
	}
}

func TestSetSpeedValidation(t *testing.T) {
	c := NewController(newStore(t))
	for _, bad := range []float64{0, -1, 1e9} {
		if err := c.SetSpeed(bad); err == nil {
			t.Errorf("SetSpeed(%v) accepted", bad)
		}
	}
	if got := c.Speed(); got != 1 {
		t.Errorf("Speed = %v after rejected sets, want 1", got)
	}
	if err := c.SetSpeed(0.25); err != nil {
		t.Errorf("SetSpeed(0.25): %v", err)
	}
	if got := c.Speed(); got != 0.25 {
		t.Errorf("Speed = %v, want 0.25", got)
	}
}
