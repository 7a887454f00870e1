package timeline

import (
	"errors"
	"math"
	"testing"
)

func newStore() *Store {
	return NewStore(Config{})
}

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestInitialize(t *testing.T) {
	s := newStore()
	if err := s.Initialize(10, 130); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	st := s.State()
	if st.DataStart != 10 || st.DataEnd != 130 {
		t.Errorf("data = [%v, %v], want [10, 130]", st.DataStart, st.DataEnd)
	}
	if st.ViewStart != 10 || st.ViewEnd != 130 {
		t.Errorf("view = [%v, %v], want [10, 130]", st.ViewStart, st.ViewEnd)
	}
	if st.CurrentTime != 10 {
		t.Errorf("currentTime = %v, want 10", st.CurrentTime)
	}
	if !st.Initialized() {
		t.Error("Initialized() = false after Initialize")
	}
}

func TestInitializeRejectsInvalidRange(t *testing.T) {
	s := newStore()
	err := s.Initialize(50, 10)
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("err = %v, want ErrInvalidRange", err)
	}
	if s.State().Initialized() {
		t.Error("store initialized despite rejected range")
	}
}

func TestInitializeRejectsNonFinite(t *testing.T) {
	s := newStore()
	if err := s.Initialize(0, math.NaN()); !errors.Is(err, ErrNonFinite) {
		t.Errorf("NaN end: err = %v, want ErrNonFinite", err)
	}
	if err := s.Initialize(math.Inf(-1), 10); !errors.Is(err, ErrNonFinite) {
		t.Errorf("-Inf start: err = %v, want ErrNonFinite", err)
	}
}

func TestSetCurrentTimeClamps(t *testing.T) {
	s := newStore()
	s.Initialize(0, 100)
	tests := []struct{ in, want float64 }{
		{50, 50},
		{-5, 0},
		{150, 100},
		{0, 0},
	}
	for _, tt := range tests {
		if err := s.SetCurrentTime(tt.in); err != nil {
			t.Fatalf("SetCurrentTime(%v): %v", tt.in, err)
		}
		if got := s.State().CurrentTime; got != tt.want {
			t.Errorf("SetCurrentTime(%v): currentTime = %v, want %v", tt.in, got, tt.want)
		}
		// Idempotent when reapplied.
		s.SetCurrentTime(tt.in)
		if got := s.State().CurrentTime; got != tt.want {
			t.Errorf("SetCurrentTime(%v) reapplied: currentTime = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMutatorsNoOpWhenUninitialized(t *testing.T) {
	s := newStore()
	notified := 0
	defer s.Subscribe(func(State) { notified++ })()

	s.SetCurrentTime(5)
	s.SetView(1, 2)
	s.Zoom(0.5)
	s.Pan(3)
	s.ZoomToFit()

	st := s.State()
	if st.CurrentTime != 0 || st.ViewStart != 0 || st.ViewEnd != 0 {
		t.Errorf("uninitialized store mutated: %+v", st)
	}
	if notified != 0 {
		t.Errorf("notified %d times for no-op mutations", notified)
	}
}

func TestMutatorsRejectNonFinite(t *testing.T) {
	s := newStore()
	s.Initialize(0, 100)
	before := s.State()

	if err := s.SetCurrentTime(math.NaN()); !errors.Is(err, ErrNonFinite) {
		t.Errorf("SetCurrentTime(NaN): err = %v", err)
	}
	if err := s.SetView(math.Inf(1), 10); !errors.Is(err, ErrNonFinite) {
		t.Errorf("SetView(+Inf, 10): err = %v", err)
	}
	if err := s.Pan(math.NaN()); !errors.Is(err, ErrNonFinite) {
		t.Errorf("Pan(NaN): err = %v", err)
	}
	if err := s.ZoomAt(math.NaN(), 5); !errors.Is(err, ErrNonFinite) {
		t.Errorf("ZoomAt(NaN, 5): err = %v", err)
	}
	if s.State() != before {
		t.Error("state changed by rejected input")
	}
}

func TestSetViewClampsIndependently(t *testing.T) {
	s := newStore()
	s.Initialize(0, 100)
	s.SetView(-10, 50)
	st := s.State()
	if st.ViewStart != 0 || st.ViewEnd != 50 {
		t.Errorf("view = [%v, %v], want [0, 50]", st.ViewStart, st.ViewEnd)
	}
}

func TestZoomScenario(t *testing.T) {
	s := newStore()
	s.Initialize(0, 120)
	s.ZoomAt(0.5, 60)
	st := s.State()
	if !almost(st.ViewDuration(), 60) {
		t.Errorf("viewDuration = %v, want 60", st.ViewDuration())
	}
	ratio := (60 - st.ViewStart) / st.ViewDuration()
	if !almost(ratio, 0.5) {
		t.Errorf("60 sits at ratio %v, want 0.5", ratio)
	}

	s.ZoomAt(2, 60)
	st = s.State()
	if !almost(st.ViewStart, 0) || !almost(st.ViewEnd, 120) {
		t.Errorf("after zoom out: view = [%v, %v], want [0, 120]", st.ViewStart, st.ViewEnd)
	}
}

func TestZoomToFitAfterMutations(t *testing.T) {
	s := newStore()
	s.Initialize(0, 100)
	s.ZoomAt(0.25, 30)
	s.Pan(10)
	s.SetView(20, 60)
	s.ZoomToFit()
	st := s.State()
	if st.ViewStart != 0 || st.ViewEnd != 100 {
		t.Errorf("view = [%v, %v], want [0, 100]", st.ViewStart, st.ViewEnd)
	}
	if st.Zoomed() {
		t.Error("Zoomed() = true at fit-to-data")
	}
}

func TestPanRoundTrip(t *testing.T) {
	s := newStore()
	s.Initialize(0, 120)
	s.SetView(20, 50)
	s.Pan(15)
	s.Pan(-15)
	st := s.State()
	if !almost(st.ViewStart, 20) || !almost(st.ViewEnd, 50) {
		t.Errorf("view = [%v, %v], want [20, 50]", st.ViewStart, st.ViewEnd)
	}
}

func TestZoomLevelDegenerate(t *testing.T) {
	var st State
	if st.ZoomLevel() != 1 {
		t.Errorf("empty state zoomLevel = %v, want 1", st.ZoomLevel())
	}
	st = State{DataStart: 0, DataEnd: 100, ViewStart: 50, ViewEnd: 50}
	if st.ZoomLevel() != 1 {
		t.Errorf("degenerate view zoomLevel = %v, want 1", st.ZoomLevel())
	}
}

func TestApplySelectionCommits(t *testing.T) {
	s := newStore()
	s.Initialize(0, 100)
	s.SetDragging(DragZoom)
	// Reversed bounds are normalized.
	s.SetSelection(40, 10)
	s.ApplySelection()
	st := s.State()
	if st.ViewStart != 10 || st.ViewEnd != 40 {
		t.Errorf("view = [%v, %v], want [10, 40]", st.ViewStart, st.ViewEnd)
	}
	if st.Selecting || st.Drag != DragNone {
		t.Errorf("selection not cleared: selecting=%v drag=%v", st.Selecting, st.Drag)
	}
}

func TestApplySelectionBelowThreshold(t *testing.T) {
	s := newStore()
	s.Initialize(0, 100)
	s.SetDragging(DragZoom)
	s.SetSelection(10, 10.2)
	s.ApplySelection()
	st := s.State()
	if st.ViewStart != 0 || st.ViewEnd != 100 {
		t.Errorf("view = [%v, %v], want unchanged [0, 100]", st.ViewStart, st.ViewEnd)
	}
	if st.Selecting || st.Drag != DragNone {
		t.Errorf("selection not cleared: selecting=%v drag=%v", st.Selecting, st.Drag)
	}
}

func TestApplySelectionClampsToData(t *testing.T) {
	s := newStore()
	s.Initialize(0, 100)
	s.SetSelection(-20, 30)
	s.ApplySelection()
	st := s.State()
	if st.ViewStart != 0 || st.ViewEnd != 30 {
		t.Errorf("view = [%v, %v], want [0, 30]", st.ViewStart, st.ViewEnd)
	}
}

func TestResetPreservesPixelBounds(t *testing.T) {
	s := newStore()
	s.Initialize(0, 100)
	s.UpdateXPositions(12, 900)
	s.SetCurrentTime(42)
	s.Reset()
	st := s.State()
	if st.Initialized() || st.CurrentTime != 0 {
		t.Errorf("reset left domain state: %+v", st)
	}
	if st.LeftX != 12 || st.RightX != 900 {
		t.Errorf("pixel bounds = (%v, %v), want (12, 900)", st.LeftX, st.RightX)
	}
}

func TestSubscribeNotifiesPerMutation(t *testing.T) {
	s := newStore()
	s.Initialize(0, 100)

	var got []float64
	unsub := s.Subscribe(func(st State) { got = append(got, st.CurrentTime) })
	s.SetCurrentTime(10)
	s.SetCurrentTime(20)
	if len(got) != 2 || got[0] != 10 || got[1] != 20 {
		t.Fatalf("notifications = %v, want [10 20]", got)
	}

	unsub()
	s.SetCurrentTime(30)
	if len(got) != 2 {
		t.Errorf("notified after unsubscribe: %v", got)
	}
}

func TestBatchCoalescesNotifications(t *testing.T) {
	s := newStore()
	s.Initialize(0, 100)

	count := 0
	var last State
	defer s.Subscribe(func(st State) { count++; last = st })()

	s.Batch(func() {
		s.SetCurrentTime(10)
		s.SetView(20, 60)
		s.SetHover(25)
	})

	if count != 1 {
		t.Fatalf("notified %d times, want 1", count)
	}
	// Observer sees the final state of the batch, never an
	// intermediate one.
	if last.CurrentTime != 10 || last.ViewStart != 20 || !last.Hovered {
		t.Errorf("final state = %+v", last)
	}
}

func TestBatchNests(t *testing.T) {
	s := newStore()
	s.Initialize(0, 100)

	count := 0
	defer s.Subscribe(func(State) { count++ })()

	s.Batch(func() {
		s.SetCurrentTime(10)
		s.Batch(func() {
			s.SetCurrentTime(20)
		})
		s.SetCurrentTime(30)
	})
	if count != 1 {
		t.Errorf("notified %d times, want 1", count)
	}
}

func TestEmptyBatchDoesNotNotify(t *testing.T) {
	s := newStore()
	s.Initialize(0, 100)
	count := 0
	defer s.Subscribe(func(State) { count++ })()
	s.Batch(func() {})
	if count != 0 {
		t.Errorf("notified %d times for empty batch", count)
	}
}

func TestConfigDefaults(t *testing.T) {
	s := NewStore(Config{})
	s.Initialize(0, 100)
	// Default MinZoomDuration of 1 floors hard zooms.
	s.SetView(50, 52)
	s.ZoomAt(0.001, 51)
	if vd := s.State().ViewDuration(); !almost(vd, 1) {
		t.Errorf("viewDuration = %v, want floor of 1", vd)
	}
	// Default MinZoomSelection of 0.5 discards small selections.
	s.ZoomToFit()
	s.SetSelection(10, 10.4)
	s.ApplySelection()
	if st := s.State(); st.ViewStart != 0 || st.ViewEnd != 100 {
		t.Errorf("view = [%v, %v], want unchanged", st.ViewStart, st.ViewEnd)
	}
}
