package gesture

import (
	"math"
	"testing"

	"github.com/elizafairlady/go-timeview/timeline"
)

// newFixture builds a 100px-wide surface over a [0, 100] timeline, so
// pixel x and time coincide while the view is at fit.
func newFixture(t *testing.T) (*timeline.Store, *Controller) {
	t.Helper()
	s := timeline.NewStore(timeline.Config{})
	if err := s.Initialize(0, 100); err != nil {
		t.Fatal(err)
	}
	c := NewController(s, Options{})
	c.SetSize(100, 40)
	return s, c
}

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestClickSeeksInsteadOfZooming(t *testing.T) {
	s, c := newFixture(t)
	c.PointerDown(Pointer{X: 10, Y: 20})
	c.PointerUp(Pointer{X: 10.2, Y: 20})

	st := s.State()
	if !almost(st.CurrentTime, 10.2) {
		t.Errorf("currentTime = %v, want 10.2", st.CurrentTime)
	}
	if st.ViewStart != 0 || st.ViewEnd != 100 {
		t.Errorf("view = [%v, %v], want unchanged [0, 100]", st.ViewStart, st.ViewEnd)
	}
	if st.Drag != timeline.DragNone || st.Selecting {
		t.Errorf("gesture state not cleared: drag=%v selecting=%v", st.Drag, st.Selecting)
	}
}

func TestDragZoomCommitsSelection(t *testing.T) {
	s, c := newFixture(t)
	c.PointerDown(Pointer{X: 10, Y: 20})
	c.PointerMove(Pointer{X: 25, Y: 20})
	c.PointerMove(Pointer{X: 40, Y: 20})

	if st := s.State(); st.Drag != timeline.DragZoom || !st.Selecting {
		t.Fatalf("mid-drag state: drag=%v selecting=%v", st.Drag, st.Selecting)
	}

	c.PointerUp(Pointer{X: 40, Y: 20})
	st := s.State()
	if !almost(st.ViewStart, 10) || !almost(st.ViewEnd, 40) {
		t.Errorf("view = [%v, %v], want [10, 40]", st.ViewStart, st.ViewEnd)
	}
	if st.Selecting || st.Drag != timeline.DragNone {
		t.Errorf("selection not cleared: selecting=%v drag=%v", st.Selecting, st.Drag)
	}
}

func TestDragZoomRightToLeft(t *testing.T) {
	s, c := newFixture(t)
	c.PointerDown(Pointer{X: 80, Y: 20})
	c.PointerMove(Pointer{X: 30, Y: 20})
	c.PointerUp(Pointer{X: 30, Y: 20})

	st := s.State()
	if !almost(st.ViewStart, 30) || !almost(st.ViewEnd, 80) {
		t.Errorf("view = [%v, %v], want normalized [30, 80]", st.ViewStart, st.ViewEnd)
	}
}

func TestPlayheadScrub(t *testing.T) {
	s, c := newFixture(t)
	s.SetCurrentTime(50)

	var seeks []float64
	c.OnSeek = func(tm float64) { seeks = append(seeks, tm) }

	c.PointerDown(Pointer{X: 52, Y: 20}) // within the 5px tolerance
	if st := s.State(); st.Drag != timeline.DragPlayhead {
		t.Fatalf("drag = %v, want playhead", st.Drag)
	}
	c.PointerMove(Pointer{X: 30, Y: 20})
	c.PointerMove(Pointer{X: 130, Y: 20}) // drag continues outside the surface
	c.PointerUp(Pointer{X: 130, Y: 20})

	st := s.State()
	if st.CurrentTime != 100 {
		t.Errorf("currentTime = %v, want clamped 100", st.CurrentTime)
	}
	if st.Drag != timeline.DragNone {
		t.Errorf("drag = %v, want none", st.Drag)
	}
	if len(seeks) != 2 || seeks[0] != 30 || seeks[1] != 100 {
		t.Errorf("seeks = %v, want [30 100]", seeks)
	}
}

func TestAltDragPans(t *testing.T) {
	s, c := newFixture(t)
	s.SetView(40, 60) // 20 time units across 100px

	views := 0
	c.OnViewChange = func() { views++ }

	c.PointerDown(Pointer{X: 50, Y: 20, Alt: true})
	if st := s.State(); st.Drag != timeline.DragPan {
		t.Fatalf("drag = %v, want pan", st.Drag)
	}
	// 25px right = a quarter of the surface = 5 time units left.
	c.PointerMove(Pointer{X: 75, Y: 20})
	st := s.State()
	if !almost(st.ViewStart, 35) || !almost(st.ViewEnd, 55) {
		t.Errorf("view = [%v, %v], want [35, 55]", st.ViewStart, st.ViewEnd)
	}
	// Deltas accumulate from the pan origin, not the last move.
	c.PointerMove(Pointer{X: 100, Y: 20})
	st = s.State()
	if !almost(st.ViewStart, 30) || !almost(st.ViewEnd, 50) {
		t.Errorf("view = [%v, %v], want [30, 50]", st.ViewStart, st.ViewEnd)
	}
	c.PointerUp(Pointer{X: 100, Y: 20})
	if views != 2 {
		t.Errorf("view-change notifications = %d, want 2", views)
	}
}

func TestMiddleDragPans(t *testing.T) {
	s, c := newFixture(t)
	s.SetView(40, 60)
	c.PointerDown(Pointer{X: 50, Y: 20, Button: ButtonMiddle})
	if st := s.State(); st.Drag != timeline.DragPan {
		t.Fatalf("drag = %v, want pan", st.Drag)
	}
	c.PointerUp(Pointer{X: 50, Y: 20, Button: ButtonMiddle})
}

func TestHoverTracksIdlePointer(t *testing.T) {
	s, c := newFixture(t)
	c.PointerMove(Pointer{X: 33, Y: 20})
	st := s.State()
	if !st.Hovered || !almost(st.HoveredTime, 33) {
		t.Errorf("hover = (%v, %v), want (33, true)", st.HoveredTime, st.Hovered)
	}

	c.PointerLeave()
	if st := s.State(); st.Hovered {
		t.Error("hover survives pointer leave")
	}
}

func TestHoverClearedDuringDrag(t *testing.T) {
	s, c := newFixture(t)
	c.PointerMove(Pointer{X: 33, Y: 20})
	c.PointerDown(Pointer{X: 33, Y: 20})
	if st := s.State(); st.Hovered {
		t.Error("hover survives pointer down")
	}
	// Leave mid-drag keeps the gesture alive.
	c.PointerLeave()
	if st := s.State(); st.Drag != timeline.DragZoom {
		t.Errorf("drag = %v after leave, want zoom-region", st.Drag)
	}
	c.PointerUp(Pointer{X: 60, Y: 20})
}

func TestWheelZoomAboutPointer(t *testing.T) {
	s, c := newFixture(t)
	views := 0
	c.OnViewChange = func() { views++ }

	// Wheel up with the zoom modifier zooms in about x=25 (t=25).
	c.WheelEvent(Wheel{X: 25, DeltaY: -1, Zoom: true})
	st := s.State()
	if !almost(st.ViewDuration(), 87) {
		t.Errorf("viewDuration = %v, want 87", st.ViewDuration())
	}
	ratio := (25 - st.ViewStart) / st.ViewDuration()
	if !almost(ratio, 0.25) {
		t.Errorf("pointer time ratio = %v, want 0.25", ratio)
	}

	// Wheel down zooms out by the asymmetric factor; 87*1.15 exceeds
	// the data range, so the view caps at the full range.
	c.WheelEvent(Wheel{X: 25, DeltaY: 1, Zoom: true})
	st = s.State()
	if !almost(st.ViewDuration(), 100) {
		t.Errorf("viewDuration = %v, want capped 100", st.ViewDuration())
	}
	if views != 2 {
		t.Errorf("view-change notifications = %d, want 2", views)
	}
}

func TestWheelPanDominantAxis(t *testing.T) {
	s, c := newFixture(t)
	s.SetView(40, 60)

	// Vertical delta dominates: pan by 10/100 * 20 * 0.5 = 1.
	c.WheelEvent(Wheel{X: 50, DeltaY: 10, DeltaX: 2})
	st := s.State()
	if !almost(st.ViewStart, 41) || !almost(st.ViewEnd, 61) {
		t.Errorf("view = [%v, %v], want [41, 61]", st.ViewStart, st.ViewEnd)
	}

	// Horizontal delta dominates.
	c.WheelEvent(Wheel{X: 50, DeltaY: 2, DeltaX: -10})
	st = s.State()
	if !almost(st.ViewStart, 40) || !almost(st.ViewEnd, 60) {
		t.Errorf("view = [%v, %v], want [40, 60]", st.ViewStart, st.ViewEnd)
	}
}

func TestWheelIgnoredWhenUninitialized(t *testing.T) {
	s := timeline.NewStore(timeline.Config{})
	c := NewController(s, Options{})
	c.SetSize(100, 40)
	c.WheelEvent(Wheel{X: 50, DeltaY: 1, Zoom: true})
	if st := s.State(); st.ViewStart != 0 || st.ViewEnd != 0 {
		t.Errorf("uninitialized store mutated: %+v", st)
	}
}

func TestCursorAffordance(t *testing.T) {
	s, c := newFixture(t)
	s.SetCurrentTime(50)

	c.PointerMove(Pointer{X: 10, Y: 20})
	if c.Cursor() != CursorDefault {
		t.Errorf("cursor over track = %v, want default", c.Cursor())
	}
	c.PointerMove(Pointer{X: 51, Y: 20})
	if c.Cursor() != CursorEWResize {
		t.Errorf("cursor over playhead = %v, want ew-resize", c.Cursor())
	}
	c.PointerDown(Pointer{X: 10, Y: 20})
	if c.Cursor() != CursorCrosshair {
		t.Errorf("cursor during zoom drag = %v, want crosshair", c.Cursor())
	}
	c.PointerUp(Pointer{X: 10, Y: 20})

	c.PointerDown(Pointer{X: 10, Y: 20, Alt: true})
	if c.Cursor() != CursorGrabbing {
		t.Errorf("cursor during pan = %v, want grabbing", c.Cursor())
	}
	c.PointerUp(Pointer{X: 10, Y: 20, Alt: true})
}

func TestEventsPerGestureStepNotifyOnce(t *testing.T) {
	s, c := newFixture(t)
	count := 0
	defer s.Subscribe(func(timeline.State) { count++ })()

	// Down writes hover + selection + drag target, one notification.
	c.PointerDown(Pointer{X: 10, Y: 20})
	if count != 1 {
		t.Errorf("pointer down notified %d times, want 1", count)
	}
	// Click-up writes selection + drag + playhead, one notification.
	c.PointerUp(Pointer{X: 10, Y: 20})
	if count != 2 {
		t.Errorf("pointer up notified %d more times, want 1 (total 2, got %d)", count-1, count)
	}
}

func TestPointerDownOutsideSurfaceIgnored(t *testing.T) {
	s, c := newFixture(t)
	c.PointerDown(Pointer{X: 150, Y: 20})
	if st := s.State(); st.Drag != timeline.DragNone {
		t.Errorf("drag = %v for press outside surface", st.Drag)
	}
	c.PointerDown(Pointer{X: 50, Y: 90})
	if st := s.State(); st.Drag != timeline.DragNone {
		t.Errorf("drag = %v for press below surface", st.Drag)
	}
}
