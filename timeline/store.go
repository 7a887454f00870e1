package timeline

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/elizafairlady/go-timeview/timescale"
)

var (
	// ErrInvalidRange reports an Initialize call whose end precedes
	// its start.
	ErrInvalidRange = errors.New("timeline: end before start")

	// ErrNonFinite reports a NaN or infinite numeric argument. The
	// store rejects non-finite input at the boundary rather than let
	// it propagate through the clamps.
	ErrNonFinite = errors.New("timeline: non-finite input")
)

// Config carries the store-level tuning knobs. Zero fields take the
// documented defaults.
type Config struct {
	// MinZoomDuration is the narrowest view window Zoom will produce,
	// in time units. Default 1.
	MinZoomDuration float64

	// MinZoomSelection is the narrowest drag-to-zoom span that
	// commits; anything smaller is discarded as a click. Default 0.5.
	MinZoomSelection float64
}

type subscriber struct {
	id int
	fn func(State)
}

// Store owns the timeline state. All mutators are safe for concurrent
// use; the state itself is guarded by a single-writer mutex since
// this design assumes no torn reads.
type Store struct {
	mu      sync.Mutex
	cfg     Config
	state   State
	subs    []subscriber
	nextSub int
	batch   int
	dirty   bool
}

// NewStore creates an empty store. The state becomes meaningful only
// after Initialize.
func NewStore(cfg Config) *Store {
	if cfg.MinZoomDuration <= 0 {
		cfg.MinZoomDuration = 1
	}
	if cfg.MinZoomSelection <= 0 {
		cfg.MinZoomSelection = 0.5
	}
	return &Store{cfg: cfg}
}

// State returns a value snapshot of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to be invoked with a snapshot after each
// mutation, or once per Batch. The returned function unsubscribes.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Batch groups several mutations into a single notification carrying
// the final state, the explicit coalescing boundary for gesture
// handlers that write multiple fields per input event. Batches nest;
// only the outermost commit notifies.
func (s *Store) Batch(fn func()) {
	s.mu.Lock()
	s.batch++
	s.mu.Unlock()

	fn()

	s.mu.Lock()
	s.batch--
	done := s.batch == 0
	s.mu.Unlock()
	if done {
		s.flush()
	}
}

// apply runs a mutation under the lock. fn reports whether it changed
// anything; unchanged applications (uninitialized no-ops) do not
// notify.
func (s *Store) apply(fn func(*State) bool) {
	s.mu.Lock()
	if fn(&s.state) {
		s.dirty = true
	}
	inBatch := s.batch > 0
	s.mu.Unlock()
	if !inBatch {
		s.flush()
	}
}

func (s *Store) flush() {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return
	}
	s.dirty = false
	snap := s.state
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(snap)
	}
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Initialize sets the data range to [start, end], makes the whole
// range visible, and parks the playhead at start. It rejects a
// negative-duration range.
func (s *Store) Initialize(start, end float64) error {
	if !finite(start, end) {
		return ErrNonFinite
	}
	if end < start {
		return fmt.Errorf("%w: [%v, %v]", ErrInvalidRange, start, end)
	}
	s.apply(func(st *State) bool {
		st.DataStart, st.DataEnd = start, end
		st.ViewStart, st.ViewEnd = start, end
		st.CurrentTime = start
		st.Hovered = false
		st.Drag = DragNone
		st.Selecting = false
		st.SelectionStart, st.SelectionEnd = 0, 0
		return true
	})
	return nil
}

// Reset returns the store to the empty state. The pixel bounds are
// preserved: they describe the surface, not the data.
func (s *Store) Reset() {
	s.apply(func(st *State) bool {
		left, right := st.LeftX, st.RightX
		*st = State{LeftX: left, RightX: right}
		return true
	})
}

// SetCurrentTime moves the playhead to t clamped to the data range.
// A no-op on an uninitialized store.
func (s *Store) SetCurrentTime(t float64) error {
	if !finite(t) {
		return ErrNonFinite
	}
	s.apply(func(st *State) bool {
		if !st.Initialized() {
			return false
		}
		st.CurrentTime = timescale.Clamp(t, st.DataStart, st.DataEnd)
		return true
	})
	return nil
}

// SetView sets the visible window. Both bounds are clamped
// independently into the data range; the caller is responsible for
// start < end, and a degenerate window that survives clamping is
// accepted (renderers treat it as nothing to draw).
func (s *Store) SetView(start, end float64) error {
	if !finite(start, end) {
		return ErrNonFinite
	}
	s.apply(func(st *State) bool {
		if !st.Initialized() {
			return false
		}
		st.ViewStart = timescale.Clamp(start, st.DataStart, st.DataEnd)
		st.ViewEnd = timescale.Clamp(end, st.DataStart, st.DataEnd)
		return true
	})
	return nil
}

// Zoom scales the view about its midpoint. Factor < 1 zooms in.
func (s *Store) Zoom(factor float64) error {
	if !finite(factor) {
		return ErrNonFinite
	}
	s.apply(func(st *State) bool {
		if !st.Initialized() {
			return false
		}
		center := (st.ViewStart + st.ViewEnd) / 2
		st.ViewStart, st.ViewEnd = timescale.ZoomAtPoint(
			st.ViewStart, st.ViewEnd, factor, center,
			st.DataStart, st.DataEnd, s.cfg.MinZoomDuration)
		return true
	})
	return nil
}

// ZoomAt scales the view about center, holding center's fractional
// position within the window fixed.
func (s *Store) ZoomAt(factor, center float64) error {
	if !finite(factor, center) {
		return ErrNonFinite
	}
	s.apply(func(st *State) bool {
		if !st.Initialized() {
			return false
		}
		st.ViewStart, st.ViewEnd = timescale.ZoomAtPoint(
			st.ViewStart, st.ViewEnd, factor, center,
			st.DataStart, st.DataEnd, s.cfg.MinZoomDuration)
		return true
	})
	return nil
}

// ZoomToFit restores the view to the full data range.
func (s *Store) ZoomToFit() {
	s.apply(func(st *State) bool {
		if !st.Initialized() {
			return false
		}
		st.ViewStart, st.ViewEnd = st.DataStart, st.DataEnd
		return true
	})
}

// Pan translates the view window by delta time units, clamped so the
// window never exits the data range.
func (s *Store) Pan(delta float64) error {
	if !finite(delta) {
		return ErrNonFinite
	}
	s.apply(func(st *State) bool {
		if !st.Initialized() {
			return false
		}
		st.ViewStart, st.ViewEnd = timescale.PanView(
			st.ViewStart, st.ViewEnd, delta, st.DataStart, st.DataEnd)
		return true
	})
	return nil
}

// SetHover records the pointer time while no drag is active.
func (s *Store) SetHover(t float64) error {
	if !finite(t) {
		return ErrNonFinite
	}
	s.apply(func(st *State) bool {
		st.HoveredTime = t
		st.Hovered = true
		return true
	})
	return nil
}

// ClearHover clears the hover marker.
func (s *Store) ClearHover() {
	s.apply(func(st *State) bool {
		if !st.Hovered {
			return false
		}
		st.Hovered = false
		st.HoveredTime = 0
		return true
	})
}

// SetDragging records which gesture owns the pointer. Any transition
// is valid; the gesture controller is responsible for the meaningful
// sequences.
func (s *Store) SetDragging(d DragTarget) {
	s.apply(func(st *State) bool {
		st.Drag = d
		return true
	})
}

// SetSelection sets the provisional drag-to-zoom range.
func (s *Store) SetSelection(start, end float64) error {
	if !finite(start, end) {
		return ErrNonFinite
	}
	s.apply(func(st *State) bool {
		st.SelectionStart, st.SelectionEnd = start, end
		st.Selecting = true
		return true
	})
	return nil
}

// ClearSelection discards the provisional selection.
func (s *Store) ClearSelection() {
	s.apply(func(st *State) bool {
		if !st.Selecting {
			return false
		}
		st.Selecting = false
		st.SelectionStart, st.SelectionEnd = 0, 0
		return true
	})
}

// ApplySelection commits the drag-to-zoom selection: if its span
// exceeds MinZoomSelection the view becomes the order-normalized,
// clamped selection. The selection and drag target are cleared either
// way; a below-threshold selection is a no-op zoom, which callers
// interpret as "was actually a click".
func (s *Store) ApplySelection() {
	s.apply(func(st *State) bool {
		if st.Selecting && st.Initialized() {
			lo, hi := st.SelectionStart, st.SelectionEnd
			if hi < lo {
				lo, hi = hi, lo
			}
			if hi-lo > s.cfg.MinZoomSelection {
				st.ViewStart = timescale.Clamp(lo, st.DataStart, st.DataEnd)
				st.ViewEnd = timescale.Clamp(hi, st.DataStart, st.DataEnd)
			}
		}
		st.Selecting = false
		st.SelectionStart, st.SelectionEnd = 0, 0
		st.Drag = DragNone
		return true
	})
}

// UpdateXPositions records the absolute screen bounds of the input
// surface, used for pixel math independent of the view window.
func (s *Store) UpdateXPositions(left, right float64) error {
	if !finite(left, right) {
		return ErrNonFinite
	}
	s.apply(func(st *State) bool {
		st.LeftX, st.RightX = left, right
		return true
	})
	return nil
}
