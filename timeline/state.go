// Package timeline implements the view-state store for the timeline
// widget: the single source of truth for the data range, the visible
// window, the playhead, and in-progress gesture state.
//
// The store is the sole owner of the state. Everything else — gesture
// handling, rendering, hosts — reads value snapshots and mutates only
// through the store's operations, which enforce the range invariants
// by clamping.
package timeline

// DragTarget identifies which gesture currently owns the pointer.
type DragTarget int

const (
	DragNone DragTarget = iota
	DragPlayhead
	DragPan
	DragZoom
)

func (d DragTarget) String() string {
	switch d {
	case DragPlayhead:
		return "playhead"
	case DragPan:
		return "pan"
	case DragZoom:
		return "zoom-region"
	default:
		return "none"
	}
}

// State is a value snapshot of the timeline. Reads never observe a
// partially applied mutation; callers may keep copies freely and must
// not expect them to track later changes.
//
// Invariants maintained by the store:
//
//	DataStart <= ViewStart < ViewEnd <= DataEnd  (degenerate only when
//	the data range itself is empty)
//	DataStart <= CurrentTime <= DataEnd
type State struct {
	DataStart float64
	DataEnd   float64

	ViewStart float64
	ViewEnd   float64

	// CurrentTime is the playhead. It is clamped to the data range,
	// not the view range; the playhead may lie outside the view.
	CurrentTime float64

	// HoveredTime is valid only while Hovered is set; it is cleared
	// whenever a drag is active or the pointer leaves the surface.
	HoveredTime float64
	Hovered     bool

	Drag DragTarget

	// SelectionStart/SelectionEnd are valid only while Selecting is
	// set, which in turn happens only during a DragZoom gesture.
	SelectionStart float64
	SelectionEnd   float64
	Selecting      bool

	// LeftX/RightX are the last known absolute screen bounds of the
	// input surface. They are resize-derived, not domain data, and
	// survive Reset.
	LeftX  float64
	RightX float64
}

// ViewDuration is the width of the visible window.
func (s State) ViewDuration() float64 { return s.ViewEnd - s.ViewStart }

// DataDuration is the width of the full addressable range.
func (s State) DataDuration() float64 { return s.DataEnd - s.DataStart }

// ZoomLevel is how many view windows fit in the data range. A
// degenerate window reports 1.
func (s State) ZoomLevel() float64 {
	vd := s.ViewDuration()
	if vd <= 0 {
		return 1
	}
	return s.DataDuration() / vd
}

// Zoomed reports whether the view is meaningfully narrower than the
// data range. The tolerance absorbs float error at fit-to-data.
func (s State) Zoomed() bool { return s.ZoomLevel() > 1.01 }

// Initialized reports whether the store holds a usable data range.
func (s State) Initialized() bool { return s.DataEnd > s.DataStart }
