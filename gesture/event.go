// Package gesture turns raw pointer and wheel events against the
// timeline surface into store mutations: seek, scrub, pan,
// drag-to-zoom, and hover. It owns the state machine that
// disambiguates a click from a drag from a single pointer stream.
package gesture

// Button identifies which pointer button an event carries.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// Pointer is a pointer event in surface-local logical pixels.
type Pointer struct {
	X, Y   float64
	Button Button
	// Alt reports the alt/option modifier, the keyboard alternative
	// to middle-button panning.
	Alt bool
}

// Wheel is a scroll event in surface-local logical pixels.
type Wheel struct {
	X, Y           float64
	DeltaX, DeltaY float64
	// Zoom reports the ctrl/cmd modifier: the wheel zooms about the
	// pointer instead of panning.
	Zoom bool
}

// Cursor is the affordance the host should show for the current
// pointer position.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorEWResize
	CursorGrabbing
	CursorCrosshair
)

// Hit classifies a pointer position against the surface.
type Hit int

const (
	HitEmpty Hit = iota
	HitTrack
	HitPlayhead
)
