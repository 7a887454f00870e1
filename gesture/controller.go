package gesture

import (
	"math"

	"github.com/elizafairlady/go-timeview/timeline"
	"github.com/elizafairlady/go-timeview/timescale"
)

// Options carries the gesture tuning knobs. Zero fields take the
// documented defaults.
type Options struct {
	// PlayheadTolerance is the pixel radius around the playhead that
	// grabs it on pointer-down. Default 5.
	PlayheadTolerance float64

	// DragThreshold is the horizontal travel in pixels that turns a
	// track press into a drag; less is a click-to-seek. Default 5.
	DragThreshold float64

	// WheelZoomOut and WheelZoomIn are the per-notch zoom factors.
	// They are deliberately asymmetric (1.15 out, 0.87 in) so
	// repeated zooms are not perfectly reversible, matching native
	// zoom feel.
	WheelZoomOut float64
	WheelZoomIn  float64

	// WheelPanFraction scales unmodified wheel deltas into view pans:
	// a full-width delta pans this fraction of the view. Default 0.5.
	WheelPanFraction float64
}

func (o Options) withDefaults() Options {
	if o.PlayheadTolerance <= 0 {
		o.PlayheadTolerance = 5
	}
	if o.DragThreshold <= 0 {
		o.DragThreshold = 5
	}
	if o.WheelZoomOut <= 0 {
		o.WheelZoomOut = 1.15
	}
	if o.WheelZoomIn <= 0 {
		o.WheelZoomIn = 0.87
	}
	if o.WheelPanFraction <= 0 {
		o.WheelPanFraction = 0.5
	}
	return o
}

// Controller drives a timeline.Store from pointer and wheel events.
// It holds no owned state beyond the gesture origin captured at
// pointer-down; everything durable lives in the store.
//
// All store writes from one input event happen inside one Store.Batch,
// so observers see exactly one notification per event carrying its
// final state.
type Controller struct {
	store *timeline.Store
	opts  Options

	width, height float64

	// Captured at pointer-down for delta computation.
	originX         float64
	originViewStart float64
	originViewEnd   float64
	selectionStart  float64

	cursor Cursor

	// OnSeek fires after any gesture that moves the playhead, with
	// the clamped time.
	OnSeek func(t float64)

	// OnViewChange fires after any gesture step that changes the view
	// window, so a host can redraw companion visualizations.
	OnViewChange func()
}

// NewController binds a controller to a store.
func NewController(store *timeline.Store, opts Options) *Controller {
	return &Controller{store: store, opts: opts.withDefaults()}
}

// SetSize records the input surface's logical size in pixels.
func (c *Controller) SetSize(w, h float64) {
	c.width, c.height = w, h
}

// Cursor returns the affordance for the last processed event.
func (c *Controller) Cursor() Cursor { return c.cursor }

func (c *Controller) timeAt(x float64) float64 {
	st := c.store.State()
	return timescale.MapRange(x, 0, c.width, st.ViewStart, st.ViewEnd)
}

func (c *Controller) inside(x, y float64) bool {
	return x >= 0 && x <= c.width && y >= 0 && y <= c.height
}

// HitTest classifies a pointer position: the playhead within the
// configured tolerance, otherwise the track inside the surface,
// otherwise empty.
func (c *Controller) HitTest(x, y float64) Hit {
	if !c.inside(x, y) {
		return HitEmpty
	}
	st := c.store.State()
	if !st.Initialized() {
		return HitTrack
	}
	px := timescale.MapRange(st.CurrentTime, st.ViewStart, st.ViewEnd, 0, c.width)
	if math.Abs(x-px) < c.opts.PlayheadTolerance {
		return HitPlayhead
	}
	return HitTrack
}

// PointerDown starts a gesture: grab the playhead, start a pan
// (middle button or alt), or arm a drag-to-zoom selection.
func (c *Controller) PointerDown(ev Pointer) {
	hit := c.HitTest(ev.X, ev.Y)
	if hit == HitEmpty || ev.Button == ButtonRight {
		return
	}
	c.originX = ev.X
	st := c.store.State()

	c.store.Batch(func() {
		c.store.ClearHover()
		switch {
		case hit == HitPlayhead && ev.Button == ButtonLeft && !ev.Alt:
			c.store.SetDragging(timeline.DragPlayhead)
		case ev.Button == ButtonMiddle || ev.Alt:
			c.originViewStart, c.originViewEnd = st.ViewStart, st.ViewEnd
			c.store.SetDragging(timeline.DragPan)
		default:
			// Unmodified press on the track arms drag-to-zoom; whether
			// it was really a click is decided at pointer-up.
			t := c.timeAt(ev.X)
			c.selectionStart = t
			c.store.SetSelection(t, t)
			c.store.SetDragging(timeline.DragZoom)
		}
	})
	c.refreshCursor(ev.X, ev.Y)
}

// PointerMove continues the active gesture, or tracks hover while
// idle.
func (c *Controller) PointerMove(ev Pointer) {
	switch c.store.State().Drag {
	case timeline.DragPlayhead:
		c.store.Batch(func() {
			c.store.SetCurrentTime(c.timeAt(ev.X))
		})
		if c.OnSeek != nil {
			c.OnSeek(c.store.State().CurrentTime)
		}
	case timeline.DragPan:
		if c.width > 0 {
			delta := -(ev.X - c.originX) / c.width * (c.originViewEnd - c.originViewStart)
			c.store.Batch(func() {
				c.store.SetView(c.originViewStart+delta, c.originViewEnd+delta)
			})
			c.viewChanged()
		}
	case timeline.DragZoom:
		c.store.Batch(func() {
			c.store.SetSelection(c.selectionStart, c.timeAt(ev.X))
		})
	default:
		if c.inside(ev.X, ev.Y) {
			c.store.SetHover(c.timeAt(ev.X))
		} else {
			c.store.ClearHover()
		}
	}
	c.refreshCursor(ev.X, ev.Y)
}

// PointerUp ends the active gesture. A zoom-drag whose travel stayed
// below the drag threshold is reinterpreted as a click: the selection
// is discarded and the playhead seeks to the release position.
func (c *Controller) PointerUp(ev Pointer) {
	switch c.store.State().Drag {
	case timeline.DragZoom:
		if math.Abs(ev.X-c.originX) < c.opts.DragThreshold {
			c.store.Batch(func() {
				c.store.ClearSelection()
				c.store.SetDragging(timeline.DragNone)
				c.store.SetCurrentTime(c.timeAt(ev.X))
			})
			if c.OnSeek != nil {
				c.OnSeek(c.store.State().CurrentTime)
			}
		} else {
			c.store.Batch(func() {
				c.store.ApplySelection()
			})
			c.viewChanged()
		}
	case timeline.DragNone:
		// Stray up without a gesture.
	default:
		c.store.Batch(func() {
			c.store.SetDragging(timeline.DragNone)
		})
	}
	c.refreshCursor(ev.X, ev.Y)
}

// PointerLeave clears hover. A drag in progress is unaffected: it
// keeps receiving moves through pointer capture and ends only on
// PointerUp.
func (c *Controller) PointerLeave() {
	if c.store.State().Drag == timeline.DragNone {
		c.store.ClearHover()
		c.cursor = CursorDefault
	}
}

// WheelEvent zooms about the pointer when the zoom modifier is held,
// otherwise pans by the dominant scroll axis.
func (c *Controller) WheelEvent(ev Wheel) {
	st := c.store.State()
	if !st.Initialized() || c.width <= 0 {
		return
	}
	if ev.Zoom {
		factor := c.opts.WheelZoomIn
		if ev.DeltaY > 0 {
			factor = c.opts.WheelZoomOut
		}
		c.store.Batch(func() {
			c.store.ZoomAt(factor, c.timeAt(ev.X))
		})
		c.viewChanged()
		return
	}

	delta := ev.DeltaY
	if math.Abs(ev.DeltaX) > math.Abs(ev.DeltaY) {
		delta = ev.DeltaX
	}
	if delta == 0 {
		return
	}
	c.store.Batch(func() {
		c.store.Pan(delta / c.width * st.ViewDuration() * c.opts.WheelPanFraction)
	})
	c.viewChanged()
}

func (c *Controller) viewChanged() {
	if c.OnViewChange != nil {
		c.OnViewChange()
	}
}

func (c *Controller) refreshCursor(x, y float64) {
	switch c.store.State().Drag {
	case timeline.DragPlayhead:
		c.cursor = CursorEWResize
	case timeline.DragPan:
		c.cursor = CursorGrabbing
	case timeline.DragZoom:
		c.cursor = CursorCrosshair
	default:
		if c.HitTest(x, y) == HitPlayhead {
			c.cursor = CursorEWResize
		} else {
			c.cursor = CursorDefault
		}
	}
}
