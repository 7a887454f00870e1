// Package canvas defines the 2D immediate-mode drawing surface the
// render pipeline draws on, and a software implementation backed by
// an image.RGBA with a device-pixel-ratio-aware backing store.
package canvas

import "image/color"

// Canvas is an immediate-mode 2D drawing surface. Coordinates are
// logical pixels; implementations apply any scale set via Scale (the
// pipeline uses this for device-pixel-ratio rendering).
//
// Save/Restore manage a stack of the full draw state: colors, line
// width, dash pattern, shadow, font size, and transform. The pipeline
// relies on this to isolate layers from one another.
type Canvas interface {
	Save()
	Restore()

	Scale(sx, sy float64)
	Translate(dx, dy float64)

	SetFill(c color.Color)
	SetStroke(c color.Color)
	SetLineWidth(w float64)
	// SetDash sets the on/off stroke pattern in logical pixels; an
	// empty pattern restores solid strokes.
	SetDash(pattern []float64, phase float64)
	SetShadow(c color.Color, blur, dx, dy float64)
	ClearShadow()
	SetFontSize(px float64)

	// Clear fills the entire backing store, ignoring the transform.
	Clear(c color.Color)

	FillRect(x, y, w, h float64)
	StrokeRect(x, y, w, h float64)
	FillRoundRect(x, y, w, h, radius float64)
	Line(x1, y1, x2, y2 float64)
	FillPolygon(xs, ys []float64)

	// FillText draws s with its baseline at (x, y).
	FillText(s string, x, y float64)
	// MeasureText returns the advance width of s in logical pixels at
	// the current font size.
	MeasureText(s string) float64
}
