// Package render composes ordered, pluggable draw layers into frames
// against a shared coordinate-transform context. The pipeline owns
// the layer list, the device-pixel-ratio-scaled surface, and frame
// coalescing; layers own nothing but their drawing routine.
package render

import (
	"github.com/elizafairlady/go-timeview/canvas"
	"github.com/elizafairlady/go-timeview/timeline"
)

// Context is the per-frame drawing context handed to each layer. It
// is rebuilt for every frame with the transform closures bound to
// that frame's view window and width; layers must not retain it
// across frames.
type Context struct {
	Canvas canvas.Canvas
	State  timeline.State

	// Width and Height are logical (device-independent) pixels. The
	// canvas is already scaled by DPR when a layer runs.
	Width  float64
	Height float64
	DPR    float64

	// TimeToX and XToTime map between time and logical x for the
	// frame's view window — the view window, not the data range;
	// that is what makes zoom and pan visually effective.
	TimeToX func(t float64) float64
	XToTime func(x float64) float64
}
