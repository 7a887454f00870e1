package render

import (
	"github.com/elizafairlady/go-timeview/theme"
	"github.com/elizafairlady/go-timeview/timeline"
	"github.com/elizafairlady/go-timeview/timescale"
)

// BackgroundLayer fills the track and draws the time grid with labels
// on major lines.
type BackgroundLayer struct {
	BaseLayer
	theme *theme.Theme
}

func NewBackgroundLayer(th *theme.Theme) *BackgroundLayer {
	return &BackgroundLayer{BaseLayer: BaseLayer{LayerName: "background"}, theme: th}
}

func (l *BackgroundLayer) Render(ctx *Context) {
	cv := ctx.Canvas
	th := l.theme

	cv.SetFill(theme.RGBA(th.Background))
	cv.FillRect(0, 0, ctx.Width, ctx.Height)

	st := ctx.State
	if st.ViewDuration() <= 0 {
		return
	}

	cv.SetLineWidth(1)
	cv.SetFontSize(th.FontSize)
	for _, gl := range timescale.GridLines(st.ViewStart, st.ViewEnd, th.GridMaxLabels) {
		x := ctx.TimeToX(gl.Time)
		if x < 0 || x > ctx.Width {
			continue
		}
		col := th.Grid
		if gl.Major {
			col = th.GridMajor
		}
		cv.SetStroke(theme.RGBA(col))
		cv.Line(x, 0, x, ctx.Height)

		if gl.Major && gl.Label != "" {
			lx := x + th.LabelInset
			if w := cv.MeasureText(gl.Label); lx+w > ctx.Width {
				lx = x - th.LabelInset - w
			}
			cv.SetFill(theme.RGBA(th.Label))
			cv.FillText(gl.Label, lx, ctx.Height-th.LabelInset)
		}
	}
}

// PlayheadLayer draws the current-time marker: a glowing accent line
// with a handle at the top. Skipped entirely when the playhead lies
// outside the view window.
type PlayheadLayer struct {
	BaseLayer
	theme *theme.Theme
}

func NewPlayheadLayer(th *theme.Theme) *PlayheadLayer {
	return &PlayheadLayer{BaseLayer: BaseLayer{LayerName: PlayheadLayerName}, theme: th}
}

func (l *PlayheadLayer) Render(ctx *Context) {
	st := ctx.State
	if !st.Initialized() || st.ViewDuration() <= 0 {
		return
	}
	x := ctx.TimeToX(st.CurrentTime)
	if x < 0 || x > ctx.Width {
		return
	}
	cv := ctx.Canvas
	th := l.theme

	cv.SetShadow(theme.RGBA(th.AccentGlow), th.GlowBlur, 0, 0)
	cv.SetStroke(theme.RGBA(th.Accent))
	cv.SetLineWidth(th.PlayheadWidth)
	cv.Line(x, 0, x, ctx.Height)
	cv.ClearShadow()

	s := th.HandleSize
	cv.SetFill(theme.RGBA(th.Accent))
	cv.FillPolygon(
		[]float64{x - s, x + s, x},
		[]float64{0, 0, s * 1.4},
	)
}

// SelectionLayer draws the provisional drag-to-zoom range as a
// translucent band with a dashed border. Visible only while a
// zoom-region drag is in progress.
type SelectionLayer struct {
	BaseLayer
	theme *theme.Theme
}

func NewSelectionLayer(th *theme.Theme) *SelectionLayer {
	return &SelectionLayer{BaseLayer: BaseLayer{LayerName: "selection"}, theme: th}
}

func (l *SelectionLayer) Render(ctx *Context) {
	st := ctx.State
	if st.Drag != timeline.DragZoom || !st.Selecting || st.ViewDuration() <= 0 {
		return
	}
	lo, hi := st.SelectionStart, st.SelectionEnd
	if hi < lo {
		lo, hi = hi, lo
	}
	x1 := timescale.Clamp(ctx.TimeToX(lo), 0, ctx.Width)
	x2 := timescale.Clamp(ctx.TimeToX(hi), 0, ctx.Width)
	if x2 <= x1 {
		return
	}
	cv := ctx.Canvas
	th := l.theme

	cv.SetFill(theme.RGBA(th.Selection))
	cv.FillRect(x1, 0, x2-x1, ctx.Height)

	cv.SetStroke(theme.RGBA(th.SelectionBorder))
	cv.SetLineWidth(1)
	cv.SetDash([]float64{4, 3}, 0)
	cv.Line(x1, 0, x1, ctx.Height)
	cv.Line(x2, 0, x2, ctx.Height)
}

// HoverLayer draws the hover guide and its time tooltip. Hidden while
// any drag is active.
type HoverLayer struct {
	BaseLayer
	theme *theme.Theme
}

func NewHoverLayer(th *theme.Theme) *HoverLayer {
	return &HoverLayer{BaseLayer: BaseLayer{LayerName: "hover"}, theme: th}
}

func (l *HoverLayer) Render(ctx *Context) {
	st := ctx.State
	if !st.Hovered || st.Drag != timeline.DragNone || st.ViewDuration() <= 0 {
		return
	}
	x := ctx.TimeToX(st.HoveredTime)
	if x < 0 || x > ctx.Width {
		return
	}
	cv := ctx.Canvas
	th := l.theme

	cv.SetStroke(theme.RGBA(th.Hover))
	cv.SetLineWidth(1)
	cv.SetDash([]float64{3, 3}, 0)
	cv.Line(x, 0, x, ctx.Height)
	cv.SetDash(nil, 0)

	label := timescale.FormatTime(st.HoveredTime, timescale.Auto)
	cv.SetFontSize(th.FontSize)
	w := cv.MeasureText(label) + 2*th.TooltipPad
	h := th.FontSize + 2*th.TooltipPad
	bx := timescale.Clamp(x-w/2, 0, ctx.Width-w)

	cv.SetShadow(theme.RGBA(th.TooltipBg), th.GlowBlur, 0, 1)
	cv.SetFill(theme.RGBA(th.TooltipBg))
	cv.FillRoundRect(bx, 2, w, h, th.TooltipRadius)
	cv.ClearShadow()

	cv.SetFill(theme.RGBA(th.TooltipText))
	cv.FillText(label, bx+th.TooltipPad, 2+h-th.TooltipPad-1)
}
