package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// drawState is the saved/restored draw state. The transform is
// scale-then-translate, which covers everything the pipeline needs
// (device-pixel-ratio scaling and layer-local offsets).
type drawState struct {
	fill   color.Color
	stroke color.Color

	lineWidth float64
	dash      []float64
	dashPhase float64

	shadow     color.Color
	shadowBlur float64
	shadowDX   float64
	shadowDY   float64
	hasShadow  bool

	fontSize float64

	sx, sy, tx, ty float64
}

func defaultState() drawState {
	return drawState{
		fill:      color.Black,
		stroke:    color.Black,
		lineWidth: 1,
		fontSize:  12,
		sx:        1,
		sy:        1,
	}
}

// ImageCanvas is a software Canvas over an image.RGBA. The backing
// store is sized in device pixels while the drawing API stays in
// logical pixels; SetSize keeps the two separate.
type ImageCanvas struct {
	img    *image.RGBA
	width  float64 // logical
	height float64
	dpr    float64

	state drawState
	stack []drawState
}

// NewImageCanvas creates a canvas with a w×h logical backing store at
// the given device pixel ratio.
func NewImageCanvas(w, h, dpr float64) *ImageCanvas {
	c := &ImageCanvas{state: defaultState()}
	c.SetSize(w, h, dpr)
	return c
}

// SetSize resizes the backing store to w×h logical pixels at dpr.
// Identical calls are no-ops; a real resize discards the old contents
// and resets the draw state.
func (c *ImageCanvas) SetSize(w, h, dpr float64) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	if dpr <= 0 {
		dpr = 1
	}
	if c.img != nil && c.width == w && c.height == h && c.dpr == dpr {
		return
	}
	c.width, c.height, c.dpr = w, h, dpr
	c.img = image.NewRGBA(image.Rect(0, 0, int(math.Ceil(w*dpr)), int(math.Ceil(h*dpr))))
	c.state = defaultState()
	c.stack = c.stack[:0]
}

// Image exposes the backing store for blitting or encoding.
func (c *ImageCanvas) Image() *image.RGBA { return c.img }

// Size returns the logical dimensions.
func (c *ImageCanvas) Size() (w, h float64) { return c.width, c.height }

// DPR returns the device pixel ratio of the backing store.
func (c *ImageCanvas) DPR() float64 { return c.dpr }

func (c *ImageCanvas) Save() {
	st := c.state
	if st.dash != nil {
		st.dash = append([]float64(nil), st.dash...)
	}
	c.stack = append(c.stack, st)
}

func (c *ImageCanvas) Restore() {
	if n := len(c.stack); n > 0 {
		c.state = c.stack[n-1]
		c.stack = c.stack[:n-1]
	}
}

func (c *ImageCanvas) Scale(sx, sy float64) {
	c.state.sx *= sx
	c.state.sy *= sy
}

func (c *ImageCanvas) Translate(dx, dy float64) {
	c.state.tx += dx * c.state.sx
	c.state.ty += dy * c.state.sy
}

func (c *ImageCanvas) SetFill(col color.Color)   { c.state.fill = col }
func (c *ImageCanvas) SetStroke(col color.Color) { c.state.stroke = col }
func (c *ImageCanvas) SetLineWidth(w float64)    { c.state.lineWidth = w }

func (c *ImageCanvas) SetDash(pattern []float64, phase float64) {
	if len(pattern) == 0 {
		c.state.dash = nil
		c.state.dashPhase = 0
		return
	}
	for _, p := range pattern {
		if p <= 0 {
			// A non-positive run would never advance; treat the whole
			// pattern as solid.
			c.state.dash = nil
			c.state.dashPhase = 0
			return
		}
	}
	c.state.dash = append([]float64(nil), pattern...)
	c.state.dashPhase = phase
}

func (c *ImageCanvas) SetShadow(col color.Color, blur, dx, dy float64) {
	c.state.shadow = col
	c.state.shadowBlur = blur
	c.state.shadowDX = dx
	c.state.shadowDY = dy
	c.state.hasShadow = true
}

func (c *ImageCanvas) ClearShadow() {
	c.state.hasShadow = false
}

func (c *ImageCanvas) SetFontSize(px float64) { c.state.fontSize = px }

func (c *ImageCanvas) Clear(col color.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// --- device-space helpers ---

func (c *ImageCanvas) devX(x float64) float64 { return x*c.state.sx + c.state.tx }
func (c *ImageCanvas) devY(y float64) float64 { return y*c.state.sy + c.state.ty }

func round(v float64) int { return int(math.Floor(v + 0.5)) }

func (c *ImageCanvas) devRect(x, y, w, h float64) image.Rectangle {
	x0 := round(c.devX(x))
	y0 := round(c.devY(y))
	x1 := round(c.devX(x + w))
	y1 := round(c.devY(y + h))
	return image.Rect(x0, y0, x1, y1)
}

func (c *ImageCanvas) fillDev(r image.Rectangle, col color.Color) {
	r = r.Intersect(c.img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(c.img, r, image.NewUniform(col), image.Point{}, draw.Over)
}

// setOver composites col over the pixel at (x, y).
func (c *ImageCanvas) setOver(x, y int, col color.Color) {
	if !(image.Point{x, y}).In(c.img.Bounds()) {
		return
	}
	sr, sg, sb, sa := col.RGBA()
	if sa == 0 {
		return
	}
	i := c.img.PixOffset(x, y)
	p := c.img.Pix[i : i+4 : i+4]
	a := (0xFFFF - sa) * 0x101
	p[0] = uint8((uint32(p[0])*a/0xFFFF + sr) >> 8)
	p[1] = uint8((uint32(p[1])*a/0xFFFF + sg) >> 8)
	p[2] = uint8((uint32(p[2])*a/0xFFFF + sb) >> 8)
	p[3] = uint8((uint32(p[3])*a/0xFFFF + sa) >> 8)
}

// --- shapes ---

func (c *ImageCanvas) FillRect(x, y, w, h float64) {
	if c.state.hasShadow {
		b := c.state.shadowBlur / 2
		c.fillDev(c.devRect(x+c.state.shadowDX-b, y+c.state.shadowDY-b, w+2*b, h+2*b), c.state.shadow)
	}
	c.fillDev(c.devRect(x, y, w, h), c.state.fill)
}

func (c *ImageCanvas) StrokeRect(x, y, w, h float64) {
	c.Line(x, y, x+w, y)
	c.Line(x+w, y, x+w, y+h)
	c.Line(x+w, y+h, x, y+h)
	c.Line(x, y+h, x, y)
}

func (c *ImageCanvas) FillRoundRect(x, y, w, h, radius float64) {
	if c.state.hasShadow {
		b := c.state.shadowBlur / 2
		c.fillRound(x+c.state.shadowDX-b, y+c.state.shadowDY-b, w+2*b, h+2*b, radius+b, c.state.shadow)
	}
	c.fillRound(x, y, w, h, radius, c.state.fill)
}

func (c *ImageCanvas) fillRound(x, y, w, h, radius float64, col color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	if radius > w/2 {
		radius = w / 2
	}
	if radius > h/2 {
		radius = h / 2
	}
	x0, y0 := c.devX(x), c.devY(y)
	x1, y1 := c.devX(x+w), c.devY(y+h)
	rx := radius * c.state.sx

	bounds := image.Rect(int(math.Floor(x0)), int(math.Floor(y0)), int(math.Ceil(x1)), int(math.Ceil(y1)))
	bounds = bounds.Intersect(c.img.Bounds())
	for py := bounds.Min.Y; py < bounds.Max.Y; py++ {
		for px := bounds.Min.X; px < bounds.Max.X; px++ {
			cx, cy := float64(px)+0.5, float64(py)+0.5
			if cx < x0 || cx >= x1 || cy < y0 || cy >= y1 {
				continue
			}
			// Corner test against the nearest corner circle center.
			dx, dy := 0.0, 0.0
			if cx < x0+rx {
				dx = x0 + rx - cx
			} else if cx > x1-rx {
				dx = cx - (x1 - rx)
			}
			if cy < y0+rx {
				dy = y0 + rx - cy
			} else if cy > y1-rx {
				dy = cy - (y1 - rx)
			}
			if dx > 0 && dy > 0 && dx*dx+dy*dy > rx*rx {
				continue
			}
			c.setOver(px, py, col)
		}
	}
}

// Line strokes from (x1, y1) to (x2, y2) with the current line width
// and dash pattern. A shadow, when set, is rendered as a wider
// underlay in the shadow color, which reads as a glow.
func (c *ImageCanvas) Line(x1, y1, x2, y2 float64) {
	if c.state.hasShadow {
		c.strokeSpans(x1, y1, x2, y2, c.state.lineWidth+c.state.shadowBlur, c.state.shadow)
	}
	c.strokeSpans(x1, y1, x2, y2, c.state.lineWidth, c.state.stroke)
}

func (c *ImageCanvas) strokeSpans(x1, y1, x2, y2, width float64, col color.Color) {
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	if len(c.state.dash) == 0 {
		c.strokeSegment(x1, y1, x2, y2, width, col)
		return
	}

	ux, uy := dx/length, dy/length
	pattern := c.state.dash
	idx := 0
	on := true
	pos := 0.0
	// Consume the phase before the visible start.
	remaining := c.state.dashPhase
	for remaining > 0 {
		if remaining < pattern[idx] {
			break
		}
		remaining -= pattern[idx]
		idx = (idx + 1) % len(pattern)
		on = !on
	}
	seg := pattern[idx] - remaining
	for pos < length {
		end := pos + seg
		if end > length {
			end = length
		}
		if on {
			c.strokeSegment(x1+ux*pos, y1+uy*pos, x1+ux*end, y1+uy*end, width, col)
		}
		pos = end
		idx = (idx + 1) % len(pattern)
		seg = pattern[idx]
		on = !on
	}
}

func (c *ImageCanvas) strokeSegment(x1, y1, x2, y2, width float64, col color.Color) {
	half := width / 2
	switch {
	case x1 == x2:
		if y2 < y1 {
			y1, y2 = y2, y1
		}
		c.fillDev(c.devRect(x1-half, y1, width, y2-y1), col)
	case y1 == y2:
		if x2 < x1 {
			x1, x2 = x2, x1
		}
		c.fillDev(c.devRect(x1, y1-half, x2-x1, width), col)
	default:
		// Diagonal: stamp square caps along the segment.
		length := math.Hypot(x2-x1, y2-y1)
		steps := int(math.Ceil(length * math.Max(c.state.sx, c.state.sy)))
		if steps < 1 {
			steps = 1
		}
		for i := 0; i <= steps; i++ {
			t := float64(i) / float64(steps)
			c.fillDev(c.devRect(x1+(x2-x1)*t-half, y1+(y2-y1)*t-half, width, width), col)
		}
	}
}

// FillPolygon scan-fills the polygon given by parallel coordinate
// slices. Degenerate input (fewer than three vertices) draws nothing.
func (c *ImageCanvas) FillPolygon(xs, ys []float64) {
	n := len(xs)
	if n < 3 || len(ys) != n {
		return
	}
	dxs := make([]float64, n)
	dys := make([]float64, n)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i := 0; i < n; i++ {
		dxs[i] = c.devX(xs[i])
		dys[i] = c.devY(ys[i])
		minY = math.Min(minY, dys[i])
		maxY = math.Max(maxY, dys[i])
	}

	y0 := int(math.Floor(minY))
	y1 := int(math.Ceil(maxY))
	var crossings []float64
	for py := y0; py < y1; py++ {
		cy := float64(py) + 0.5
		crossings = crossings[:0]
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			ya, yb := dys[i], dys[j]
			if (ya <= cy) == (yb <= cy) {
				continue
			}
			t := (cy - ya) / (yb - ya)
			crossings = append(crossings, dxs[i]+t*(dxs[j]-dxs[i]))
		}
		if len(crossings) < 2 {
			continue
		}
		sortFloats(crossings)
		for i := 0; i+1 < len(crossings); i += 2 {
			r := image.Rect(round(crossings[i]), py, round(crossings[i+1]), py+1)
			c.fillDev(r, c.state.fill)
		}
	}
}

func sortFloats(v []float64) {
	// Insertion sort: crossing lists are tiny.
	for i := 1; i < len(v); i++ {
		for j := i; j > 0 && v[j] < v[j-1]; j-- {
			v[j], v[j-1] = v[j-1], v[j]
		}
	}
}

// --- text ---

func (c *ImageCanvas) FillText(s string, x, y float64) {
	if s == "" {
		return
	}
	face := faceFor(c.state.fontSize * c.state.sy)
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(c.state.fill),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(c.devX(x) * 64),
			Y: fixed.Int26_6(c.devY(y) * 64),
		},
	}
	d.DrawString(s)
}

func (c *ImageCanvas) MeasureText(s string) float64 {
	if s == "" {
		return 0
	}
	face := faceFor(c.state.fontSize)
	return float64(font.MeasureString(face, s)) / 64
}
