package render

import (
	"image/color"
	"sync"

	"github.com/elizafairlady/go-timeview/canvas"
	"github.com/elizafairlady/go-timeview/theme"
	"github.com/elizafairlady/go-timeview/timeline"
	"github.com/elizafairlady/go-timeview/timescale"
)

// Target is a canvas whose backing store the pipeline manages.
type Target interface {
	canvas.Canvas
	SetSize(w, h, dpr float64)
}

// Scheduler requests a frame callback from the host, like a
// display-refresh callback. The pipeline calls Schedule at most once
// per pending frame; the scheduler must invoke fn exactly once, later.
type Scheduler interface {
	Schedule(fn func())
}

// PlayheadLayerName is the conventional insertion anchor: AddLayer
// without an index inserts before it, so overlays default to sitting
// above the background and beneath the playhead.
const PlayheadLayerName = "playhead"

// Pipeline renders an ordered list of layers into a Target. Frames
// are coalesced: any number of state/resize events between two frame
// callbacks produce a single render.
type Pipeline struct {
	mu     sync.Mutex
	target Target
	sched  Scheduler
	theme  *theme.Theme

	layers []Layer
	state  timeline.State

	width   float64
	height  float64
	dpr     float64
	pending bool
	closed  bool
}

// NewPipeline creates a pipeline with the built-in layer stack
// (background, playhead, selection, hover) in default order. A nil
// theme means theme.Default(); a nil scheduler means the host drains
// frames itself via RenderIfDirty.
func NewPipeline(target Target, th *theme.Theme, sched Scheduler) *Pipeline {
	if th == nil {
		th = theme.Default()
	}
	return &Pipeline{
		target: target,
		sched:  sched,
		theme:  th,
		dpr:    1,
		layers: []Layer{
			NewBackgroundLayer(th),
			NewPlayheadLayer(th),
			NewSelectionLayer(th),
			NewHoverLayer(th),
		},
	}
}

// Resize sets the logical surface size. Repeated identical calls are
// no-ops; a real change resizes the backing store and requests a
// frame.
func (p *Pipeline) Resize(w, h float64) {
	p.mu.Lock()
	if w == p.width && h == p.height {
		p.mu.Unlock()
		return
	}
	p.width, p.height = w, h
	p.target.SetSize(w, h, p.dpr)
	p.mu.Unlock()
	p.RequestRender()
}

// SetDPR sets the device pixel ratio for the backing store.
func (p *Pipeline) SetDPR(dpr float64) {
	if dpr <= 0 {
		dpr = 1
	}
	p.mu.Lock()
	if dpr == p.dpr {
		p.mu.Unlock()
		return
	}
	p.dpr = dpr
	p.target.SetSize(p.width, p.height, dpr)
	p.mu.Unlock()
	p.RequestRender()
}

// SetState swaps the snapshot the next frame renders from and
// requests a frame. Typically wired directly to Store.Subscribe.
func (p *Pipeline) SetState(st timeline.State) {
	p.mu.Lock()
	p.state = st
	p.mu.Unlock()
	p.RequestRender()
}

// RequestRender schedules one frame. Requests arriving while a frame
// is already pending coalesce into it.
func (p *Pipeline) RequestRender() {
	p.mu.Lock()
	if p.closed || p.pending {
		p.mu.Unlock()
		return
	}
	p.pending = true
	sched := p.sched
	p.mu.Unlock()
	if sched != nil {
		sched.Schedule(p.renderFrame)
	}
}

// RenderIfDirty renders the pending frame, if any, and reports
// whether it did. Hosts without a Scheduler (game loops, frame
// tickers) call this once per tick.
func (p *Pipeline) RenderIfDirty() bool {
	p.mu.Lock()
	run := p.pending && !p.closed
	p.mu.Unlock()
	if run {
		p.renderFrame()
	}
	return run
}

// Close tears the pipeline down; a scheduled frame that arrives after
// Close does nothing.
func (p *Pipeline) Close() {
	p.mu.Lock()
	p.closed = true
	p.pending = false
	p.mu.Unlock()
}

func (p *Pipeline) renderFrame() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.pending = false
	w, h, dpr, st := p.width, p.height, p.dpr, p.state
	layers := make([]Layer, len(p.layers))
	copy(layers, p.layers)
	target := p.target
	p.mu.Unlock()

	// Not laid out yet: nothing to draw into.
	if w <= 0 || h <= 0 {
		return
	}

	ctx := &Context{
		Canvas: target,
		State:  st,
		Width:  w,
		Height: h,
		DPR:    dpr,
		TimeToX: func(t float64) float64 {
			return timescale.MapRange(t, st.ViewStart, st.ViewEnd, 0, w)
		},
		XToTime: func(x float64) float64 {
			return timescale.MapRange(x, 0, w, st.ViewStart, st.ViewEnd)
		},
	}

	target.Clear(color.RGBA{})
	target.Save()
	target.Scale(dpr, dpr)
	for _, l := range layers {
		if !l.Visible() {
			continue
		}
		target.Save()
		l.Render(ctx)
		target.Restore()
	}
	target.Restore()
}

// --- layer management ---

// AddLayer inserts l before the playhead layer, or appends when no
// playhead layer exists. A layer with the same name is replaced in
// place.
func (p *Pipeline) AddLayer(l Layer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i := p.indexOf(l.Name()); i >= 0 {
		p.layers[i] = l
		return
	}
	at := p.indexOf(PlayheadLayerName)
	if at < 0 {
		p.layers = append(p.layers, l)
		return
	}
	p.layers = append(p.layers, nil)
	copy(p.layers[at+1:], p.layers[at:])
	p.layers[at] = l
}

// AddLayerAt inserts l at the given index, clamped to the list
// bounds. An existing layer with the same name is removed first.
func (p *Pipeline) AddLayerAt(l Layer, index int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i := p.indexOf(l.Name()); i >= 0 {
		p.layers = append(p.layers[:i], p.layers[i+1:]...)
		if index > i {
			index--
		}
	}
	if index < 0 {
		index = 0
	}
	if index > len(p.layers) {
		index = len(p.layers)
	}
	p.layers = append(p.layers, nil)
	copy(p.layers[index+1:], p.layers[index:])
	p.layers[index] = l
}

// RemoveLayer removes the layer with the given name and reports
// whether it was present.
func (p *Pipeline) RemoveLayer(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i := p.indexOf(name); i >= 0 {
		p.layers = append(p.layers[:i], p.layers[i+1:]...)
		return true
	}
	return false
}

// Layer returns the layer with the given name, or nil.
func (p *Pipeline) Layer(name string) Layer {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i := p.indexOf(name); i >= 0 {
		return p.layers[i]
	}
	return nil
}

// LayerNames returns the current layer order.
func (p *Pipeline) LayerNames() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, len(p.layers))
	for i, l := range p.layers {
		names[i] = l.Name()
	}
	return names
}

// SetLayerVisible toggles a layer by name and reports whether the
// layer exists and supports visibility changes.
func (p *Pipeline) SetLayerVisible(name string, visible bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.indexOf(name)
	if i < 0 {
		return false
	}
	v, ok := p.layers[i].(interface{ SetVisible(bool) })
	if !ok {
		return false
	}
	v.SetVisible(visible)
	return true
}

func (p *Pipeline) indexOf(name string) int {
	for i, l := range p.layers {
		if l.Name() == name {
			return i
		}
	}
	return -1
}
