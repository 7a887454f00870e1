package render

// Layer is an independently pluggable drawing routine invoked once
// per frame. Names are unique within a pipeline; adding a layer with
// an existing name replaces it.
//
// Layer authors may read ctx.State, call ctx.TimeToX/XToTime, and
// must bound-check against ctx.Width/Height before drawing. The
// pipeline isolates draw state between layers (Save/Restore around
// each Render) but does not isolate layer data: layers caching
// expensive derived data should key it by a fingerprint of the
// inputs it depends on.
type Layer interface {
	Name() string
	Visible() bool
	Render(ctx *Context)
}

// BaseLayer provides the name/visibility half of Layer for embedding.
type BaseLayer struct {
	LayerName string
	Hidden    bool
}

func (b *BaseLayer) Name() string      { return b.LayerName }
func (b *BaseLayer) Visible() bool     { return !b.Hidden }
func (b *BaseLayer) SetVisible(v bool) { b.Hidden = !v }
