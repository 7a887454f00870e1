// Package playback advances a timeline's current time on a clock:
// play/pause, speed multipliers, and a ticker loop for hosts that
// want time driven for them.
package playback

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/elizafairlady/go-timeview/timeline"
)

// Speeds are the conventional playback-rate presets.
var Speeds = []float64{0.25, 0.5, 1, 2, 4}

// ErrBadSpeed is returned by SetSpeed for rates that are zero,
// negative, or not finite.
var ErrBadSpeed = errors.New("playback: speed must be positive and finite")

// Controller drives a store's current time forward while playing.
// All methods are safe for concurrent use.
type Controller struct {
	mu      sync.Mutex
	store   *timeline.Store
	playing bool
	speed   float64

	// OnEnd, if set, fires once when playback reaches the end of the
	// data range. Called without the controller lock held.
	OnEnd func()
}

func NewController(store *timeline.Store) *Controller {
	return &Controller{store: store, speed: 1}
}

// Play starts advancing time. Playing from the end restarts at the
// beginning.
func (c *Controller) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playing {
		return
	}
	st := c.store.State()
	if !st.Initialized() {
		return
	}
	if st.CurrentTime >= st.DataEnd {
		c.store.SetCurrentTime(st.DataStart)
	}
	c.playing = true
}

// Pause stops advancing time. The current time is left where it is.
func (c *Controller) Pause() {
	c.mu.Lock()
	c.playing = false
	c.mu.Unlock()
}

// Toggle flips between playing and paused and reports the new state.
func (c *Controller) Toggle() bool {
	c.mu.Lock()
	playing := c.playing
	c.mu.Unlock()
	if playing {
		c.Pause()
	} else {
		c.Play()
	}
	return c.Playing()
}

func (c *Controller) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// SetSpeed sets the playback-rate multiplier.
func (c *Controller) SetSpeed(speed float64) error {
	if speed <= 0 || speed != speed || speed > 1e6 {
		return ErrBadSpeed
	}
	c.mu.Lock()
	c.speed = speed
	c.mu.Unlock()
	return nil
}

func (c *Controller) Speed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speed
}

// Step advances the current time by dt (seconds of wall time) scaled
// by the playback speed. It is a no-op while paused. Reaching the end
// of the data range pauses playback and pins time to the end.
func (c *Controller) Step(dt float64) {
	c.mu.Lock()
	if !c.playing || dt <= 0 {
		c.mu.Unlock()
		return
	}
	speed := c.speed
	st := c.store.State()
	next := st.CurrentTime + dt*speed
	ended := next >= st.DataEnd
	if ended {
		next = st.DataEnd
		c.playing = false
	}
	onEnd := c.OnEnd
	c.mu.Unlock()

	c.store.SetCurrentTime(next)
	if ended && onEnd != nil {
		onEnd()
	}
}

// Run drives Step from a wall-clock ticker until ctx is done. A
// non-positive tick defaults to ~60 updates per second.
func (c *Controller) Run(ctx context.Context, tick time.Duration) error {
	if tick <= 0 {
		tick = time.Second / 60
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-t.C:
			c.Step(now.Sub(last).Seconds())
			last = now
		}
	}
}
