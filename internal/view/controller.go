package view

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/piwi3910/GlassQuote/internal/model"
)

// DefaultStep is the angle advanced per auto-rotate tick, in degrees.
const DefaultStep = 2.0

// Controller is the Idle/Rotating state machine over a ViewState.
// At most one rotate task runs at a time; Play and Stop are idempotent.
type Controller struct {
	mu        sync.Mutex
	state     model.ViewState
	step      float64
	ticks     TickSource
	cancel    context.CancelFunc
	listeners []func(model.ViewState)
	log       zerolog.Logger
}

// NewController creates an idle controller at angle 0.
func NewController(ticks TickSource, step float64, log zerolog.Logger) *Controller {
	if step == 0 {
		step = DefaultStep
	}
	if ticks == nil {
		ticks = IntervalTicks{Interval: DefaultInterval}
	}
	return &Controller{
		ticks: ticks,
		step:  step,
		log:   log.With().Str("component", "view").Logger(),
	}
}

// OnChange registers fn to receive every new ViewState. Tick-driven changes
// arrive on the rotate task's goroutine.
func (c *Controller) OnChange(fn func(model.ViewState)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// State returns the current ViewState.
func (c *Controller) State() model.ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Play moves Idle to Rotating. A second Play while rotating is a no-op.
func (c *Controller) Play() {
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.state.IsPlaying = true
	st, ls := c.state, c.listeners
	c.mu.Unlock()

	go c.run(ctx, c.ticks.Ticks(ctx))
	c.log.Debug().Float64("angle", st.Angle).Msg("auto-rotate started")
	notify(ls, st)
}

// Stop moves Rotating to Idle. Stopping while idle is a no-op.
func (c *Controller) Stop() {
	c.mu.Lock()
	if !c.stopLocked() {
		c.mu.Unlock()
		return
	}
	st, ls := c.state, c.listeners
	c.mu.Unlock()

	c.log.Debug().Float64("angle", st.Angle).Msg("auto-rotate stopped")
	notify(ls, st)
}

// Toggle plays when idle and stops when rotating.
func (c *Controller) Toggle() {
	if c.State().IsPlaying {
		c.Stop()
		return
	}
	c.Play()
}

// Rotate applies a manual delta. It always forces Idle first so manual and
// automatic control never fight.
func (c *Controller) Rotate(delta float64) {
	c.mu.Lock()
	c.stopLocked()
	c.state.Angle = model.NormalizeAngle(c.state.Angle + delta)
	st, ls := c.state, c.listeners
	c.mu.Unlock()
	notify(ls, st)
}

// Reset returns to angle 0 and Idle from any state.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.stopLocked()
	c.state = model.ViewState{}
	st, ls := c.state, c.listeners
	c.mu.Unlock()
	notify(ls, st)
}

// Close cancels the rotate task without notifying listeners.
func (c *Controller) Close() {
	c.mu.Lock()
	c.stopLocked()
	c.mu.Unlock()
}

// stopLocked cancels the running task. Reports whether one was running.
func (c *Controller) stopLocked() bool {
	if c.cancel == nil {
		return false
	}
	c.cancel()
	c.cancel = nil
	c.state.IsPlaying = false
	return true
}

func (c *Controller) run(ctx context.Context, ticks <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ticks:
			if !ok {
				return
			}
			c.advance(ctx)
		}
	}
}

// advance applies one tick unless the task was cancelled after the tick arrived.
func (c *Controller) advance(ctx context.Context) {
	c.mu.Lock()
	if ctx.Err() != nil {
		c.mu.Unlock()
		return
	}
	c.state.Angle = model.NormalizeAngle(c.state.Angle + c.step)
	st, ls := c.state, c.listeners
	c.mu.Unlock()
	notify(ls, st)
}

func notify(ls []func(model.ViewState), st model.ViewState) {
	for _, fn := range ls {
		fn(st)
	}
}
