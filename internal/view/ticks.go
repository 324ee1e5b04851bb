package view

import (
	"context"
	"time"
)

// TickSource drives auto-rotation. Ticks must stop being delivered once ctx
// is done; the returned channel may be closed at that point.
type TickSource interface {
	Ticks(ctx context.Context) <-chan time.Time
}

// DefaultInterval is the auto-rotate tick period.
const DefaultInterval = 40 * time.Millisecond

// IntervalTicks is a TickSource backed by time.Ticker. A non-positive
// Interval means DefaultInterval.
type IntervalTicks struct {
	Interval time.Duration
}

func (s IntervalTicks) Ticks(ctx context.Context) <-chan time.Time {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	out := make(chan time.Time)
	go func() {
		defer close(out)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				select {
				case out <- now:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// ManualTicks is a TickSource driven by explicit Tick calls, for tests and
// for stepping the preview frame by frame.
type ManualTicks struct {
	ch chan time.Time
}

func NewManualTicks() *ManualTicks {
	return &ManualTicks{ch: make(chan time.Time)}
}

func (m *ManualTicks) Ticks(ctx context.Context) <-chan time.Time {
	out := make(chan time.Time)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-m.ch:
				select {
				case out <- now:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Tick delivers one tick to a running subscriber. It returns false if no
// subscriber took it within timeout.
func (m *ManualTicks) Tick(timeout time.Duration) bool {
	select {
	case m.ch <- time.Now():
		return true
	case <-time.After(timeout):
		return false
	}
}
