package scheduler

import (
	"context"
	"errors"
	"time"
)

var ErrLoopStopped = errors.New("loop stopped")

// Loop runs clock callbacks and posted work on a single goroutine.
//
// Everything that touches a supervisor must run inside the loop: clock firings
// are delivered through it, and hosts submit their own work with Post. This
// gives the cooperative single-threaded model the supervisor relies on.
type Loop struct {
	unit  time.Duration
	tasks chan func()
	done  chan struct{}
}

// NewLoop creates a loop whose clocks count in multiples of unit.
func NewLoop(unit time.Duration) *Loop {
	if unit <= 0 {
		unit = time.Millisecond
	}

	return &Loop{
		unit:  unit,
		tasks: make(chan func(), 64),
		done:  make(chan struct{}),
	}
}

// Run executes posted work until ctx is canceled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case task := <-l.tasks:
			task()
		}
	}
}

// Post queues fn to run on the loop goroutine.
// It returns ErrLoopStopped once Run has returned.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.done:
		return ErrLoopStopped
	default:
	}

	select {
	case l.tasks <- fn:
		return nil
	case <-l.done:
		return ErrLoopStopped
	}
}

// Call runs fn on the loop goroutine and waits for it to finish.
func (l *Loop) Call(fn func()) error {
	finished := make(chan struct{})

	if err := l.Post(func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrLoopStopped
	}
}

func (l *Loop) NewClock(callback func()) Clock {
	return &loopClock{loop: l, callback: callback}
}

// loopClock is only accessed from the loop goroutine, except for the timer
// goroutine which does nothing but post back into the loop.
type loopClock struct {
	loop       *Loop
	callback   func()
	timer      *time.Timer
	generation uint64
	pending    bool
}

func (c *loopClock) Delay(units int) {
	c.Unset()

	if units < 0 {
		units = 0
	}

	c.generation++
	c.pending = true
	generation := c.generation

	c.timer = time.AfterFunc(time.Duration(units)*c.loop.unit, func() {
		_ = c.loop.Post(func() {
			if !c.pending || c.generation != generation {
				return // superseded by a later Delay or Unset
			}
			c.pending = false
			c.callback()
		})
	})
}

func (c *loopClock) Unset() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.pending = false
}

func (c *loopClock) Pending() bool {
	return c.pending
}
