// ABOUTME: Completion is a cancellable timer that yields a value after a delay
// ABOUTME: Replaces ad hoc sleeps for the audit and sync handshakes

package clock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCanceled is returned by Wait when the completion was cancelled before
// its delay elapsed.
var ErrCanceled = errors.New("completion canceled")

// Completion resolves to a value once its delay has elapsed.
type Completion[T any] struct {
	mu    sync.Mutex
	timer Timer
	done  chan struct{}
	value T
	err   error
}

// After schedules produce to run on c after d. The returned Completion
// resolves with produce's result.
func After[T any](c Clock, d time.Duration, produce func() T) *Completion[T] {
	comp := &Completion[T]{done: make(chan struct{})}

	comp.mu.Lock()
	defer comp.mu.Unlock()
	comp.timer = c.AfterFunc(d, func() {
		v := produce()
		comp.resolve(v, nil)
	})
	return comp
}

// Done is closed once the completion resolves or is cancelled.
func (c *Completion[T]) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the completion resolves or ctx ends.
func (c *Completion[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-c.done:
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.value, c.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Cancel stops the completion if it has not fired yet. It reports whether
// the completion was stopped by this call.
func (c *Completion[T]) Cancel() bool {
	c.mu.Lock()
	t := c.timer
	c.mu.Unlock()

	if t == nil || !t.Stop() {
		return false
	}
	var zero T
	c.resolve(zero, ErrCanceled)
	return true
}

func (c *Completion[T]) resolve(v T, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return
	default:
	}
	c.value = v
	c.err = err
	close(c.done)
}
