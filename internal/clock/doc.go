// Package clock provides the delayed-completion primitive used by the
// simulated verification and sync handshakes.
//
// # Overview
//
// Both the audit panel and the platform handshake wait a fixed duration
// before reporting success. Rather than sleeping, they schedule a
// Completion on a Clock:
//
//	c := clock.After(clk, 2*time.Second, func() string { return "verified" })
//	v, err := c.Wait(ctx)
//
// # Clocks
//
//   - Real: wall-clock time backed by time.AfterFunc
//   - Fake: virtual time for tests; timers fire only when Advance is called
//
// A Completion can be cancelled before it fires. Cancelled completions
// resolve with ErrCanceled and never run their callback.
package clock
