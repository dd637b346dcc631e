// ABOUTME: Tests for the fake clock and delayed completions
// ABOUTME: Covers virtual-time ordering, cancellation, and goroutine hygiene of the real clock

package clock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var epoch = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func TestFake_AdvanceFiresDueTimersInOrder(t *testing.T) {
	clk := NewFake(epoch)

	var fired []string
	clk.AfterFunc(3*time.Second, func() { fired = append(fired, "late") })
	clk.AfterFunc(1*time.Second, func() { fired = append(fired, "early") })
	clk.AfterFunc(1*time.Second, func() { fired = append(fired, "early-2") })

	clk.Advance(2 * time.Second)
	assert.Equal(t, []string{"early", "early-2"}, fired)
	assert.Equal(t, 1, clk.Pending())
	assert.Equal(t, epoch.Add(2*time.Second), clk.Now())

	clk.Advance(time.Second)
	assert.Equal(t, []string{"early", "early-2", "late"}, fired)
	assert.Equal(t, 0, clk.Pending())
}

func TestFake_StopPreventsFiring(t *testing.T) {
	clk := NewFake(epoch)

	fired := false
	timer := clk.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop(), "second stop should report false")

	clk.Advance(time.Minute)
	assert.False(t, fired)
}

func TestFake_CallbackCanScheduleMore(t *testing.T) {
	clk := NewFake(epoch)

	count := 0
	clk.AfterFunc(time.Second, func() {
		count++
		clk.AfterFunc(time.Second, func() { count++ })
	})

	clk.Advance(2 * time.Second)
	assert.Equal(t, 2, count)
}

func TestCompletion_ResolvesAfterDelay(t *testing.T) {
	clk := NewFake(epoch)
	comp := After(clk, 2*time.Second, func() string { return "verified" })

	select {
	case <-comp.Done():
		t.Fatal("completion resolved before delay elapsed")
	default:
	}

	clk.Advance(1999 * time.Millisecond)
	select {
	case <-comp.Done():
		t.Fatal("completion resolved one millisecond early")
	default:
	}

	clk.Advance(time.Millisecond)
	v, err := comp.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "verified", v)
}

func TestCompletion_Cancel(t *testing.T) {
	clk := NewFake(epoch)
	ran := false
	comp := After(clk, time.Second, func() int { ran = true; return 1 })

	assert.True(t, comp.Cancel())
	assert.False(t, comp.Cancel())

	clk.Advance(time.Minute)
	v, err := comp.Wait(context.Background())
	assert.ErrorIs(t, err, ErrCanceled)
	assert.Zero(t, v)
	assert.False(t, ran)
}

func TestCompletion_CancelAfterFireIsNoop(t *testing.T) {
	clk := NewFake(epoch)
	comp := After(clk, time.Second, func() int { return 7 })

	clk.Advance(time.Second)
	assert.False(t, comp.Cancel())

	v, err := comp.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestCompletion_WaitHonoursContext(t *testing.T) {
	clk := NewFake(epoch)
	comp := After(clk, time.Hour, func() int { return 1 })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := comp.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompletion_RealClockLeavesNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t)

	comp := After(Real{}, 5*time.Millisecond, func() string { return "done" })
	v, err := comp.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "done", v)

	stopped := After(Real{}, time.Hour, func() string { return "never" })
	assert.True(t, stopped.Cancel())
}
