// ABOUTME: Tests for the pseudo-hash and the verification panel lifecycle
// ABOUTME: Drives the CHECKING delay with a fake clock instead of sleeping

package audit

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aloka/nexus/internal/clock"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestHash_Format(t *testing.T) {
	re := regexp.MustCompile(`^[0-9a-f]{64}$`)
	seen := make(map[string]bool)
	for range 20 {
		h := Hash()
		assert.Regexp(t, re, h)
		seen[h] = true
	}
	assert.Greater(t, len(seen), 1, "hashes are random")
}

func TestPanel_Lifecycle(t *testing.T) {
	clk := clock.NewFake(epoch)
	v := NewVerifier(clk, 2*time.Second, nil)

	p := v.Open("pred-1")
	assert.Equal(t, StateIdle, p.State())
	assert.NotEmpty(t, p.ID)

	check, err := p.Verify()
	require.NoError(t, err)
	assert.Equal(t, StateChecking, p.State())

	clk.Advance(1999 * time.Millisecond)
	assert.Equal(t, StateChecking, p.State())

	clk.Advance(time.Millisecond)
	assert.Equal(t, StateVerified, p.State())

	state, err := check.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateVerified, state)
}

func TestPanel_VerifyIsIdempotent(t *testing.T) {
	clk := clock.NewFake(epoch)
	v := NewVerifier(clk, time.Second, nil)
	p := v.Open("pred-1")

	first, err := p.Verify()
	require.NoError(t, err)
	second, err := p.Verify()
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, clk.Pending())
}

func TestPanel_CloseDiscardsState(t *testing.T) {
	clk := clock.NewFake(epoch)
	v := NewVerifier(clk, time.Second, nil)

	p := v.Open("pred-1")
	_, err := p.Verify()
	require.NoError(t, err)
	clk.Advance(time.Second)
	require.Equal(t, StateVerified, v.State("pred-1"))

	v.Close("pred-1")
	assert.Equal(t, StateIdle, v.State("pred-1"))

	reopened := v.Open("pred-1")
	assert.NotEqual(t, p.ID, reopened.ID)
	assert.Equal(t, StateIdle, reopened.State(), "reopening does not restore VERIFIED")

	_, err = p.Verify()
	assert.ErrorIs(t, err, ErrPanelClosed)
}

func TestPanel_CloseWhileChecking(t *testing.T) {
	clk := clock.NewFake(epoch)
	v := NewVerifier(clk, time.Second, nil)

	p := v.Open("pred-1")
	check, err := p.Verify()
	require.NoError(t, err)

	v.Close("pred-1")
	clk.Advance(time.Second)

	_, err = check.Wait(context.Background())
	assert.ErrorIs(t, err, clock.ErrCanceled)
	assert.Equal(t, StateIdle, p.State())
	assert.Equal(t, 0, clk.Pending())
}

func TestPanels_AreIndependent(t *testing.T) {
	clk := clock.NewFake(epoch)
	v := NewVerifier(clk, 2*time.Second, nil)

	a := v.Open("a")
	b := v.Open("b")

	_, err := a.Verify()
	require.NoError(t, err)
	clk.Advance(time.Second)

	_, err = b.Verify()
	require.NoError(t, err)
	clk.Advance(time.Second)

	assert.Equal(t, StateVerified, a.State())
	assert.Equal(t, StateChecking, b.State())

	v.Close("a")
	clk.Advance(time.Second)
	assert.Equal(t, StateVerified, b.State())
}

func TestNewVerifier_DefaultDelay(t *testing.T) {
	clk := clock.NewFake(epoch)
	v := NewVerifier(clk, 0, nil)

	p := v.Open("x")
	_, err := p.Verify()
	require.NoError(t, err)

	clk.Advance(DefaultDelay - time.Millisecond)
	assert.Equal(t, StateChecking, p.State())
	clk.Advance(time.Millisecond)
	assert.Equal(t, StateVerified, p.State())
}
