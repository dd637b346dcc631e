// ABOUTME: Tests for the MockStore test double
// ABOUTME: Verifies failure injection, quota, and copy semantics

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockStore_FailNextPuts(t *testing.T) {
	m := NewMockStore(0)
	ctx := context.Background()
	boom := errors.New("boom")

	m.FailNextPuts(boom)

	assert.ErrorIs(t, m.Put(ctx, "k", []byte("a")), boom)
	require.NoError(t, m.Put(ctx, "k", []byte("b")))
	assert.Equal(t, 2, m.PutCalls())

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "b", string(got))
}

func TestMockStore_Quota(t *testing.T) {
	m := NewMockStore(3)
	err := m.Put(context.Background(), "k", []byte("four"))
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	_, err = m.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMockStore_ReturnsCopies(t *testing.T) {
	m := NewMockStore(0)
	ctx := context.Background()

	payload := []byte("abc")
	require.NoError(t, m.Put(ctx, "k", payload))
	payload[0] = 'z'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'z'
	again, _ := m.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}
