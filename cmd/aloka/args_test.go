// ABOUTME: Tests for the CLI argument helpers

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	flags, positional, err := parseArgs(
		[]string{"--mode", "ROSE", "shot.png", "--round=R-1"},
		"mode", "round",
	)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"mode": "ROSE", "round": "R-1"}, flags)
	assert.Equal(t, []string{"shot.png"}, positional)
}

func TestParseArgs_Errors(t *testing.T) {
	_, _, err := parseArgs([]string{"--mode"}, "mode")
	assert.ErrorContains(t, err, "requires a value")

	_, _, err = parseArgs([]string{"--speed", "3"}, "mode")
	assert.ErrorContains(t, err, "unknown flag")
}

func TestParseSwitch(t *testing.T) {
	on, err := parseSwitch("ON")
	require.NoError(t, err)
	assert.True(t, on)

	off, err := parseSwitch("off")
	require.NoError(t, err)
	assert.False(t, off)

	_, err = parseSwitch("maybe")
	assert.Error(t, err)
}
