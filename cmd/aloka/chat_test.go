// ABOUTME: Tests for the chat REPL input handling and feed rendering
// ABOUTME: Runs the real chat service against an in-memory store

package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aloka/nexus/internal/clock"
	"github.com/aloka/nexus/internal/conversation"
	"github.com/aloka/nexus/internal/store"
)

type stubAssistant struct{}

func (stubAssistant) Reply(ctx context.Context, message string, history []conversation.Message) (string, error) {
	return "re: " + message, nil
}

func (stubAssistant) Translate(ctx context.Context, text, language string) (string, error) {
	if text == "" {
		return "", errors.New("empty")
	}
	return language + ": " + text, nil
}

func newChatFixture(t *testing.T) (*conversation.Service, <-chan conversation.Message) {
	t.Helper()
	feed := conversation.NewBroadcaster(nil)
	t.Cleanup(feed.Close)
	messages, _ := feed.Subscribe(t.Context())

	clk := clock.NewFake(time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC))
	chat := conversation.New(stubAssistant{}, store.NewMockStore(0), feed, clk, nil)
	return chat, messages
}

func TestChatLine_RendersFromFeed(t *testing.T) {
	ctx := context.Background()
	chat, messages := newChatFixture(t)

	var shown []conversation.Message
	render := func(m conversation.Message) { shown = append(shown, m) }

	require.NoError(t, chatLine(ctx, chat, "bonjour", "Malagasy"))
	assert.Equal(t, 1, drainFeed(messages, render))
	require.Len(t, shown, 1)
	assert.Equal(t, "re: bonjour", shown[0].Content, "the typed message is not echoed")

	require.NoError(t, chatLine(ctx, chat, "/translate "+shown[0].ID, "Malagasy"))
	assert.Equal(t, 1, drainFeed(messages, render))
	assert.Equal(t, "Malagasy: re: bonjour", shown[1].Translation)

	require.NoError(t, chatLine(ctx, chat, "/clear", "Malagasy"))
	assert.Equal(t, 1, drainFeed(messages, render))
	assert.Equal(t, conversation.Greeting, shown[2].Content)
	assert.Len(t, chat.Messages(), 1)

	assert.Equal(t, 0, drainFeed(messages, render), "feed is empty after draining")
}

func TestChatLine_Errors(t *testing.T) {
	ctx := context.Background()
	chat, messages := newChatFixture(t)

	assert.Error(t, chatLine(ctx, chat, "/translate", "Malagasy"))
	assert.ErrorIs(t, chatLine(ctx, chat, "/translate nope", "Malagasy"), conversation.ErrMessageNotFound)
	assert.Equal(t, 0, drainFeed(messages, func(conversation.Message) {}))
}
