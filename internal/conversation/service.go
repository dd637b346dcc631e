// ABOUTME: Service keeps the assistant transcript and talks to the chat collaborator
// ABOUTME: Messages are recorded before the assistant is called; failures become transcript entries

package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/aloka/nexus/internal/clock"
	"github.com/aloka/nexus/internal/store"
)

// TranscriptKey is the storage key of the chat transcript
const TranscriptKey = "aloka_nexus_chat_v11"

var (
	// ErrEmptyMessage is returned when sending blank text
	ErrEmptyMessage = errors.New("message is empty")

	// ErrBusy is returned when sending while a reply is pending
	ErrBusy = errors.New("assistant is still replying")

	// ErrMessageNotFound is returned for an unknown message id
	ErrMessageNotFound = errors.New("message not found")

	// ErrNotTranslatable is returned when translating a user message, a
	// failed reply, or one already translated
	ErrNotTranslatable = errors.New("message cannot be translated")
)

// Service is the chat layer. The transcript is the source of truth: the
// user's message is recorded before the assistant is asked, and the
// outcome, reply or failure, is recorded after.
type Service struct {
	mu          sync.Mutex
	assistant   Assistant
	backend     store.Backend
	broadcaster *Broadcaster
	clock       clock.Clock
	logger      *slog.Logger
	messages    []Message
	busy        bool
}

// New creates a service with a fresh transcript. backend and broadcaster
// may be nil.
func New(assistant Assistant, backend store.Backend, broadcaster *Broadcaster, c clock.Clock, logger *slog.Logger) *Service {
	if c == nil {
		c = clock.Real{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		assistant:   assistant,
		backend:     backend,
		broadcaster: broadcaster,
		clock:       c,
		logger:      logger.With("component", "conversation"),
	}
	s.messages = []Message{s.newMessage(RoleAssistant, Greeting)}
	return s
}

// Load replaces the transcript with the stored one, if any. A malformed
// transcript is discarded.
func (s *Service) Load(ctx context.Context) error {
	if s.backend == nil {
		return nil
	}
	payload, err := s.backend.Get(ctx, TranscriptKey)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading transcript: %w", err)
	}

	var msgs []Message
	if err := json.Unmarshal(payload, &msgs); err != nil || len(msgs) == 0 {
		s.logger.Warn("discarding unreadable transcript", "error", err)
		if delErr := s.backend.Delete(ctx, TranscriptKey); delErr != nil {
			s.logger.Warn("deleting transcript failed", "error", delErr)
		}
		return nil
	}

	s.mu.Lock()
	s.messages = msgs
	s.mu.Unlock()
	return nil
}

// Messages returns a copy of the transcript, oldest first
func (s *Service) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

// Send records text as a user message, asks the assistant, and records the
// answer. An assistant failure is not returned as an error: it is recorded
// as a failed reply whose content is the displayable message.
func (s *Service) Send(ctx context.Context, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return Message{}, ErrBusy
	}
	s.busy = true
	history := append([]Message(nil), s.messages...)
	user := s.newMessage(RoleUser, text)
	s.messages = append(s.messages, user)
	s.mu.Unlock()

	s.publish(user)
	s.persist(ctx)

	answer, err := s.assistant.Reply(ctx, text, history)

	reply := s.newMessage(RoleAssistant, answer)
	if err != nil {
		s.logger.Warn("assistant reply failed", "error", err)
		reply.Content = FailurePrefix + failureText(err)
		reply.Failed = true
	}

	s.mu.Lock()
	s.messages = append(s.messages, reply)
	s.busy = false
	s.mu.Unlock()

	s.publish(reply)
	s.persist(ctx)
	return reply, nil
}

// Translate translates an assistant reply into language. When the
// translation call fails the original text is used as the translation.
func (s *Service) Translate(ctx context.Context, id, language string) (Message, error) {
	if language == "" {
		language = DefaultLanguage
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return Message{}, fmt.Errorf("%w: %s", ErrMessageNotFound, id)
	}
	msg := s.messages[idx]
	s.mu.Unlock()

	if !msg.Translatable() {
		return Message{}, ErrNotTranslatable
	}

	translation, err := s.assistant.Translate(ctx, msg.Content, language)
	if err != nil {
		s.logger.Warn("translation failed, keeping original text", "message_id", id, "error", err)
		translation = msg.Content
	}

	s.mu.Lock()
	if idx = s.indexLocked(id); idx >= 0 {
		s.messages[idx].Translation = translation
		msg = s.messages[idx]
	}
	s.mu.Unlock()

	s.publish(msg)
	s.persist(ctx)
	return msg, nil
}

// Clear resets the transcript to the greeting and publishes the new greeting
func (s *Service) Clear(ctx context.Context) {
	greeting := s.newMessage(RoleAssistant, Greeting)
	s.mu.Lock()
	s.messages = []Message{greeting}
	s.mu.Unlock()

	s.publish(greeting)
	s.persist(ctx)
}

func (s *Service) indexLocked(id string) int {
	for i, m := range s.messages {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) newMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: s.clock.Now(),
	}
}

func (s *Service) publish(m Message) {
	if s.broadcaster != nil {
		s.broadcaster.Publish(m, "")
	}
}

// persist writes the transcript. Failures are logged: the in-memory
// transcript stays authoritative.
func (s *Service) persist(ctx context.Context) {
	if s.backend == nil {
		return
	}
	payload, err := json.Marshal(s.Messages())
	if err != nil {
		s.logger.Error("encoding transcript failed", "error", err)
		return
	}
	if err := s.backend.Put(ctx, TranscriptKey, payload); err != nil {
		s.logger.Warn("saving transcript failed", "error", err, "size", len(payload))
	}
}

func failureText(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return DefaultFailure
}
