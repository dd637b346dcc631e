// Package conversation runs the in-app assistant chat.
//
// # Service
//
// The Service keeps an ordered transcript that opens with a greeting:
//
//	svc := conversation.New(assistant, backend, broadcaster, clock.Real{}, logger)
//	reply, err := svc.Send(ctx, "Quel mode pour ce soir ?")
//
// Record first, then act: the user's message is appended (and persisted,
// when a backend is configured) before the Assistant is called. The
// assistant's answer is appended afterwards. If the assistant fails, the
// failure is appended as a reply whose content is a displayable message,
// so callers never need to render a structured error.
//
// Only one reply may be pending at a time; Send returns ErrBusy otherwise.
//
// # Translation
//
// Translate fills in the translation of an assistant reply. When the
// translation call fails, the original text becomes the translation.
//
// # Broadcaster
//
// The Broadcaster fans recorded messages out to subscribers. Publishing is
// non-blocking; a slow subscriber misses messages rather than stalling the
// chat.
package conversation
