// Package session owns the persisted session document and its lifecycle.
//
// # Overview
//
// All durable client state lives in one Document: authentication, the
// account list, consumed activation codes, the current view, the synced
// platform, prediction history, onboarding flags and preferences.
//
// # Transitions
//
// Every change is a Transition, a pure function from the current document
// to the next one:
//
//	doc, err := container.Dispatch(ctx, "clear_history", session.ClearHistory())
//
// The Container serialises transitions, hands each one a private copy of
// the current document, commits the result and persists it exactly once.
// A rejected transition leaves the document and storage untouched.
//
// Transitions for the credential registry live in the auth package and
// the sync handshake's commit is ApplySync; both are plain Transitions.
//
// # Persistence
//
// Persister stores the document as JSON under StorageKey:
//
//   - Missing payload: the caller's fallback (usually Default()) is used
//   - Malformed payload: purged from storage, then the fallback is used
//   - Failed write: retried once with inline wallpaper media replaced by
//     DefaultWallpaper; a second failure returns ErrStorage
//
// # Invariants
//
//   - Account ids are unique, uppercase and trimmed
//   - SyncedPlatform and SyncedEngine are both nil or both set
//   - CurrentView is always a member of Views
//   - Predictions are most-recent-first and never edited in place
package session
