// ABOUTME: Sentinel errors for the session package

package session

import "errors"

var (
	// ErrStorage is returned when persisting the document failed even after
	// the reduced-payload retry. The in-memory document is still valid.
	ErrStorage = errors.New("session storage failed")

	// ErrUnknownView is returned when navigating to a view name that does not exist
	ErrUnknownView = errors.New("unknown view")

	// ErrUnknownNotification is returned for an unknown notification toggle
	ErrUnknownNotification = errors.New("unknown notification setting")

	// ErrSyncIncomplete is returned when a sync is applied without both a
	// platform and an engine
	ErrSyncIncomplete = errors.New("platform and engine must be set together")
)
