// ABOUTME: Pure state transitions over the session document
// ABOUTME: Each transition maps (old document, input) to a new document or an error

package session

import (
	"fmt"
	"strings"
)

// Transition computes the next document from a private copy of the current
// one. Returning an error leaves the current document untouched.
type Transition func(doc Document) (Document, error)

// NotificationKey names a notification toggle
type NotificationKey string

const (
	NotifyEliteSignals NotificationKey = "eliteSignals"
	NotifyCrashAlerts  NotificationKey = "crashAlerts"
)

// Navigate switches the current view. Unknown names are rejected.
func Navigate(name string) Transition {
	return func(doc Document) (Document, error) {
		v, err := ParseView(name)
		if err != nil {
			return doc, err
		}
		doc.CurrentView = v
		return doc, nil
	}
}

// AddPrediction prepends p to the history
func AddPrediction(p Prediction) Transition {
	return func(doc Document) (Document, error) {
		doc.Predictions = append([]Prediction{p}, doc.Predictions...)
		return doc, nil
	}
}

// ClearHistory empties the prediction history. Idempotent.
func ClearHistory() Transition {
	return func(doc Document) (Document, error) {
		doc.Predictions = []Prediction{}
		return doc, nil
	}
}

// AcceptWallpaper records the first-launch wallpaper choice and completes
// that onboarding step.
func AcceptWallpaper(ref string) Transition {
	return func(doc Document) (Document, error) {
		doc.CustomWallpaper = &ref
		doc.HasAcceptedWallpaper = true
		return doc, nil
	}
}

// SetWallpaper replaces the wallpaper reference
func SetWallpaper(ref string) Transition {
	return func(doc Document) (Document, error) {
		doc.CustomWallpaper = &ref
		return doc, nil
	}
}

// ResetWallpaper restores the default wallpaper, used when the current one
// fails to load.
func ResetWallpaper() Transition {
	return SetWallpaper(DefaultWallpaper)
}

// MarkSubscriptionSeen completes the subscription onboarding step
func MarkSubscriptionSeen() Transition {
	return func(doc Document) (Document, error) {
		doc.HasSeenSubscription = true
		return doc, nil
	}
}

// SetNotification flips one notification toggle
func SetNotification(key NotificationKey, on bool) Transition {
	return func(doc Document) (Document, error) {
		switch key {
		case NotifyEliteSignals:
			doc.Notifications.EliteSignals = on
		case NotifyCrashAlerts:
			doc.Notifications.CrashAlerts = on
		default:
			return doc, fmt.Errorf("%w: %q", ErrUnknownNotification, key)
		}
		return doc, nil
	}
}

// SetLightBg records whether the wallpaper is light enough to need dark text
func SetLightBg(on bool) Transition {
	return func(doc Document) (Document, error) {
		doc.IsLightBg = on
		return doc, nil
	}
}

// ApplySync records a completed platform handshake. The platform, the
// engine, and the unlock flag change together.
func ApplySync(platformID string, engine Engine) Transition {
	return func(doc Document) (Document, error) {
		if strings.TrimSpace(platformID) == "" || engine == "" {
			return doc, ErrSyncIncomplete
		}
		doc.SyncedPlatform = &platformID
		doc.SyncedEngine = &engine
		doc.IsPredictorUnlocked = true
		return doc, nil
	}
}

// IsInlineMedia reports whether a wallpaper reference embeds its media
// instead of pointing at it
func IsInlineMedia(ref string) bool {
	return strings.HasPrefix(ref, "data:")
}

// IsVideo reports whether a media reference looks like a video
func IsVideo(ref string) bool {
	if ref == "" {
		return false
	}
	return strings.Contains(ref, "video") ||
		strings.HasSuffix(ref, ".mp4") ||
		strings.HasSuffix(ref, ".webm")
}
