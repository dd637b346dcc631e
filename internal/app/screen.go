// ABOUTME: Screen gating and transient view flags
// ABOUTME: Decides which top-level screen a session document shows

package app

import "github.com/aloka/nexus/internal/session"

// Screen is the top-level screen the presentation layer renders
type Screen string

const (
	ScreenWallpaperEditor Screen = "WALLPAPER_EDITOR"
	ScreenFirstWallpaper  Screen = "FIRST_WALLPAPER"
	ScreenSubscription    Screen = "SUBSCRIPTION"
	ScreenAuth            Screen = "AUTH"
	ScreenMain            Screen = "MAIN"
)

// ScreenFor returns the screen doc gates to. The wallpaper view stays
// reachable without a session.
func ScreenFor(doc session.Document) Screen {
	switch {
	case !doc.IsAuthenticated && doc.CurrentView.PublicWhenLoggedOut():
		return ScreenWallpaperEditor
	case !doc.HasAcceptedWallpaper:
		return ScreenFirstWallpaper
	case !doc.HasSeenSubscription:
		return ScreenSubscription
	case !doc.IsAuthenticated:
		return ScreenAuth
	default:
		return ScreenMain
	}
}

// ViewState holds the visibility flags that are not persisted
type ViewState struct {
	MenuOpen      bool
	SyncModalOpen bool
}
