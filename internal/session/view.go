// ABOUTME: Closed enumeration of navigable views
// ABOUTME: Unknown view names are rejected at the navigation boundary

package session

import "fmt"

// View names a screen of the main application
type View string

const (
	ViewHome           View = "home"
	ViewScreenshot     View = "screenshot"
	ViewDirectAnalysis View = "direct_analysis"
	ViewChat           View = "chat"
	ViewAssistant      View = "ai"
	ViewHistory        View = "history"
	ViewSettings       View = "settings"
	ViewProfile        View = "profile"
	ViewWallpaper      View = "wallpaper"
	ViewSocial         View = "social"
	ViewMethodology    View = "methodology"
	ViewAbout          View = "about"
)

// Views lists every valid view in menu order
var Views = []View{
	ViewHome,
	ViewScreenshot,
	ViewDirectAnalysis,
	ViewChat,
	ViewAssistant,
	ViewHistory,
	ViewSettings,
	ViewProfile,
	ViewWallpaper,
	ViewSocial,
	ViewMethodology,
	ViewAbout,
}

// ParseView validates a view name
func ParseView(name string) (View, error) {
	for _, v := range Views {
		if string(v) == name {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownView, name)
}

// Parent returns the view the back action leads to
func (v View) Parent() View {
	switch v {
	case ViewProfile, ViewWallpaper, ViewSocial, ViewMethodology, ViewAbout:
		return ViewSettings
	default:
		return ViewHome
	}
}

// PublicWhenLoggedOut reports whether the view may be shown without a session
func (v View) PublicWhenLoggedOut() bool {
	return v == ViewWallpaper
}
