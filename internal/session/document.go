// ABOUTME: Session document types: the single persisted root of client state
// ABOUTME: Defines accounts, predictions, signals, and the fresh-install default document

package session

import (
	"encoding/json"
	"time"
)

// StorageKey is the fixed key the session document is stored under
const StorageKey = "aloka_nexus_stable_v11"

// DefaultWallpaper is the wallpaper of a fresh install and the fallback
// reference used when inline media must be dropped.
const DefaultWallpaper = "https://images.unsplash.com/photo-1614850523296-d8c1af93d400?q=80&w=2070&auto=format&fit=crop"

// Seeded account present on a fresh install
const (
	SeedAccountID       = "ADMIN"
	SeedAccountPassword = "ALOKA2025"
)

// Engine is the game engine a platform was synced with
type Engine string

const (
	EngineStudio Engine = "Studio"
	EngineSpribe Engine = "Spribe"
)

// Mode selects the formula that produced a prediction
type Mode string

const (
	ModeBonne    Mode = "BONNE"
	ModeMauvaise Mode = "MAUVAISE"
	ModeRose     Mode = "ROSE"
	ModeDirect   Mode = "DIRECT"
)

// Account is a local credential record. ID is uppercase and trimmed.
type Account struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

// UnmarshalJSON also accepts the legacy "pass" field for the password
func (a *Account) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID       string  `json:"id"`
		Password *string `json:"password"`
		Pass     string  `json:"pass"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	a.ID = wire.ID
	a.Password = wire.Pass
	if wire.Password != nil {
		a.Password = *wire.Password
	}
	return nil
}

// Notifications holds the user's notification toggles
type Notifications struct {
	EliteSignals bool `json:"eliteSignals"`
	CrashAlerts  bool `json:"crashAlerts"`
}

// Signal is one time/multiplier/confidence output of a formula
type Signal struct {
	Time       string `json:"time"`       // HH:MM:SS
	Multiplier string `json:"multiplier"` // two decimals, never below "1.00"
	Label      string `json:"label"`
	Confidence int    `json:"confidence"` // 0-100
}

// Results holds the one or two signals of a prediction
type Results struct {
	Res1 Signal  `json:"res1"`
	Res2 *Signal `json:"res2,omitempty"`
}

// Audit carries the round the prediction was derived from
type Audit struct {
	RoundID string `json:"roundId"`
}

// Prediction is an immutable record produced by one successful analysis
type Prediction struct {
	ID              string  `json:"id"`
	Platform        string  `json:"platform"`
	Engine          *Engine `json:"engine,omitempty"`
	Timestamp       string  `json:"timestamp"` // RFC 3339
	InputTime       string  `json:"inputTime"`
	InputMultiplier string  `json:"inputMultiplier"`
	Mode            Mode    `json:"mode"`
	Hash            string  `json:"hash"`
	Results         Results `json:"results"`
	Audit           Audit   `json:"audit"`
}

// Document is the whole of the durable client state. It is read and
// written as a unit; transitions receive a private copy.
type Document struct {
	IsAuthenticated      bool          `json:"isAuthenticated"`
	CurrentUser          *string       `json:"currentUser"`
	Accounts             []Account     `json:"accounts"`
	UsedActivationCodes  []string      `json:"usedActivationCodes"`
	CurrentView          View          `json:"currentView"`
	SyncedPlatform       *string       `json:"syncedPlatform"`
	SyncedEngine         *Engine       `json:"syncedEngine"`
	IsPredictorUnlocked  bool          `json:"isPredictorUnlocked"`
	Predictions          []Prediction  `json:"predictions"`
	HasAcceptedWallpaper bool          `json:"hasAcceptedWallpaper"`
	HasSeenSubscription  bool          `json:"hasSeenSubscription"`
	CustomWallpaper      *string       `json:"customWallpaper"`
	IsLightBg            bool          `json:"isLightBg"`
	Notifications        Notifications `json:"notifications"`
}

// UnmarshalJSON also accepts documents written by the legacy client, which
// kept accounts under "registeredUsers". "accounts" wins when both exist.
func (d *Document) UnmarshalJSON(data []byte) error {
	type plain Document
	var wire struct {
		plain
		RegisteredUsers []Account `json:"registeredUsers"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*d = Document(wire.plain)
	if d.Accounts == nil && wire.RegisteredUsers != nil {
		d.Accounts = wire.RegisteredUsers
	}
	return nil
}

// Default returns the document of a fresh install
func Default() Document {
	wallpaper := DefaultWallpaper
	return Document{
		Accounts:            []Account{{ID: SeedAccountID, Password: SeedAccountPassword}},
		UsedActivationCodes: []string{},
		CurrentView:         ViewHome,
		Predictions:         []Prediction{},
		CustomWallpaper:     &wallpaper,
		Notifications: Notifications{
			EliteSignals: true,
			CrashAlerts:  true,
		},
	}
}

// Clone returns a deep copy of the document. Predictions are immutable, so
// their optional fields are shared.
func (d Document) Clone() Document {
	c := d
	c.CurrentUser = cloneString(d.CurrentUser)
	c.SyncedPlatform = cloneString(d.SyncedPlatform)
	c.CustomWallpaper = cloneString(d.CustomWallpaper)
	if d.SyncedEngine != nil {
		e := *d.SyncedEngine
		c.SyncedEngine = &e
	}
	c.Accounts = append([]Account{}, d.Accounts...)
	c.UsedActivationCodes = append([]string{}, d.UsedActivationCodes...)
	c.Predictions = append([]Prediction{}, d.Predictions...)
	return c
}

// FindAccount returns the index of the account with the given normalized
// id, or -1.
func (d Document) FindAccount(id string) int {
	for i, a := range d.Accounts {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// CodeUsed reports whether an activation code has already been consumed
func (d Document) CodeUsed(code string) bool {
	for _, c := range d.UsedActivationCodes {
		if c == code {
			return true
		}
	}
	return false
}

// User returns the logged-in account id, or "" when logged out
func (d Document) User() string {
	if !d.IsAuthenticated || d.CurrentUser == nil {
		return ""
	}
	return *d.CurrentUser
}

// Wallpaper returns the wallpaper reference, falling back to the default
func (d Document) Wallpaper() string {
	if d.CustomWallpaper == nil || *d.CustomWallpaper == "" {
		return DefaultWallpaper
	}
	return *d.CustomWallpaper
}

// normalize repairs a loaded document so the invariants hold even when the
// stored payload was written by an older or hand-edited client.
func (d Document) normalize() Document {
	if d.Accounts == nil {
		d.Accounts = []Account{}
	}
	if d.UsedActivationCodes == nil {
		d.UsedActivationCodes = []string{}
	}
	if d.Predictions == nil {
		d.Predictions = []Prediction{}
	}
	if _, err := ParseView(string(d.CurrentView)); err != nil {
		d.CurrentView = ViewHome
	}
	if (d.SyncedPlatform == nil) != (d.SyncedEngine == nil) {
		d.SyncedPlatform = nil
		d.SyncedEngine = nil
	}
	if d.IsAuthenticated && (d.CurrentUser == nil || d.FindAccount(*d.CurrentUser) < 0) {
		d.IsAuthenticated = false
	}
	if !d.IsAuthenticated {
		d.CurrentUser = nil
	}
	return d
}

// NewTimestamp formats t the way prediction timestamps are stored
func NewTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
