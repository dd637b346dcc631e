// ABOUTME: Partner platform catalog with per-engine launch URLs
// ABOUTME: Ships a built-in catalog and loads TOML overrides

package platform

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aloka/nexus/internal/session"
)

var (
	// ErrUnknownPlatform is returned for a platform id not in the catalog
	ErrUnknownPlatform = errors.New("unknown platform")

	// ErrUnknownEngine is returned for an engine name other than studio or spribe
	ErrUnknownEngine = errors.New("unknown engine")
)

// EngineType is the engine choice as the selector names it
type EngineType string

const (
	EngineStudio EngineType = "studio"
	EngineSpribe EngineType = "spribe"
)

// ParseEngineType validates an engine name, case-insensitively
func ParseEngineType(name string) (EngineType, error) {
	switch e := EngineType(strings.ToLower(strings.TrimSpace(name))); e {
	case EngineStudio, EngineSpribe:
		return e, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
}

// SessionEngine maps the selector's engine name to the stored engine
func (e EngineType) SessionEngine() session.Engine {
	if e == EngineSpribe {
		return session.EngineSpribe
	}
	return session.EngineStudio
}

// EngineSlot is one engine offering of a platform
type EngineSlot struct {
	Available bool   `toml:"available"`
	URL       string `toml:"url"`
	Note      string `toml:"note"`
}

// Engines lists a platform's engine offerings
type Engines struct {
	Studio EngineSlot `toml:"studio"`
	Spribe EngineSlot `toml:"spribe"`
}

// Platform is one partner site
type Platform struct {
	ID      string  `toml:"id"`
	Name    string  `toml:"name"`
	URL     string  `toml:"url"`
	Engines Engines `toml:"engines"`
}

// Slot returns the platform's offering for an engine
func (p Platform) Slot(e EngineType) EngineSlot {
	if e == EngineSpribe {
		return p.Engines.Spribe
	}
	return p.Engines.Studio
}

// Catalog is the ordered list of platforms
type Catalog struct {
	Platforms []Platform `toml:"platforms"`
}

// DefaultCatalog returns the built-in platforms
func DefaultCatalog() *Catalog {
	return &Catalog{Platforms: []Platform{
		{
			ID:   "1xBet",
			Name: "1xbet",
			URL:  "https://1xbet.com/",
			Engines: Engines{
				Studio: EngineSlot{Available: true, URL: "https://1xbet.com/fr/slots/game/141085/aviator", Note: "Aviator Studio 1xbet"},
				Spribe: EngineSlot{Available: true, URL: "https://1xbet.com/fr/slots/game/52358/aviator"},
			},
		},
		{
			ID:   "Melbet",
			Name: "Melbet",
			URL:  "https://melbet.com/",
			Engines: Engines{
				Studio: EngineSlot{Available: true, URL: "https://melbet.com/"},
				Spribe: EngineSlot{Available: true, URL: "https://melbet.com/"},
			},
		},
		{
			ID:   "Bet261",
			Name: "Bet261",
			URL:  "https://bet261.mg/",
			Engines: Engines{
				Studio: EngineSlot{Available: true, URL: "https://bet261.mg/instant-games/llc/Aviator", Note: "Aviator Studio Bet261"},
				Spribe: EngineSlot{Available: false},
			},
		},
	}}
}

// LoadCatalog reads a catalog from a TOML file
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var c Catalog
	if _, err := toml.Decode(string(data), &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validating catalog: %w", err)
	}
	return &c, nil
}

// Validate checks that the catalog is usable
func (c *Catalog) Validate() error {
	if len(c.Platforms) == 0 {
		return fmt.Errorf("catalog has no platforms")
	}
	seen := make(map[string]bool, len(c.Platforms))
	for i, p := range c.Platforms {
		if p.ID == "" {
			return fmt.Errorf("platforms[%d].id is required", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("platforms[%d]: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = true
		if p.URL == "" {
			return fmt.Errorf("platforms[%d].url is required", i)
		}
		if !p.Engines.Studio.Available && !p.Engines.Spribe.Available {
			return fmt.Errorf("platforms[%d]: at least one engine must be available", i)
		}
		for _, e := range []EngineType{EngineStudio, EngineSpribe} {
			if s := p.Slot(e); s.Available && s.URL == "" {
				return fmt.Errorf("platforms[%d].engines.%s.url is required when available", i, e)
			}
		}
	}
	return nil
}

// Find looks a platform up by id
func (c *Catalog) Find(id string) (Platform, error) {
	for _, p := range c.Platforms {
		if p.ID == id {
			return p, nil
		}
	}
	return Platform{}, fmt.Errorf("%w: %q", ErrUnknownPlatform, id)
}

// LaunchURL returns the game URL for a synced platform and engine. It is
// empty when nothing is synced or the engine is not offered.
func (c *Catalog) LaunchURL(doc session.Document) string {
	if doc.SyncedPlatform == nil || doc.SyncedEngine == nil {
		return ""
	}
	p, err := c.Find(*doc.SyncedPlatform)
	if err != nil {
		return ""
	}
	slot := p.Engines.Studio
	if *doc.SyncedEngine == session.EngineSpribe {
		slot = p.Engines.Spribe
	}
	if !slot.Available {
		return ""
	}
	return slot.URL
}
