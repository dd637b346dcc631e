// ABOUTME: Platform and engine selection for the sync modal
// ABOUTME: Blocks engines a platform does not offer at selection time

package platform

import (
	"errors"
	"fmt"
	"sync"
)

// ErrEngineUnavailable is returned when selecting an engine the selected
// platform does not offer
var ErrEngineUnavailable = errors.New("engine unavailable on this platform")

// Selection is a platform/engine pair; either may be empty
type Selection struct {
	PlatformID string
	Engine     EngineType
}

// Complete reports whether both halves are set
func (s Selection) Complete() bool {
	return s.PlatformID != "" && s.Engine != ""
}

// Selector holds the sync modal's current choice
type Selector struct {
	mu      sync.Mutex
	catalog *Catalog
	sel     Selection
}

// NewSelector creates an empty selector over a catalog
func NewSelector(catalog *Catalog) *Selector {
	return &Selector{catalog: catalog}
}

// SelectPlatform chooses a platform. An engine choice the new platform
// cannot serve is cleared.
func (s *Selector) SelectPlatform(id string) error {
	p, err := s.catalog.Find(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.PlatformID = p.ID
	if s.sel.Engine != "" && !p.Slot(s.sel.Engine).Available {
		s.sel.Engine = ""
	}
	return nil
}

// SelectEngine chooses an engine. It fails with ErrEngineUnavailable when
// the selected platform does not offer it.
func (s *Selector) SelectEngine(e EngineType) error {
	if _, err := ParseEngineType(string(e)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabledLocked(e) {
		return fmt.Errorf("%w: %s on %s", ErrEngineUnavailable, e, s.sel.PlatformID)
	}
	s.sel.Engine = e
	return nil
}

// EngineEnabled reports whether the engine choice is selectable for the
// current platform. With no platform chosen every engine is enabled.
func (s *Selector) EngineEnabled(e EngineType) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabledLocked(e)
}

func (s *Selector) enabledLocked(e EngineType) bool {
	if s.sel.PlatformID == "" {
		return true
	}
	p, err := s.catalog.Find(s.sel.PlatformID)
	if err != nil {
		return false
	}
	return p.Slot(e).Available
}

// Selection returns the current choice
func (s *Selector) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel
}

// Reset clears the choice
func (s *Selector) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel = Selection{}
}
