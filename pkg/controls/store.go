package controls

import (
	"sync/atomic"

	"github.com/df07/go-ocean-raytracer/pkg/core"
)

// SettingsStore publishes render settings from an input host to renderers.
// Renderers Load once per frame, so a Store never lands mid-frame.
type SettingsStore struct {
	current atomic.Pointer[core.RenderSettings]
}

// NewSettingsStore creates a store holding the initial settings
func NewSettingsStore(initial core.RenderSettings) *SettingsStore {
	store := &SettingsStore{}
	store.current.Store(&initial)
	return store
}

// Load returns the current settings
func (s *SettingsStore) Load() core.RenderSettings {
	return *s.current.Load()
}

// Store replaces the settings; invalid settings are rejected
func (s *SettingsStore) Store(settings core.RenderSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	s.current.Store(&settings)
	return nil
}

// ApplyKeys stores the settings derived from base and the key state
func (s *SettingsStore) ApplyKeys(base core.RenderSettings, keys KeyState) error {
	return s.Store(Apply(base, keys))
}
