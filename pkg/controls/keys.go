// Package controls maps keyboard state to render settings and hands settings
// from input hosts to renderers between frames.
package controls

import (
	"sync"

	"github.com/df07/go-ocean-raytracer/pkg/core"
)

// Key is a key code. Digit keys use their ASCII codes.
type Key int

const (
	Key1 Key = '1' + iota
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
)

// KeyState reports whether a key is currently held and whether its toggle
// is latched on
type KeyState interface {
	Pressed(key Key) bool
	Toggled(key Key) bool
}

// Apply derives the frame's settings from the startup settings and the key
// state:
//
//	1/2/3 held      zoom 2x/4x/8x
//	4 toggled       flip the sky texture mode
//	5 toggled       flip the ground texture mode
//	6/7/8 held      reflectivity 0.3/0.5/0.8
func Apply(base core.RenderSettings, keys KeyState) core.RenderSettings {
	s := base

	if keys.Pressed(Key1) {
		s.Zoom = 2.0
	}
	if keys.Pressed(Key2) {
		s.Zoom = 4.0
	}
	if keys.Pressed(Key3) {
		s.Zoom = 8.0
	}

	if keys.Toggled(Key4) {
		s.UseSkyTexture = !s.UseSkyTexture
	}
	if keys.Toggled(Key5) {
		s.UseGroundTexture = !s.UseGroundTexture
	}

	if keys.Pressed(Key6) {
		s.Reflectivity = 0.3
	}
	if keys.Pressed(Key7) {
		s.Reflectivity = 0.5
	}
	if keys.Pressed(Key8) {
		s.Reflectivity = 0.8
	}

	return s
}

// KeySnapshot is an immutable copy of a key state
type KeySnapshot struct {
	held    map[Key]bool
	toggled map[Key]bool
}

// Pressed implements KeyState
func (k KeySnapshot) Pressed(key Key) bool { return k.held[key] }

// Toggled implements KeyState
func (k KeySnapshot) Toggled(key Key) bool { return k.toggled[key] }

// ToggleLatch builds a KeyState from raw press and release events. Each
// press of a key that was not already held flips its toggle. It is safe for
// concurrent use by an input goroutine and a render loop.
type ToggleLatch struct {
	mu      sync.Mutex
	held    map[Key]bool
	toggled map[Key]bool
}

// NewToggleLatch creates a latch with no keys held or toggled
func NewToggleLatch() *ToggleLatch {
	return &ToggleLatch{
		held:    make(map[Key]bool),
		toggled: make(map[Key]bool),
	}
}

// Press records a key going down
func (l *ToggleLatch) Press(key Key) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.held[key] {
		l.toggled[key] = !l.toggled[key]
	}
	l.held[key] = true
}

// Release records a key going up
func (l *ToggleLatch) Release(key Key) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
}

// Pressed implements KeyState
func (l *ToggleLatch) Pressed(key Key) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held[key]
}

// Toggled implements KeyState
func (l *ToggleLatch) Toggled(key Key) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.toggled[key]
}

// Snapshot returns a consistent copy of the current state
func (l *ToggleLatch) Snapshot() KeySnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	snap := KeySnapshot{
		held:    make(map[Key]bool, len(l.held)),
		toggled: make(map[Key]bool, len(l.toggled)),
	}
	for k, v := range l.held {
		snap.held[k] = v
	}
	for k, v := range l.toggled {
		snap.toggled[k] = v
	}
	return snap
}
