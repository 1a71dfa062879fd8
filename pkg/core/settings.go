package core

import "fmt"

// RenderSettings holds the mutable render modes. A frame reads one value for
// its whole duration; hosts replace it between frames.
type RenderSettings struct {
	Reflectivity     float64 `json:"reflectivity"`     // Blend weight toward reflection, [0,1]
	Zoom             float64 `json:"zoom"`             // Forward component of view rays, > 0
	UseSkyTexture    bool    `json:"useSkyTexture"`    // Sample the sky texture instead of the procedural sky
	UseGroundTexture bool    `json:"useGroundTexture"` // Sample the ground texture under water
}

// DefaultRenderSettings returns the startup modes
func DefaultRenderSettings() RenderSettings {
	return RenderSettings{
		Reflectivity:     0.7,
		Zoom:             1.3,
		UseSkyTexture:    false,
		UseGroundTexture: true,
	}
}

// Validate reports settings a renderer cannot use
func (s RenderSettings) Validate() error {
	if s.Reflectivity < 0 || s.Reflectivity > 1 {
		return fmt.Errorf("reflectivity must be between 0 and 1, got: %f", s.Reflectivity)
	}
	if s.Zoom <= 0 {
		return fmt.Errorf("zoom must be positive, got: %f", s.Zoom)
	}
	return nil
}

// RenderMode selects textured or procedural branches of the pipeline
type RenderMode uint8

const (
	ModeSkyTexture RenderMode = 1 << iota
	ModeGroundTexture
)

// Has reports whether every flag in m is set
func (mode RenderMode) Has(m RenderMode) bool {
	return mode&m == m
}

func (mode RenderMode) String() string {
	switch mode {
	case 0:
		return "procedural"
	case ModeSkyTexture:
		return "sky-texture"
	case ModeGroundTexture:
		return "ground-texture"
	default:
		return "sky-texture|ground-texture"
	}
}

// Mode resolves the settings against the textures that are actually
// available. A texture flag without its texture falls back to the
// procedural branch.
func (s RenderSettings) Mode(haveSky, haveGround bool) RenderMode {
	var mode RenderMode
	if s.UseSkyTexture && haveSky {
		mode |= ModeSkyTexture
	}
	if s.UseGroundTexture && haveGround {
		mode |= ModeGroundTexture
	}
	return mode
}
