// Package config loads ocean render configuration from an optional JSON file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/df07/go-ocean-raytracer/pkg/core"
	"github.com/df07/go-ocean-raytracer/pkg/ocean"
)

// DefaultPath is the file hosts look for when no path is given
const DefaultPath = "ocean.json"

// Config holds everything a host needs to render the ocean
type Config struct {
	Width    int                 `json:"width"`
	Height   int                 `json:"height"`
	Time     float64             `json:"time"`     // Animation time of the first frame
	FPS      float64             `json:"fps"`      // Animation frames per second
	Frames   int                 `json:"frames"`   // Frames in an exported animation
	Gamma    float64             `json:"gamma"`    // Output gamma; 1 writes linear values
	TileSize int                 `json:"tileSize"` // Tile edge in pixels
	Workers  int                 `json:"workers"`  // Parallel workers (0 = CPU count)
	Preset   string              `json:"preset"`   // Base wave parameter set: calm or choppy
	Waves    *ocean.WaveParams   `json:"waves,omitempty"`
	Settings core.RenderSettings `json:"settings"`
	Textures TextureConfig       `json:"textures"`
}

// TextureConfig names the optional image collaborators
type TextureConfig struct {
	SkyCubemap    string `json:"skyCubemap,omitempty"`    // Directory with posx..negz face images
	SkyPanorama   string `json:"skyPanorama,omitempty"`   // Equirectangular sky image
	GroundCubemap string `json:"groundCubemap,omitempty"` // Directory with posx..negz underwater faces
	Ground        string `json:"ground,omitempty"`        // Equirectangular seabed image
	Seabed        bool   `json:"seabed"`                  // Use the procedural seabed when no ground image is set
	SeabedSeed    int64  `json:"seabedSeed"`
}

// Wave presets
const (
	PresetCalm   = "calm"
	PresetChoppy = "choppy"
)

// Default returns the configuration used when no file is present
func Default() Config {
	return Config{
		Width:    800,
		Height:   450,
		Time:     0,
		FPS:      30,
		Frames:   60,
		Gamma:    1.0,
		TileSize: 64,
		Workers:  0,
		Preset:   PresetCalm,
		Settings: core.DefaultRenderSettings(),
		Textures: TextureConfig{
			Seabed:     true,
			SeabedSeed: 1,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("error parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration as indented JSON
func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// WaveParams resolves the wave parameters: explicit waves win over the preset
func (c Config) WaveParams() (ocean.WaveParams, error) {
	if c.Waves != nil {
		return *c.Waves, nil
	}
	switch c.Preset {
	case "", PresetCalm:
		return ocean.DefaultWaveParams(), nil
	case PresetChoppy:
		return ocean.ChoppyWaveParams(), nil
	default:
		return ocean.WaveParams{}, fmt.Errorf("unknown wave preset %q", c.Preset)
	}
}

// FrameTime returns the animation time of a 1-based frame number
func (c Config) FrameTime(frame int) float64 {
	return c.Time + float64(frame-1)/c.FPS
}

// Validate checks that the configuration can be rendered
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %g", c.FPS)
	}
	if c.Frames < 1 {
		return fmt.Errorf("frames must be at least 1, got %d", c.Frames)
	}
	if c.Gamma <= 0 {
		return fmt.Errorf("gamma must be positive, got %g", c.Gamma)
	}
	if c.TileSize <= 0 {
		return fmt.Errorf("tile size must be positive, got %d", c.TileSize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Textures.SkyCubemap != "" && c.Textures.SkyPanorama != "" {
		return fmt.Errorf("set only one of skyCubemap and skyPanorama")
	}
	if c.Textures.GroundCubemap != "" && c.Textures.Ground != "" {
		return fmt.Errorf("set only one of groundCubemap and ground")
	}
	if err := c.Settings.Validate(); err != nil {
		return err
	}

	waves, err := c.WaveParams()
	if err != nil {
		return err
	}
	if waves.Depth <= 0 {
		return fmt.Errorf("wave depth must be positive, got %g", waves.Depth)
	}
	if waves.PositionScale <= 0 {
		return fmt.Errorf("wave position scale must be positive, got %g", waves.PositionScale)
	}
	if waves.MarchOctaves < 0 || waves.NormalOctaves < 0 {
		return fmt.Errorf("wave octaves must not be negative")
	}
	return nil
}
