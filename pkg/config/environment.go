package config

import (
	"fmt"

	"github.com/df07/go-ocean-raytracer/pkg/core"
	"github.com/df07/go-ocean-raytracer/pkg/renderer"
	"github.com/df07/go-ocean-raytracer/pkg/textures"
)

// Environment loads the configured sky and ground samplers. Unset textures
// stay nil, which renders the procedural sky and the flat water color.
func (t TextureConfig) Environment(logger core.Logger) (renderer.Environment, error) {
	var env renderer.Environment

	switch {
	case t.SkyCubemap != "":
		cube, err := textures.LoadCubemapDir(t.SkyCubemap)
		if err != nil {
			return env, fmt.Errorf("failed to load sky cubemap: %w", err)
		}
		logger.Printf("Loaded sky cubemap %s (%dx%d faces)\n", t.SkyCubemap, cube.Size, cube.Size)
		env.Sky = cube
	case t.SkyPanorama != "":
		pano, err := textures.LoadPanorama(t.SkyPanorama)
		if err != nil {
			return env, fmt.Errorf("failed to load sky panorama: %w", err)
		}
		logger.Printf("Loaded sky panorama %s (%dx%d)\n", t.SkyPanorama, pano.Image.Width, pano.Image.Height)
		env.Sky = pano
	}

	switch {
	case t.GroundCubemap != "":
		cube, err := textures.LoadCubemapDir(t.GroundCubemap)
		if err != nil {
			return env, fmt.Errorf("failed to load ground cubemap: %w", err)
		}
		logger.Printf("Loaded ground cubemap %s (%dx%d faces)\n", t.GroundCubemap, cube.Size, cube.Size)
		env.Ground = cube
	case t.Ground != "":
		ground, err := textures.LoadPanorama(t.Ground)
		if err != nil {
			return env, fmt.Errorf("failed to load ground texture: %w", err)
		}
		logger.Printf("Loaded ground texture %s (%dx%d)\n", t.Ground, ground.Image.Width, ground.Image.Height)
		env.Ground = ground
	case t.Seabed:
		env.Ground = textures.NewSeabed(t.SeabedSeed)
	}

	return env, nil
}

// NewFrameRenderer builds the frame renderer the configuration describes
func (c Config) NewFrameRenderer(logger core.Logger) (*renderer.FrameRenderer, error) {
	waves, err := c.WaveParams()
	if err != nil {
		return nil, err
	}
	env, err := c.Textures.Environment(logger)
	if err != nil {
		return nil, err
	}
	fr := renderer.NewFrameRenderer(waves, env)
	fr.Gamma = c.Gamma
	return fr, nil
}

// ProgressiveConfig returns the tiling configuration
func (c Config) ProgressiveConfig() renderer.ProgressiveConfig {
	return renderer.ProgressiveConfig{
		TileSize:   c.TileSize,
		NumWorkers: c.Workers,
	}
}

// FrameInput returns the input of a 1-based frame with the given settings,
// looking straight ahead
func (c Config) FrameInput(frame int, settings core.RenderSettings) renderer.FrameInput {
	return renderer.FrameInput{
		Time:     c.FrameTime(frame),
		Width:    c.Width,
		Height:   c.Height,
		Pointer:  renderer.CenteredPointer(c.Width, c.Height),
		Settings: settings,
	}
}
