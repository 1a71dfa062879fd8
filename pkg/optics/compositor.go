package optics

import (
	"math"

	"github.com/df07/go-ocean-raytracer/pkg/core"
)

// Compositor blends reflected sky and refracted ground at a water hit
type Compositor struct {
	Sky             core.Sampler // Procedural sky, used when the sky texture mode is off
	SkyTexture      core.Sampler // May be nil
	GroundTexture   core.Sampler // May be nil
	RefractiveIndex float64      // Ratio passed to Refract
	ScatterOffset   float64      // Minimum reflection strength
	ScatterPower    float64      // Sharpness of the grazing-angle falloff
	SkyModeWater    core.Vec3    // Water body color when only the sky is textured
	DefaultWater    core.Vec3    // Water body color with no textures
}

// NewCompositor creates a compositor with water-like defaults
func NewCompositor(sky, skyTexture, groundTexture core.Sampler) *Compositor {
	return &Compositor{
		Sky:             sky,
		SkyTexture:      skyTexture,
		GroundTexture:   groundTexture,
		RefractiveIndex: 1.2,
		ScatterOffset:   0.4,
		ScatterPower:    7.0,
		SkyModeWater:    core.NewVec3(0.1, 0.1, 0.1),
		DefaultWater:    core.NewVec3(0.15, 0.2, 0.25),
	}
}

// Scatter is the Fresnel-like reflection weight; grazing views reflect more
func (c *Compositor) Scatter(incident, normal core.Vec3) float64 {
	facing := 1.0 - max(0.0, normal.Negate().Dot(incident))
	return c.ScatterOffset + math.Pow(facing, c.ScatterPower)
}

// Reflected returns the color seen along the mirror direction
func (c *Compositor) Reflected(incident, normal core.Vec3, mode core.RenderMode) core.Vec3 {
	reflected := core.Reflect(incident, normal)
	if mode.Has(core.ModeSkyTexture) && c.SkyTexture != nil {
		return c.SkyTexture.Sample(reflected)
	}
	return c.Sky.Sample(reflected).Multiply(c.Scatter(incident, normal))
}

// Refracted returns the color seen through the water surface
func (c *Compositor) Refracted(incident, normal core.Vec3, mode core.RenderMode) core.Vec3 {
	if mode.Has(core.ModeGroundTexture) && c.GroundTexture != nil {
		return c.GroundTexture.Sample(core.Refract(incident, normal, c.RefractiveIndex))
	}
	if mode.Has(core.ModeSkyTexture) {
		return c.SkyModeWater
	}
	return c.DefaultWater
}

// Shade returns mix(refracted, reflected, reflectivity)
func (c *Compositor) Shade(incident, normal core.Vec3, mode core.RenderMode, reflectivity float64) core.Vec3 {
	refracted := c.Refracted(incident, normal, mode)
	reflected := c.Reflected(incident, normal, mode)
	return Mix(refracted, reflected, reflectivity)
}

// Mix is an exact linear blend: t=0 returns a and t=1 returns b bit for bit
func Mix(a, b core.Vec3, t float64) core.Vec3 {
	switch t {
	case 0:
		return a
	case 1:
		return b
	}
	return a.Lerp(b, t)
}
