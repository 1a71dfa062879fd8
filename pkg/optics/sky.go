package optics

import (
	"math"

	"github.com/df07/go-ocean-raytracer/pkg/core"
)

// Sky is the procedural sky: a white-to-blue elevation gradient with an
// orbiting light source. It implements core.Sampler.
type Sky struct {
	Time         float64
	Horizon      core.Vec3 // Color at the horizon
	Zenith       core.Vec3 // Color straight up (and straight down)
	DiscCosine   float64   // Directions closer than this to the light are overexposed
	OrbitTilt    float64   // Vertical scale of the light's orbit
	OrbitPeriod  float64   // Seconds per radian of orbit, as a divisor of time
	Overexposure float64   // Value returned inside the light disc
}

// NewSky creates the procedural sky at the given time
func NewSky(time float64) Sky {
	return Sky{
		Time:         time,
		Horizon:      core.NewVec3(1, 1, 1),
		Zenith:       core.NewVec3(0.6, 0.8, 1),
		DiscCosine:   0.995,
		OrbitTilt:    0.7,
		OrbitPeriod:  2.0,
		Overexposure: core.FloatMax,
	}
}

// LightDirection returns the unit direction toward the sun or moon
func (s Sky) LightDirection() core.Vec3 {
	c := math.Cos(s.Time / s.OrbitPeriod)
	sn := math.Sin(s.Time / s.OrbitPeriod)
	return core.NewVec3(sn, s.OrbitTilt*c, c).Normalize()
}

// brightness dims the whole sky as the light orbits below the horizon
func (s Sky) brightness() float64 {
	return (1.5 + math.Cos(s.Time/s.OrbitPeriod)) / 2.5
}

// Sample implements core.Sampler
func (s Sky) Sample(direction core.Vec3) core.Vec3 {
	dir := direction.Normalize()

	// Both the sun and the moon opposite it
	if math.Abs(s.LightDirection().Dot(dir)) > s.DiscCosine {
		return core.NewVec3(s.Overexposure, s.Overexposure, s.Overexposure)
	}

	elevation := math.Pow(math.Abs(math.Asin(max(-1, min(1, dir.Y)))*2.0/math.Pi), 0.5)
	return s.Horizon.Lerp(s.Zenith, elevation).Multiply(s.brightness())
}
