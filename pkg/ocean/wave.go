package ocean

import (
	"math"

	"github.com/df07/go-ocean-raytracer/pkg/core"
)

// WaveParams tunes the octave sum of the wave field
type WaveParams struct {
	AngleStep        float64 `json:"angleStep"`        // Direction angle added per octave
	InitialFrequency float64 `json:"initialFrequency"` // Spatial frequency of the first octave
	InitialSpeed     float64 `json:"initialSpeed"`     // Temporal frequency of the first octave
	FrequencyGrowth  float64 `json:"frequencyGrowth"`  // Spatial frequency multiplier per octave
	SpeedGrowth      float64 `json:"speedGrowth"`      // Temporal frequency multiplier per octave
	WeightDecay      float64 `json:"weightDecay"`      // Weight multiplier per octave
	Drag             float64 `json:"drag"`             // Domain warp strength between octaves (0 disables)
	PositionScale    float64 `json:"positionScale"`    // World to wave-space scale
	Depth            float64 `json:"depth"`            // Distance between crest plane and floor plane
	MarchOctaves     int     `json:"marchOctaves"`     // Octaves used while ray marching
	NormalOctaves    int     `json:"normalOctaves"`    // Octaves used for surface normals
}

// DefaultWaveParams returns the calm, long-swell parameter set
func DefaultWaveParams() WaveParams {
	return WaveParams{
		AngleStep:        10.0,
		InitialFrequency: 2.0 * math.Pi,
		InitialSpeed:     math.Pi / 2.0,
		FrequencyGrowth:  1.21,
		SpeedGrowth:      1.06,
		WeightDecay:      0.78,
		Drag:             0.1,
		PositionScale:    0.1,
		Depth:            2.0,
		MarchOctaves:     10,
		NormalOctaves:    50,
	}
}

// ChoppyWaveParams returns a parameter set with stronger domain warping
// and slower weight decay, giving sharper crests.
func ChoppyWaveParams() WaveParams {
	params := DefaultWaveParams()
	params.AngleStep = 12.0
	params.FrequencyGrowth = 1.18
	params.SpeedGrowth = 1.07
	params.WeightDecay = 0.8
	params.Drag = 0.28
	params.NormalOctaves = 40
	return params
}

// WaveSample is the contribution of a single octave
type WaveSample struct {
	Height float64 // exp(sin(phase) - 1), in (0, 1]
	Slope  float64 // derivative of Height with respect to phase
}

// Octave evaluates one octave at the given phase
func Octave(phase float64) WaveSample {
	height := math.Exp(math.Sin(phase) - 1.0)
	return WaveSample{
		Height: height,
		Slope:  -height * math.Cos(phase),
	}
}

// HeightField is a surface y = Height(x, z)
type HeightField interface {
	Height(pos core.Vec2, octaves int) float64
}

// WaveField is the analytic ocean surface at a fixed time.
// It is a value type; a frame creates one and shares it read-only.
type WaveField struct {
	Params WaveParams
	Time   float64
}

// NewWaveField creates the wave field for the given animation time
func NewWaveField(params WaveParams, time float64) WaveField {
	return WaveField{Params: params, Time: time}
}

// Normalized returns the weighted mean of the octave heights, in (0, 1]
func (w WaveField) Normalized(pos core.Vec2, octaves int) float64 {
	p := w.Params
	pos = pos.Multiply(p.PositionScale)

	angle := 0.0
	frequency := p.InitialFrequency
	speed := p.InitialSpeed
	weight := 1.0

	heightSum := 0.0
	weightSum := 0.0

	for i := 0; i < octaves; i++ {
		dir := core.Vec2{X: math.Sin(angle), Y: math.Cos(angle)}
		sample := Octave(frequency*dir.Dot(pos) + speed*w.Time)

		heightSum += sample.Height * weight
		weightSum += weight

		// Advect before the next octave's parameters change
		angle += p.AngleStep
		pos = pos.Add(dir.Multiply(sample.Slope * weight * p.Drag))

		frequency *= p.FrequencyGrowth
		speed *= p.SpeedGrowth
		weight *= p.WeightDecay
	}

	if weightSum == 0 {
		return 1.0
	}
	return heightSum / weightSum
}

// Height returns the surface elevation in [-Depth, 0]. Crests reach the
// ceiling plane y=0 and the floor plane y=-Depth bounds the troughs.
func (w WaveField) Height(pos core.Vec2, octaves int) float64 {
	return w.Params.Depth * (w.Normalized(pos, octaves) - 1.0)
}

// Ceiling is the plane touched by the highest possible crest
func (w WaveField) Ceiling() core.Plane {
	return core.HorizontalPlane(0)
}

// Floor is the plane below every possible trough
func (w WaveField) Floor() core.Plane {
	return core.HorizontalPlane(-w.Params.Depth)
}
