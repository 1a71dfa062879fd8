package ocean

import (
	"github.com/df07/go-ocean-raytracer/pkg/core"
)

// NormalEstimator derives surface normals from finite differences of a height field
type NormalEstimator struct {
	Field           HeightField
	Octaves         int
	Epsilon         float64 // Horizontal offset of the difference samples
	FlattenStrength float64 // Strength of the distance-based blend toward Up
}

// NewNormalEstimator creates an estimator with the default offset and flattening strength
func NewNormalEstimator(field HeightField, octaves int) *NormalEstimator {
	return &NormalEstimator{
		Field:           field,
		Octaves:         octaves,
		Epsilon:         1e-2,
		FlattenStrength: 1e-2,
	}
}

// Normal returns the upward-facing unit normal at a horizontal position
func (ne *NormalEstimator) Normal(pos core.Vec2) core.Vec3 {
	e := ne.Epsilon
	h0 := ne.Field.Height(pos, ne.Octaves)
	hx := ne.Field.Height(core.Vec2{X: pos.X - e, Y: pos.Y}, ne.Octaves)
	hz := ne.Field.Height(core.Vec2{X: pos.X, Y: pos.Y + e}, ne.Octaves)

	// Tangents along +x and -z; their cross product points away from the water
	tangentX := core.NewVec3(e, h0-hx, 0)
	tangentZ := core.NewVec3(0, h0-hz, -e)
	return tangentX.Cross(tangentZ).Normalize()
}

// Flatten blends a normal toward Up with a weight that grows with the square
// of the hit distance. Distant reflections of a textured sky alias badly.
func (ne *NormalEstimator) Flatten(normal core.Vec3, distance float64) core.Vec3 {
	k := ne.FlattenStrength * distance * distance
	return normal.Add(core.Up.Multiply(k)).Multiply(1.0 / (1.0 + k)).Normalize()
}

// NormalAt returns the normal at pos, flattened by distance when requested
func (ne *NormalEstimator) NormalAt(pos core.Vec2, distance float64, flatten bool) core.Vec3 {
	normal := ne.Normal(pos)
	if flatten {
		normal = ne.Flatten(normal, distance)
	}
	return normal
}
