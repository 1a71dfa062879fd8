package ocean

import (
	"github.com/df07/go-ocean-raytracer/pkg/core"
)

// HitRecord describes where a ray met the surface
type HitRecord struct {
	Position core.Vec3 // Hit position; the ray origin on a miss
	Distance float64   // Distance from the ray origin; 0 on a miss
	Found    bool      // Whether the surface was reached within the step budget
	Steps    int       // March iterations used
}

// SurfaceMarcher finds the first crossing of a ray with a height field
type SurfaceMarcher struct {
	Field    HeightField
	Octaves  int     // Octaves passed to the height field
	MaxSteps int     // Hard iteration cap
	Epsilon  float64 // Vertical tolerance for a hit
}

// NewSurfaceMarcher creates a marcher with the default step budget and tolerance
func NewSurfaceMarcher(field HeightField, octaves int) *SurfaceMarcher {
	return &SurfaceMarcher{
		Field:    field,
		Octaves:  octaves,
		MaxSteps: 300,
		Epsilon:  1e-2,
	}
}

// March walks the ray from start toward end. Each step advances along the ray
// by the vertical gap to the surface. The field is not a distance field, so
// this is a heuristic step; it converges for downward rays. Running out of
// steps yields a miss with Distance 0, which callers treat as "use the origin".
func (m *SurfaceMarcher) March(ray core.Ray, start, end core.Vec3) HitRecord {
	maxDistance := end.Subtract(ray.Origin).Length()
	current := start

	for i := 0; i < m.MaxSteps; i++ {
		gap := current.Y - m.Field.Height(current.XZ(), m.Octaves)
		if gap < m.Epsilon {
			distance := min(current.Subtract(ray.Origin).Length(), maxDistance)
			return HitRecord{
				Position: ray.At(distance),
				Distance: distance,
				Found:    true,
				Steps:    i + 1,
			}
		}
		current = current.Add(ray.Direction.Multiply(gap))
	}

	return HitRecord{
		Position: ray.Origin,
		Distance: 0,
		Found:    false,
		Steps:    m.MaxSteps,
	}
}
