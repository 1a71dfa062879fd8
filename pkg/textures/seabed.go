package textures

import (
	"math"

	"github.com/df07/go-ocean-raytracer/pkg/core"
	"github.com/ojrac/opensimplex-go"
)

// Seabed is a procedural sandy floor seen through the water. A direction is
// followed from the surface down to a floor Depth below and the sand pattern
// there is faded toward Deep with distance.
type Seabed struct {
	noise       opensimplex.Noise
	Depth       float64   // Distance from the surface to the floor
	Scale       float64   // World to noise-space scale
	Octaves     int       // Noise octaves
	Persistence float64   // Amplitude falloff per octave
	Absorption  float64   // Extinction per unit of distance travelled
	Sand        core.Vec3 // Light sand
	DarkSand    core.Vec3 // Ripple troughs
	Deep        core.Vec3 // Color of water too deep to see through
}

// NewSeabed creates a seabed with sand colors and a fixed noise seed
func NewSeabed(seed int64) *Seabed {
	return &Seabed{
		noise:       opensimplex.NewNormalized(seed),
		Depth:       6.0,
		Scale:       0.35,
		Octaves:     4,
		Persistence: 0.5,
		Absorption:  0.06,
		Sand:        core.NewVec3(0.76, 0.70, 0.50),
		DarkSand:    core.NewVec3(0.45, 0.40, 0.28),
		Deep:        core.NewVec3(0.05, 0.12, 0.16),
	}
}

// Pattern returns the sand pattern in [0, 1] at a floor position
func (s *Seabed) Pattern(x, z float64) float64 {
	var total, maxValue float64
	frequency, amplitude := s.Scale, 1.0

	for i := 0; i < s.Octaves; i++ {
		total += s.noise.Eval2(x*frequency, z*frequency) * amplitude
		maxValue += amplitude
		amplitude *= s.Persistence
		frequency *= 2
	}

	if maxValue == 0 {
		return 0
	}
	return total / maxValue
}

// Sample implements core.Sampler
func (s *Seabed) Sample(direction core.Vec3) core.Vec3 {
	if direction.Y >= 0 {
		return s.Deep
	}
	d := direction.Normalize()
	distance := s.Depth / -d.Y
	floor := d.Multiply(distance)

	sand := s.DarkSand.Lerp(s.Sand, s.Pattern(floor.X, floor.Z))
	transmittance := math.Exp(-s.Absorption * distance)
	return s.Deep.Lerp(sand, transmittance)
}
