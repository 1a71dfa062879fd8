package textures

import (
	"testing"

	"github.com/df07/go-ocean-raytracer/pkg/core"
)

func within(c, lo, hi core.Vec3) bool {
	const eps = 1e-9
	return c.X >= min(lo.X, hi.X)-eps && c.X <= max(lo.X, hi.X)+eps &&
		c.Y >= min(lo.Y, hi.Y)-eps && c.Y <= max(lo.Y, hi.Y)+eps &&
		c.Z >= min(lo.Z, hi.Z)-eps && c.Z <= max(lo.Z, hi.Z)+eps
}

func TestSeabed_Deterministic(t *testing.T) {
	a := NewSeabed(42)
	b := NewSeabed(42)

	dirs := []core.Vec3{
		core.NewVec3(0, -1, 0),
		core.NewVec3(0.3, -0.8, -0.2),
		core.NewVec3(-0.6, -0.4, 0.5),
	}
	for _, d := range dirs {
		if a.Sample(d) != b.Sample(d) {
			t.Errorf("Same seed gave different samples at %v", d)
		}
	}
}

func TestSeabed_PatternRange(t *testing.T) {
	s := NewSeabed(7)
	for x := -20.0; x <= 20.0; x += 1.7 {
		for z := -20.0; z <= 20.0; z += 2.3 {
			p := s.Pattern(x, z)
			if p < 0 || p > 1 {
				t.Fatalf("Pattern(%f, %f) = %f, outside [0, 1]", x, z, p)
			}
		}
	}
}

func TestSeabed_Sample(t *testing.T) {
	s := NewSeabed(1)

	t.Run("Upward sees deep water", func(t *testing.T) {
		if got := s.Sample(core.NewVec3(0, 1, 0)); got != s.Deep {
			t.Errorf("Expected %v, got %v", s.Deep, got)
		}
		if got := s.Sample(core.NewVec3(1, 0, 0)); got != s.Deep {
			t.Errorf("Horizontal: expected %v, got %v", s.Deep, got)
		}
	})

	t.Run("Straight down sees sand", func(t *testing.T) {
		got := s.Sample(core.NewVec3(0, -1, 0))
		if !within(got, s.Deep, s.Sand) && !within(got, s.Deep, s.DarkSand) {
			t.Errorf("Sample %v outside the sand and deep water range", got)
		}
		// Looking straight down the floor is close, so sand dominates
		if got.X < s.Deep.X+0.5*(s.DarkSand.X-s.Deep.X) {
			t.Errorf("Expected sand to dominate straight down, got %v", got)
		}
	})

	t.Run("Grazing fades to deep water", func(t *testing.T) {
		got := s.Sample(core.NewVec3(1, -0.01, 0))
		if got.Subtract(s.Deep).Length() > 0.01 {
			t.Errorf("Expected near %v at grazing angle, got %v", s.Deep, got)
		}
	})
}
