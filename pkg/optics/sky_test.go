package optics

import (
	"math"
	"testing"

	"github.com/df07/go-ocean-raytracer/pkg/core"
)

func TestSky_LightDirectionIsUnit(t *testing.T) {
	for _, time := range []float64{0, 1, 3.3, 100} {
		l := NewSky(time).LightDirection()
		if math.Abs(l.Length()-1) > 1e-12 {
			t.Errorf("time %f: light direction length %f", time, l.Length())
		}
	}
}

func TestSky_Overexposed(t *testing.T) {
	sky := NewSky(2.0)
	light := sky.LightDirection()

	for _, dir := range []core.Vec3{light, light.Negate(), light.Multiply(3)} {
		c := sky.Sample(dir)
		if c.X != core.FloatMax || c.Y != core.FloatMax || c.Z != core.FloatMax {
			t.Errorf("Expected overexposed highlight along %v, got %v", dir, c)
		}
	}
}

func TestSky_Gradient(t *testing.T) {
	// At time pi the light sits at (0, -0.7, -1) normalized, away from both test directions
	sky := NewSky(2 * math.Pi)
	brightness := (1.5 + math.Cos(math.Pi)) / 2.5

	horizon := sky.Sample(core.NewVec3(1, 0, 0))
	if horizon.Subtract(sky.Horizon.Multiply(brightness)).Length() > 1e-12 {
		t.Errorf("Expected horizon color %v, got %v", sky.Horizon.Multiply(brightness), horizon)
	}

	zenith := sky.Sample(core.NewVec3(0, 1, 0))
	if zenith.Subtract(sky.Zenith.Multiply(brightness)).Length() > 1e-12 {
		t.Errorf("Expected zenith color %v, got %v", sky.Zenith.Multiply(brightness), zenith)
	}
}
