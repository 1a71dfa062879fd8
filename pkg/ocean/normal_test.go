package ocean

import (
	"math"
	"testing"

	"github.com/df07/go-ocean-raytracer/pkg/core"
)

// slopeField is a tilted plane y = a*x + b*z
type slopeField struct{ a, b float64 }

func (s slopeField) Height(pos core.Vec2, octaves int) float64 {
	return s.a*pos.X + s.b*pos.Y
}

func TestNormalEstimator_FlatIsUp(t *testing.T) {
	ne := NewNormalEstimator(&flatField{level: -1}, 50)
	n := ne.Normal(core.Vec2{X: 3, Y: 4})
	if n.Subtract(core.Up).Length() > 1e-12 {
		t.Errorf("Expected up, got %v", n)
	}
}

func TestNormalEstimator_TiltedPlane(t *testing.T) {
	field := slopeField{a: 0.5, b: -0.25}
	ne := NewNormalEstimator(field, 1)

	n := ne.Normal(core.Vec2{X: 1, Y: 2})
	expected := core.NewVec3(-field.a, 1, -field.b).Normalize()
	if n.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected %v, got %v", expected, n)
	}
}

func TestNormalEstimator_UnitLength(t *testing.T) {
	params := DefaultWaveParams()
	for _, time := range []float64{0, 2.5, 77} {
		ne := NewNormalEstimator(NewWaveField(params, time), params.NormalOctaves)
		for x := -20.0; x <= 20; x += 3.7 {
			for z := -20.0; z <= 20; z += 4.1 {
				pos := core.Vec2{X: x, Y: z}
				for _, dist := range []float64{0, 1, 10, 1000} {
					for _, flatten := range []bool{false, true} {
						n := ne.NormalAt(pos, dist, flatten)
						if math.Abs(n.Length()-1) > 1e-4 {
							t.Fatalf("Normal at %v (dist %f, flatten %v) has length %f", pos, dist, flatten, n.Length())
						}
						if n.Y <= 0 {
							t.Fatalf("Normal at %v points into the water: %v", pos, n)
						}
					}
				}
			}
		}
	}
}

func TestNormalEstimator_FlattenWithDistance(t *testing.T) {
	ne := NewNormalEstimator(slopeField{a: 1, b: 0}, 1)
	tilted := ne.Normal(core.Vec2{})

	near := ne.Flatten(tilted, 0)
	if near.Subtract(tilted).Length() > 1e-12 {
		t.Errorf("Expected no flattening at distance 0, got %v", near)
	}

	mid := ne.Flatten(tilted, 10)
	far := ne.Flatten(tilted, 100)
	if !(tilted.Y < mid.Y && mid.Y < far.Y) {
		t.Errorf("Expected normals to approach up with distance: %v, %v, %v", tilted, mid, far)
	}
	if far.Subtract(core.Up).Length() > 1e-2 {
		t.Errorf("Expected a distant normal close to up, got %v", far)
	}
}
