package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-ocean-raytracer/pkg/core"
)

func TestCameraRig_CenterPixelLooksForward(t *testing.T) {
	rig := NewCameraRig(2)
	resolution := core.NewVec2(640, 360)
	center := CenteredPointer(640, 360)

	dir := rig.RayDirection(center, resolution, center, 1.0)
	if dir.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-12 {
		t.Errorf("Expected (0,0,1), got %v", dir)
	}
}

func TestCameraRig_UnitDirections(t *testing.T) {
	rig := NewCameraRig(2)
	resolution := core.NewVec2(200, 100)

	for _, zoom := range []float64{0.5, 1, 1.3, 2, 4, 8} {
		for px := 0.0; px <= 200; px += 25 {
			for py := 0.0; py <= 100; py += 20 {
				for _, pointer := range []core.Vec2{{X: 0, Y: 0}, {X: 100, Y: 50}, {X: 200, Y: 100}, {X: 37, Y: 81}} {
					dir := rig.RayDirection(core.NewVec2(px, py), resolution, pointer, zoom)
					if math.Abs(dir.Length()-1) > 1e-12 {
						t.Fatalf("Direction %v for pixel (%f,%f) pointer %v zoom %f is not unit length", dir, px, py, pointer, zoom)
					}
				}
			}
		}
	}
}

func TestCameraRig_PointerRotation(t *testing.T) {
	rig := NewCameraRig(2)
	resolution := core.NewVec2(100, 100)
	center := core.NewVec2(50, 50)

	tests := []struct {
		name     string
		pointer  core.Vec2
		expected core.Vec3
	}{
		{"Right edge turns around", core.NewVec2(100, 50), core.NewVec3(0, 0, -1)},
		{"Top edge looks down", core.NewVec2(50, 100), core.NewVec3(0, -1, 0)},
		{"Bottom edge looks up", core.NewVec2(50, 0), core.NewVec3(0, 1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := rig.RayDirection(center, resolution, tt.pointer, 1)
			if dir.Subtract(tt.expected).Length() > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.expected, dir)
			}
		})
	}
}

func TestCameraRig_ZoomNarrowsView(t *testing.T) {
	rig := NewCameraRig(2)
	resolution := core.NewVec2(100, 100)
	center := core.NewVec2(50, 50)
	corner := core.NewVec2(0, 0)
	forward := core.NewVec3(0, 0, 1)

	previous := -1.0
	for _, zoom := range []float64{1, 2, 4, 8} {
		cos := rig.RayDirection(corner, resolution, center, zoom).Dot(forward)
		if cos <= previous {
			t.Errorf("zoom %f: corner ray should be closer to forward (cos %f <= %f)", zoom, cos, previous)
		}
		previous = cos
	}
}

func TestCameraRig_AspectRatio(t *testing.T) {
	rig := NewCameraRig(2)
	resolution := core.NewVec2(200, 100)
	center := core.NewVec2(100, 50)

	right := rig.RayDirection(core.NewVec2(200, 50), resolution, center, 1)
	top := rig.RayDirection(core.NewVec2(100, 100), resolution, center, 1)

	// Right edge spans twice the angle of the top edge on a 2:1 viewport
	if math.Abs(right.X/right.Z-2) > 1e-12 {
		t.Errorf("Expected horizontal slope 2, got %f", right.X/right.Z)
	}
	if math.Abs(top.Y/top.Z-1) > 1e-12 {
		t.Errorf("Expected vertical slope 1, got %f", top.Y/top.Z)
	}
}
