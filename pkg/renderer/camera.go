package renderer

import (
	"math"

	"github.com/df07/go-ocean-raytracer/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// CameraRig turns pixel and pointer coordinates into view rays.
// Coordinates use a bottom-left origin, as the pointer does.
type CameraRig struct {
	Origin core.Vec3
}

// NewCameraRig places the camera at the given height above the crest plane
func NewCameraRig(height float64) CameraRig {
	return CameraRig{Origin: core.NewVec3(0, height, 0)}
}

// Rotation returns the yaw-then-pitch matrix for a pointer position.
// The pointer spans [-pi, pi] horizontally and [-pi/2, pi/2] vertically.
func (c CameraRig) Rotation(pointer, resolution core.Vec2) mgl64.Mat3 {
	yaw := (2.0*pointer.X/resolution.X - 1.0) * math.Pi
	pitch := (2.0*pointer.Y/resolution.Y - 1.0) * math.Pi / 2.0

	sv, cv := math.Sincos(pitch)
	sh, ch := math.Sincos(yaw)

	// Column-major
	return mgl64.Mat3{
		ch, 0, sh,
		-sh * sv, cv, ch * sv,
		-sh * cv, -sv, ch * cv,
	}
}

// RayDirection returns the unit view direction through a pixel.
// Larger zoom narrows the field of view.
func (c CameraRig) RayDirection(pixel, resolution, pointer core.Vec2, zoom float64) core.Vec3 {
	aspectRatio := resolution.X / resolution.Y
	view := mgl64.Vec3{
		(2.0*pixel.X/resolution.X - 1.0) * aspectRatio,
		2.0*pixel.Y/resolution.Y - 1.0,
		zoom,
	}

	dir := c.Rotation(pointer, resolution).Mul3x1(view).Normalize()
	return core.NewVec3(dir[0], dir[1], dir[2])
}

// GetRay returns the camera ray through a pixel
func (c CameraRig) GetRay(pixel, resolution, pointer core.Vec2, zoom float64) core.Ray {
	return core.NewRay(c.Origin, c.RayDirection(pixel, resolution, pointer, zoom))
}
