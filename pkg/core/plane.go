package core

import "math"

// FloatMax bounds ray travel distances. Near-parallel plane intersections
// are clamped to it instead of producing Inf or NaN.
const FloatMax = 1e10

// Plane is an infinite plane through Point with unit Normal
type Plane struct {
	Point  Vec3
	Normal Vec3
}

// HorizontalPlane returns the plane y = height facing up
func HorizontalPlane(height float64) Plane {
	return Plane{Point: NewVec3(0, height, 0), Normal: Up}
}

// Distance returns the travel distance along the ray to the plane, clamped to
// [-1, FloatMax]. Rays parallel to the plane report FloatMax.
func (p Plane) Distance(ray Ray) float64 {
	denom := ray.Direction.Dot(p.Normal)
	if denom == 0 {
		return FloatMax
	}
	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denom
	if math.IsNaN(t) {
		return FloatMax
	}
	return max(-1.0, min(FloatMax, t))
}

// Intersect returns the point where the ray meets the plane (see Distance)
func (p Plane) Intersect(ray Ray) Vec3 {
	return ray.At(p.Distance(ray))
}
