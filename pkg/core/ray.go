package core

import "math"

// RayEpsilon is the distance secondary rays are pushed off the surface they leave
const RayEpsilon = 1e-4

// Ray is a half-line with a unit direction and an upper bound on valid hit
// distances. Traversal code shrinks TMax as nearer hits are found; rays are
// passed by value so every shrink is an explicit new Ray.
type Ray struct {
	Origin    Vec3
	Direction Vec3
	TMax      float64
}

// NewRay creates a ray with a normalized direction and an unbounded TMax
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize(), TMax: math.Inf(1)}
}

// NewRayWithEpsilon creates a ray whose origin is moved RayEpsilon along the
// direction, so it does not immediately re-hit the surface it starts on
func NewRayWithEpsilon(origin, direction Vec3) Ray {
	ray := NewRay(origin, direction)
	ray.Origin = ray.At(RayEpsilon)
	return ray
}

// WithMax returns a copy of the ray with TMax lowered to t.
// A larger t leaves the bound unchanged so TMax never grows.
func (r Ray) WithMax(t float64) Ray {
	if t < r.TMax {
		r.TMax = t
	}
	return r
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}
