package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns a degenerate box around a single point, the seed for folds
func EmptyAABB(point Vec3) AABB {
	return AABB{Min: point, Max: point}
}

// NewAABBFromPoints returns the tightest box around points.
// The second result is false when no points are given.
func NewAABBFromPoints(points ...Vec3) (AABB, bool) {
	if len(points) == 0 {
		return AABB{}, false
	}

	box := EmptyAABB(points[0])
	for _, point := range points[1:] {
		box = box.Merged(EmptyAABB(point))
	}
	return box, true
}

// Merged returns an AABB that bounds both this AABB and another
func (aabb AABB) Merged(other AABB) AABB {
	return AABB{
		Min: aabb.Min.Min(other.Min),
		Max: aabb.Max.Max(other.Max),
	}
}

// Contains reports whether point lies strictly inside the box; points on the
// boundary are outside
func (aabb AABB) Contains(point Vec3) bool {
	return point.X > aabb.Min.X && point.Y > aabb.Min.Y && point.Z > aabb.Min.Z &&
		point.X < aabb.Max.X && point.Y < aabb.Max.Y && point.Z < aabb.Max.Z
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// SurfaceArea returns the surface area of the AABB
func (aabb AABB) SurfaceArea() float64 {
	size := aabb.Size()
	return 2.0 * (size.X*size.Y + size.Y*size.Z + size.Z*size.X)
}

// Hit tests if a ray intersects with this AABB using the slab method.
// Only presence is reported; the ray's TMax bounds the far end of the
// interval so boxes beyond an already found hit are rejected.
func (aabb AABB) Hit(ray Ray) bool {
	near := math.Inf(-1)
	far := ray.TMax

	for axis := 0; axis < 3; axis++ {
		min := aabb.Min.Axis(axis)
		max := aabb.Max.Axis(axis)
		origin := ray.Origin.Axis(axis)
		direction := ray.Direction.Axis(axis)

		// Parallel to this pair of planes
		if direction == 0 {
			if origin < min || origin > max {
				return false
			}
			continue
		}

		invDirection := 1.0 / direction
		t1 := (min - origin) * invDirection
		t2 := (max - origin) * invDirection
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		near = math.Max(near, t1)
		far = math.Min(far, t2)
		if far < near {
			return false
		}
	}

	// Box entirely behind the origin
	return far >= 0
}
