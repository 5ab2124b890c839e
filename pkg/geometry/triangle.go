package geometry

import (
	"github.com/df07/go-mesh-pathtracer/pkg/core"
)

// TriangleEpsilon is the smallest determinant accepted by IntersectTriangle.
// Smaller values mean the ray is parallel to the triangle or hits its back.
const TriangleEpsilon = 1e-5

// IntersectTriangle tests a ray against the triangle (v0, v1, v2) using the
// Möller-Trumbore algorithm. The test is one-sided: a triangle is only hit
// from the side its counter-clockwise winding faces, so back faces never hit.
// Hits beyond ray.TMax or behind the origin are rejected.
func IntersectTriangle(ray core.Ray, v0, v1, v2 core.Vec3) (float64, core.Barycentric, bool) {
	edge1 := v1.Subtract(v0)
	edge2 := v2.Subtract(v0)

	p := ray.Direction.Cross(edge2)
	det := edge1.Dot(p)

	// Parallel, degenerate or back facing
	if det < TriangleEpsilon {
		return 0, core.Barycentric{}, false
	}

	invDet := 1.0 / det
	s := ray.Origin.Subtract(v0)
	u := s.Dot(p) * invDet
	if u < 0.0 || u > 1.0 {
		return 0, core.Barycentric{}, false
	}

	q := s.Cross(edge1)
	v := ray.Direction.Dot(q) * invDet
	if v < 0.0 || u+v > 1.0 {
		return 0, core.Barycentric{}, false
	}

	t := edge2.Dot(q) * invDet
	if t < 0 || t > ray.TMax {
		return 0, core.Barycentric{}, false
	}

	return t, core.Barycentric{W: 1 - u - v, U: u, V: v}, true
}

// FaceNormal returns the unit normal implied by the winding of (v0, v1, v2).
// Degenerate triangles yield the zero vector.
func FaceNormal(v0, v1, v2 core.Vec3) core.Vec3 {
	return v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
}

// TriangleArea returns the area of the triangle (v0, v1, v2)
func TriangleArea(v0, v1, v2 core.Vec3) float64 {
	return 0.5 * v1.Subtract(v0).Cross(v2.Subtract(v0)).Length()
}
