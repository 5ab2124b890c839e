package core

// Material is the contract the integrator needs from a surface: a way to pick
// an outgoing direction with its color attenuation, and an emitted color.
// The intersection code treats it as an opaque payload of HitRecord.
type Material interface {
	// Scatter samples an outgoing direction for a ray arriving along incoming
	// at a surface with the given unit normal. The bool is false when the
	// ray is absorbed.
	Scatter(incoming, normal Vec3, sampler Sampler) (ScatterResult, bool)

	// IsEmissive reports whether the surface emits light
	IsEmissive() bool

	// Emission returns the emitted radiance (zero for non-emitters)
	Emission() Vec3
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Direction   Vec3 // Outgoing direction (unit length)
	Attenuation Vec3 // Color the recursive radiance is multiplied by
}

// HitRecord contains information about a ray-object intersection.
// It is produced per query and consumed immediately by the integrator.
type HitRecord struct {
	T           float64     // Distance along the ray
	Point       Vec3        // World-space position
	Normal      Vec3        // World-space unit shading normal
	Material    Material    // Material of the struck surface, may be nil
	Object      int         // Index of the struck scene object, -1 when unset
	Barycentric Barycentric // Triangle weights (zero for non-triangle hits)
}

// Barycentric holds the weights (W, U, V) of a point inside a triangle,
// relative to vertices v0, v1 and v2. The weights sum to one.
type Barycentric struct {
	W, U, V float64
}

// InterpolatePosition returns the barycentric combination of three points
func (b Barycentric) InterpolatePosition(p0, p1, p2 Vec3) Vec3 {
	return p0.Multiply(b.W).Add(p1.Multiply(b.U)).Add(p2.Multiply(b.V))
}

// InterpolateNormal blends three unit normals and renormalizes the result,
// since a weighted sum of unit vectors is generally shorter than one
func (b Barycentric) InterpolateNormal(n0, n1, n2 Vec3) Vec3 {
	return b.InterpolatePosition(n0, n1, n2).Normalize()
}

// Bounded is implemented by anything a BVH can hold
type Bounded interface {
	BoundingBox() AABB
}
