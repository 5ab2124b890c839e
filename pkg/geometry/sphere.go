package geometry

import (
	"math"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	material core.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, material core.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		material: material,
	}
}

// Hit tests if a ray intersects with the sphere within [0, ray.TMax].
// The normal always faces against the incoming ray.
func (s *Sphere) Hit(ray core.Ray) (*core.HitRecord, bool) {
	// Vector from ray origin to sphere center
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return nil, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if root < 0 || root > ray.TMax {
		root = (-halfB + sqrtD) / a
		if root < 0 || root > ray.TMax {
			return nil, false
		}
	}

	point := ray.At(root)
	normal := point.Subtract(s.Center).Multiply(1.0 / s.Radius)
	if ray.Direction.Dot(normal) > 0 {
		normal = normal.Negate()
	}

	return &core.HitRecord{
		T:        root,
		Point:    point,
		Normal:   normal,
		Material: s.material,
		Object:   -1,
	}, true
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	radius := core.Splat(s.Radius)
	return core.NewAABB(
		s.Center.Subtract(radius),
		s.Center.Add(radius),
	)
}

// Material returns the sphere's material
func (s *Sphere) Material() core.Material {
	return s.material
}

// Area returns the surface area of the sphere
func (s *Sphere) Area() float64 {
	return 4 * math.Pi * s.Radius * s.Radius
}

// SampleSurface picks a uniformly distributed point on the sphere
func (s *Sphere) SampleSurface(sampler core.Sampler) SurfaceSample {
	normal := core.SampleOnUnitSphere(sampler.Get2D())
	return SurfaceSample{
		Point:  s.Center.Add(normal.Multiply(s.Radius)),
		Normal: normal,
		PDF:    1.0 / s.Area(),
	}
}
