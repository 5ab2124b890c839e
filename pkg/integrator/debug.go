package integrator

import (
	"github.com/df07/go-mesh-pathtracer/pkg/core"
	"github.com/df07/go-mesh-pathtracer/pkg/scene"
)

// NormalsIntegrator shows the shading normal of the first hit, mapped to [0, 1]
type NormalsIntegrator struct{}

func (NormalsIntegrator) RayColor(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Vec3 {
	hit, isHit := s.Hit(ray)
	if !isHit {
		return core.Vec3{}
	}
	return hit.Normal.Add(core.Splat(1)).Multiply(0.5)
}

// DepthIntegrator shows 1/(1+t) of the first hit, so near surfaces are bright
type DepthIntegrator struct{}

func (DepthIntegrator) RayColor(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Vec3 {
	hit, isHit := s.Hit(ray)
	if !isHit {
		return core.Vec3{}
	}
	return core.Splat(1 / (1 + hit.T))
}

// ObjectIntegrator paints every scene object in its own flat color
type ObjectIntegrator struct{}

func (ObjectIntegrator) RayColor(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Vec3 {
	hit, isHit := s.Hit(ray)
	if !isHit {
		return core.Vec3{}
	}
	return ObjectColor(hit.Object)
}

// ObjectColor hashes an object index to a stable, fairly bright color
func ObjectColor(index int) core.Vec3 {
	h := uint32(index+1) * 2654435761 // Knuth multiplicative hash
	channel := func(shift uint) float64 {
		return 0.25 + 0.75*float64((h>>shift)&0xff)/255
	}
	return core.NewVec3(channel(0), channel(8), channel(16))
}
