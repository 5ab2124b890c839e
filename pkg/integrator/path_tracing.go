package integrator

import (
	"github.com/df07/go-mesh-pathtracer/pkg/core"
	"github.com/df07/go-mesh-pathtracer/pkg/material"
	"github.com/df07/go-mesh-pathtracer/pkg/scene"
)

// DefaultMaxDepth is the bounce limit used when none is configured
const DefaultMaxDepth = 8

// PathTracingIntegrator implements unidirectional path tracing with a hard
// bounce limit and no Russian roulette
type PathTracingIntegrator struct {
	maxDepth int
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(maxDepth int) *PathTracingIntegrator {
	if maxDepth < 0 {
		maxDepth = DefaultMaxDepth
	}
	return &PathTracingIntegrator{maxDepth: maxDepth}
}

// MaxDepth returns the bounce limit
func (pt *PathTracingIntegrator) MaxDepth() int {
	return pt.maxDepth
}

// RayColor computes the color for a single camera ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Vec3 {
	return pt.rayColor(ray, s, sampler, pt.maxDepth)
}

func (pt *PathTracingIntegrator) rayColor(ray core.Ray, s *scene.Scene, sampler core.Sampler, depth int) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, isHit := s.Hit(ray)
	if !isHit {
		return s.Background(ray)
	}

	mat := material.OrDefault(hit.Material)
	colorEmitted := mat.Emission()

	scatter, didScatter := mat.Scatter(ray.Direction, hit.Normal, sampler)
	if !didScatter || scatter.Attenuation.IsZero() {
		// Material absorbed the ray, only return emitted light
		return colorEmitted
	}

	scattered := core.NewRayWithEpsilon(hit.Point, scatter.Direction)
	incoming := pt.rayColor(scattered, s, sampler, depth-1)
	return colorEmitted.Add(scatter.Attenuation.MultiplyVec(incoming))
}
