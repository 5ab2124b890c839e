package material

import (
	"github.com/df07/go-mesh-pathtracer/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo core.Vec3 // Base color/reflectance
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Scatter implements the Material interface for lambertian scattering.
// Directions are cosine-weighted, so the cos/pdf factor cancels and the
// attenuation is the albedo itself.
func (l *Lambertian) Scatter(incoming, normal core.Vec3, sampler core.Sampler) (core.ScatterResult, bool) {
	direction := core.SampleCosineHemisphere(normal, sampler.Get2D())
	if direction.IsZero() {
		direction = normal
	}

	return core.ScatterResult{
		Direction:   direction,
		Attenuation: l.Albedo,
	}, true
}

// IsEmissive reports false: diffuse surfaces do not emit
func (l *Lambertian) IsEmissive() bool {
	return false
}

// Emission returns zero
func (l *Lambertian) Emission() core.Vec3 {
	return core.Vec3{}
}
