package material

import (
	"github.com/df07/go-mesh-pathtracer/pkg/core"
)

// Metal represents a metallic material with specular reflection
type Metal struct {
	Albedo   core.Vec3 // Metal color
	Fuzzness float64   // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material
func NewMetal(albedo core.Vec3, fuzzness float64) *Metal {
	return &Metal{Albedo: albedo, Fuzzness: core.Clamp(fuzzness, 0.0, 1.0)}
}

// Scatter implements the Material interface for metal scattering
func (m *Metal) Scatter(incoming, normal core.Vec3, sampler core.Sampler) (core.ScatterResult, bool) {
	reflected := incoming.Normalize().Reflect(normal)

	// Add fuzziness by perturbing the reflection direction
	if m.Fuzzness > 0 {
		perturbation := core.SampleOnUnitSphere(sampler.Get2D()).Multiply(m.Fuzzness)
		reflected = reflected.Add(perturbation)
	}
	reflected = reflected.Normalize()

	// Perturbed below the surface: absorbed
	if reflected.Dot(normal) <= 0 {
		return core.ScatterResult{}, false
	}

	return core.ScatterResult{
		Direction:   reflected,
		Attenuation: m.Albedo,
	}, true
}

// IsEmissive reports false: metals do not emit
func (m *Metal) IsEmissive() bool {
	return false
}

// Emission returns zero
func (m *Metal) Emission() core.Vec3 {
	return core.Vec3{}
}
