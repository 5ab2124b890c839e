package material

import (
	"github.com/df07/go-mesh-pathtracer/pkg/core"
)

// Emissive represents a light-emitting material
type Emissive struct {
	Color core.Vec3 // Emitted light color/intensity
}

// NewEmissive creates a new emissive material
func NewEmissive(emission core.Vec3) *Emissive {
	return &Emissive{Color: emission}
}

// Scatter implements the Material interface for emissive materials.
// Emitters absorb every incoming ray.
func (e *Emissive) Scatter(incoming, normal core.Vec3, sampler core.Sampler) (core.ScatterResult, bool) {
	return core.ScatterResult{}, false
}

// IsEmissive reports whether the emitted color is non-zero
func (e *Emissive) IsEmissive() bool {
	return !e.Color.IsZero()
}

// Emission returns the emitted light for this material
func (e *Emissive) Emission() core.Vec3 {
	return e.Color
}
