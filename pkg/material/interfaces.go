package material

import (
	"github.com/df07/go-mesh-pathtracer/pkg/core"
)

// DefaultAlbedo is the color of the fallback material
var DefaultAlbedo = core.NewVec3(0.5, 0.5, 0.5)

var defaultMaterial core.Material = NewLambertian(DefaultAlbedo)

// Default returns the grey diffuse material used for surfaces without one
func Default() core.Material {
	return defaultMaterial
}

// OrDefault returns m, or the default material when m is nil
func OrDefault(m core.Material) core.Material {
	if m == nil {
		return defaultMaterial
	}
	return m
}
