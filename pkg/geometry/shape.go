package geometry

import "github.com/df07/go-mesh-pathtracer/pkg/core"

// SurfaceSample is a point drawn from the surface of a shape
type SurfaceSample struct {
	Point  core.Vec3 // Sampled position
	Normal core.Vec3 // Geometric normal at the position
	PDF    float64   // Area density, 1 / total area
}
