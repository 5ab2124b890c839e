package integrator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
	"github.com/df07/go-mesh-pathtracer/pkg/scene"
)

// ErrUnknownIntegrator is returned by New for names it does not recognize
var ErrUnknownIntegrator = errors.New("unknown integrator")

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the linear radiance arriving along ray
	RayColor(ray core.Ray, scene *scene.Scene, sampler core.Sampler) core.Vec3
}

var constructors = map[string]func(maxDepth int) Integrator{
	"path":    func(maxDepth int) Integrator { return NewPathTracingIntegrator(maxDepth) },
	"normals": func(int) Integrator { return NormalsIntegrator{} },
	"depth":   func(int) Integrator { return DepthIntegrator{} },
	"object":  func(int) Integrator { return ObjectIntegrator{} },
}

// New returns the integrator registered under name
func New(name string, maxDepth int) (Integrator, error) {
	constructor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownIntegrator, name, Names())
	}
	return constructor(maxDepth), nil
}

// Names returns the registered integrator names in sorted order
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
