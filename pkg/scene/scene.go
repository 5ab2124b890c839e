package scene

import (
	"github.com/df07/go-mesh-pathtracer/pkg/core"
	"github.com/df07/go-mesh-pathtracer/pkg/geometry"
)

// DefaultMaxObjectsPerNode is the leaf size of the top-level BVH
const DefaultMaxObjectsPerNode = 2

// Object is anything that can be placed in a scene: a bounded surface that
// reports its nearest hit and carries a material
type Object interface {
	BoundingBox() core.AABB
	Hit(ray core.Ray) (*core.HitRecord, bool)
	Material() core.Material
}

// Surface is implemented by objects that can be sampled by area
type Surface interface {
	Area() float64
	SampleSurface(sampler core.Sampler) geometry.SurfaceSample
}

// objectRef is what the top-level BVH stores
type objectRef struct {
	index int
	box   core.AABB
}

func (r objectRef) BoundingBox() core.AABB {
	return r.box
}

// Scene contains all the elements needed for rendering. It is read-only once
// built and safe for concurrent use.
type Scene struct {
	objects     []Object
	bvh         *core.BVH[objectRef]
	camera      *Camera
	background  Background
	emitters    []int
	emitterArea float64
}

// Builder collects objects and settings for a Scene
type Builder struct {
	objects           []Object
	camera            *Camera
	background        Background
	maxObjectsPerNode int
}

// NewBuilder creates a builder with the default camera and sky background
func NewBuilder() *Builder {
	return &Builder{
		camera:            NewCamera(DefaultCameraConfig()),
		background:        SkyBackground(),
		maxObjectsPerNode: DefaultMaxObjectsPerNode,
	}
}

// Add appends an object and returns its index
func (b *Builder) Add(object Object) int {
	b.objects = append(b.objects, object)
	return len(b.objects) - 1
}

// SetCamera replaces the camera
func (b *Builder) SetCamera(camera *Camera) *Builder {
	b.camera = camera
	return b
}

// SetBackground replaces the background
func (b *Builder) SetBackground(background Background) *Builder {
	b.background = background
	return b
}

// SetMaxObjectsPerNode sets the top-level BVH leaf size
func (b *Builder) SetMaxObjectsPerNode(n int) *Builder {
	b.maxObjectsPerNode = n
	return b
}

// Build creates the top-level BVH and the emitter list
func (b *Builder) Build() *Scene {
	s := &Scene{
		objects:    b.objects,
		camera:     b.camera,
		background: b.background,
	}

	refs := make([]objectRef, len(s.objects))
	for i, object := range s.objects {
		refs[i] = objectRef{index: i, box: object.BoundingBox()}
	}
	s.bvh = core.NewBVH(refs, b.maxObjectsPerNode)

	for i, object := range s.objects {
		material := object.Material()
		if material == nil || !material.IsEmissive() {
			continue
		}
		s.emitters = append(s.emitters, i)
		if surface, ok := object.(Surface); ok {
			s.emitterArea += surface.Area()
		}
	}

	return s
}

// Hit returns the nearest hit among all objects, with HitRecord.Object set to
// the index of the struck object
func (s *Scene) Hit(ray core.Ray) (*core.HitRecord, bool) {
	return s.bvh.Trace(ray, s.hitLeaf)
}

func (s *Scene) hitLeaf(ray core.Ray, refs []objectRef) (*core.HitRecord, bool) {
	var closest *core.HitRecord
	for _, ref := range refs {
		if hit, ok := s.objects[ref.index].Hit(ray); ok && (closest == nil || hit.T < closest.T) {
			hit.Object = ref.index
			closest = hit
			ray = ray.WithMax(hit.T)
		}
	}
	return closest, closest != nil
}

// Camera returns the scene camera
func (s *Scene) Camera() *Camera {
	return s.camera
}

// Background returns the radiance of a ray that escapes the scene
func (s *Scene) Background(ray core.Ray) core.Vec3 {
	return s.background.Color(ray.Direction)
}

// Objects returns the scene objects in insertion order
func (s *Scene) Objects() []Object {
	return s.objects
}

// Emitters returns the indices of objects with an emissive material
func (s *Scene) Emitters() []int {
	return s.emitters
}

// EmitterArea returns the total surface area of all emitters
func (s *Scene) EmitterArea() float64 {
	return s.emitterArea
}

// Stats summarizes the scene for logging
type Stats struct {
	Objects     int
	Triangles   int
	Spheres     int
	Emitters    int
	EmitterArea float64
	BVH         core.BVHStats
}

// Stats counts objects and primitives and reports the top-level BVH shape
func (s *Scene) Stats() Stats {
	stats := Stats{
		Objects:     len(s.objects),
		Emitters:    len(s.emitters),
		EmitterArea: s.emitterArea,
		BVH:         s.bvh.Stats(),
	}

	for _, object := range s.objects {
		switch obj := object.(type) {
		case *geometry.Mesh:
			stats.Triangles += obj.TriangleCount()
		case *geometry.Sphere:
			stats.Spheres++
		}
	}
	return stats
}
