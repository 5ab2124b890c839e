package loaders

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
	"github.com/df07/go-mesh-pathtracer/pkg/geometry"
	"github.com/df07/go-mesh-pathtracer/pkg/log"
	"github.com/df07/go-mesh-pathtracer/pkg/material"
	"github.com/df07/go-mesh-pathtracer/pkg/scene"
)

var logger = log.New(log.ModuleLoaders)

// Vec3 is a JSON triple
type Vec3 [3]float64

// Vec3 converts the triple to a core vector
func (v Vec3) Vec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// SceneFile is the JSON scene description
type SceneFile struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Group       string `json:"group,omitempty"`

	Camera     *CameraSpec             `json:"camera"`
	Background *BackgroundSpec         `json:"background,omitempty"`
	Materials  map[string]MaterialSpec `json:"materials,omitempty"`
	Objects    []ObjectSpec            `json:"objects"`
	BVH        BVHSpec                 `json:"bvh,omitempty"`
}

// CameraSpec places a look-at camera
type CameraSpec struct {
	Position Vec3    `json:"position"`
	LookAt   Vec3    `json:"look_at"`
	Up       *Vec3   `json:"up,omitempty"`   // defaults to +Y
	VFov     float64 `json:"vfov,omitempty"` // degrees, defaults to 60
	Aspect   float64 `json:"aspect,omitempty"`
}

// BackgroundSpec is either a gradient or one of the named presets "sky" and "black"
type BackgroundSpec struct {
	Preset string
	Top    Vec3
	Bottom Vec3
}

// UnmarshalJSON accepts a preset name or a {"top", "bottom"} object
func (b *BackgroundSpec) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &b.Preset)
	}

	var gradient struct {
		Top    Vec3 `json:"top"`
		Bottom Vec3 `json:"bottom"`
	}
	if err := json.Unmarshal(data, &gradient); err != nil {
		return err
	}
	b.Top, b.Bottom = gradient.Top, gradient.Bottom
	return nil
}

// MaterialSpec describes one named material
type MaterialSpec struct {
	Type     string  `json:"type"` // diffuse, metal or emissive
	Color    Vec3    `json:"color"`
	Fuzz     float64 `json:"fuzz,omitempty"`
	Emission *Vec3   `json:"emission,omitempty"` // emissive only, overrides color
}

// ObjectSpec is one scene object. Exactly one of Mesh, Vertices or Sphere is set.
type ObjectSpec struct {
	Mesh      string         `json:"mesh,omitempty"` // path relative to the scene file
	Vertices  []Vec3         `json:"vertices,omitempty"`
	Normals   []Vec3         `json:"normals,omitempty"`
	Triangles [][3]uint32    `json:"triangles,omitempty"`
	Sphere    *SphereSpec    `json:"sphere,omitempty"`
	Material  string         `json:"material,omitempty"`
	Transform *TransformSpec `json:"transform,omitempty"`
}

// SphereSpec is an analytic sphere
type SphereSpec struct {
	Center Vec3    `json:"center"`
	Radius float64 `json:"radius"`
}

// TransformSpec is applied as scale, then rotation, then translation
type TransformSpec struct {
	Translate *Vec3       `json:"translate,omitempty"`
	Scale     *Vec3       `json:"scale,omitempty"`
	Rotate    *RotateSpec `json:"rotate,omitempty"`
}

// RotateSpec is a rotation around an axis
type RotateSpec struct {
	Axis    Vec3    `json:"axis"`
	Degrees float64 `json:"degrees"`
}

// BVHSpec overrides the leaf sizes of the scene and mesh hierarchies
type BVHSpec struct {
	MaxObjectsPerNode   int `json:"max_objects_per_node,omitempty"`
	MaxTrianglesPerNode int `json:"max_triangles_per_node,omitempty"`
}

// Options adjust how a scene file is turned into a scene
type Options struct {
	AspectRatio float64 // used when the camera does not set one
}

// Decode parses a JSON scene description
func Decode(r io.Reader) (*SceneFile, error) {
	var file SceneFile
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}
	return &file, nil
}

// LoadScene reads and builds a scene file. Mesh paths are resolved relative
// to the directory of the scene file.
func LoadScene(path string, opts Options) (*scene.Scene, error) {
	startTime := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene: %w", err)
	}
	defer f.Close()

	file, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s, err := file.Build(filepath.Dir(path), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logger.Infof("loaded scene %s with %d objects in %v", path, len(s.Objects()), time.Since(startTime))
	return s, nil
}

// Build creates the scene. baseDir is used to resolve relative mesh paths.
func (f *SceneFile) Build(baseDir string, opts Options) (*scene.Scene, error) {
	builder := scene.NewBuilder()

	camera, err := f.buildCamera(opts)
	if err != nil {
		return nil, err
	}
	builder.SetCamera(camera)

	if f.Background != nil {
		background, err := f.Background.build()
		if err != nil {
			return nil, err
		}
		builder.SetBackground(background)
	}

	if f.BVH.MaxObjectsPerNode > 0 {
		builder.SetMaxObjectsPerNode(f.BVH.MaxObjectsPerNode)
	}

	materials := make(map[string]core.Material, len(f.Materials))
	for name, spec := range f.Materials {
		m, err := spec.build()
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		materials[name] = m
	}

	for i, spec := range f.Objects {
		object, err := spec.build(baseDir, materials, f.BVH.MaxTrianglesPerNode)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		builder.Add(object)
	}

	return builder.Build(), nil
}

func (f *SceneFile) buildCamera(opts Options) (*scene.Camera, error) {
	if f.Camera == nil {
		return nil, ErrNoCamera
	}

	config := scene.DefaultCameraConfig()
	config.Center = f.Camera.Position.Vec3()
	config.LookAt = f.Camera.LookAt.Vec3()
	if f.Camera.Up != nil {
		config.Up = f.Camera.Up.Vec3()
	}
	if f.Camera.VFov > 0 {
		config.VFov = f.Camera.VFov
	}
	switch {
	case f.Camera.Aspect > 0:
		config.AspectRatio = f.Camera.Aspect
	case opts.AspectRatio > 0:
		config.AspectRatio = opts.AspectRatio
	}

	if config.Center == config.LookAt {
		return nil, fmt.Errorf("%w: position and look_at coincide", ErrNoCamera)
	}
	return scene.NewCamera(config), nil
}

func (b BackgroundSpec) build() (scene.Background, error) {
	switch b.Preset {
	case "":
		return scene.Background{Top: b.Top.Vec3(), Bottom: b.Bottom.Vec3()}, nil
	case "sky":
		return scene.SkyBackground(), nil
	case "black":
		return scene.BlackBackground(), nil
	}
	return scene.Background{}, fmt.Errorf("%w %q", ErrUnknownBackground, b.Preset)
}

func (m MaterialSpec) build() (core.Material, error) {
	switch m.Type {
	case "diffuse", "lambertian":
		return material.NewLambertian(m.Color.Vec3()), nil
	case "metal":
		return material.NewMetal(m.Color.Vec3(), m.Fuzz), nil
	case "emissive", "light":
		emission := m.Color
		if m.Emission != nil {
			emission = *m.Emission
		}
		return material.NewEmissive(emission.Vec3()), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownMaterialType, m.Type)
}

func (o ObjectSpec) build(baseDir string, materials map[string]core.Material, maxTrianglesPerNode int) (scene.Object, error) {
	var mat core.Material
	if o.Material != "" {
		m, ok := materials[o.Material]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownMaterial, o.Material)
		}
		mat = m
	}

	sources := 0
	for _, set := range []bool{o.Mesh != "", len(o.Vertices) > 0, o.Sphere != nil} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return nil, ErrInvalidObject
	}

	transform := o.Transform.build()

	if o.Sphere != nil {
		return o.buildSphere(transform, mat)
	}

	var (
		vertices  []geometry.Vertex
		triangles []geometry.Triangle
		err       error
	)
	if o.Mesh != "" {
		path := o.Mesh
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		vertices, triangles, err = LoadMeshFile(path)
	} else {
		vertices, triangles, err = o.inlineMesh()
	}
	if err != nil {
		return nil, err
	}

	if o.Transform != nil {
		vertices = geometry.TransformVertices(vertices, transform)
	}

	startTime := time.Now()
	mesh := geometry.NewMesh(vertices, triangles, mat, &geometry.MeshOptions{MaxTrianglesPerNode: maxTrianglesPerNode})
	stats := mesh.BVHStats()
	logger.Debugf("built mesh BVH over %d triangles in %v: %d nodes, %d leaves, depth %d",
		mesh.TriangleCount(), time.Since(startTime), stats.Nodes, stats.Leaves, stats.MaxDepth)

	return mesh, nil
}

func (o ObjectSpec) inlineMesh() ([]geometry.Vertex, []geometry.Triangle, error) {
	if len(o.Triangles) == 0 {
		return nil, nil, ErrEmptyMesh
	}
	if len(o.Normals) > 0 && len(o.Normals) != len(o.Vertices) {
		return nil, nil, fmt.Errorf("%w: %d normals for %d vertices", ErrNormalCountMismatch, len(o.Normals), len(o.Vertices))
	}

	vertices := make([]geometry.Vertex, len(o.Vertices))
	for i, position := range o.Vertices {
		vertices[i].Position = position.Vec3()
		if len(o.Normals) > 0 {
			vertices[i].Normal = o.Normals[i].Vec3().Normalize()
		}
	}

	triangles := make([]geometry.Triangle, len(o.Triangles))
	for i, tri := range o.Triangles {
		for _, index := range tri {
			if int(index) >= len(vertices) {
				return nil, nil, fmt.Errorf("%w: triangle %d references vertex %d of %d", ErrInvalidIndex, i, index, len(vertices))
			}
		}
		triangles[i] = geometry.Triangle(tri)
	}
	return vertices, triangles, nil
}

func (o ObjectSpec) buildSphere(transform core.Transform, mat core.Material) (scene.Object, error) {
	radius := o.Sphere.Radius
	if o.Transform != nil && o.Transform.Scale != nil {
		scale := *o.Transform.Scale
		if scale[0] != scale[1] || scale[1] != scale[2] {
			return nil, ErrNonUniformScale
		}
		radius *= math.Abs(scale[0])
	}
	if radius <= 0 {
		return nil, fmt.Errorf("sphere radius must be positive, got %g", radius)
	}
	return geometry.NewSphere(transform.TransformPos(o.Sphere.Center.Vec3()), radius, mat), nil
}

func (t *TransformSpec) build() core.Transform {
	transform := core.IdentityTransform()
	if t == nil {
		return transform
	}
	if t.Scale != nil {
		transform = core.Scaling(t.Scale.Vec3()).Then(transform)
	}
	if t.Rotate != nil {
		transform = core.Rotation(t.Rotate.Axis.Vec3(), t.Rotate.Degrees).Then(transform)
	}
	if t.Translate != nil {
		transform = core.Translation(t.Translate.Vec3()).Then(transform)
	}
	return transform
}
