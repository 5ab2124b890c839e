package geometry

import (
	"fmt"
	"sort"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
)

// DefaultMaxTrianglesPerNode is the leaf size of a mesh BVH when none is given
const DefaultMaxTrianglesPerNode = 8

// Vertex is a mesh vertex: a position and a shading normal
type Vertex struct {
	Position core.Vec3
	Normal   core.Vec3
}

// Triangle holds three indices into a mesh's vertex buffer
type Triangle [3]uint32

// MeshOptions contains optional parameters for mesh creation
type MeshOptions struct {
	MaxTrianglesPerNode int // BVH leaf size, DefaultMaxTrianglesPerNode when zero
}

// triangleRef is what the mesh BVH stores: a triangle index and its box
type triangleRef struct {
	index uint32
	box   core.AABB
}

func (r triangleRef) BoundingBox() core.AABB {
	return r.box
}

// Mesh is an immutable triangle mesh with its own BVH over triangles.
// Vertices are expected in world space.
type Mesh struct {
	vertices  []Vertex
	triangles []Triangle
	material  core.Material
	bvh       *core.BVH[triangleRef]
	bbox      core.AABB
	area      float64
	areaCDF   []float64 // running sum of triangle areas, for surface sampling
}

// NewMesh creates a mesh and builds its BVH.
// It panics when triangles is empty or an index is out of range.
func NewMesh(vertices []Vertex, triangles []Triangle, material core.Material, options *MeshOptions) *Mesh {
	if len(triangles) == 0 {
		panic("mesh must have at least one triangle")
	}

	maxPerNode := DefaultMaxTrianglesPerNode
	if options != nil && options.MaxTrianglesPerNode > 0 {
		maxPerNode = options.MaxTrianglesPerNode
	}

	for i, tri := range triangles {
		for _, index := range tri {
			if int(index) >= len(vertices) {
				panic(fmt.Sprintf("triangle %d: vertex index %d out of bounds (%d vertices)", i, index, len(vertices)))
			}
		}
	}

	m := &Mesh{
		vertices:  fillMissingNormals(vertices, triangles),
		triangles: triangles,
		material:  material,
		areaCDF:   make([]float64, len(triangles)),
	}

	refs := make([]triangleRef, len(triangles))
	for i, tri := range triangles {
		v0, v1, v2 := m.positions(tri)
		box, _ := core.NewAABBFromPoints(v0, v1, v2)
		refs[i] = triangleRef{index: uint32(i), box: box}

		if i == 0 {
			m.bbox = box
		} else {
			m.bbox = m.bbox.Merged(box)
		}

		m.area += TriangleArea(v0, v1, v2)
		m.areaCDF[i] = m.area
	}

	m.bvh = core.NewBVH(refs, maxPerNode)
	return m
}

// fillMissingNormals returns a copy of vertices where every zero normal is
// replaced by the face normal of the first triangle using that vertex
func fillMissingNormals(vertices []Vertex, triangles []Triangle) []Vertex {
	filled := make([]Vertex, len(vertices))
	copy(filled, vertices)

	for _, tri := range triangles {
		face := FaceNormal(filled[tri[0]].Position, filled[tri[1]].Position, filled[tri[2]].Position)
		for _, index := range tri {
			if filled[index].Normal.IsZero() {
				filled[index].Normal = face
			}
		}
	}
	return filled
}

func (m *Mesh) positions(tri Triangle) (core.Vec3, core.Vec3, core.Vec3) {
	return m.vertices[tri[0]].Position, m.vertices[tri[1]].Position, m.vertices[tri[2]].Position
}

// Hit returns the nearest triangle hit along ray within [0, ray.TMax]
func (m *Mesh) Hit(ray core.Ray) (*core.HitRecord, bool) {
	return m.bvh.Trace(ray, m.hitLeaf)
}

// hitLeaf resolves every candidate triangle of a BVH leaf, keeping the nearest
func (m *Mesh) hitLeaf(ray core.Ray, refs []triangleRef) (*core.HitRecord, bool) {
	found := false
	var nearestT float64
	var nearestBary core.Barycentric
	var nearestTri Triangle

	for _, ref := range refs {
		tri := m.triangles[ref.index]
		v0, v1, v2 := m.positions(tri)
		if t, bary, ok := IntersectTriangle(ray, v0, v1, v2); ok && (!found || t < nearestT) {
			found = true
			nearestT, nearestBary, nearestTri = t, bary, tri
			ray = ray.WithMax(t)
		}
	}

	if !found {
		return nil, false
	}
	return m.hitRecord(nearestT, nearestBary, nearestTri), true
}

func (m *Mesh) hitRecord(t float64, bary core.Barycentric, tri Triangle) *core.HitRecord {
	a, b, c := m.vertices[tri[0]], m.vertices[tri[1]], m.vertices[tri[2]]

	normal := bary.InterpolateNormal(a.Normal, b.Normal, c.Normal)
	if normal.IsZero() {
		// Opposing vertex normals can cancel out
		normal = FaceNormal(a.Position, b.Position, c.Position)
	}

	return &core.HitRecord{
		T:           t,
		Point:       bary.InterpolatePosition(a.Position, b.Position, c.Position),
		Normal:      normal,
		Material:    m.material,
		Object:      -1,
		Barycentric: bary,
	}
}

// BoundingBox returns the box around every triangle
func (m *Mesh) BoundingBox() core.AABB {
	return m.bbox
}

// Material returns the material shared by every triangle
func (m *Mesh) Material() core.Material {
	return m.material
}

// TriangleCount returns the number of triangles in the mesh
func (m *Mesh) TriangleCount() int {
	return len(m.triangles)
}

// Vertices returns the vertex buffer. The slice must not be modified.
func (m *Mesh) Vertices() []Vertex {
	return m.vertices
}

// Triangles returns the index buffer. The slice must not be modified.
func (m *Mesh) Triangles() []Triangle {
	return m.triangles
}

// Area returns the total surface area of the mesh
func (m *Mesh) Area() float64 {
	return m.area
}

// BVHStats returns the shape of the mesh BVH
func (m *Mesh) BVHStats() core.BVHStats {
	return m.bvh.Stats()
}

// SampleSurface picks a point uniformly by area over the whole mesh
func (m *Mesh) SampleSurface(sampler core.Sampler) SurfaceSample {
	target := sampler.Get1D() * m.area
	index := sort.SearchFloat64s(m.areaCDF, target)
	if index >= len(m.triangles) {
		index = len(m.triangles) - 1
	}

	tri := m.triangles[index]
	a, b, c := m.vertices[tri[0]], m.vertices[tri[1]], m.vertices[tri[2]]
	bary := core.SampleTriangle(sampler.Get2D())

	sample := SurfaceSample{
		Point:  bary.InterpolatePosition(a.Position, b.Position, c.Position),
		Normal: FaceNormal(a.Position, b.Position, c.Position),
	}
	if m.area > 0 {
		sample.PDF = 1.0 / m.area
	}
	return sample
}

// TransformVertices returns a copy of vertices with positions and normals
// moved by transform
func TransformVertices(vertices []Vertex, transform core.Transform) []Vertex {
	result := make([]Vertex, len(vertices))
	for i, vertex := range vertices {
		result[i].Position = transform.TransformPos(vertex.Position)
		if !vertex.Normal.IsZero() {
			result[i].Normal = transform.TransformNormal(vertex.Normal)
		}
	}
	return result
}
