package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
)

// MockMaterial is a minimal material for geometry tests
type MockMaterial struct{}

func (m MockMaterial) Scatter(incoming, normal core.Vec3, sampler core.Sampler) (core.ScatterResult, bool) {
	return core.ScatterResult{}, false
}

func (m MockMaterial) IsEmissive() bool {
	return false
}

func (m MockMaterial) Emission() core.Vec3 {
	return core.Vec3{}
}

// quadVertices returns a unit quad in the XY plane at depth z facing +Z
func quadVertices(z float64) []Vertex {
	return []Vertex{
		{Position: core.NewVec3(0, 0, z)},
		{Position: core.NewVec3(1, 0, z)},
		{Position: core.NewVec3(1, 1, z)},
		{Position: core.NewVec3(0, 1, z)},
	}
}

var quadTriangles = []Triangle{
	{0, 1, 2},
	{0, 2, 3},
}

func TestMesh_Creation(t *testing.T) {
	mesh := NewMesh(quadVertices(0), quadTriangles, MockMaterial{}, nil)

	if mesh.TriangleCount() != 2 {
		t.Errorf("Expected 2 triangles, got %d", mesh.TriangleCount())
	}

	bbox := mesh.BoundingBox()
	expectedMin := core.NewVec3(0, 0, 0)
	expectedMax := core.NewVec3(1, 1, 0)

	const tolerance = 1e-9
	if bbox.Min.Subtract(expectedMin).Length() > tolerance {
		t.Errorf("Expected min %v, got %v", expectedMin, bbox.Min)
	}
	if bbox.Max.Subtract(expectedMax).Length() > tolerance {
		t.Errorf("Expected max %v, got %v", expectedMax, bbox.Max)
	}
	if math.Abs(mesh.Area()-1) > tolerance {
		t.Errorf("Expected area 1, got %f", mesh.Area())
	}
}

func TestMesh_Hit(t *testing.T) {
	mesh := NewMesh(quadVertices(0), quadTriangles, MockMaterial{}, nil)

	tests := []struct {
		name      string
		ray       core.Ray
		shouldHit bool
	}{
		{"Ray hits center of quad", core.NewRay(core.NewVec3(0.5, 0.5, 1), core.NewVec3(0, 0, -1)), true},
		{"Ray hits corner", core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1)), true},
		{"Ray hits second triangle", core.NewRay(core.NewVec3(0.2, 0.8, 1), core.NewVec3(0, 0, -1)), true},
		{"Ray misses quad", core.NewRay(core.NewVec3(2, 2, 1), core.NewVec3(0, 0, -1)), false},
		{"Ray hits back of quad", core.NewRay(core.NewVec3(0.5, 0.5, -1), core.NewVec3(0, 0, 1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := mesh.Hit(tt.ray)
			if isHit != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got hit=%v", tt.shouldHit, isHit)
			}
			if !isHit {
				return
			}

			if math.Abs(hit.T-1) > 1e-9 {
				t.Errorf("Expected t=1, got %f", hit.T)
			}
			if hit.Normal.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-9 {
				t.Errorf("Expected normal (0, 0, 1), got %v", hit.Normal)
			}
			if _, ok := hit.Material.(MockMaterial); !ok {
				t.Errorf("Expected mesh material on hit record, got %T", hit.Material)
			}
		})
	}
}

func TestMesh_PanicsOnInvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		vertices  []Vertex
		triangles []Triangle
	}{
		{"No triangles", quadVertices(0), nil},
		{"Index out of bounds", quadVertices(0), []Triangle{{0, 1, 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Error("Expected panic")
				}
			}()
			NewMesh(tt.vertices, tt.triangles, MockMaterial{}, nil)
		})
	}
}

func TestMesh_FillsMissingNormals(t *testing.T) {
	vertices := quadVertices(0)
	custom := core.NewVec3(1, 0, 1).Normalize()
	vertices[1].Normal = custom

	mesh := NewMesh(vertices, quadTriangles, MockMaterial{}, nil)

	for i, vertex := range mesh.Vertices() {
		expected := core.NewVec3(0, 0, 1)
		if i == 1 {
			expected = custom
		}
		if vertex.Normal.Subtract(expected).Length() > 1e-12 {
			t.Errorf("Vertex %d: expected normal %v, got %v", i, expected, vertex.Normal)
		}
	}

	// The input slice is left untouched
	if !vertices[0].Normal.IsZero() {
		t.Error("NewMesh must not modify the caller's vertices")
	}
}

func TestMesh_VertexRoundTrip(t *testing.T) {
	custom := core.NewVec3(1, 0, 1).Normalize()
	vertices := []Vertex{
		{Position: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 0, 1)},
		{Position: core.NewVec3(1, 0, 0), Normal: custom},
		{Position: core.NewVec3(0, 1, 0), Normal: core.NewVec3(0, 0, 1)},
	}
	mesh := NewMesh(vertices, []Triangle{{0, 1, 2}}, MockMaterial{}, nil)

	// Straight down onto vertex 1
	hit, isHit := mesh.Hit(core.NewRay(core.NewVec3(1, 0, 1), core.NewVec3(0, 0, -1)))
	if !isHit {
		t.Fatal("Expected hit on vertex")
	}

	const tolerance = 1e-9
	if hit.Point.Subtract(vertices[1].Position).Length() > tolerance {
		t.Errorf("Expected point %v, got %v", vertices[1].Position, hit.Point)
	}
	if hit.Normal.Subtract(custom).Length() > tolerance {
		t.Errorf("Expected normal %v, got %v", custom, hit.Normal)
	}
	if math.Abs(hit.Barycentric.U-1) > tolerance {
		t.Errorf("Expected u=1, got %+v", hit.Barycentric)
	}
}

func TestMesh_NearestWithinLeaf(t *testing.T) {
	// Five stacked quads, listed farthest first, all in one leaf
	var vertices []Vertex
	var triangles []Triangle
	for layer := 4; layer >= 0; layer-- {
		base := uint32(len(vertices))
		vertices = append(vertices, quadVertices(-float64(layer))...)
		for _, tri := range quadTriangles {
			triangles = append(triangles, Triangle{tri[0] + base, tri[1] + base, tri[2] + base})
		}
	}

	for _, perNode := range []int{1, 2, 16} {
		mesh := NewMesh(vertices, triangles, MockMaterial{}, &MeshOptions{MaxTrianglesPerNode: perNode})

		hit, isHit := mesh.Hit(core.NewRay(core.NewVec3(0.3, 0.6, 1), core.NewVec3(0, 0, -1)))
		if !isHit {
			t.Fatalf("perNode %d: expected hit", perNode)
		}
		if math.Abs(hit.T-1) > 1e-9 {
			t.Errorf("perNode %d: expected nearest layer at t=1, got t=%f", perNode, hit.T)
		}
	}
}

func TestMesh_CoincidentTrianglesKeepFirst(t *testing.T) {
	vertices := []Vertex{
		{Position: core.NewVec3(0, 0, 0)},
		{Position: core.NewVec3(1, 0, 0)},
		{Position: core.NewVec3(0, 1, 0)},
	}
	// Same surface and winding, vertices listed from a different start
	triangles := []Triangle{{0, 1, 2}, {1, 2, 0}}

	for _, perNode := range []int{1, 2} {
		mesh := NewMesh(vertices, triangles, MockMaterial{}, &MeshOptions{MaxTrianglesPerNode: perNode})

		hit, isHit := mesh.Hit(core.NewRay(core.NewVec3(0.6, 0.2, 1), core.NewVec3(0, 0, -1)))
		if !isHit {
			t.Fatalf("perNode %d: expected hit", perNode)
		}
		if math.Abs(hit.Barycentric.U-0.6) > 1e-9 {
			t.Errorf("perNode %d: expected weights of the first triangle, got %+v", perNode, hit.Barycentric)
		}
	}
}

func TestMesh_MatchesBruteForce(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	randomPoint := func(scale float64) core.Vec3 {
		return core.NewVec3(
			(random.Float64()*2-1)*scale,
			(random.Float64()*2-1)*scale,
			(random.Float64()*2-1)*scale,
		)
	}

	// Triangle soup: random small triangles in a cube
	var vertices []Vertex
	var triangles []Triangle
	for i := 0; i < 300; i++ {
		center := randomPoint(5)
		base := uint32(len(vertices))
		for j := 0; j < 3; j++ {
			vertices = append(vertices, Vertex{Position: center.Add(randomPoint(0.8))})
		}
		triangles = append(triangles, Triangle{base, base + 1, base + 2})
	}

	mesh := NewMesh(vertices, triangles, MockMaterial{}, &MeshOptions{MaxTrianglesPerNode: 4})

	hits := 0
	for i := 0; i < 1000; i++ {
		origin := randomPoint(8)
		target := randomPoint(4)
		ray := core.NewRay(origin, target.Subtract(origin))

		bestT := math.Inf(1)
		for _, tri := range triangles {
			if dist, _, ok := IntersectTriangle(ray, vertices[tri[0]].Position, vertices[tri[1]].Position, vertices[tri[2]].Position); ok && dist < bestT {
				bestT = dist
			}
		}

		hit, isHit := mesh.Hit(ray)
		if isHit != !math.IsInf(bestT, 1) {
			t.Fatalf("ray %d: brute force t=%f, mesh hit=%v", i, bestT, isHit)
		}
		if isHit {
			hits++
			if math.Abs(hit.T-bestT) > 1e-9 {
				t.Fatalf("ray %d: brute force t=%f, mesh t=%f", i, bestT, hit.T)
			}
		}
	}

	if hits == 0 {
		t.Error("Expected at least some rays to hit the soup")
	}
}

func TestMesh_SampleSurface(t *testing.T) {
	mesh := NewMesh(quadVertices(2), quadTriangles, MockMaterial{}, nil)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(3)))

	const tolerance = 1e-9
	for i := 0; i < 200; i++ {
		sample := mesh.SampleSurface(sampler)

		p := sample.Point
		if p.X < -tolerance || p.X > 1+tolerance || p.Y < -tolerance || p.Y > 1+tolerance || math.Abs(p.Z-2) > tolerance {
			t.Fatalf("Sample %v is off the quad", p)
		}
		if sample.Normal.Subtract(core.NewVec3(0, 0, 1)).Length() > tolerance {
			t.Errorf("Expected normal (0, 0, 1), got %v", sample.Normal)
		}
		if math.Abs(sample.PDF-1) > tolerance {
			t.Errorf("Expected pdf 1 for unit area, got %f", sample.PDF)
		}
	}
}

func TestTransformVertices(t *testing.T) {
	vertices := []Vertex{
		{Position: core.NewVec3(1, 0, 0), Normal: core.NewVec3(0, 0, 1)},
		{Position: core.NewVec3(0, 1, 0)},
	}

	moved := TransformVertices(vertices, core.Translation(core.NewVec3(0, 0, -5)))

	if moved[0].Position != core.NewVec3(1, 0, -5) {
		t.Errorf("Expected (1, 0, -5), got %v", moved[0].Position)
	}
	if moved[0].Normal.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-12 {
		t.Errorf("Translation must not change normals, got %v", moved[0].Normal)
	}
	if !moved[1].Normal.IsZero() {
		t.Errorf("Missing normals stay missing, got %v", moved[1].Normal)
	}
}
