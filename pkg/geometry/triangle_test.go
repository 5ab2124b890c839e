package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
)

func TestIntersectTriangle(t *testing.T) {
	// Triangle in the XY plane, counter-clockwise seen from +Z
	v0 := core.NewVec3(0, 0, 0)
	v1 := core.NewVec3(1, 0, 0)
	v2 := core.NewVec3(0, 1, 0)

	tests := []struct {
		name      string
		ray       core.Ray
		shouldHit bool
		expectedT float64
	}{
		{
			name:      "Ray hits triangle interior",
			ray:       core.NewRay(core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, -1)),
			shouldHit: true,
			expectedT: 1.0,
		},
		{
			name:      "Ray hits triangle edge",
			ray:       core.NewRay(core.NewVec3(0.5, 0, 2), core.NewVec3(0, 0, -1)),
			shouldHit: true,
			expectedT: 2.0,
		},
		{
			name:      "Ray misses with u > 1",
			ray:       core.NewRay(core.NewVec3(2, 0, 1), core.NewVec3(0, 0, -1)),
			shouldHit: false,
		},
		{
			name:      "Ray misses with u + v > 1",
			ray:       core.NewRay(core.NewVec3(0.8, 0.8, 1), core.NewVec3(0, 0, -1)),
			shouldHit: false,
		},
		{
			name:      "Back face is never hit",
			ray:       core.NewRay(core.NewVec3(0.25, 0.25, -1), core.NewVec3(0, 0, 1)),
			shouldHit: false,
		},
		{
			name:      "Ray parallel to triangle",
			ray:       core.NewRay(core.NewVec3(-1, 0.25, 0), core.NewVec3(1, 0, 0)),
			shouldHit: false,
		},
		{
			name:      "Triangle behind ray origin",
			ray:       core.NewRay(core.NewVec3(0.25, 0.25, -1), core.NewVec3(0, 0, -1)),
			shouldHit: false,
		},
		{
			name:      "Hit beyond TMax",
			ray:       core.NewRay(core.NewVec3(0.25, 0.25, 5), core.NewVec3(0, 0, -1)).WithMax(4),
			shouldHit: false,
		},
		{
			name:      "Hit exactly at TMax",
			ray:       core.NewRay(core.NewVec3(0.25, 0.25, 5), core.NewVec3(0, 0, -1)).WithMax(5),
			shouldHit: true,
			expectedT: 5.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, bary, isHit := IntersectTriangle(tt.ray, v0, v1, v2)

			if isHit != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got hit=%v", tt.shouldHit, isHit)
			}
			if !isHit {
				return
			}

			const tolerance = 1e-9
			if math.Abs(dist-tt.expectedT) > tolerance {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, dist)
			}
			if math.Abs(bary.W+bary.U+bary.V-1) > tolerance {
				t.Errorf("Barycentric weights %+v do not sum to one", bary)
			}
		})
	}
}

func TestIntersectTriangle_CentroidWeights(t *testing.T) {
	v0 := core.NewVec3(0, 0, 0)
	v1 := core.NewVec3(1, 0, 0)
	v2 := core.NewVec3(0, 1, 0)
	normal := FaceNormal(v0, v1, v2)
	centroid := v0.Add(v1).Add(v2).Multiply(1.0 / 3.0)

	// Aim at the centroid, travelling against the face normal
	ray := core.NewRay(centroid.Add(normal), normal.Negate())
	dist, bary, isHit := IntersectTriangle(ray, v0, v1, v2)
	if !isHit {
		t.Fatal("Expected hit at centroid")
	}

	const tolerance = 1e-9
	if math.Abs(dist-1) > tolerance {
		t.Errorf("Expected t=1, got %f", dist)
	}
	for _, weight := range []float64{bary.W, bary.U, bary.V} {
		if math.Abs(weight-1.0/3.0) > tolerance {
			t.Errorf("Expected weights near 1/3, got %+v", bary)
			break
		}
	}
}

func TestIntersectTriangle_Degenerate(t *testing.T) {
	// Collinear vertices have no area and are never hit
	v0 := core.NewVec3(0, 0, 0)
	v1 := core.NewVec3(1, 0, 0)
	v2 := core.NewVec3(2, 0, 0)

	ray := core.NewRay(core.NewVec3(0.5, 0, 1), core.NewVec3(0, 0, -1))
	if _, _, isHit := IntersectTriangle(ray, v0, v1, v2); isHit {
		t.Error("Expected degenerate triangle to miss")
	}
	if n := FaceNormal(v0, v1, v2); !n.IsZero() {
		t.Errorf("Expected zero face normal, got %v", n)
	}
}

func TestBarycentric_VertexRoundTrip(t *testing.T) {
	positions := [3]core.Vec3{
		core.NewVec3(1, 2, 3),
		core.NewVec3(-4, 0.5, 2),
		core.NewVec3(0, -1, 7),
	}
	normals := [3]core.Vec3{
		core.NewVec3(0, 0, 1),
		core.NewVec3(1, 1, 0).Normalize(),
		core.NewVec3(0.2, -0.4, 0.8).Normalize(),
	}

	weights := []core.Barycentric{
		{W: 1, U: 0, V: 0},
		{W: 0, U: 1, V: 0},
		{W: 0, U: 0, V: 1},
	}

	const tolerance = 1e-12
	for i, bary := range weights {
		position := bary.InterpolatePosition(positions[0], positions[1], positions[2])
		if position.Subtract(positions[i]).Length() > tolerance {
			t.Errorf("Vertex %d: expected position %v, got %v", i, positions[i], position)
		}

		normal := bary.InterpolateNormal(normals[0], normals[1], normals[2])
		if normal.Subtract(normals[i]).Length() > tolerance {
			t.Errorf("Vertex %d: expected normal %v, got %v", i, normals[i], normal)
		}
	}
}

func TestBarycentric_InterpolatedNormalIsUnit(t *testing.T) {
	bary := core.Barycentric{W: 0.5, U: 0.5, V: 0}
	normal := bary.InterpolateNormal(core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), core.NewVec3(0, 0, 1))

	if math.Abs(normal.Length()-1) > 1e-12 {
		t.Errorf("Expected unit normal, got length %f", normal.Length())
	}
}

func TestTriangleArea(t *testing.T) {
	area := TriangleArea(core.NewVec3(0, 0, 0), core.NewVec3(2, 0, 0), core.NewVec3(0, 3, 0))
	if math.Abs(area-3) > 1e-12 {
		t.Errorf("Expected area 3, got %f", area)
	}
}
