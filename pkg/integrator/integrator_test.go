package integrator

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
	"github.com/df07/go-mesh-pathtracer/pkg/material"
	"github.com/df07/go-mesh-pathtracer/pkg/scene"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		expected Integrator
	}{
		{"path", &PathTracingIntegrator{}},
		{"normals", NormalsIntegrator{}},
		{"depth", DepthIntegrator{}},
		{"object", ObjectIntegrator{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			integrator, err := New(tt.name, 3)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			switch tt.expected.(type) {
			case *PathTracingIntegrator:
				pt, ok := integrator.(*PathTracingIntegrator)
				if !ok || pt.MaxDepth() != 3 {
					t.Errorf("Expected path tracer with depth 3, got %#v", integrator)
				}
			default:
				if integrator != tt.expected {
					t.Errorf("Expected %T, got %T", tt.expected, integrator)
				}
			}
		})
	}

	if _, err := New("bdpt", 3); !errors.Is(err, ErrUnknownIntegrator) {
		t.Errorf("Expected ErrUnknownIntegrator, got %v", err)
	}
}

func TestDebugIntegrators(t *testing.T) {
	sc := createTestScene(material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)), scene.SkyBackground())
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(1)))
	miss := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))

	// Sphere of radius 0.5 at z=-1 is struck at t=0.5 with normal (0, 0, 1)
	tests := []struct {
		name       string
		integrator Integrator
		expected   core.Vec3
	}{
		{"normals", NormalsIntegrator{}, core.NewVec3(0.5, 0.5, 1)},
		{"depth", DepthIntegrator{}, core.Splat(1 / 1.5)},
		{"object", ObjectIntegrator{}, ObjectColor(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			color := tt.integrator.RayColor(towardSphere(), sc, sampler)
			if color.Subtract(tt.expected).Length() > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.expected, color)
			}
			if background := tt.integrator.RayColor(miss, sc, sampler); !background.IsZero() {
				t.Errorf("Expected black on miss, got %v", background)
			}
		})
	}
}

func TestObjectColor(t *testing.T) {
	if ObjectColor(3) != ObjectColor(3) {
		t.Error("Object colors must be stable")
	}
	if ObjectColor(0) == ObjectColor(1) {
		t.Error("Adjacent objects should get different colors")
	}
	c := ObjectColor(12345)
	for _, channel := range []float64{c.X, c.Y, c.Z} {
		if channel < 0.25 || channel > 1 {
			t.Errorf("Channel %f out of range", channel)
		}
	}
}
