package scene

import (
	"math"
	"testing"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
)

// fixedSampler returns the same sample every time
type fixedSampler struct {
	sample core.Vec2
}

func (s fixedSampler) Get1D() float64 {
	return s.sample.X
}

func (s fixedSampler) Get2D() core.Vec2 {
	return s.sample
}

func TestCamera_CenterRayIsForward(t *testing.T) {
	tests := []struct {
		name   string
		config CameraConfig
	}{
		{"Default", DefaultCameraConfig()},
		{"Looking at origin from +Z", CameraConfig{Center: core.NewVec3(0, 0, 5), LookAt: core.NewVec3(0, 0, 0), Up: core.NewVec3(0, 1, 0), VFov: 45, AspectRatio: 16.0 / 9.0}},
		{"Oblique", CameraConfig{Center: core.NewVec3(3, 2, 1), LookAt: core.NewVec3(-1, 0, 2), Up: core.NewVec3(0, 1, 0), VFov: 30, AspectRatio: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			camera := NewCamera(tt.config)
			ray := camera.GetRay(0.5, 0.5)

			expected := tt.config.LookAt.Subtract(tt.config.Center).Normalize()
			if ray.Direction.Subtract(expected).Length() > 1e-9 {
				t.Errorf("Expected direction %v, got %v", expected, ray.Direction)
			}
			if ray.Origin.Subtract(tt.config.Center).Length() > 1e-9 {
				t.Errorf("Expected origin %v, got %v", tt.config.Center, ray.Origin)
			}
		})
	}
}

func TestCamera_FieldOfViewAndAspect(t *testing.T) {
	camera := NewCamera(CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90,
		AspectRatio: 2,
	})

	// Top edge is 45 degrees above the axis
	top := camera.GetRay(0.5, 1).Direction
	if math.Abs(top.Y/-top.Z-1) > 1e-9 {
		t.Errorf("Expected 45 degree top edge, got direction %v", top)
	}

	// Right edge is stretched by the aspect ratio
	right := camera.GetRay(1, 0.5).Direction
	if math.Abs(right.X/-right.Z-2) > 1e-9 {
		t.Errorf("Expected x/z ratio 2 at right edge, got direction %v", right)
	}
}

func TestCamera_PixelRayRowZeroIsTop(t *testing.T) {
	camera := NewCamera(DefaultCameraConfig())
	center := fixedSampler{sample: core.NewVec2(0.5, 0.5)}

	topLeft := camera.PixelRay(0, 0, 10, 10, center).Direction
	if topLeft.Y <= 0 || topLeft.X >= 0 {
		t.Errorf("Expected top-left pixel ray to point up and left, got %v", topLeft)
	}

	bottomRight := camera.PixelRay(9, 9, 10, 10, center).Direction
	if bottomRight.Y >= 0 || bottomRight.X <= 0 {
		t.Errorf("Expected bottom-right pixel ray to point down and right, got %v", bottomRight)
	}
}
