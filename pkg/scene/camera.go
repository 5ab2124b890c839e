package scene

import (
	"math"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
)

// CameraConfig describes a look-at pinhole camera
type CameraConfig struct {
	Center      core.Vec3 // Camera position
	LookAt      core.Vec3 // Point the camera looks at
	Up          core.Vec3 // Up direction
	VFov        float64   // Vertical field of view in degrees
	AspectRatio float64   // Width / height
}

// DefaultCameraConfig looks down -Z from the origin with a 60 degree field of view
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        60.0,
		AspectRatio: 1.0,
	}
}

// Camera generates primary rays from a camera-to-world transform. The camera
// looks down its local -Z axis with +Y up.
type Camera struct {
	transform   core.Transform
	tanHalfVFov float64
	aspectRatio float64
}

// NewCamera creates a camera from a look-at configuration
func NewCamera(config CameraConfig) *Camera {
	up := config.Up
	if up.IsZero() {
		up = core.NewVec3(0, 1, 0)
	}
	return NewCameraFromTransform(core.LookAt(config.Center, config.LookAt, up), config.VFov, config.AspectRatio)
}

// NewCameraFromTransform creates a camera from an explicit transform
func NewCameraFromTransform(transform core.Transform, vfovDegrees, aspectRatio float64) *Camera {
	if aspectRatio <= 0 {
		aspectRatio = 1.0
	}
	return &Camera{
		transform:   transform,
		tanHalfVFov: math.Tan(vfovDegrees * math.Pi / 360),
		aspectRatio: aspectRatio,
	}
}

// GetRay generates a ray for screen coordinates (u, v) in [0, 1]², with
// (0, 0) at the bottom-left of the image and (0.5, 0.5) at its center
func (c *Camera) GetRay(u, v float64) core.Ray {
	x := (u*2 - 1) * c.tanHalfVFov * c.aspectRatio
	y := (v*2 - 1) * c.tanHalfVFov

	direction := c.transform.Right().Multiply(x).
		Add(c.transform.Up().Multiply(y)).
		Add(c.transform.Forward())
	return core.NewRay(c.transform.Position(), direction)
}

// PixelRay generates a ray through a random point of pixel (x, y). Row 0 is
// the top of the image.
func (c *Camera) PixelRay(x, y, width, height int, sampler core.Sampler) core.Ray {
	jitter := sampler.Get2D()
	u := (float64(x) + jitter.X) / float64(width)
	v := (float64(y) + jitter.Y) / float64(height)
	return c.GetRay(u, 1-v)
}

// Position returns the camera position in world space
func (c *Camera) Position() core.Vec3 {
	return c.transform.Position()
}

// Forward returns the viewing direction
func (c *Camera) Forward() core.Vec3 {
	return c.transform.Forward()
}

// AspectRatio returns the width / height ratio of the image plane
func (c *Camera) AspectRatio() float64 {
	return c.aspectRatio
}
