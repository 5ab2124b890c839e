package scene

import "github.com/df07/go-mesh-pathtracer/pkg/core"

// Background is the radiance of rays that escape the scene: a vertical
// gradient from Bottom (looking down) to Top (looking up)
type Background struct {
	Top    core.Vec3
	Bottom core.Vec3
}

// SkyBackground is the default light blue to white gradient
func SkyBackground() Background {
	return Background{
		Top:    core.NewVec3(0.5, 0.7, 1.0),
		Bottom: core.NewVec3(1.0, 1.0, 1.0),
	}
}

// BlackBackground returns no light for escaping rays
func BlackBackground() Background {
	return Background{}
}

// Color returns the background radiance seen along direction
func (b Background) Color(direction core.Vec3) core.Vec3 {
	t := 0.5 * (direction.Normalize().Y + 1.0)
	return b.Bottom.Multiply(1.0 - t).Add(b.Top.Multiply(t))
}
