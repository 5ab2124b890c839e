package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform is an affine transform. The columns of the upper 3x3 part are the
// basis vectors (right, up, back) and the last column is the position.
type Transform struct {
	m mgl64.Mat4
}

// IdentityTransform returns the transform that changes nothing
func IdentityTransform() Transform {
	return Transform{m: mgl64.Ident4()}
}

// NewTransformFromBasis builds a transform from three basis vectors and a position
func NewTransformFromBasis(x, y, z, position Vec3) Transform {
	return Transform{m: mgl64.Mat4FromCols(
		toMgl(x).Vec4(0),
		toMgl(y).Vec4(0),
		toMgl(z).Vec4(0),
		toMgl(position).Vec4(1),
	)}
}

// Translation returns a transform moving points by offset
func Translation(offset Vec3) Transform {
	return Transform{m: mgl64.Translate3D(offset.X, offset.Y, offset.Z)}
}

// Scaling returns a transform scaling each axis independently
func Scaling(factors Vec3) Transform {
	return Transform{m: mgl64.Scale3D(factors.X, factors.Y, factors.Z)}
}

// Rotation returns a rotation of degrees around axis
func Rotation(axis Vec3, degrees float64) Transform {
	return Transform{m: mgl64.HomogRotate3D(degrees*math.Pi/180, toMgl(axis.Normalize()))}
}

// LookAt returns the camera-to-world transform of a viewer at eye looking at
// center. The resulting camera looks down its local -Z axis.
func LookAt(eye, center, up Vec3) Transform {
	view := mgl64.LookAtV(toMgl(eye), toMgl(center), toMgl(up))
	return Transform{m: view.Inv()}
}

// Then returns the transform that applies other first and t second
func (t Transform) Then(other Transform) Transform {
	return Transform{m: t.m.Mul4(other.m)}
}

// TransformPos applies the full transform to a point
func (t Transform) TransformPos(p Vec3) Vec3 {
	return fromMgl(t.m.Mul4x1(toMgl(p).Vec4(1)).Vec3())
}

// TransformDir applies the linear part of the transform to a direction
func (t Transform) TransformDir(d Vec3) Vec3 {
	return fromMgl(t.m.Mul4x1(toMgl(d).Vec4(0)).Vec3())
}

// TransformNormal transforms a surface normal with the inverse transpose and
// renormalizes it, so non-uniform scales keep normals perpendicular
func (t Transform) TransformNormal(n Vec3) Vec3 {
	normalMatrix := t.m.Inv().Transpose()
	return fromMgl(normalMatrix.Mul4x1(toMgl(n).Vec4(0)).Vec3()).Normalize()
}

// Position returns the translation part
func (t Transform) Position() Vec3 {
	return fromMgl(t.m.Col(3).Vec3())
}

// Right returns the local +X axis in world space
func (t Transform) Right() Vec3 {
	return fromMgl(t.m.Col(0).Vec3())
}

// Up returns the local +Y axis in world space
func (t Transform) Up() Vec3 {
	return fromMgl(t.m.Col(1).Vec3())
}

// Forward returns the local -Z axis in world space
func (t Transform) Forward() Vec3 {
	return fromMgl(t.m.Col(2).Vec3()).Negate()
}

func toMgl(v Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) Vec3 {
	return Vec3{v[0], v[1], v[2]}
}
