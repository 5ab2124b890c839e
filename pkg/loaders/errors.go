package loaders

import "errors"

var (
	ErrNoCamera             = errors.New("loaders: scene has no camera")
	ErrUnknownMaterial      = errors.New("loaders: unknown material")
	ErrUnknownMaterialType  = errors.New("loaders: unknown material type")
	ErrUnknownBackground    = errors.New("loaders: unknown background")
	ErrInvalidObject        = errors.New("loaders: object must define exactly one of mesh, vertices or sphere")
	ErrEmptyMesh            = errors.New("loaders: mesh has no triangles")
	ErrInvalidIndex         = errors.New("loaders: triangle index out of range")
	ErrNormalCountMismatch  = errors.New("loaders: normal count does not match vertex count")
	ErrNonUniformScale      = errors.New("loaders: spheres only support uniform scale")
	ErrInvalidPLY           = errors.New("loaders: not a PLY file")
	ErrUnsupportedPLYFormat = errors.New("loaders: unsupported PLY format")
	ErrMalformedPLY         = errors.New("loaders: malformed PLY data")
)
