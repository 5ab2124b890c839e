package renderer

import "errors"

var (
	ErrInvalidSize       = errors.New("renderer: width and height must be positive")
	ErrInvalidSamples    = errors.New("renderer: samples per pixel must be positive")
	ErrInvalidTileSize   = errors.New("renderer: tile size must be positive")
	ErrInvalidMaxDepth   = errors.New("renderer: max depth must not be negative")
	ErrSceneHasNoCamera  = errors.New("renderer: scene has no camera")
	ErrFrameSizeMismatch = errors.New("renderer: frame buffer size does not match the render size")
)
