package output

import "errors"

var (
	ErrNoBucket          = errors.New("output: no S3 bucket configured")
	ErrInvalidThumbnail  = errors.New("output: thumbnail size must be positive")
	ErrUnsupportedFormat = errors.New("output: unsupported image format")
)
