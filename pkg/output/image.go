package output

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"

	"github.com/df07/go-mesh-pathtracer/pkg/log"
)

var logger = log.New(log.ModuleOutput)

// SaveImage writes img to path. Only PNG output is supported.
func SaveImage(path string, img image.Image) error {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".png" {
		return fmt.Errorf("%w %q", ErrUnsupportedFormat, ext)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := fauxgl.SavePNG(path, img); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}

	bounds := img.Bounds()
	logger.Infof("saved %dx%d image to %s", bounds.Dx(), bounds.Dy(), path)
	return nil
}

// EncodePNG returns the PNG encoding of img
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Thumbnail scales img so that its longer side is size pixels, keeping the aspect ratio
func Thumbnail(img image.Image, size int) (image.Image, error) {
	if size <= 0 {
		return nil, ErrInvalidThumbnail
	}

	bounds := img.Bounds()
	if bounds.Dx() >= bounds.Dy() {
		return resize.Resize(uint(size), 0, img, resize.Bilinear), nil
	}
	return resize.Resize(0, uint(size), img, resize.Bilinear), nil
}

// ThumbnailPath derives the thumbnail file name from the image path
func ThumbnailPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_thumb" + ext
}
