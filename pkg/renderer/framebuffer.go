package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
)

// Gamma is the display gamma used when encoding linear radiance
const Gamma = 2.2

// FrameBuffer holds per-pixel sample statistics in linear radiance. Row 0 is
// the top of the image. Tiles write to disjoint pixels, so concurrent writers
// need no locking as long as their bounds do not overlap.
type FrameBuffer struct {
	Width, Height int
	pixels        []PixelStats
}

// NewFrameBuffer allocates an empty frame buffer
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		Width:  width,
		Height: height,
		pixels: make([]PixelStats, width*height),
	}
}

// At returns the statistics of pixel (x, y)
func (fb *FrameBuffer) At(x, y int) *PixelStats {
	return &fb.pixels[y*fb.Width+x]
}

// Color returns the mean linear radiance of pixel (x, y)
func (fb *FrameBuffer) Color(x, y int) core.Vec3 {
	return fb.At(x, y).GetColor()
}

// AverageLuminance returns the mean luminance over all pixels
func (fb *FrameBuffer) AverageLuminance() float64 {
	if len(fb.pixels) == 0 {
		return 0
	}
	total := 0.0
	for i := range fb.pixels {
		total += fb.pixels[i].GetColor().Luminance()
	}
	return total / float64(len(fb.pixels))
}

// ToSRGB encodes one linear channel as an 8-bit display value
func ToSRGB(linear float64) uint8 {
	if math.IsNaN(linear) {
		return 0
	}
	encoded := math.Pow(max(0, linear), 1/Gamma) * 255
	return uint8(core.Clamp(encoded, 0, 255))
}

// ToImage gamma-encodes the frame buffer into an 8-bit image
func (fb *FrameBuffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			c := fb.Color(x, y)
			img.SetNRGBA(x, y, color.NRGBA{
				R: ToSRGB(c.X),
				G: ToSRGB(c.Y),
				B: ToSRGB(c.Z),
				A: 255,
			})
		}
	}
	return img
}
