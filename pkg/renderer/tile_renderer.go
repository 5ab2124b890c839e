package renderer

import (
	"context"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
	"github.com/df07/go-mesh-pathtracer/pkg/integrator"
	"github.com/df07/go-mesh-pathtracer/pkg/scene"
)

// TileRenderer handles the actual rendering of individual tiles using an integrator
type TileRenderer struct {
	scene           *scene.Scene
	integrator      integrator.Integrator
	width, height   int
	samplesPerPixel int
}

// NewTileRenderer creates a new tile renderer for an image of the given size
func NewTileRenderer(s *scene.Scene, integratorInst integrator.Integrator, width, height, samplesPerPixel int) *TileRenderer {
	return &TileRenderer{
		scene:           s,
		integrator:      integratorInst,
		width:           width,
		height:          height,
		samplesPerPixel: samplesPerPixel,
	}
}

// RenderTile takes samplesPerPixel samples for every pixel inside the tile
// bounds, drawing all randomness from the tile's generator. The context is
// checked once per row.
func (tr *TileRenderer) RenderTile(ctx context.Context, tile *Tile, frame *FrameBuffer) (RenderStats, error) {
	camera := tr.scene.Camera()
	sampler := core.NewRandomSampler(tile.Random)
	bounds := tile.Bounds

	stats := RenderStats{Tiles: 1}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ps := frame.At(x, y)
			for s := 0; s < tr.samplesPerPixel; s++ {
				ray := camera.PixelRay(x, y, tr.width, tr.height, sampler)
				ps.AddSample(tr.integrator.RayColor(ray, tr.scene, sampler))
			}
			stats.TotalPixels++
			stats.TotalSamples += tr.samplesPerPixel
		}
	}

	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
	return stats, nil
}
