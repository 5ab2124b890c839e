package renderer

import (
	"context"
	"time"

	"github.com/df07/go-mesh-pathtracer/pkg/integrator"
	"github.com/df07/go-mesh-pathtracer/pkg/log"
	"github.com/df07/go-mesh-pathtracer/pkg/scene"
)

var logger = log.New(log.ModuleRenderer)

// Config contains rendering configuration
type Config struct {
	Width           int    // Image width in pixels
	Height          int    // Image height in pixels
	SamplesPerPixel int    // Number of camera rays per pixel
	MaxDepth        int    // Maximum ray bounce depth
	TileSize        int    // Size of each square tile
	NumWorkers      int    // Number of parallel workers (0 = use CPU count)
	Seed            int64  // Base seed; each tile derives its own generator from it
	Integrator      string // Integrator name, see integrator.Names
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:           640,
		Height:          480,
		SamplesPerPixel: 16,
		MaxDepth:        integrator.DefaultMaxDepth,
		TileSize:        32,
		NumWorkers:      0,
		Seed:            1,
		Integrator:      "path",
	}
}

// Validate checks the configuration for values that cannot be rendered
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return ErrInvalidSize
	case c.SamplesPerPixel <= 0:
		return ErrInvalidSamples
	case c.TileSize <= 0:
		return ErrInvalidTileSize
	case c.MaxDepth < 0:
		return ErrInvalidMaxDepth
	}
	return nil
}

// Renderer renders a scene into a frame buffer using a pool of tile workers
type Renderer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	config     Config
}

// NewRenderer validates the configuration and resolves the integrator by name
func NewRenderer(s *scene.Scene, config Config) (*Renderer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if s.Camera() == nil {
		return nil, ErrSceneHasNoCamera
	}

	integratorInst, err := integrator.New(config.Integrator, config.MaxDepth)
	if err != nil {
		return nil, err
	}

	return NewRendererWithIntegrator(s, integratorInst, config), nil
}

// NewRendererWithIntegrator creates a renderer with an explicit integrator.
// The configuration is assumed to be valid.
func NewRendererWithIntegrator(s *scene.Scene, integratorInst integrator.Integrator, config Config) *Renderer {
	return &Renderer{
		scene:      s,
		integrator: integratorInst,
		config:     config,
	}
}

// Config returns the renderer configuration
func (r *Renderer) Config() Config {
	return r.config
}

// Render traces every pixel of the frame. The result depends only on the
// scene, the configuration and the seed, never on worker scheduling. If ctx is
// cancelled no further tiles are started, and the partially filled frame is
// returned together with ctx.Err().
func (r *Renderer) Render(ctx context.Context) (*FrameBuffer, RenderStats, error) {
	frame := NewFrameBuffer(r.config.Width, r.config.Height)
	stats, err := r.RenderInto(ctx, frame)
	return frame, stats, err
}

// RenderInto adds one frame worth of samples to an existing frame buffer
func (r *Renderer) RenderInto(ctx context.Context, frame *FrameBuffer) (RenderStats, error) {
	if frame.Width != r.config.Width || frame.Height != r.config.Height {
		return RenderStats{}, ErrFrameSizeMismatch
	}

	start := time.Now()
	tiles := NewTileGrid(r.config.Width, r.config.Height, r.config.TileSize, r.config.Seed)
	tileRenderer := NewTileRenderer(r.scene, r.integrator, r.config.Width, r.config.Height, r.config.SamplesPerPixel)

	pool := NewWorkerPool(tileRenderer, r.config.NumWorkers, len(tiles))
	logger.Debugf("rendering %dx%d at %d spp: %d tiles on %d workers",
		r.config.Width, r.config.Height, r.config.SamplesPerPixel, len(tiles), pool.GetNumWorkers())

	pool.Start(ctx)
	for i, tile := range tiles {
		if ctx.Err() != nil {
			break
		}
		pool.SubmitTask(TileTask{Tile: tile, TaskID: i, Frame: frame})
	}
	pool.Stop()

	stats := RenderStats{Workers: pool.GetNumWorkers()}
	var firstErr error
	for {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}
		stats.Merge(result.Stats)
	}
	stats.Duration = time.Since(start)

	if err := ctx.Err(); err != nil {
		logger.Warningf("render cancelled after %d of %d tiles", stats.Tiles, len(tiles))
		return stats, err
	}
	if firstErr != nil {
		return stats, firstErr
	}

	logger.Infof("rendered %d samples in %s (%.2f MS/s)", stats.TotalSamples, stats.Duration, stats.MegaSamplesPerSecond())
	return stats, nil
}
