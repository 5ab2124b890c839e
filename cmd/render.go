package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/mem"
	"github.com/urfave/cli"

	"github.com/df07/go-mesh-pathtracer/pkg/loaders"
	"github.com/df07/go-mesh-pathtracer/pkg/output"
	"github.com/df07/go-mesh-pathtracer/pkg/renderer"
	"github.com/df07/go-mesh-pathtracer/pkg/scene"
)

// ErrMissingSceneArg is returned when a command is run without a scene file
var ErrMissingSceneArg = errors.New("missing scene file argument")

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return ErrMissingSceneArg
	}
	scenePath := ctx.Args().First()

	config := renderer.DefaultConfig()
	config.Width = ctx.Int("width")
	config.Height = ctx.Int("height")
	config.SamplesPerPixel = ctx.Int("spp")
	config.MaxDepth = ctx.Int("max-depth")
	config.TileSize = ctx.Int("tile-size")
	config.NumWorkers = ctx.Int("workers")
	config.Seed = ctx.Int64("seed")
	config.Integrator = ctx.String("integrator")
	if err := config.Validate(); err != nil {
		return err
	}

	// Load scene
	sc, err := loaders.LoadScene(scenePath, loaders.Options{
		AspectRatio: float64(config.Width) / float64(config.Height),
	})
	if err != nil {
		return err
	}

	r, err := renderer.NewRenderer(sc, config)
	if err != nil {
		return err
	}

	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Noticef("rendering %s at %dx%d with %d spp", scenePath, config.Width, config.Height, config.SamplesPerPixel)
	frame, stats, err := r.Render(renderCtx)
	if err != nil {
		return err
	}

	// Save image and optional extras
	img := frame.ToImage()
	outPath := ctx.String("out")
	if outPath == "" {
		outPath = defaultOutputPath(scenePath, time.Now())
	}
	if err := output.SaveImage(outPath, img); err != nil {
		return err
	}

	if size := ctx.Int("thumbnail"); size > 0 {
		thumb, err := output.Thumbnail(img, size)
		if err != nil {
			return err
		}
		if err := output.SaveImage(output.ThumbnailPath(outPath), thumb); err != nil {
			return err
		}
	}

	if bucket := ctx.String("s3-bucket"); bucket != "" {
		uploader, err := output.NewS3Uploader(output.S3Config{
			AccessKey: ctx.String("s3-access-key"),
			SecretKey: ctx.String("s3-secret-key"),
			Endpoint:  ctx.String("s3-endpoint"),
			Region:    ctx.String("s3-region"),
			Bucket:    bucket,
			ACL:       ctx.String("s3-acl"),
		})
		if err != nil {
			return err
		}
		if err := uploader.UploadImage(context.Background(), s3Key(ctx.String("s3-prefix"), outPath), img); err != nil {
			return err
		}
	}

	// Display stats
	displayFrameStats(config, stats, sc.Stats(), frame.AverageLuminance())

	return nil
}

func displayFrameStats(config renderer.Config, stats renderer.RenderStats, sceneStats scene.Stats, luminance float64) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Resolution", fmt.Sprintf("%dx%d", config.Width, config.Height)})
	table.Append([]string{"Integrator", config.Integrator})
	table.Append([]string{"Objects", fmt.Sprintf("%d", sceneStats.Objects)})
	table.Append([]string{"Triangles", fmt.Sprintf("%d", sceneStats.Triangles)})
	table.Append([]string{"Emitters", fmt.Sprintf("%d (area %.3f)", sceneStats.Emitters, sceneStats.EmitterArea)})
	table.Append([]string{"Tiles", fmt.Sprintf("%d", stats.Tiles)})
	table.Append([]string{"Workers", fmt.Sprintf("%d", stats.Workers)})
	table.Append([]string{"Samples", fmt.Sprintf("%d (%.1f per pixel)", stats.TotalSamples, stats.AverageSamples)})
	table.Append([]string{"Throughput", fmt.Sprintf("%.2f MS/s", stats.MegaSamplesPerSecond())})
	table.Append([]string{"Average luminance", fmt.Sprintf("%.4f", luminance)})
	if vm, err := mem.VirtualMemory(); err == nil {
		table.Append([]string{"Host memory", fmt.Sprintf("%.1f%% of %d MiB used", vm.UsedPercent, vm.Total>>20)})
	}
	table.SetFooter([]string{"Render time", stats.Duration.String()})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
