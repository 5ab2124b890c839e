package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli"

	"github.com/df07/go-mesh-pathtracer/cmd"
	"github.com/df07/go-mesh-pathtracer/pkg/log"
	"github.com/df07/go-mesh-pathtracer/pkg/renderer"
)

var logger = log.New(log.ModuleMain)

func frameFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:   "width",
			Value:  640,
			Usage:  "frame width",
			EnvVar: "PATHTRACER_WIDTH",
		},
		cli.IntFlag{
			Name:   "height",
			Value:  480,
			Usage:  "frame height",
			EnvVar: "PATHTRACER_HEIGHT",
		},
	}
}

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	defaults := renderer.DefaultConfig()

	app := cli.NewApp()
	app.Name = "go-mesh-pathtracer"
	app.Usage = "render triangle mesh scenes using path tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringSliceFlag{
			Name:  "debug-module",
			Value: &cli.StringSlice{},
			Usage: "enable debug logging for one module (loaders, renderer, output, pathtracer)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a scene file to a PNG image",
			Description: `
Load a JSON scene description, build the object and triangle BVHs and render
a single frame with the selected integrator. Tiles are distributed over a pool
of workers; the image is identical for a given seed regardless of worker count.

The image is written to --out, or output/<scene>/render_<timestamp>.png when
no path is given. It can optionally be thumbnailed and uploaded to S3.`,
			ArgsUsage: "scene.json",
			Flags: append(frameFlags(),
				cli.IntFlag{
					Name:   "spp",
					Value:  defaults.SamplesPerPixel,
					Usage:  "samples per pixel",
					EnvVar: "PATHTRACER_SPP",
				},
				cli.IntFlag{
					Name:   "max-depth",
					Value:  defaults.MaxDepth,
					Usage:  "maximum number of bounces per path",
					EnvVar: "PATHTRACER_MAX_DEPTH",
				},
				cli.IntFlag{
					Name:  "tile-size",
					Value: defaults.TileSize,
					Usage: "edge length of a render tile in pixels",
				},
				cli.IntFlag{
					Name:   "workers",
					Value:  defaults.NumWorkers,
					Usage:  "number of render workers (0 = one per logical CPU)",
					EnvVar: "PATHTRACER_WORKERS",
				},
				cli.Int64Flag{
					Name:   "seed",
					Value:  defaults.Seed,
					Usage:  "random seed",
					EnvVar: "PATHTRACER_SEED",
				},
				cli.StringFlag{
					Name:   "integrator",
					Value:  defaults.Integrator,
					Usage:  "integrator: path, normals, depth or object",
					EnvVar: "PATHTRACER_INTEGRATOR",
				},
				cli.StringFlag{
					Name:  "out, o",
					Usage: "image filename for the rendered frame",
				},
				cli.IntFlag{
					Name:  "thumbnail",
					Usage: "also write a thumbnail with this longest side (0 = none)",
				},
				cli.StringFlag{
					Name:   "s3-bucket",
					Usage:  "upload the frame to this S3 bucket",
					EnvVar: "S3_BUCKET",
				},
				cli.StringFlag{
					Name:   "s3-access-key",
					EnvVar: "S3_ACCESS_KEY",
				},
				cli.StringFlag{
					Name:   "s3-secret-key",
					EnvVar: "S3_SECRET_KEY",
				},
				cli.StringFlag{
					Name:   "s3-endpoint",
					Usage:  "custom endpoint for S3 compatible storage",
					EnvVar: "S3_ENDPOINT",
				},
				cli.StringFlag{
					Name:   "s3-region",
					Value:  "us-east-1",
					EnvVar: "S3_REGION",
				},
				cli.StringFlag{
					Name:  "s3-acl",
					Usage: "canned ACL for uploaded objects",
				},
				cli.StringFlag{
					Name:  "s3-prefix",
					Usage: "key prefix for uploaded objects",
				},
			),
			Action: cmd.RenderFrame,
		},
		{
			Name:  "inspect",
			Usage: "print scene statistics",
			Description: `
Load a scene and print per-object triangle counts, materials and BVH shape.
With --pixel x,y the center ray of that pixel is traced and the surface it
hits is described.`,
			ArgsUsage: "scene.json",
			Flags: append(frameFlags(),
				cli.StringFlag{
					Name:  "pixel",
					Usage: "describe the surface seen through pixel x,y",
				},
			),
			Action: cmd.InspectScene,
		},
		{
			Name:  "list",
			Usage: "list scene files in a directory",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:   "dir, d",
					Value:  "scenes",
					Usage:  "directory to scan for *.json scenes",
					EnvVar: "PATHTRACER_SCENES_DIR",
				},
			},
			Action: cmd.ListScenes,
		},
	}

	return app
}

func main() {
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
