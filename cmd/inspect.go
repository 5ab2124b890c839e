package cmd

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
	"github.com/df07/go-mesh-pathtracer/pkg/geometry"
	"github.com/df07/go-mesh-pathtracer/pkg/loaders"
	"github.com/df07/go-mesh-pathtracer/pkg/material"
	"github.com/df07/go-mesh-pathtracer/pkg/scene"
)

// Inspect a scene: print per-object and BVH statistics and optionally
// describe what the center ray of a pixel hits.
func InspectScene(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return ErrMissingSceneArg
	}

	width, height := ctx.Int("width"), ctx.Int("height")
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", width, height)
	}

	sc, err := loaders.LoadScene(ctx.Args().First(), loaders.Options{
		AspectRatio: float64(width) / float64(height),
	})
	if err != nil {
		return err
	}

	displaySceneStats(sc)

	if pixel := ctx.String("pixel"); pixel != "" {
		x, y, err := parsePixel(pixel, width, height)
		if err != nil {
			return err
		}
		displayInspectResult(x, y, InspectPixel(sc, width, height, x, y))
	}

	return nil
}

func displaySceneStats(sc *scene.Scene) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Object", "Geometry", "Triangles", "Material", "BVH nodes", "BVH leaves", "BVH depth"})
	for index, object := range sc.Objects() {
		geometryType, _ := describeObject(object)
		materialType, _ := describeMaterial(object.Material())

		row := []string{fmt.Sprintf("%d", index), geometryType, "-", materialType, "-", "-", "-"}
		if mesh, ok := object.(*geometry.Mesh); ok {
			bvh := mesh.BVHStats()
			row[2] = fmt.Sprintf("%d", mesh.TriangleCount())
			row[4] = fmt.Sprintf("%d", bvh.Nodes)
			row[5] = fmt.Sprintf("%d", bvh.Leaves)
			row[6] = fmt.Sprintf("%d", bvh.MaxDepth)
		}
		table.Append(row)
	}

	stats := sc.Stats()
	table.SetFooter([]string{
		"TOTAL",
		fmt.Sprintf("%d objects", stats.Objects),
		fmt.Sprintf("%d", stats.Triangles),
		fmt.Sprintf("%d emitters", stats.Emitters),
		fmt.Sprintf("%d", stats.BVH.Nodes),
		fmt.Sprintf("%d", stats.BVH.Leaves),
		fmt.Sprintf("%d", stats.BVH.MaxDepth),
	})

	table.Render()
	logger.Noticef("scene statistics\n%s", buf.String())
}

func displayInspectResult(x, y int, result InspectResult) {
	if !result.Hit {
		logger.Noticef("pixel (%d, %d) hits the background", x, y)
		return
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Property", "Value"})
	table.Append([]string{"object", fmt.Sprintf("%d", result.Object)})
	table.Append([]string{"geometry", result.GeometryType})
	table.Append([]string{"material", result.MaterialType})
	table.Append([]string{"distance", fmt.Sprintf("%.6f", result.Distance)})
	table.Append([]string{"point", result.Point.String()})
	table.Append([]string{"normal", result.Normal.String()})
	for _, key := range sortedKeys(result.Properties) {
		table.Append([]string{key, result.Properties[key]})
	}

	table.Render()
	logger.Noticef("pixel (%d, %d)\n%s", x, y, buf.String())
}

// InspectResult describes the surface seen through a pixel center
type InspectResult struct {
	Hit          bool
	Object       int
	GeometryType string
	MaterialType string
	Point        core.Vec3
	Normal       core.Vec3
	Distance     float64
	Properties   map[string]string
}

// InspectPixel casts a ray through the center of pixel (x, y) and describes
// the first object hit
func InspectPixel(sc *scene.Scene, width, height, x, y int) InspectResult {
	ray := sc.Camera().PixelRay(x, y, width, height, pixelCenter{})

	hit, isHit := sc.Hit(ray)
	if !isHit {
		return InspectResult{Hit: false, Object: -1}
	}

	object := sc.Objects()[hit.Object]
	geometryType, geometryProps := describeObject(object)
	materialType, materialProps := describeMaterial(hit.Material)

	properties := make(map[string]string, len(geometryProps)+len(materialProps))
	for key, value := range geometryProps {
		properties[key] = value
	}
	for key, value := range materialProps {
		properties[key] = value
	}

	return InspectResult{
		Hit:          true,
		Object:       hit.Object,
		GeometryType: geometryType,
		MaterialType: materialType,
		Point:        hit.Point,
		Normal:       hit.Normal,
		Distance:     hit.T,
		Properties:   properties,
	}
}

// pixelCenter is a sampler that always picks the middle of the pixel
type pixelCenter struct{}

func (pixelCenter) Get1D() float64 {
	return 0.5
}

func (pixelCenter) Get2D() core.Vec2 {
	return core.NewVec2(0.5, 0.5)
}

// describeMaterial names a material and lists its parameters
func describeMaterial(mat core.Material) (string, map[string]string) {
	properties := make(map[string]string)

	switch m := mat.(type) {
	case nil:
		return "default", properties
	case *material.Lambertian:
		properties["albedo"] = m.Albedo.String()
		properties["color"] = hexColor(m.Albedo)
		return "diffuse", properties
	case *material.Metal:
		properties["albedo"] = m.Albedo.String()
		properties["color"] = hexColor(m.Albedo)
		properties["fuzz"] = fmt.Sprintf("%g", m.Fuzzness)
		return "metal", properties
	case *material.Emissive:
		properties["emission"] = m.Color.String()
		return "emissive", properties
	default:
		if mat.IsEmissive() {
			properties["emission"] = mat.Emission().String()
			return "emissive", properties
		}
		return "unknown", properties
	}
}

// describeObject names a scene object and lists its shape parameters
func describeObject(object scene.Object) (string, map[string]string) {
	properties := make(map[string]string)

	switch geom := object.(type) {
	case *geometry.Sphere:
		properties["center"] = geom.Center.String()
		properties["radius"] = fmt.Sprintf("%g", geom.Radius)
		return "sphere", properties
	case *geometry.Mesh:
		bbox := geom.BoundingBox()
		properties["triangles"] = fmt.Sprintf("%d", geom.TriangleCount())
		properties["bounds"] = fmt.Sprintf("%v - %v", bbox.Min, bbox.Max)
		return "mesh", properties
	default:
		return "unknown", properties
	}
}

func hexColor(c core.Vec3) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}

// parsePixel parses "x,y" and checks it lies inside the frame
func parsePixel(value string, width, height int) (int, int, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid pixel %q: expected x,y", value)
	}
	x, errX := strconv.Atoi(strings.TrimSpace(parts[0]))
	y, errY := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errX != nil || errY != nil {
		return 0, 0, fmt.Errorf("invalid pixel %q: expected integers", value)
	}
	if x < 0 || x >= width || y < 0 || y >= height {
		return 0, 0, fmt.Errorf("pixel (%d, %d) outside %dx%d frame", x, y, width, height)
	}
	return x, y, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
