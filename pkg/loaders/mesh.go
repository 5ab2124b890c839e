package loaders

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fogleman/fauxgl"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
	"github.com/df07/go-mesh-pathtracer/pkg/geometry"
)

// LoadMeshFile loads triangles from a mesh file. PLY files go through the
// native reader, which keeps per-vertex normals; OBJ, STL and 3DS files are
// decoded by fauxgl.
func LoadMeshFile(path string) ([]geometry.Vertex, []geometry.Triangle, error) {
	var (
		vertices  []geometry.Vertex
		triangles []geometry.Triangle
		err       error
	)

	if strings.EqualFold(filepath.Ext(path), ".ply") {
		vertices, triangles, err = LoadPLY(path)
	} else {
		vertices, triangles, err = loadFauxglMesh(path)
	}
	if err != nil {
		return nil, nil, err
	}

	if len(triangles) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrEmptyMesh, path)
	}
	return vertices, triangles, nil
}

func loadFauxglMesh(path string) ([]geometry.Vertex, []geometry.Triangle, error) {
	startTime := time.Now()

	mesh, err := fauxgl.LoadMesh(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load mesh %s: %w", path, err)
	}

	vertices, triangles := weldFauxglTriangles(mesh.Triangles)
	logger.Debugf("loaded mesh %s: %d vertices, %d triangles in %v",
		path, len(vertices), len(triangles), time.Since(startTime))

	return vertices, triangles, nil
}

// weldFauxglTriangles converts fauxgl's unindexed triangles into an indexed
// vertex buffer, sharing corners with identical position and normal
func weldFauxglTriangles(source []*fauxgl.Triangle) ([]geometry.Vertex, []geometry.Triangle) {
	index := make(map[geometry.Vertex]uint32)
	var vertices []geometry.Vertex
	triangles := make([]geometry.Triangle, 0, len(source))

	lookup := func(v fauxgl.Vertex) uint32 {
		vertex := geometry.Vertex{
			Position: core.NewVec3(v.Position.X, v.Position.Y, v.Position.Z),
			Normal:   core.NewVec3(v.Normal.X, v.Normal.Y, v.Normal.Z),
		}
		if i, ok := index[vertex]; ok {
			return i
		}
		i := uint32(len(vertices))
		index[vertex] = i
		vertices = append(vertices, vertex)
		return i
	}

	for _, t := range source {
		triangles = append(triangles, geometry.Triangle{lookup(t.V1), lookup(t.V2), lookup(t.V3)})
	}
	return vertices, triangles
}
