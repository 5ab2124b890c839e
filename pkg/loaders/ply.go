package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
	"github.com/df07/go-mesh-pathtracer/pkg/geometry"
)

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format      string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version     string // Usually "1.0"
	VertexCount int
	FaceCount   int
	VertexProps []PLYProperty
	FaceProps   []PLYProperty
	HasNormals  bool
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// LoadPLY reads positions, optional normals and faces from a PLY file.
// Polygons with more than three corners are split into triangle fans.
func LoadPLY(filename string) ([]geometry.Vertex, []geometry.Triangle, error) {
	startTime := time.Now()

	file, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	reader := bufio.NewReaderSize(file, 1024*1024)
	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse PLY header of %s: %w", filename, err)
	}

	var values plyValueReader
	switch header.Format {
	case "binary_little_endian":
		values = &plyBinaryReader{reader: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &plyBinaryReader{reader: reader, order: binary.BigEndian}
	case "ascii":
		scanner := bufio.NewScanner(reader)
		scanner.Split(bufio.ScanWords)
		values = &plyASCIIReader{scanner: scanner}
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedPLYFormat, header.Format)
	}

	vertices, err := readPLYVertices(values, header)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read PLY vertices of %s: %w", filename, err)
	}
	triangles, err := readPLYFaces(values, header)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read PLY faces of %s: %w", filename, err)
	}

	logger.Debugf("loaded PLY %s: %d vertices, %d triangles in %v",
		filename, len(vertices), len(triangles), time.Since(startTime))

	return vertices, triangles, nil
}

// parsePLYHeader consumes the header from reader, leaving it positioned at the first data byte
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}

	magic, err := reader.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, ErrInvalidPLY
	}

	var currentElement string
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("error reading header: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) >= 3 {
				header.Format = parts[1]
				header.Version = parts[2]
			}
		case "comment", "obj_info":
			// Ignore comments
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element definition: %q", line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil {
				return nil, fmt.Errorf("invalid element count: %s", parts[2])
			}
			if count < 0 {
				return nil, fmt.Errorf("%w: negative %s count %d", ErrMalformedPLY, parts[1], count)
			}

			currentElement = parts[1]
			switch currentElement {
			case "vertex":
				header.VertexCount = count
			case "face":
				header.FaceCount = count
			default:
				if count > 0 {
					return nil, fmt.Errorf("%w: element %q", ErrUnsupportedPLYFormat, currentElement)
				}
			}
		case "property":
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("failed to parse property: %w", err)
			}

			switch currentElement {
			case "vertex":
				header.VertexProps = append(header.VertexProps, prop)
				if prop.Name == "nx" || prop.Name == "ny" || prop.Name == "nz" {
					header.HasNormals = true
				}
			case "face":
				header.FaceProps = append(header.FaceProps, prop)
			}
		}
	}

	return header, nil
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("invalid property definition")
	}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("invalid list property definition")
		}
		return PLYProperty{IsList: true, ListType: parts[1], DataType: parts[2], Name: parts[3]}, nil
	}
	return PLYProperty{Type: parts[0], Name: parts[1]}, nil
}

// plyPreallocLimit caps slice preallocation from header counts. A header can
// claim any count; slices grow past the limit only as data is actually read.
const plyPreallocLimit = 1 << 20

// plyListCount checks that a list count or index read from the data section
// is a non-negative integer
func plyListCount(value float64) (int, error) {
	if value < 0 || value != math.Trunc(value) || value > math.MaxInt32 {
		return 0, fmt.Errorf("%w: invalid count or index %v", ErrMalformedPLY, value)
	}
	return int(value), nil
}

func readPLYVertices(values plyValueReader, header *PLYHeader) ([]geometry.Vertex, error) {
	vertices := make([]geometry.Vertex, 0, min(header.VertexCount, plyPreallocLimit))

	for i := 0; i < header.VertexCount; i++ {
		var position, normal [3]float64
		for _, prop := range header.VertexProps {
			if prop.IsList {
				if err := skipPLYList(values, prop); err != nil {
					return nil, err
				}
				continue
			}

			value, err := values.next(prop.Type)
			if err != nil {
				return nil, fmt.Errorf("vertex %d property %s: %w", i, prop.Name, err)
			}
			switch prop.Name {
			case "x":
				position[0] = value
			case "y":
				position[1] = value
			case "z":
				position[2] = value
			case "nx":
				normal[0] = value
			case "ny":
				normal[1] = value
			case "nz":
				normal[2] = value
			}
		}

		vertex := geometry.Vertex{Position: core.NewVec3(position[0], position[1], position[2])}
		if header.HasNormals {
			vertex.Normal = core.NewVec3(normal[0], normal[1], normal[2]).Normalize()
		}
		vertices = append(vertices, vertex)
	}

	return vertices, nil
}

func readPLYFaces(values plyValueReader, header *PLYHeader) ([]geometry.Triangle, error) {
	triangles := make([]geometry.Triangle, 0, min(header.FaceCount, plyPreallocLimit))

	for i := 0; i < header.FaceCount; i++ {
		for _, prop := range header.FaceProps {
			if !prop.IsList || (prop.Name != "vertex_indices" && prop.Name != "vertex_index") {
				if err := skipPLYProperty(values, prop); err != nil {
					return nil, fmt.Errorf("face %d property %s: %w", i, prop.Name, err)
				}
				continue
			}

			value, err := values.next(prop.ListType)
			if err != nil {
				return nil, fmt.Errorf("face %d vertex count: %w", i, err)
			}
			count, err := plyListCount(value)
			if err != nil {
				return nil, fmt.Errorf("face %d vertex count: %w", i, err)
			}

			indices := make([]uint32, 0, min(count, 64))
			for j := 0; j < count; j++ {
				value, err := values.next(prop.DataType)
				if err != nil {
					return nil, fmt.Errorf("face %d index %d: %w", i, j, err)
				}
				index, err := plyListCount(value)
				if err != nil {
					return nil, fmt.Errorf("face %d index %d: %w", i, j, err)
				}
				if index >= header.VertexCount {
					return nil, fmt.Errorf("%w: face %d references vertex %d of %d", ErrInvalidIndex, i, index, header.VertexCount)
				}
				indices = append(indices, uint32(index))
			}

			for j := 1; j+1 < len(indices); j++ {
				triangles = append(triangles, geometry.Triangle{indices[0], indices[j], indices[j+1]})
			}
		}
	}

	return triangles, nil
}

func skipPLYProperty(values plyValueReader, prop PLYProperty) error {
	if prop.IsList {
		return skipPLYList(values, prop)
	}
	_, err := values.next(prop.Type)
	return err
}

func skipPLYList(values plyValueReader, prop PLYProperty) error {
	value, err := values.next(prop.ListType)
	if err != nil {
		return err
	}
	count, err := plyListCount(value)
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		if _, err := values.next(prop.DataType); err != nil {
			return err
		}
	}
	return nil
}

// getTypeSize returns the size in bytes of a PLY data type, or 0 if unknown
func getTypeSize(dataType string) int {
	switch dataType {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "double", "float64":
		return 8
	case "short", "int16", "ushort", "uint16":
		return 2
	case "char", "int8", "uchar", "uint8":
		return 1
	default:
		return 0
	}
}

// plyValueReader yields successive scalar values of the data section
type plyValueReader interface {
	next(dataType string) (float64, error)
}

type plyBinaryReader struct {
	reader io.Reader
	order  binary.ByteOrder
	buf    [8]byte
}

func (r *plyBinaryReader) next(dataType string) (float64, error) {
	size := getTypeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("unsupported data type: %s", dataType)
	}
	data := r.buf[:size]
	if _, err := io.ReadFull(r.reader, data); err != nil {
		return 0, err
	}

	switch dataType {
	case "float", "float32":
		return float64(math.Float32frombits(r.order.Uint32(data))), nil
	case "double", "float64":
		return math.Float64frombits(r.order.Uint64(data)), nil
	case "int", "int32":
		return float64(int32(r.order.Uint32(data))), nil
	case "uint", "uint32":
		return float64(r.order.Uint32(data)), nil
	case "short", "int16":
		return float64(int16(r.order.Uint16(data))), nil
	case "ushort", "uint16":
		return float64(r.order.Uint16(data)), nil
	case "char", "int8":
		return float64(int8(data[0])), nil
	default:
		return float64(data[0]), nil
	}
}

type plyASCIIReader struct {
	scanner *bufio.Scanner
}

func (r *plyASCIIReader) next(dataType string) (float64, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	return strconv.ParseFloat(r.scanner.Text(), 64)
}
