package loaders

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-soft-renderer/pkg/core"
	"github.com/df07/go-soft-renderer/pkg/texture"
)

// ErrUnsupportedFormat is returned for image or mesh encodings the loaders cannot read
var ErrUnsupportedFormat = errors.New("unsupported format")

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format      string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version     string
	VertexCount int
	FaceCount   int
	VertexProps []PLYProperty
	FaceProps   []PLYProperty

	HasTexCoords bool

	// Indices into VertexProps
	PositionIndices [3]int
	TexCoordIndices [2]int
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // type of the list count
	DataType string // type of the list items
}

// Mesh is a triangle mesh loaded from disk, with UVs when the file carries them
type Mesh struct {
	Triangles []core.Triangle
	UVs       *texture.UV // nil when the file has no texture coordinates
}

// LoadPLY loads a PLY file as a triangle mesh. Polygons with more than three
// vertices are split into a fan around their first vertex.
func LoadPLY(filename string) (*Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	mesh, err := ReadPLY(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return mesh, nil
}

// ReadPLY reads a PLY stream in ASCII or binary encoding
func ReadPLY(r io.Reader) (*Mesh, error) {
	reader := bufio.NewReaderSize(r, 1024*1024)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var elements plyElementReader
	switch header.Format {
	case "ascii":
		elements = &asciiReader{reader: reader}
	case "binary_little_endian":
		elements = &binaryReader{reader: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		elements = &binaryReader{reader: reader, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("PLY encoding %q: %w", header.Format, ErrUnsupportedFormat)
	}

	vertices, uvs, err := readVertices(elements, header)
	if err != nil {
		return nil, fmt.Errorf("failed to read PLY vertices: %w", err)
	}

	triangles, err := readFaces(elements, header, vertices)
	if err != nil {
		return nil, fmt.Errorf("failed to read PLY faces: %w", err)
	}

	mesh := &Mesh{Triangles: triangles}
	if header.HasTexCoords {
		mesh.UVs = texture.NewUV()
		for i, v := range vertices {
			mesh.UVs.Set(v, uvs[i])
		}
	}
	return mesh, nil
}

// parsePLYHeader consumes the header lines, leaving reader at the first element
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{
		PositionIndices: [3]int{-1, -1, -1},
		TexCoordIndices: [2]int{-1, -1},
	}

	var currentElement string
	first := true
	for {
		raw, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || raw == "") {
			return nil, fmt.Errorf("error reading header: %w", err)
		}
		line := strings.TrimSpace(raw)

		if first {
			if line != "ply" {
				return nil, fmt.Errorf("missing ply magic number: %w", ErrUnsupportedFormat)
			}
			first = false
			continue
		}
		if line == "end_header" {
			break
		}
		if err == io.EOF {
			return nil, fmt.Errorf("header not terminated: %w", io.ErrUnexpectedEOF)
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
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element definition: %q", line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count: %s", parts[2])
			}
			currentElement = parts[1]
			switch currentElement {
			case "vertex":
				header.VertexCount = count
			case "face":
				header.FaceCount = count
			default:
				if count > 0 {
					return nil, fmt.Errorf("element %q: %w", currentElement, ErrUnsupportedFormat)
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
				propIndex := len(header.VertexProps) - 1

				switch prop.Name {
				case "x":
					header.PositionIndices[0] = propIndex
				case "y":
					header.PositionIndices[1] = propIndex
				case "z":
					header.PositionIndices[2] = propIndex
				case "u", "s", "texture_u":
					header.TexCoordIndices[0] = propIndex
				case "v", "t", "texture_v":
					header.TexCoordIndices[1] = propIndex
				}
			case "face":
				header.FaceProps = append(header.FaceProps, prop)
			}
		}
	}

	for _, idx := range header.PositionIndices {
		if idx < 0 {
			return nil, errors.New("vertex element lacks x, y or z")
		}
	}
	header.HasTexCoords = header.TexCoordIndices[0] >= 0 && header.TexCoordIndices[1] >= 0
	return header, nil
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("invalid property definition")
	}

	prop := PLYProperty{}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("invalid list property definition")
		}
		prop.IsList = true
		prop.ListType = parts[1]
		prop.DataType = parts[2]
		prop.Name = parts[3]
	} else {
		prop.Type = parts[0]
		prop.Name = parts[1]
	}

	if err := checkType(prop.Type, prop.ListType, prop.DataType); err != nil {
		return PLYProperty{}, err
	}
	return prop, nil
}

func checkType(types ...string) error {
	for _, t := range types {
		if t != "" && getTypeSize(t) == 0 {
			return fmt.Errorf("unsupported data type: %s", t)
		}
	}
	return nil
}

// plyElementReader reads one scalar at a time regardless of encoding
type plyElementReader interface {
	scalar(dataType string) (float64, error)
}

type asciiReader struct {
	reader *bufio.Reader
}

func (a *asciiReader) scalar(string) (float64, error) {
	var token strings.Builder
	for {
		b, err := a.reader.ReadByte()
		if err != nil {
			if err == io.EOF && token.Len() > 0 {
				break
			}
			if err == io.EOF {
				return 0, io.ErrUnexpectedEOF
			}
			return 0, err
		}
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			if token.Len() > 0 {
				break
			}
			continue
		}
		token.WriteByte(b)
	}
	return strconv.ParseFloat(token.String(), 64)
}

type binaryReader struct {
	reader *bufio.Reader
	order  binary.ByteOrder
	buf    [8]byte
}

func (b *binaryReader) scalar(dataType string) (float64, error) {
	size := getTypeSize(dataType)
	data := b.buf[:size]
	if _, err := io.ReadFull(b.reader, data); err != nil {
		return 0, err
	}

	switch dataType {
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(data))), nil
	case "double", "float64":
		return math.Float64frombits(b.order.Uint64(data)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(data))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(data)), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(data))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(data)), nil
	case "char", "int8":
		return float64(int8(data[0])), nil
	case "uchar", "uint8":
		return float64(data[0]), nil
	default:
		return 0, fmt.Errorf("unsupported data type: %s", dataType)
	}
}

func readVertices(elements plyElementReader, header *PLYHeader) ([]core.Vec3, []core.Vec2, error) {
	vertices := make([]core.Vec3, 0, header.VertexCount)
	var uvs []core.Vec2
	if header.HasTexCoords {
		uvs = make([]core.Vec2, 0, header.VertexCount)
	}

	values := make([]float64, len(header.VertexProps))
	for i := 0; i < header.VertexCount; i++ {
		for j, prop := range header.VertexProps {
			if prop.IsList {
				if err := skipList(elements, prop); err != nil {
					return nil, nil, fmt.Errorf("vertex %d: %w", i, err)
				}
				continue
			}
			v, err := elements.scalar(prop.Type)
			if err != nil {
				return nil, nil, fmt.Errorf("vertex %d, property %s: %w", i, prop.Name, err)
			}
			values[j] = v
		}

		p := header.PositionIndices
		vertices = append(vertices, core.NewVec3(values[p[0]], values[p[1]], values[p[2]]))
		if header.HasTexCoords {
			t := header.TexCoordIndices
			uvs = append(uvs, core.NewVec2(values[t[0]], values[t[1]]))
		}
	}
	return vertices, uvs, nil
}

func readFaces(elements plyElementReader, header *PLYHeader, vertices []core.Vec3) ([]core.Triangle, error) {
	triangles := make([]core.Triangle, 0, header.FaceCount)
	var indices []int

	for i := 0; i < header.FaceCount; i++ {
		for _, prop := range header.FaceProps {
			if !prop.IsList || (prop.Name != "vertex_indices" && prop.Name != "vertex_index") {
				if err := skipProperty(elements, prop); err != nil {
					return nil, fmt.Errorf("face %d, property %s: %w", i, prop.Name, err)
				}
				continue
			}

			count, err := elements.scalar(prop.ListType)
			if err != nil {
				return nil, fmt.Errorf("face %d vertex count: %w", i, err)
			}
			if count < 3 {
				return nil, fmt.Errorf("face %d has %v vertices", i, count)
			}

			indices = indices[:0]
			for k := 0; k < int(count); k++ {
				idx, err := elements.scalar(prop.DataType)
				if err != nil {
					return nil, fmt.Errorf("face %d index %d: %w", i, k, err)
				}
				if idx < 0 || int(idx) >= len(vertices) {
					return nil, fmt.Errorf("face %d references vertex %v of %d", i, idx, len(vertices))
				}
				indices = append(indices, int(idx))
			}

			for k := 1; k+1 < len(indices); k++ {
				triangles = append(triangles, core.NewTriangle(
					vertices[indices[0]], vertices[indices[k]], vertices[indices[k+1]],
				))
			}
		}
	}
	return triangles, nil
}

// skipProperty skips a property of any shape in the element stream
func skipProperty(elements plyElementReader, prop PLYProperty) error {
	if prop.IsList {
		return skipList(elements, prop)
	}
	_, err := elements.scalar(prop.Type)
	return err
}

func skipList(elements plyElementReader, prop PLYProperty) error {
	count, err := elements.scalar(prop.ListType)
	if err != nil {
		return err
	}
	for i := 0; i < int(count); i++ {
		if _, err := elements.scalar(prop.DataType); err != nil {
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
