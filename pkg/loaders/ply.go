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

	"github.com/df07/go-quadric-raycast/pkg/core"
)

// Supported PLY formats
const (
	FormatASCII              = "ascii"
	FormatBinaryLittleEndian = "binary_little_endian"
)

// maxPreallocVertices caps the capacity taken from an untrusted vertex count
const maxPreallocVertices = 1 << 16

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format      string // "binary_little_endian" or "ascii"
	Version     string // Usually "1.0"
	VertexCount int
	FaceCount   int
	VertexProps []PLYProperty
	Comments    []string
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// PLYData contains the point cloud loaded from a PLY file
type PLYData struct {
	Header   *PLYHeader
	Vertices []core.Vec3
}

// SavePLY writes points to filename as a PLY vertex-only point cloud
func SavePLY(filename string, points []core.Vec3, format string) error {
	startTime := time.Now()

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create PLY file: %w", err)
	}

	w := bufio.NewWriter(file)
	if err := WritePLY(w, points, format); err != nil {
		file.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("failed to flush PLY file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close PLY file: %w", err)
	}

	core.Logger().Info("saved PLY point cloud",
		"file", filename, "points", len(points), "format", format, "elapsed", time.Since(startTime))
	return nil
}

// WritePLY writes a vertex-only PLY with double x, y, z properties
func WritePLY(w io.Writer, points []core.Vec3, format string) error {
	if format != FormatASCII && format != FormatBinaryLittleEndian {
		return fmt.Errorf("unsupported PLY format: %s", format)
	}

	header := fmt.Sprintf("ply\nformat %s 1.0\ncomment generated by go-quadric-raycast\n"+
		"element vertex %d\nproperty double x\nproperty double y\nproperty double z\nend_header\n",
		format, len(points))
	if _, err := io.WriteString(w, header); err != nil {
		return fmt.Errorf("failed to write PLY header: %w", err)
	}

	if format == FormatASCII {
		for _, p := range points {
			line := strconv.FormatFloat(p.X, 'g', -1, 64) + " " +
				strconv.FormatFloat(p.Y, 'g', -1, 64) + " " +
				strconv.FormatFloat(p.Z, 'g', -1, 64) + "\n"
			if _, err := io.WriteString(w, line); err != nil {
				return fmt.Errorf("failed to write vertex: %w", err)
			}
		}
		return nil
	}

	buf := make([]byte, 24)
	for _, p := range points {
		binary.LittleEndian.PutUint64(buf[0:], math.Float64bits(p.X))
		binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(p.Y))
		binary.LittleEndian.PutUint64(buf[16:], math.Float64bits(p.Z))
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("failed to write vertex: %w", err)
		}
	}
	return nil
}

// LoadPLY loads a PLY point cloud from filename
func LoadPLY(filename string) (*PLYData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	return ReadPLY(file)
}

// ReadPLY reads vertex positions from a PLY stream. Vertex properties other
// than x, y and z are skipped. Files with faces are rejected.
func ReadPLY(r io.Reader) (*PLYData, error) {
	reader := bufio.NewReader(r)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}
	if header.FaceCount > 0 {
		return nil, fmt.Errorf("PLY faces are not supported (found %d)", header.FaceCount)
	}

	var vertices []core.Vec3
	switch header.Format {
	case FormatASCII:
		vertices, err = readASCIIVertices(reader, header)
	case FormatBinaryLittleEndian:
		vertices, err = readBinaryVertices(reader, header)
	default:
		return nil, fmt.Errorf("unsupported PLY format: %s", header.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read PLY data: %w", err)
	}

	return &PLYData{Header: header, Vertices: vertices}, nil
}

// parsePLYHeader consumes header lines up to and including end_header
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}

	magic, err := reader.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, fmt.Errorf("missing ply magic number")
	}

	var currentElement string
	for {
		raw, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("unterminated header: %w", err)
		}
		line := strings.TrimSpace(raw)
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid format line: %q", line)
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
			header.Comments = append(header.Comments, strings.TrimSpace(strings.TrimPrefix(line, parts[0])))
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element line: %q", line)
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
			}
		case "property":
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("failed to parse property: %w", err)
			}
			if currentElement == "vertex" {
				if prop.IsList {
					return nil, fmt.Errorf("list property %q on vertex is not supported", prop.Name)
				}
				if getTypeSize(prop.Type) == 0 {
					return nil, fmt.Errorf("unsupported data type: %s", prop.Type)
				}
				header.VertexProps = append(header.VertexProps, prop)
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

	return prop, nil
}

func readASCIIVertices(reader *bufio.Reader, header *PLYHeader) ([]core.Vec3, error) {
	vertices := make([]core.Vec3, 0, min(header.VertexCount, maxPreallocVertices))
	for i := 0; i < header.VertexCount; i++ {
		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || strings.TrimSpace(line) == "") {
			return nil, fmt.Errorf("vertex %d: %w", i, io.ErrUnexpectedEOF)
		}

		fields := strings.Fields(line)
		if len(fields) < len(header.VertexProps) {
			return nil, fmt.Errorf("vertex %d: expected %d values, got %d", i, len(header.VertexProps), len(fields))
		}

		var v core.Vec3
		for j, prop := range header.VertexProps {
			value, err := strconv.ParseFloat(fields[j], 64)
			if err != nil {
				return nil, fmt.Errorf("vertex %d: invalid %s value %q", i, prop.Name, fields[j])
			}
			setComponent(&v, prop.Name, value)
		}
		vertices = append(vertices, v)
	}
	return vertices, nil
}

func readBinaryVertices(reader *bufio.Reader, header *PLYHeader) ([]core.Vec3, error) {
	vertexSize := calculateVertexSize(header.VertexProps)
	data := make([]byte, vertexSize)

	vertices := make([]core.Vec3, 0, min(header.VertexCount, maxPreallocVertices))
	for i := 0; i < header.VertexCount; i++ {
		if _, err := io.ReadFull(reader, data); err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}

		var v core.Vec3
		offset := 0
		for _, prop := range header.VertexProps {
			size := getTypeSize(prop.Type)
			setComponent(&v, prop.Name, decodeLittleEndian(data[offset:offset+size], prop.Type))
			offset += size
		}
		vertices = append(vertices, v)
	}
	return vertices, nil
}

func setComponent(v *core.Vec3, name string, value float64) {
	switch name {
	case "x":
		v.X = value
	case "y":
		v.Y = value
	case "z":
		v.Z = value
	}
}

// decodeLittleEndian converts one scalar property to float64
func decodeLittleEndian(b []byte, dataType string) float64 {
	switch dataType {
	case "float", "float32":
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case "double", "float64":
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	case "int", "int32":
		return float64(int32(binary.LittleEndian.Uint32(b)))
	case "uint", "uint32":
		return float64(binary.LittleEndian.Uint32(b))
	case "short", "int16":
		return float64(int16(binary.LittleEndian.Uint16(b)))
	case "ushort", "uint16":
		return float64(binary.LittleEndian.Uint16(b))
	case "char", "int8":
		return float64(int8(b[0]))
	default:
		return float64(b[0])
	}
}

// calculateVertexSize calculates the size in bytes of a single vertex
func calculateVertexSize(props []PLYProperty) int {
	size := 0
	for _, prop := range props {
		size += getTypeSize(prop.Type)
	}
	return size
}

// getTypeSize returns the size in bytes of a PLY data type, 0 if unknown
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
