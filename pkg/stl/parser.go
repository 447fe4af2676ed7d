package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/stlsnap/pkg/geometry"
)

const (
	binaryHeaderSize = 80
	binaryFacetSize  = 50
)

// ErrEmptyFile is returned when the input contains no bytes at all
var ErrEmptyFile = errors.New("stl: empty file")

// ParseFile reads an STL file from disk and returns a Model
func ParseFile(filename string) (*Model, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads an STL stream and returns a Model.
// ASCII and binary layouts are detected automatically.
func Parse(r io.Reader) (*Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read stl data: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	if isBinary(data) {
		return parseBinary(data)
	}
	return parseASCII(bytes.NewReader(data))
}

// isBinary decides the layout. Plenty of binary exporters write "solid" into
// the 80 byte header, so a size that matches the facet count wins over the
// keyword.
func isBinary(data []byte) bool {
	if len(data) >= binaryHeaderSize+4 {
		count := binary.LittleEndian.Uint32(data[binaryHeaderSize:])
		if uint64(len(data)) == binaryHeaderSize+4+uint64(count)*binaryFacetSize {
			return true
		}
	}
	return !bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid"))
}

func parseASCII(reader io.Reader) (*Model, error) {
	scanner := bufio.NewScanner(reader)
	model := NewModel("")

	var currentNormal geometry.Vector3
	var vertices []geometry.Vector3
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				model.Name = strings.Join(fields[1:], " ")
			}

		case "facet":
			if len(fields) < 5 || fields[1] != "normal" {
				return nil, fmt.Errorf("line %d: malformed facet", lineNo)
			}
			n, err := parseVector(fields[2:5])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			currentNormal = n

		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: malformed vertex", lineNo)
			}
			v, err := parseVector(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			vertices = append(vertices, v)

		case "endfacet":
			if len(vertices) != 3 {
				return nil, fmt.Errorf("line %d: facet has %d vertices, want 3", lineNo, len(vertices))
			}
			model.AddTriangle(geometry.NewTriangle(currentNormal, vertices[0], vertices[1], vertices[2]))
			vertices = vertices[:0]
			currentNormal = geometry.Vector3{}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}
	if len(vertices) > 0 {
		return nil, fmt.Errorf("line %d: facet has %d vertices, want 3", lineNo, len(vertices))
	}

	return model, nil
}

func parseVector(fields []string) (geometry.Vector3, error) {
	var c [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geometry.Vector3{}, fmt.Errorf("invalid number %q", f)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return geometry.Vector3{}, fmt.Errorf("non-finite coordinate %q", f)
		}
		c[i] = v
	}
	return geometry.NewVector3(c[0], c[1], c[2]), nil
}

// binaryFacet mirrors the on-disk record; the trailing attribute count is
// read and ignored.
type binaryFacet struct {
	Normal     [3]float32
	V1, V2, V3 [3]float32
	Attribute  uint16
}

// parseBinary decodes the binary layout. The facet count from the header is
// checked against the data length before anything is allocated.
func parseBinary(data []byte) (*Model, error) {
	model := NewModel("")

	if len(data) < binaryHeaderSize+4 {
		return nil, fmt.Errorf("failed to read triangle count: %w", io.ErrUnexpectedEOF)
	}
	model.Name = strings.TrimSpace(string(bytes.TrimRight(data[:binaryHeaderSize], "\x00")))

	triangleCount := binary.LittleEndian.Uint32(data[binaryHeaderSize:])
	available := uint64(len(data)-binaryHeaderSize-4) / binaryFacetSize
	if uint64(triangleCount) > available {
		return nil, fmt.Errorf("truncated binary STL: header declares %d triangles, data holds %d", triangleCount, available)
	}

	reader := bytes.NewReader(data[binaryHeaderSize+4:])
	model.Triangles = make([]geometry.Triangle, 0, triangleCount)
	for i := uint32(0); i < triangleCount; i++ {
		var facet binaryFacet
		if err := binary.Read(reader, binary.LittleEndian, &facet); err != nil {
			return nil, fmt.Errorf("failed to read triangle %d: %w", i, err)
		}
		v1, ok1 := toVector(facet.V1)
		v2, ok2 := toVector(facet.V2)
		v3, ok3 := toVector(facet.V3)
		if !ok1 || !ok2 || !ok3 {
			return nil, fmt.Errorf("triangle %d: non-finite coordinate", i)
		}
		normal, ok := toVector(facet.Normal)
		if !ok {
			normal = geometry.Vector3{}
		}
		model.AddTriangle(geometry.NewTriangle(normal, v1, v2, v3))
	}

	return model, nil
}

// toVector widens a stored coordinate triple and reports whether all three
// components are finite
func toVector(c [3]float32) (geometry.Vector3, bool) {
	v := geometry.NewVector3(float64(c[0]), float64(c[1]), float64(c[2]))
	for _, f := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return geometry.Vector3{}, false
		}
	}
	return v, true
}
