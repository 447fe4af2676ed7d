package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/philipparndt/stlsnap/pkg/geometry"
)

// WriteBinary encodes the model in the binary STL layout
func WriteBinary(w io.Writer, m *Model) error {
	if len(m.Triangles) > math.MaxUint32 {
		return fmt.Errorf("too many triangles: %d", len(m.Triangles))
	}

	bw := bufio.NewWriter(w)
	header := make([]byte, binaryHeaderSize)
	copy(header, m.Name)
	if _, err := bw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(m.Triangles))); err != nil {
		return fmt.Errorf("failed to write triangle count: %w", err)
	}

	for i, t := range m.Triangles {
		facet := binaryFacet{
			Normal: fromVector(t.Normal),
			V1:     fromVector(t.V1),
			V2:     fromVector(t.V2),
			V3:     fromVector(t.V3),
		}
		if err := binary.Write(bw, binary.LittleEndian, &facet); err != nil {
			return fmt.Errorf("failed to write triangle %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// WriteASCII encodes the model in the ASCII STL layout
func WriteASCII(w io.Writer, m *Model) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", m.Name)
	for _, t := range m.Triangles {
		fmt.Fprintf(bw, "  facet normal %g %g %g\n", t.Normal.X, t.Normal.Y, t.Normal.Z)
		fmt.Fprintln(bw, "    outer loop")
		for _, v := range t.Vertices() {
			fmt.Fprintf(bw, "      vertex %g %g %g\n", v.X, v.Y, v.Z)
		}
		fmt.Fprintln(bw, "    endloop")
		fmt.Fprintln(bw, "  endfacet")
	}
	fmt.Fprintf(bw, "endsolid %s\n", m.Name)
	return bw.Flush()
}

func fromVector(v geometry.Vector3) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}
