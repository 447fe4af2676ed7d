package stl

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/philipparndt/stlsnap/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleModel(name string) *Model {
	m := NewModel(name)
	m.AddTriangle(geometry.NewTriangle(
		geometry.NewVector3(0, 0, 1),
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(3, 0, 0),
		geometry.NewVector3(0, 4, 0),
	))
	m.AddTriangle(geometry.NewTriangle(
		geometry.NewVector3(0, 0, -1),
		geometry.NewVector3(0, 0, 2),
		geometry.NewVector3(0, 4, 2),
		geometry.NewVector3(3, 0, 2),
	))
	return m
}

func TestParseASCII(t *testing.T) {
	src := `solid bracket
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 3 0 0
      vertex 0 4 0
    endloop
  endfacet
endsolid bracket
`
	model, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, "bracket", model.Name)
	require.Equal(t, 1, model.TriangleCount())
	assert.Equal(t, geometry.NewVector3(3, 0, 0), model.Triangles[0].V2)
	assert.InDelta(t, 6.0, model.SurfaceArea(), 1e-9)
}

func TestParseASCIIMalformed(t *testing.T) {
	src := `solid broken
  facet normal 0 0 1
    outer loop
      vertex 0 0 zero
    endloop
  endfacet
endsolid broken
`
	_, err := Parse(strings.NewReader(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 4")
}

func TestParseASCIIShortFacet(t *testing.T) {
	src := "solid s\nfacet normal 0 0 1\nouter loop\nvertex 0 0 0\nvertex 1 0 0\nendloop\nendfacet\nendsolid s\n"
	_, err := Parse(strings.NewReader(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 vertices")
}

func TestBinaryRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, sampleModel("part")))
	assert.Equal(t, binaryHeaderSize+4+2*binaryFacetSize, buf.Len())

	model, err := Parse(&buf)
	require.NoError(t, err)

	assert.Equal(t, "part", model.Name)
	assert.Equal(t, sampleModel("part").Triangles, model.Triangles)
}

func TestBinaryWithSolidHeader(t *testing.T) {
	// Binary exporters often start the header with "solid"
	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, sampleModel("solid exported by cad")))

	model, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, model.TriangleCount())
}

func TestBinaryTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, sampleModel("part")))
	data := buf.Bytes()[:buf.Len()-10]

	_, err := Parse(bytes.NewReader(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated")
	assert.Contains(t, err.Error(), "declares 2 triangles")
}

func TestBinaryHugeTriangleCount(t *testing.T) {
	data := make([]byte, binaryHeaderSize+4)
	binary.LittleEndian.PutUint32(data[binaryHeaderSize:], math.MaxUint32)

	_, err := Parse(bytes.NewReader(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated")
}

func TestBinaryShortHeader(t *testing.T) {
	_, err := Parse(bytes.NewReader(make([]byte, 40)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "triangle count")
}

func TestBinaryNonFinite(t *testing.T) {
	for _, bad := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		model := sampleModel("part")
		model.Triangles[1].V3.Y = bad

		var buf bytes.Buffer
		require.NoError(t, WriteBinary(&buf, model))

		_, err := Parse(&buf)
		require.Error(t, err, "coordinate %v", bad)
		assert.Contains(t, err.Error(), "triangle 1: non-finite coordinate")
	}
}

func TestParseASCIINonFinite(t *testing.T) {
	for _, bad := range []string{"nan", "NaN", "inf", "-Inf", "1e400"} {
		src := "solid s\nfacet normal 0 0 1\nouter loop\nvertex " + bad +
			" 0 0\nvertex 1 0 0\nvertex 0 1 0\nendloop\nendfacet\nendsolid s\n"

		_, err := Parse(strings.NewReader(src))
		require.Error(t, err, "coordinate %s", bad)
		assert.Contains(t, err.Error(), "line 4")
	}
}

func TestParseASCIIUnterminatedFacet(t *testing.T) {
	src := "solid s\nfacet normal 0 0 1\nouter loop\nvertex 0 0 0\nvertex 1 0 0\n"
	_, err := Parse(strings.NewReader(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "facet has 2 vertices")
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse(bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "part.stl")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteASCII(f, sampleModel("part")))
	require.NoError(t, f.Close())

	model, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, model.TriangleCount())

	bbox := model.BoundingBox()
	assert.Equal(t, geometry.NewVector3(0, 0, 0), bbox.Min)
	assert.Equal(t, geometry.NewVector3(3, 4, 2), bbox.Max)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.stl"))
	assert.Error(t, err)
}
