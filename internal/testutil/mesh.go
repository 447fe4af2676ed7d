// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/stlsnap/pkg/dump"
	"github.com/philipparndt/stlsnap/pkg/geometry"
	"github.com/philipparndt/stlsnap/pkg/stl"
)

// Box returns a closed axis-aligned box with outward facing triangles
func Box(name string, min, max geometry.Vector3) *stl.Model {
	v := func(x, y, z float64) geometry.Vector3 { return geometry.NewVector3(x, y, z) }
	c := [8]geometry.Vector3{
		v(min.X, min.Y, min.Z), v(max.X, min.Y, min.Z), v(max.X, max.Y, min.Z), v(min.X, max.Y, min.Z),
		v(min.X, min.Y, max.Z), v(max.X, min.Y, max.Z), v(max.X, max.Y, max.Z), v(min.X, max.Y, max.Z),
	}
	quads := [6][4]int{
		{0, 3, 2, 1}, // bottom
		{4, 5, 6, 7}, // top
		{0, 1, 5, 4}, // -Y
		{2, 3, 7, 6}, // +Y
		{1, 2, 6, 5}, // +X
		{3, 0, 4, 7}, // -X
	}

	m := dump.New()
	for _, q := range quads {
		m.AddQuad(c[q[0]], c[q[1]], c[q[2]], c[q[3]])
	}
	return m.STL(name)
}

// Cube returns a cube of the given edge length centred on the origin
func Cube(name string, size float64) *stl.Model {
	h := size / 2
	return Box(name, geometry.NewVector3(-h, -h, -h), geometry.NewVector3(h, h, h))
}

// WriteSTL writes the model as binary STL into dir and returns its path
func WriteSTL(t testing.TB, dir, name string, model *stl.Model) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	if err := stl.WriteBinary(f, model); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
