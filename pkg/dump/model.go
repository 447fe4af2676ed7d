// Package dump builds debug geometry out of points, edges, quads, cones and
// spheres and writes it as STL, so intermediate results of geometric code
// can be inspected in any mesh viewer.
package dump

import (
	"sort"

	"github.com/philipparndt/stlsnap/pkg/geometry"
	"github.com/philipparndt/stlsnap/pkg/stl"
)

const (
	// ConeBaseSize is the half width of the base of a direction cone
	ConeBaseSize = 1.0 / 20.0

	// PointSphereRadius is the sphere radius used for a single point
	PointSphereRadius = 0.1

	// SphereRadiusRatio scales the spread of a point set to a sphere radius
	SphereRadiusRatio = 0.025
)

// Model is a triangle soup under construction. The Add methods return the
// model so calls can be chained.
type Model struct {
	Triangles []geometry.Triangle
}

// New creates an empty model
func New() *Model {
	return &Model{}
}

// Len returns the number of triangles
func (m *Model) Len() int {
	return len(m.Triangles)
}

// AddTriangle appends a triangle, deriving the normal from the winding
func (m *Model) AddTriangle(a, b, c geometry.Vector3) *Model {
	t := geometry.NewTriangle(geometry.Vector3{}, a, b, c)
	t.Normal = t.FaceNormal()
	m.Triangles = append(m.Triangles, t)
	return m
}

// AddPoint appends a point as a triangle with three equal corners
func (m *Model) AddPoint(p geometry.Vector3) *Model {
	return m.AddTriangle(p, p, p)
}

// AddEdge appends a segment as a triangle with a repeated corner
func (m *Model) AddEdge(a, b geometry.Vector3) *Model {
	return m.AddTriangle(a, b, b)
}

// AddQuad appends the quad a-b-c-d as two triangles. Of the two diagonals
// it splits along the one whose smaller triangle is larger, which avoids
// slivers on skewed quads.
func (m *Model) AddQuad(a, b, c, d geometry.Vector3) *Model {
	area := func(p, q, r geometry.Vector3) float64 {
		return geometry.NewTriangle(geometry.Vector3{}, p, q, r).Area()
	}

	if min(area(a, b, c), area(a, c, d)) < min(area(a, b, d), area(b, c, d)) {
		return m.AddTriangle(a, b, d).AddTriangle(b, c, d)
	}
	return m.AddTriangle(a, b, c).AddTriangle(a, c, d)
}

// AddCone appends a four sided pyramid with its square base centred on base
// and its apex at tip. baseSize is the distance from the base centre to each
// base corner.
func (m *Model) AddCone(base, tip geometry.Vector3, baseSize float64) *Model {
	dir := tip.Sub(base).Normalize()

	// Cross with the axis of the median direction component; it is never
	// parallel to dir.
	axes := []struct {
		weight float64
		axis   geometry.Vector3
	}{
		{dir.X, geometry.NewVector3(1, 0, 0)},
		{dir.Y, geometry.NewVector3(0, 1, 0)},
		{dir.Z, geometry.NewVector3(0, 0, 1)},
	}
	sort.SliceStable(axes, func(i, j int) bool { return axes[i].weight < axes[j].weight })

	bx := dir.Cross(axes[1].axis).Normalize().Mul(baseSize)
	by := bx.Cross(dir).Normalize().Mul(baseSize)

	p1, p2, p3, p4 := base.Add(bx), base.Add(by), base.Sub(bx), base.Sub(by)
	return m.AddQuad(p1, p2, p3, p4).
		AddTriangle(p1, p2, tip).
		AddTriangle(p2, p3, tip).
		AddTriangle(p3, p4, tip).
		AddTriangle(p4, p1, tip)
}

// AddSphere appends a 20 face icosahedron around center. The unit
// icosahedron has a circumradius of about 1.9, so radius is a scale rather
// than an exact radius.
func (m *Model) AddSphere(center geometry.Vector3, radius float64) *Model {
	for _, f := range icosahedron {
		m.AddTriangle(
			f[0].Mul(radius).Add(center),
			f[1].Mul(radius).Add(center),
			f[2].Mul(radius).Add(center),
		)
	}
	return m
}

// Append adds all triangles of other
func (m *Model) Append(other *Model) *Model {
	m.Triangles = append(m.Triangles, other.Triangles...)
	return m
}

// STL converts the model into an STL model with the given name
func (m *Model) STL(name string) *stl.Model {
	out := stl.NewModel(name)
	out.Triangles = append(out.Triangles, m.Triangles...)
	return out
}

const phi = 1.61803398875

func vec(x, y, z float64) geometry.Vector3 {
	return geometry.NewVector3(x, y, z)
}

// icosahedron faces wind counter-clockwise seen from outside
var icosahedron = [20][3]geometry.Vector3{
	{vec(0, -phi, 1), vec(-1, 0, phi), vec(-phi, -1, 0)},
	{vec(0, -phi, 1), vec(1, 0, phi), vec(-1, 0, phi)},
	{vec(0, -phi, 1), vec(phi, -1, 0), vec(1, 0, phi)},
	{vec(0, -phi, 1), vec(0, -phi, -1), vec(phi, -1, 0)},
	{vec(0, -phi, 1), vec(-phi, -1, 0), vec(0, -phi, -1)},

	{vec(0, phi, -1), vec(-phi, 1, 0), vec(0, phi, 1)},
	{vec(0, phi, -1), vec(0, phi, 1), vec(phi, 1, 0)},
	{vec(0, phi, -1), vec(phi, 1, 0), vec(1, 0, -phi)},
	{vec(0, phi, -1), vec(1, 0, -phi), vec(-1, 0, -phi)},
	{vec(0, phi, -1), vec(-1, 0, -phi), vec(-phi, 1, 0)},

	{vec(0, -phi, -1), vec(-phi, -1, 0), vec(-1, 0, -phi)},
	{vec(-1, 0, -phi), vec(-phi, -1, 0), vec(-phi, 1, 0)},
	{vec(-phi, -1, 0), vec(-1, 0, phi), vec(-phi, 1, 0)},
	{vec(-phi, 1, 0), vec(-1, 0, phi), vec(0, phi, 1)},
	{vec(-1, 0, phi), vec(1, 0, phi), vec(0, phi, 1)},
	{vec(1, 0, phi), vec(phi, 1, 0), vec(0, phi, 1)},
	{vec(phi, -1, 0), vec(phi, 1, 0), vec(1, 0, phi)},
	{vec(phi, 1, 0), vec(phi, -1, 0), vec(1, 0, -phi)},
	{vec(0, -phi, -1), vec(1, 0, -phi), vec(phi, -1, 0)},
	{vec(0, -phi, -1), vec(-1, 0, -phi), vec(1, 0, -phi)},
}
