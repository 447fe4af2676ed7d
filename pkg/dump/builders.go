package dump

import "github.com/philipparndt/stlsnap/pkg/geometry"

// Points turns every point into a degenerate triangle
func Points(points []geometry.Vector3) *Model {
	m := New()
	for _, p := range points {
		m.AddPoint(p)
	}
	return m
}

// Triangles wraps existing triangles; their normals are recomputed
func Triangles(triangles []geometry.Triangle) *Model {
	m := New()
	for _, t := range triangles {
		m.AddTriangle(t.V1, t.V2, t.V3)
	}
	return m
}

// Line connects consecutive points with edges
func Line(points []geometry.Vector3) *Model {
	m := New()
	for i := 1; i < len(points); i++ {
		m.AddEdge(points[i-1], points[i])
	}
	return m
}

// Direction connects consecutive points with cones pointing along the chain
func Direction(points []geometry.Vector3) *Model {
	m := New()
	for i := 1; i < len(points); i++ {
		m.AddCone(points[i-1], points[i], ConeBaseSize)
	}
	return m
}

// Spheres marks every point with a small sphere. A single point gets
// PointSphereRadius; otherwise the radius follows the spread of the set.
func Spheres(points []geometry.Vector3) *Model {
	m := New()
	if len(points) == 0 {
		return m
	}

	radius := PointSphereRadius
	if len(points) > 1 {
		bbox := geometry.NewBoundingBox()
		for _, p := range points {
			bbox.Extend(p)
		}
		radius = bbox.Diagonal() * SphereRadiusRatio
	}

	for _, p := range points {
		m.AddSphere(p, radius)
	}
	return m
}
