package analysis

import (
	"fmt"

	"github.com/philipparndt/stlsnap/pkg/geometry"
	"github.com/philipparndt/stlsnap/pkg/stl"
)

// Summary holds the statistics recorded for every processed mesh
type Summary struct {
	Name          string               `json:"name,omitempty"`
	TriangleCount int                  `json:"triangles"`
	BoundingBox   geometry.BoundingBox `json:"boundingBox"`
	Dimensions    geometry.Vector3     `json:"dimensions"`
	SurfaceArea   float64              `json:"surfaceArea"`
	Degenerate    int                  `json:"degenerate,omitempty"`
}

// Summarize computes the summary of a model
func Summarize(model *stl.Model) Summary {
	s := Summary{
		Name:          model.Name,
		TriangleCount: model.TriangleCount(),
		BoundingBox:   model.BoundingBox(),
		SurfaceArea:   model.SurfaceArea(),
	}
	s.Dimensions = s.BoundingBox.Size()

	for _, t := range model.Triangles {
		if t.Area() == 0 {
			s.Degenerate++
		}
	}

	if s.TriangleCount == 0 {
		s.BoundingBox = geometry.BoundingBox{}
	}
	return s
}

// FormatVector formats a vector for display
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}

// String renders the summary on one line for log output
func (s Summary) String() string {
	return fmt.Sprintf("%d triangles, size %s, area %.3f", s.TriangleCount, FormatVector(s.Dimensions), s.SurfaceArea)
}
