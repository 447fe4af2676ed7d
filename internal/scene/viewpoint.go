package scene

import (
	"fmt"

	"github.com/philipparndt/stlsnap/pkg/geometry"
)

// Names of the fixed viewpoints, in capture order
const (
	Front = "front"
	Back  = "back"
	Right = "right"
	Left  = "left"
)

// ViewpointNames lists the fixed capture order
var ViewpointNames = []string{Front, Back, Right, Left}

// Viewpoint is a named orthographic camera orientation. View uses row-vector
// convention with the translation (the zoom depth) in the last row.
type Viewpoint struct {
	Name     string
	View     geometry.Matrix4
	Distance float64
}

// orientations holds the rotation rows of every fixed viewpoint. Z is up in
// all of them.
var orientations = map[string][3][3]float64{
	Front: {{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	Back:  {{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	Right: {{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	Left:  {{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
}

// NewViewpoint builds one of the fixed viewpoints by name
func NewViewpoint(name string, zoom, distance float64) (Viewpoint, error) {
	rot, ok := orientations[name]
	if !ok {
		return Viewpoint{}, fmt.Errorf("unknown viewpoint %q", name)
	}

	return Viewpoint{
		Name: name,
		View: geometry.MatrixFromRows(
			[4]float64{rot[0][0], rot[0][1], rot[0][2], 0},
			[4]float64{rot[1][0], rot[1][1], rot[1][2], 0},
			[4]float64{rot[2][0], rot[2][1], rot[2][2], 0},
			[4]float64{0, 0, 0, 1},
		).WithTranslation(geometry.NewVector3(0, 0, zoom)),
		Distance: distance,
	}, nil
}

// DefaultViewpoints returns front, back, right and left in that order
func DefaultViewpoints(zoom, distance float64) []Viewpoint {
	views := make([]Viewpoint, 0, len(ViewpointNames))
	for _, name := range ViewpointNames {
		v, err := NewViewpoint(name, zoom, distance)
		if err != nil {
			panic(err)
		}
		views = append(views, v)
	}
	return views
}
