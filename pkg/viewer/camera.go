package viewer

import (
	"math"

	"github.com/philipparndt/stlsnap/pkg/geometry"
)

// fitMargin leaves some space around a fitted model
const fitMargin = 1.15

// Camera is an orthographic camera. View maps world space to view space in
// row-vector convention; the camera looks down -Z of view space. Distance is
// the extent of world units visible across the shorter image side.
type Camera struct {
	View     geometry.Matrix4
	Distance float64
	Target   geometry.Vector3 // world point shown at the image centre
}

// NewCamera creates a camera for a view transform and distance
func NewCamera(view geometry.Matrix4, distance float64) *Camera {
	return &Camera{
		View:     view,
		Distance: distance,
	}
}

// Fit sets the distance so the whole bounding box is visible from any side.
// It only applies when no positive distance was configured.
func (c *Camera) Fit(bbox geometry.BoundingBox) {
	if c.Distance > 0 {
		return
	}
	c.Distance = bbox.Diagonal() * fitMargin
	if c.Distance <= 0 {
		c.Distance = 1
	}
}

// scale returns pixels per world unit
func (c *Camera) scale(width, height float64) float64 {
	d := c.Distance
	if d <= 0 {
		d = 1
	}
	return math.Min(width, height) / d
}

// Project maps a world point to screen coordinates. The returned depth grows
// away from the camera.
func (c *Camera) Project(point geometry.Vector3, width, height float64) (float64, float64, float64) {
	v := c.View.TransformPoint(point.Sub(c.Target))
	s := c.scale(width, height)

	screenX := width/2 + v.X*s
	screenY := height/2 - v.Y*s

	return screenX, screenY, -v.Z
}

// Facing returns the cosine between a world normal and the view direction.
// Positive values face the camera.
func (c *Camera) Facing(normal geometry.Vector3) float64 {
	return c.View.TransformDirection(normal).Normalize().Z
}
