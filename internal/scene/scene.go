// Package scene defines the capability a snapshot run needs from a 3D host:
// a single-mesh scene that can be cleared, loaded, pointed at a viewpoint,
// redrawn and captured.
package scene

import (
	"context"
	"errors"

	"github.com/philipparndt/stlsnap/pkg/analysis"
)

var (
	// ErrSceneNotEmpty is returned by Import when a mesh is already loaded
	ErrSceneNotEmpty = errors.New("scene already holds a mesh")
	// ErrNoMesh is returned when an operation needs a loaded mesh
	ErrNoMesh = errors.New("no mesh loaded")
)

// Controller is implemented by every host the driver can run against.
// Calls are made from a single goroutine.
type Controller interface {
	// Clear removes every object from the scene
	Clear() error
	// Import loads the mesh file at path into an empty scene
	Import(ctx context.Context, path string) error
	// SetView switches to orthographic projection with the viewpoint's
	// transform and distance
	SetView(v Viewpoint) error
	// Redraw asks the host to repaint the viewport. Hosts may return before
	// the new frame is visible.
	Redraw() error
	// Capture writes the current viewport to an image file
	Capture(path string) error
	// Quit terminates the host
	Quit() error
}

// Describer is implemented by hosts that can report on the loaded mesh
type Describer interface {
	Describe() (analysis.Summary, error)
}
