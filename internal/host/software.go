package host

import (
	"context"
	"image"

	"github.com/philipparndt/stlsnap/internal/scene"
	"github.com/philipparndt/stlsnap/pkg/analysis"
)

// Software is a headless host. Redraw renders synchronously, so no wait is
// needed between Redraw and Capture.
type Software struct {
	stage
	quality int
	frame   *image.RGBA
}

var (
	_ scene.Controller = (*Software)(nil)
	_ scene.Describer  = (*Software)(nil)
)

// NewSoftware creates a headless host
func NewSoftware(opts Options) *Software {
	return &Software{
		stage:   newStage(opts),
		quality: opts.Quality,
	}
}

// Clear removes the mesh and the last frame
func (h *Software) Clear() error {
	if err := h.checkOpen(); err != nil {
		return err
	}
	h.clear()
	h.frame = nil
	return nil
}

// Import loads an STL (or OpenSCAD) file into the empty scene
func (h *Software) Import(ctx context.Context, path string) error {
	if err := h.checkOpen(); err != nil {
		return err
	}
	return h.importMesh(ctx, path)
}

// SetView selects the viewpoint used by the next Redraw
func (h *Software) SetView(v scene.Viewpoint) error {
	if err := h.checkOpen(); err != nil {
		return err
	}
	h.setView(v)
	return nil
}

// Redraw renders the current scene
func (h *Software) Redraw() error {
	if err := h.checkOpen(); err != nil {
		return err
	}
	h.frame = h.render()
	return nil
}

// Capture writes the last rendered frame as JPEG
func (h *Software) Capture(path string) error {
	if err := h.checkOpen(); err != nil {
		return err
	}
	if h.frame == nil {
		return ErrNoFrame
	}
	return writeJPEG(path, h.frame, h.quality)
}

// Quit closes the host; later calls fail with ErrClosed
func (h *Software) Quit() error {
	if err := h.checkOpen(); err != nil {
		return err
	}
	h.closed = true
	h.clear()
	h.frame = nil
	return nil
}

// Describe summarises the loaded mesh
func (h *Software) Describe() (analysis.Summary, error) {
	return h.describe()
}
