package host

import (
	"context"
	"fmt"
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/philipparndt/stlsnap/internal/scene"
	"github.com/philipparndt/stlsnap/pkg/analysis"
)

const windowTitle = "stlsnap"

// Window is an interactive host backed by a fyne window. Redraw only
// schedules the new frame on the fyne main loop; a Capture issued right after
// it may still see the previous frame, which is what the driver's wait is for.
//
// NewWindow must be called on the main goroutine. All other methods are
// meant to be called from the driver goroutine while the app runs.
type Window struct {
	stage
	quality int

	app    fyne.App
	window fyne.Window
	image  *canvas.Image

	mu    sync.Mutex
	drawn bool
}

var (
	_ scene.Controller = (*Window)(nil)
	_ scene.Describer  = (*Window)(nil)
)

// NewWindow creates the viewport window in a
func NewWindow(a fyne.App, opts Options) *Window {
	st := newStage(opts)
	render := st.renderer.Options()

	blank := image.NewRGBA(image.Rect(0, 0, render.Width, render.Height))
	img := canvas.NewImageFromImage(blank)
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScaleSmooth

	win := a.NewWindow(windowTitle)
	win.SetPadded(false)
	win.SetContent(img)
	win.Resize(fyne.NewSize(float32(render.Width), float32(render.Height)))

	return &Window{
		stage:   st,
		quality: opts.Quality,
		app:     a,
		window:  win,
		image:   img,
	}
}

// Show makes the viewport visible
func (h *Window) Show() {
	h.window.Show()
}

// Clear removes the mesh
func (h *Window) Clear() error {
	if err := h.checkOpen(); err != nil {
		return err
	}
	h.clear()
	return nil
}

// Import loads a mesh file into the empty scene
func (h *Window) Import(ctx context.Context, path string) error {
	if err := h.checkOpen(); err != nil {
		return err
	}
	return h.importMesh(ctx, path)
}

// SetView selects the viewpoint used by the next Redraw
func (h *Window) SetView(v scene.Viewpoint) error {
	if err := h.checkOpen(); err != nil {
		return err
	}
	h.setView(v)
	return nil
}

// Redraw renders the scene and hands the frame to the fyne main loop
func (h *Window) Redraw() error {
	if err := h.checkOpen(); err != nil {
		return err
	}

	frame := h.render()
	title := windowTitle
	if h.source != "" && h.view != nil {
		title = fmt.Sprintf("%s - %s (%s)", windowTitle, h.source, h.view.Name)
	}

	fyne.Do(func() {
		h.image.Image = frame
		h.image.Refresh()
		h.window.SetTitle(title)

		h.mu.Lock()
		h.drawn = true
		h.mu.Unlock()
	})
	return nil
}

// Capture grabs the window canvas and writes it as JPEG
func (h *Window) Capture(path string) error {
	if err := h.checkOpen(); err != nil {
		return err
	}

	h.mu.Lock()
	drawn := h.drawn
	h.mu.Unlock()
	if !drawn {
		return ErrNoFrame
	}

	img := h.window.Canvas().Capture()
	if img == nil || img.Bounds().Empty() {
		return ErrNoFrame
	}
	return writeJPEG(path, img, h.quality)
}

// Quit closes the window and stops the fyne application
func (h *Window) Quit() error {
	if err := h.checkOpen(); err != nil {
		return err
	}
	h.closed = true
	h.clear()

	fyne.Do(func() {
		h.window.Close()
		h.app.Quit()
	})
	return nil
}

// Describe summarises the loaded mesh
func (h *Window) Describe() (analysis.Summary, error) {
	return h.describe()
}
