package host

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/philipparndt/stlsnap/internal/config"
	"github.com/philipparndt/stlsnap/internal/ctxlog"
	"github.com/philipparndt/stlsnap/internal/scene"
	"github.com/philipparndt/stlsnap/pkg/analysis"
	"github.com/philipparndt/stlsnap/pkg/geometry"
	"github.com/philipparndt/stlsnap/pkg/openscad"
	"github.com/philipparndt/stlsnap/pkg/stl"
	"github.com/philipparndt/stlsnap/pkg/viewer"
)

var (
	// ErrClosed is returned by every operation after Quit
	ErrClosed = errors.New("host has quit")
	// ErrNoFrame is returned by Capture before anything was drawn
	ErrNoFrame = errors.New("nothing has been drawn yet")
)

// Options configure a host
type Options struct {
	Render   viewer.Options
	Quality  int  // JPEG quality, 1-100
	Center   bool // aim the camera at the mesh centre
	OpenSCAD string
}

// OptionsFromConfig derives host options from a run configuration
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	render, err := cfg.RenderOptions()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Render:   render,
		Quality:  cfg.Quality,
		Center:   cfg.Center,
		OpenSCAD: cfg.OpenSCAD,
	}, nil
}

// stage is the scene state shared by all hosts: at most one mesh and the
// current viewpoint
type stage struct {
	renderer *viewer.Renderer
	scad     *openscad.Renderer
	center   bool

	model  *stl.Model
	source string
	view   *scene.Viewpoint
	closed bool
}

func newStage(opts Options) stage {
	return stage{
		renderer: viewer.NewRenderer(opts.Render),
		scad:     openscad.NewRenderer(opts.OpenSCAD),
		center:   opts.Center,
	}
}

func (s *stage) checkOpen() error {
	if s.closed {
		return ErrClosed
	}
	return nil
}

func (s *stage) clear() {
	s.model = nil
	s.source = ""
}

func (s *stage) importMesh(ctx context.Context, path string) error {
	if s.model != nil {
		return fmt.Errorf("import %s: %w", path, scene.ErrSceneNotEmpty)
	}

	model, err := s.load(ctx, path)
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}

	ctxlog.FromContext(ctx).Debug("Mesh imported.", "path", path, "triangles", model.TriangleCount())
	s.model = model
	s.source = filepath.Base(path)
	return nil
}

// load dispatches on the file extension
func (s *stage) load(ctx context.Context, path string) (*stl.Model, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".scad":
		tmp, err := s.scad.RenderToTemp(ctx, path)
		if err != nil {
			return nil, err
		}
		defer os.Remove(tmp)
		return stl.ParseFile(tmp)
	default:
		return stl.ParseFile(path)
	}
}

func (s *stage) setView(v scene.Viewpoint) {
	s.view = &v
}

// camera builds the camera for the current viewpoint and mesh. Without a
// viewpoint the host shows the untransformed world, fitted to the mesh.
func (s *stage) camera() *viewer.Camera {
	cam := viewer.NewCamera(geometry.Identity(), 0)
	if s.view != nil {
		cam = viewer.NewCamera(s.view.View, s.view.Distance)
	}

	if s.model != nil {
		bbox := s.model.BoundingBox()
		if s.center {
			cam.Target = bbox.Center()
		}
		cam.Fit(bbox)
	}
	return cam
}

func (s *stage) render() *image.RGBA {
	label := ""
	if s.view != nil {
		label = s.view.Name
	}
	return s.renderer.Render(s.model, s.camera(), label)
}

func (s *stage) describe() (analysis.Summary, error) {
	if err := s.checkOpen(); err != nil {
		return analysis.Summary{}, err
	}
	if s.model == nil {
		return analysis.Summary{}, scene.ErrNoMesh
	}
	return analysis.Summarize(s.model), nil
}
