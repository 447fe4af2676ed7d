package viewer

import (
	"image"
	"image/color"
	"math"

	"github.com/philipparndt/stlsnap/pkg/stl"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	ambient = 0.25
	diffuse = 0.75
)

// Options control the frames produced by a Renderer
type Options struct {
	Width       int
	Height      int
	Supersample int // render at this multiple and scale down
	Background  color.RGBA
	Color       color.RGBA
	Label       bool // stamp the view name in the lower left corner
}

// DefaultOptions returns the frame settings used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Width:       1280,
		Height:      720,
		Supersample: 2,
		Background:  color.RGBA{61, 61, 61, 255},
		Color:       color.RGBA{180, 180, 180, 255},
	}
}

// Renderer draws STL models into images without any GPU or window
type Renderer struct {
	opts Options
}

// NewRenderer creates a renderer. Non-positive sizes fall back to the defaults.
func NewRenderer(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.Supersample < 1 {
		opts.Supersample = 1
	}
	return &Renderer{opts: opts}
}

// Options returns the effective options
func (r *Renderer) Options() Options {
	return r.opts
}

// Render draws model as seen by cam. A nil model yields an empty frame, the
// same as capturing a cleared scene.
func (r *Renderer) Render(model *stl.Model, cam *Camera, label string) *image.RGBA {
	s := r.opts.Supersample
	w, h := r.opts.Width*s, r.opts.Height*s

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(r.opts.Background), image.Point{}, draw.Src)

	if model != nil && cam != nil {
		zbuffer := make([]float64, w*h)
		for i := range zbuffer {
			zbuffer[i] = math.Inf(1)
		}

		fw, fh := float64(w), float64(h)
		for _, tri := range model.Triangles {
			var pts [3]vertex
			for i, v := range tri.Vertices() {
				x, y, z := cam.Project(v, fw, fh)
				pts[i] = vertex{x, y, z}
			}

			// STL winding is unreliable, so light both sides
			facing := math.Abs(cam.Facing(tri.FaceNormal()))
			col := shade(r.opts.Color, ambient+diffuse*facing)

			fillTriangleWithDepth(img, zbuffer, pts[0], pts[1], pts[2], col)
		}
	}

	if s > 1 {
		dst := image.NewRGBA(image.Rect(0, 0, r.opts.Width, r.opts.Height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		img = dst
	}

	if r.opts.Label && label != "" {
		drawLabel(img, label, r.opts.Background)
	}

	return img
}

// drawLabel writes text in the lower left corner in a colour that contrasts
// with the background
func drawLabel(img *image.RGBA, text string, background color.RGBA) {
	ink := color.RGBA{255, 255, 255, 255}
	if luminance(background) > 0.5 {
		ink = color.RGBA{0, 0, 0, 255}
	}

	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(ink),
		Face: face,
		Dot:  fixed.P(8, img.Bounds().Dy()-8),
	}
	d.DrawString(text)
}

func luminance(c color.RGBA) float64 {
	return (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
}
