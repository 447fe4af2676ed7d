package config

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/philipparndt/stlsnap/internal/scene"
	"github.com/philipparndt/stlsnap/pkg/viewer"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete description of a snapshot run
type Config struct {
	Dir       string   // directory scanned for meshes
	OutputDir string   // where screenshots go; empty means Dir
	Patterns  []string // non-recursive glob patterns for mesh files

	// Wait is the pause between a redraw and the capture. It is a guess at
	// how long the host needs to repaint, not a completion signal.
	Wait time.Duration

	Zoom     float64 // view depth translation
	Distance float64 // orthographic extent; 0 fits each mesh
	Center   bool    // aim at the mesh bounding box centre instead of the origin

	Width       int
	Height      int
	Quality     int
	Supersample int
	Label       bool
	Background  string
	Color       string

	OpenSCAD string // binary used for .scad sources

	Window   bool
	Watch    bool
	Debounce time.Duration
	Manifest string

	LogLevel  string
	LogFormat string
}

// Default returns the settings of the original batch script
func Default() *Config {
	return &Config{
		Dir:         ".",
		Patterns:    []string{"*.stl"},
		Wait:        time.Second,
		Zoom:        -50,
		Distance:    150,
		Center:      true,
		Width:       1280,
		Height:      720,
		Quality:     90,
		Supersample: 2,
		Background:  "#3d3d3d",
		Color:       "#b4b4b4",
		OpenSCAD:    "openscad",
		Debounce:    500 * time.Millisecond,
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// Validate checks the configuration and returns an error wrapping ErrInvalid
func (c *Config) Validate() error {
	var problems []string

	if c.Dir == "" {
		problems = append(problems, "dir must not be empty")
	}
	if len(c.Patterns) == 0 {
		problems = append(problems, "at least one pattern is required")
	}
	for _, p := range c.Patterns {
		if strings.ContainsRune(p, filepath.Separator) || strings.Contains(p, "/") {
			problems = append(problems, fmt.Sprintf("pattern %q must not contain a path separator", p))
			continue
		}
		if _, err := filepath.Match(p, ""); err != nil {
			problems = append(problems, fmt.Sprintf("pattern %q: %v", p, err))
		}
	}
	if c.Wait < 0 {
		problems = append(problems, "wait must not be negative")
	}
	if c.Distance < 0 {
		problems = append(problems, "distance must not be negative")
	}
	if c.Width <= 0 || c.Height <= 0 {
		problems = append(problems, fmt.Sprintf("image size %dx%d must be positive", c.Width, c.Height))
	}
	if c.Quality < 1 || c.Quality > 100 {
		problems = append(problems, fmt.Sprintf("quality %d must be between 1 and 100", c.Quality))
	}
	if c.Supersample < 1 || c.Supersample > 8 {
		problems = append(problems, fmt.Sprintf("supersample %d must be between 1 and 8", c.Supersample))
	}
	if _, err := ParseColor(c.Background); err != nil {
		problems = append(problems, fmt.Sprintf("background: %v", err))
	}
	if _, err := ParseColor(c.Color); err != nil {
		problems = append(problems, fmt.Sprintf("color: %v", err))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log level %q must be debug, info, warn or error", c.LogLevel))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log format %q must be text or json", c.LogFormat))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// OutputRoot returns the directory screenshots are written to
func (c *Config) OutputRoot() string {
	if c.OutputDir != "" {
		return c.OutputDir
	}
	return c.Dir
}

// Viewpoints returns the fixed viewpoints with the configured zoom and distance
func (c *Config) Viewpoints() []scene.Viewpoint {
	return scene.DefaultViewpoints(c.Zoom, c.Distance)
}

// RenderOptions converts the image settings for the software renderer
func (c *Config) RenderOptions() (viewer.Options, error) {
	bg, err := ParseColor(c.Background)
	if err != nil {
		return viewer.Options{}, fmt.Errorf("background: %w", err)
	}
	fg, err := ParseColor(c.Color)
	if err != nil {
		return viewer.Options{}, fmt.Errorf("color: %w", err)
	}

	return viewer.Options{
		Width:       c.Width,
		Height:      c.Height,
		Supersample: c.Supersample,
		Background:  bg,
		Color:       fg,
		Label:       c.Label,
	}, nil
}

// ParseColor parses "#rrggbb" or "#rgb"
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("color %q must look like #rrggbb", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q must look like #rrggbb", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
