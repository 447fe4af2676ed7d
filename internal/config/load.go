package config

import (
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// hclFile is the layout of a configuration file. Every attribute is
// optional; absent ones keep the value already in the Config.
type hclFile struct {
	Dir      *string    `hcl:"dir,optional"`
	Output   *string    `hcl:"output,optional"`
	Patterns *[]string  `hcl:"patterns,optional"`
	Wait     *string    `hcl:"wait,optional"`
	OpenSCAD *string    `hcl:"openscad,optional"`
	Manifest *string    `hcl:"manifest,optional"`
	Window   *bool      `hcl:"window,optional"`
	Camera   *hclCamera `hcl:"camera,block"`
	Image    *hclImage  `hcl:"image,block"`
	Watch    *hclWatch  `hcl:"watch,block"`
	Log      *hclLog    `hcl:"log,block"`
}

type hclCamera struct {
	Zoom     *float64 `hcl:"zoom,optional"`
	Distance *float64 `hcl:"distance,optional"`
	Center   *bool    `hcl:"center,optional"`
}

type hclImage struct {
	Width       *int    `hcl:"width,optional"`
	Height      *int    `hcl:"height,optional"`
	Quality     *int    `hcl:"quality,optional"`
	Supersample *int    `hcl:"supersample,optional"`
	Label       *bool   `hcl:"label,optional"`
	Background  *string `hcl:"background,optional"`
	Color       *string `hcl:"color,optional"`
}

type hclWatch struct {
	Enabled  *bool   `hcl:"enabled,optional"`
	Debounce *string `hcl:"debounce,optional"`
}

type hclLog struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

// Load reads an HCL file on top of Default
func Load(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.Merge(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge overlays the attributes present in the HCL file at path
func (c *Config) Merge(path string) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}

	var parsed hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return fmt.Errorf("failed to decode config file %s: %w", path, diags)
	}

	return c.apply(&parsed)
}

func (c *Config) apply(f *hclFile) error {
	setValue(&c.Dir, f.Dir)
	setValue(&c.OutputDir, f.Output)
	setValue(&c.OpenSCAD, f.OpenSCAD)
	setValue(&c.Manifest, f.Manifest)
	setValue(&c.Window, f.Window)
	if f.Patterns != nil {
		c.Patterns = append([]string(nil), (*f.Patterns)...)
	}
	if err := setDuration(&c.Wait, f.Wait, "wait"); err != nil {
		return err
	}

	if cam := f.Camera; cam != nil {
		setValue(&c.Zoom, cam.Zoom)
		setValue(&c.Distance, cam.Distance)
		setValue(&c.Center, cam.Center)
	}

	if img := f.Image; img != nil {
		setValue(&c.Width, img.Width)
		setValue(&c.Height, img.Height)
		setValue(&c.Quality, img.Quality)
		setValue(&c.Supersample, img.Supersample)
		setValue(&c.Label, img.Label)
		setValue(&c.Background, img.Background)
		setValue(&c.Color, img.Color)
	}

	if w := f.Watch; w != nil {
		setValue(&c.Watch, w.Enabled)
		if err := setDuration(&c.Debounce, w.Debounce, "watch.debounce"); err != nil {
			return err
		}
	}

	if l := f.Log; l != nil {
		setValue(&c.LogLevel, l.Level)
		setValue(&c.LogFormat, l.Format)
	}

	return nil
}

func setValue[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *string, name string) error {
	if src == nil {
		return nil
	}
	d, err := time.ParseDuration(*src)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, name, err)
	}
	*dst = d
	return nil
}
