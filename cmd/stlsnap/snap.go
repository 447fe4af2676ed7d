package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/philipparndt/stlsnap/internal/config"
	"github.com/philipparndt/stlsnap/internal/ctxlog"
	"github.com/philipparndt/stlsnap/internal/host"
	"github.com/philipparndt/stlsnap/internal/manifest"
	"github.com/philipparndt/stlsnap/internal/scene"
	"github.com/philipparndt/stlsnap/internal/snapshot"
	"github.com/spf13/cobra"
)

const appID = "com.github.philipparndt.stlsnap"

// snapOptions holds the raw flag values. Only flags the user actually set
// override the configuration file.
type snapOptions struct {
	configFile  string
	output      string
	patterns    []string
	wait        time.Duration
	zoom        float64
	distance    float64
	center      bool
	width       int
	height      int
	quality     int
	supersample int
	label       bool
	background  string
	color       string
	openscad    string
	window      bool
	watch       bool
	debounce    time.Duration
	manifest    string
	logLevel    string
	logFormat   string
}

func addSnapFlags(cmd *cobra.Command, o *snapOptions) {
	def := config.Default()
	f := cmd.PersistentFlags()

	f.StringVarP(&o.output, "output", "o", "", "directory for screenshots (default: the input directory)")
	f.StringSliceVar(&o.patterns, "pattern", def.Patterns, "mesh file pattern, repeatable")
	f.DurationVar(&o.wait, "wait", def.Wait, "pause between redraw and capture")
	f.Float64Var(&o.zoom, "zoom", def.Zoom, "view translation depth")
	f.Float64Var(&o.distance, "distance", def.Distance, "orthographic camera distance, 0 fits each mesh")
	f.BoolVar(&o.center, "center", def.Center, "aim at the mesh centre instead of the origin")
	f.IntVar(&o.width, "width", def.Width, "screenshot width in pixels")
	f.IntVar(&o.height, "height", def.Height, "screenshot height in pixels")
	f.IntVar(&o.quality, "quality", def.Quality, "JPEG quality (1-100)")
	f.IntVar(&o.supersample, "supersample", def.Supersample, "render at this multiple of the size and scale down")
	f.BoolVar(&o.label, "label", def.Label, "stamp the viewpoint name onto each screenshot")
	f.StringVar(&o.background, "background", def.Background, "background colour")
	f.StringVar(&o.color, "color", def.Color, "mesh colour")
	f.StringVar(&o.openscad, "openscad", def.OpenSCAD, "openscad binary used for *.scad patterns")
	f.BoolVar(&o.window, "window", def.Window, "show the viewport in a window and capture from it")
	f.BoolVar(&o.watch, "watch", def.Watch, "keep running and re-snapshot meshes when they change")
	f.DurationVar(&o.debounce, "debounce", def.Debounce, "quiet period before a changed mesh is processed")
	f.StringVar(&o.manifest, "manifest", "", "write a JSON run manifest to this file")
	f.StringVar(&o.logLevel, "log-level", def.LogLevel, "log level: debug, info, warn or error")
	f.StringVar(&o.logFormat, "log-format", def.LogFormat, "log format: text or json")
}

// buildConfig layers defaults, the config file, flags and the positional
// directory, in that order
func buildConfig(cmd *cobra.Command, args []string, o *snapOptions) (*config.Config, error) {
	cfg := config.Default()
	if o.configFile != "" {
		loaded, err := config.Load(o.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}

	if changed("output") {
		cfg.OutputDir = o.output
	}
	if changed("pattern") {
		cfg.Patterns = o.patterns
	}
	if changed("wait") {
		cfg.Wait = o.wait
	}
	if changed("zoom") {
		cfg.Zoom = o.zoom
	}
	if changed("distance") {
		cfg.Distance = o.distance
	}
	if changed("center") {
		cfg.Center = o.center
	}
	if changed("width") {
		cfg.Width = o.width
	}
	if changed("height") {
		cfg.Height = o.height
	}
	if changed("quality") {
		cfg.Quality = o.quality
	}
	if changed("supersample") {
		cfg.Supersample = o.supersample
	}
	if changed("label") {
		cfg.Label = o.label
	}
	if changed("background") {
		cfg.Background = o.background
	}
	if changed("color") {
		cfg.Color = o.color
	}
	if changed("openscad") {
		cfg.OpenSCAD = o.openscad
	}
	if changed("window") {
		cfg.Window = o.window
	}
	if changed("watch") {
		cfg.Watch = o.watch
	}
	if changed("debounce") {
		cfg.Debounce = o.debounce
	}
	if changed("manifest") {
		cfg.Manifest = o.manifest
	}
	if changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if changed("log-format") {
		cfg.LogFormat = o.logFormat
	}
	if len(args) > 0 {
		cfg.Dir = args[0]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSnap(cmd *cobra.Command, args []string, o *snapOptions) error {
	cfg, err := buildConfig(cmd, args, o)
	if err != nil {
		return err
	}

	logger := ctxlog.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = ctxlog.WithLogger(ctx, logger)

	hostOpts, err := host.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}

	if cfg.Window {
		return runWindow(ctx, cfg, hostOpts)
	}
	return execute(ctx, cfg, host.NewSoftware(hostOpts))
}

// runWindow runs the fyne event loop on the calling goroutine and the batch
// on another one. Closing the window cancels the batch.
func runWindow(ctx context.Context, cfg *config.Config, opts host.Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a := app.NewWithID(appID)
	win := host.NewWindow(a, opts)
	win.Show()

	errc := make(chan error, 1)
	go func() {
		err := execute(ctx, cfg, win)
		if err != nil && ctx.Err() == nil {
			// the driver leaves the host running on failure, but the
			// process still has to end
			fyne.Do(a.Quit)
		}
		errc <- err
	}()

	a.Run()
	cancel()
	return <-errc
}

// execute runs the batch against h and writes the manifest, if requested,
// whether or not the batch succeeded
func execute(ctx context.Context, cfg *config.Config, h scene.Controller) error {
	logger := ctxlog.FromContext(ctx)

	report, runErr := snapshot.New(h, cfg).Run(ctx)

	if cfg.Manifest != "" {
		path := cfg.Manifest
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.OutputRoot(), path)
		}
		if err := manifest.Save(path, manifest.New(report, cfg, runErr)); err != nil {
			if runErr == nil {
				return err
			}
			logger.Error("Failed to write manifest.", "path", path, "error", err)
		} else {
			logger.Debug("Manifest written.", "path", path)
		}
	}

	if runErr != nil {
		return fmt.Errorf("snapshot run failed: %w", runErr)
	}
	return nil
}
