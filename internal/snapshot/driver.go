package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/philipparndt/stlsnap/internal/config"
	"github.com/philipparndt/stlsnap/internal/ctxlog"
	"github.com/philipparndt/stlsnap/internal/scene"
	"github.com/philipparndt/stlsnap/pkg/analysis"
	"github.com/philipparndt/stlsnap/pkg/watcher"
)

// WaitFunc pauses between a redraw and the capture
type WaitFunc func(ctx context.Context, d time.Duration) error

// FileResult describes the screenshots taken for one mesh file
type FileResult struct {
	Name    string            `json:"name"`
	Outputs []string          `json:"outputs"`
	Summary *analysis.Summary `json:"summary,omitempty"`
}

// Report is the outcome of a run. On failure it holds the files completed
// before the error.
type Report struct {
	RunID    uuid.UUID    `json:"runId"`
	Started  time.Time    `json:"started"`
	Finished time.Time    `json:"finished"`
	Files    []FileResult `json:"files"`
}

// Captures returns the total number of screenshots in the report
func (r *Report) Captures() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Outputs)
	}
	return n
}

// Driver runs import/orient/capture cycles against a scene controller
type Driver struct {
	host  scene.Controller
	cfg   *config.Config
	views []scene.Viewpoint
	wait  WaitFunc
	now   func() time.Time
}

// Option customises a Driver
type Option func(*Driver)

// WithWait replaces the pause after each redraw
func WithWait(fn WaitFunc) Option {
	return func(d *Driver) { d.wait = fn }
}

// WithClock replaces the clock used for report timestamps
func WithClock(now func() time.Time) Option {
	return func(d *Driver) { d.now = now }
}

// New creates a driver for host. The viewpoints are fixed at construction.
func New(host scene.Controller, cfg *config.Config, opts ...Option) *Driver {
	d := &Driver{
		host:  host,
		cfg:   cfg,
		views: cfg.Viewpoints(),
		wait:  sleep,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// OutputName is the screenshot file name for a mesh file and viewpoint
func OutputName(file, view string) string {
	return file + "_" + view + ".jpg"
}

// Discover lists the mesh files of the working directory in lexical order.
// Subdirectories are not searched.
func (d *Driver) Discover() ([]string, error) {
	entries, err := os.ReadDir(d.cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", d.cfg.Dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if watcher.Matches(e.Name(), d.cfg.Patterns) {
			files = append(files, e.Name())
		}
	}
	return files, nil
}

// Run processes every mesh file, optionally keeps watching the directory,
// and finally quits the host. Quit is not issued when the batch fails.
func (d *Driver) Run(ctx context.Context) (*Report, error) {
	logger := ctxlog.FromContext(ctx)
	report := &Report{
		RunID:   uuid.New(),
		Started: d.now(),
		Files:   []FileResult{},
	}
	defer func() { report.Finished = d.now() }()

	files, err := d.Discover()
	if err != nil {
		return report, err
	}
	if d.cfg.OutputDir != "" {
		if err := os.MkdirAll(d.cfg.OutputDir, 0o755); err != nil {
			return report, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	logger.Info("Starting snapshot run.", "run_id", report.RunID, "dir", d.cfg.Dir, "files", len(files))

	for _, name := range files {
		res, err := d.Process(ctx, name)
		if err != nil {
			return report, err
		}
		report.Files = append(report.Files, res)
	}

	if d.cfg.Watch {
		if err := d.watch(ctx, report); err != nil {
			return report, err
		}
	}

	if err := d.host.Quit(); err != nil {
		return report, fmt.Errorf("failed to quit host: %w", err)
	}

	logger.Info("Snapshot run complete.", "run_id", report.RunID, "files", len(report.Files), "captures", report.Captures())
	return report, nil
}

// Process runs one clear/import/capture cycle for a file of the working
// directory
func (d *Driver) Process(ctx context.Context, name string) (FileResult, error) {
	logger := ctxlog.FromContext(ctx).With("file", name)
	res := FileResult{Name: name}

	if err := ctx.Err(); err != nil {
		return res, err
	}

	if err := d.host.Clear(); err != nil {
		return res, fmt.Errorf("%s: clear scene: %w", name, err)
	}
	if err := d.host.Import(ctx, filepath.Join(d.cfg.Dir, name)); err != nil {
		return res, fmt.Errorf("%s: %w", name, err)
	}

	if describer, ok := d.host.(scene.Describer); ok {
		if summary, err := describer.Describe(); err == nil {
			res.Summary = &summary
			logger.Debug("Mesh loaded.", "summary", summary.String())
		}
	}

	for _, v := range d.views {
		out, err := d.capture(ctx, name, v)
		if err != nil {
			return res, fmt.Errorf("%s (%s): %w", name, v.Name, err)
		}
		res.Outputs = append(res.Outputs, out)
	}

	logger.Info("Snapshots written.", "count", len(res.Outputs))
	return res, nil
}

func (d *Driver) capture(ctx context.Context, name string, v scene.Viewpoint) (string, error) {
	if err := d.host.SetView(v); err != nil {
		return "", fmt.Errorf("set view: %w", err)
	}
	if err := d.host.Redraw(); err != nil {
		return "", fmt.Errorf("redraw: %w", err)
	}
	if err := d.wait(ctx, d.cfg.Wait); err != nil {
		return "", err
	}

	out := filepath.Join(d.cfg.OutputRoot(), OutputName(name, v.Name))
	if _, err := os.Stat(out); err == nil {
		ctxlog.FromContext(ctx).Debug("Overwriting existing snapshot.", "path", out)
	}
	if err := d.host.Capture(out); err != nil {
		return "", fmt.Errorf("capture: %w", err)
	}
	return out, nil
}

// watch re-processes files that change until ctx is cancelled. A file that
// fails to process is logged and skipped, since it is often still being
// written.
func (d *Driver) watch(ctx context.Context, report *Report) error {
	logger := ctxlog.FromContext(ctx)

	w, err := watcher.NewDirWatcher(d.cfg.Dir, d.cfg.Patterns, d.cfg.Debounce)
	if err != nil {
		return err
	}
	defer w.Close()
	w.Start()

	logger.Info("Watching for mesh changes.", "dir", d.cfg.Dir)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopped watching.")
			return nil

		case name := <-w.Changes():
			res, err := d.Process(ctx, name)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			if err != nil {
				logger.Warn("Failed to process changed mesh.", "file", name, "error", err)
				continue
			}
			report.Files = append(report.Files, res)

		case err := <-w.Errors():
			return fmt.Errorf("watching %s: %w", d.cfg.Dir, err)
		}
	}
}

// sleep waits for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
