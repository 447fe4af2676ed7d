// Package manifest persists the outcome of a snapshot run as JSON next to
// the screenshots.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/philipparndt/stlsnap/internal/config"
	"github.com/philipparndt/stlsnap/internal/snapshot"
	"github.com/philipparndt/stlsnap/version"
)

// FormatVersion is bumped whenever the JSON layout changes
const FormatVersion = "1.0"

// Manifest is the JSON document written after a run
type Manifest struct {
	Version     string                `json:"version"`
	Tool        string                `json:"tool"`
	RunID       string                `json:"runId"`
	Started     time.Time             `json:"started"`
	Finished    time.Time             `json:"finished"`
	Complete    bool                  `json:"complete"`
	Error       string                `json:"error,omitempty"`
	Dir         string                `json:"dir"`
	OutputDir   string                `json:"outputDir"`
	Settings    Settings              `json:"settings"`
	Files       []snapshot.FileResult `json:"files"`
	Screenshots int                   `json:"screenshots"`
}

// Settings records the parameters that shape the screenshots
type Settings struct {
	Patterns []string `json:"patterns"`
	Wait     string   `json:"wait"`
	Zoom     float64  `json:"zoom"`
	Distance float64  `json:"distance"`
	Center   bool     `json:"center"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Quality  int      `json:"quality"`
}

// New builds a manifest from a run report. runErr is the error the run
// ended with, if any.
func New(report *snapshot.Report, cfg *config.Config, runErr error) Manifest {
	m := Manifest{
		Version:   FormatVersion,
		Tool:      "stlsnap " + version.GetVersion(),
		RunID:     report.RunID.String(),
		Started:   report.Started,
		Finished:  report.Finished,
		Complete:  runErr == nil,
		Dir:       cfg.Dir,
		OutputDir: cfg.OutputRoot(),
		Settings: Settings{
			Patterns: cfg.Patterns,
			Wait:     cfg.Wait.String(),
			Zoom:     cfg.Zoom,
			Distance: cfg.Distance,
			Center:   cfg.Center,
			Width:    cfg.Width,
			Height:   cfg.Height,
			Quality:  cfg.Quality,
		},
		Files:       report.Files,
		Screenshots: report.Captures(),
	}
	if runErr != nil {
		m.Error = runErr.Error()
	}
	if m.Files == nil {
		m.Files = []snapshot.FileResult{}
	}
	return m
}

// Save writes the manifest as indented JSON
func Save(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write manifest file: %w", err)
	}
	return nil
}
