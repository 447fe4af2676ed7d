package manifest

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/philipparndt/stlsnap/internal/config"
	"github.com/philipparndt/stlsnap/internal/snapshot"
	"github.com/philipparndt/stlsnap/pkg/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveRoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.Dir = "/data/stl"
	cfg.Wait = 1500 * time.Millisecond

	started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	report := &snapshot.Report{
		RunID:    uuid.MustParse("9b2f3c1e-4d5a-4b6c-8d7e-0f1a2b3c4d5e"),
		Started:  started,
		Finished: started.Add(8 * time.Second),
		Files: []snapshot.FileResult{{
			Name:    "part.stl",
			Outputs: []string{"/data/stl/part.stl_front.jpg", "/data/stl/part.stl_back.jpg"},
			Summary: &analysis.Summary{TriangleCount: 12},
		}},
	}

	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, Save(path, New(report, cfg, nil)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Manifest
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, FormatVersion, got.Version)
	assert.Equal(t, "9b2f3c1e-4d5a-4b6c-8d7e-0f1a2b3c4d5e", got.RunID)
	assert.True(t, got.Complete)
	assert.Empty(t, got.Error)
	assert.Equal(t, "/data/stl", got.OutputDir)
	assert.Equal(t, "1.5s", got.Settings.Wait)
	assert.Equal(t, 150.0, got.Settings.Distance)
	assert.Equal(t, 2, got.Screenshots)
	require.Len(t, got.Files, 1)
	assert.Equal(t, 12, got.Files[0].Summary.TriangleCount)
	assert.True(t, got.Started.Equal(started))
}

func TestNewWithError(t *testing.T) {
	report := &snapshot.Report{RunID: uuid.New()}
	m := New(report, config.Default(), errors.New("part.stl: import failed"))

	assert.False(t, m.Complete)
	assert.Equal(t, "part.stl: import failed", m.Error)
	assert.NotNil(t, m.Files)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"files":[]`)
}

func TestSaveIntoMissingDir(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "missing", "m.json"), New(&snapshot.Report{}, config.Default(), nil))
	assert.Error(t, err)
}
