package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/philipparndt/stlsnap/internal/config"
	"github.com/philipparndt/stlsnap/internal/manifest"
	"github.com/philipparndt/stlsnap/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parsed(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	cmd, opts := newCommand()
	require.NoError(t, cmd.ParseFlags(args))
	return buildConfig(cmd, cmd.Flags().Args(), opts)
}

func TestBuildConfigDefaults(t *testing.T) {
	cfg, err := parsed(t)
	require.NoError(t, err)

	assert.Equal(t, config.Default(), cfg)
}

func TestBuildConfigFlags(t *testing.T) {
	cfg, err := parsed(t,
		"--wait", "250ms",
		"--zoom", "-20",
		"--distance", "0",
		"--width", "320",
		"--height", "200",
		"--pattern", "*.stl,*.scad",
		"-o", "shots",
		"models",
	)
	require.NoError(t, err)

	assert.Equal(t, "models", cfg.Dir)
	assert.Equal(t, "shots", cfg.OutputDir)
	assert.Equal(t, 250*time.Millisecond, cfg.Wait)
	assert.Equal(t, -20.0, cfg.Zoom)
	assert.Equal(t, 0.0, cfg.Distance)
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
	assert.Equal(t, []string{"*.stl", "*.scad"}, cfg.Patterns)
}

func TestBuildConfigFileThenFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stlsnap.hcl")
	body := `
wait   = "3s"
window = true

camera {
  zoom     = -80
  distance = 200
}
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := parsed(t, "-c", path, "--distance", "90")
	require.NoError(t, err)
	assert.True(t, cfg.Window, "window can come from the file")

	assert.Equal(t, 3*time.Second, cfg.Wait)
	assert.Equal(t, -80.0, cfg.Zoom)
	assert.Equal(t, 90.0, cfg.Distance, "flags win over the file")
}

func TestBuildConfigInvalid(t *testing.T) {
	_, err := parsed(t, "--quality", "0")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalid)

	_, err = parsed(t, "-c", filepath.Join(t.TempDir(), "missing.hcl"))
	require.Error(t, err)
}

func TestRunSoftware(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSTL(t, dir, "cube.stl", testutil.Cube("cube", 20))
	testutil.WriteSTL(t, dir, "block.stl", testutil.Cube("block", 10))

	cmd := newRootCmd()
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{
		dir,
		"--wait", "0",
		"--width", "64",
		"--height", "48",
		"--supersample", "1",
		"--manifest", "run.json",
		"--log-format", "json",
	})
	require.NoError(t, cmd.Execute())

	for _, file := range []string{"block.stl", "cube.stl"} {
		for _, view := range []string{"front", "back", "right", "left"} {
			assert.FileExists(t, filepath.Join(dir, file+"_"+view+".jpg"))
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "run.json"))
	require.NoError(t, err)
	var m manifest.Manifest
	require.NoError(t, json.Unmarshal(data, &m))
	assert.True(t, m.Complete)
	assert.Equal(t, 8, m.Screenshots)
	require.Len(t, m.Files, 2)
	assert.Equal(t, "block.stl", m.Files[0].Name)

	assert.Contains(t, stderr.String(), `"msg":"Snapshot run complete."`)
}

func TestRunSoftwareFailureWritesManifest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.stl"), []byte("solid x\nfacet normal 0 0 1\nouter loop\nvertex 0 0 0\nendloop\nendfacet\nendsolid x\n"), 0o644))

	cmd := newRootCmd()
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{dir, "--wait", "0", "--width", "32", "--height", "32", "--manifest", "run.json"})
	err := cmd.Execute()
	require.Error(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "run.json"))
	require.NoError(t, err)
	var m manifest.Manifest
	require.NoError(t, json.Unmarshal(data, &m))
	assert.False(t, m.Complete)
	assert.NotEmpty(t, m.Error)
	assert.Zero(t, m.Screenshots)
}

func TestViewsCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"views", "--zoom", "-10"})
	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[1], "front"))
	assert.True(t, strings.HasPrefix(lines[4], "left"))
	assert.Contains(t, lines[1], "(0, 0, -10, 1)")
	assert.Equal(t, []string{"front", "150", "-10"}, strings.Fields(lines[1])[:3])
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			cmd := newRootCmd()
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetArgs([]string{"completion", shell})
			require.NoError(t, cmd.Execute())
			assert.NotEmpty(t, out.String())
		})
	}

	cmd := newRootCmd()
	cmd.SetArgs([]string{"completion", "tcsh"})
	require.Error(t, cmd.Execute())
}

func TestDumpThenSnap(t *testing.T) {
	dir := t.TempDir()

	run := func(args ...string) string {
		t.Helper()
		cmd := newRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(args)
		require.NoError(t, cmd.Execute())
		return out.String()
	}

	written := strings.Fields(run("dump", dir))
	require.Len(t, written, 8)
	assert.Contains(t, written, filepath.Join(dir, "dumpStlExample_cube.stl"))
	assert.Contains(t, written, filepath.Join(dir, "dumpStlExample_directionChain_2.stl"))

	// a second run keeps the indexed chains
	again := strings.Fields(run("dump", dir))
	assert.Contains(t, again, filepath.Join(dir, "dumpStlExample_directionChain_5.stl"))

	run(dir, "--wait", "0", "--width", "48", "--height", "32", "--supersample", "1")

	for _, name := range []string{"dumpStlExample_cube.stl", "dumpStlExample_points.stl", "dumpStlExample_directionChain_4.stl"} {
		for _, view := range []string{"front", "back", "right", "left"} {
			assert.FileExists(t, filepath.Join(dir, name+"_"+view+".jpg"))
		}
	}
}

func TestDumpASCII(t *testing.T) {
	dir := t.TempDir()

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"dump", dir, "--ascii", "--prefix", "dbg_"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(filepath.Join(dir, "dbg_tetrahedron.stl"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "solid dbg_tetrahedron\n"))
	assert.FileExists(t, filepath.Join(dir, "dbg_directionChain_0.stl"))
}
