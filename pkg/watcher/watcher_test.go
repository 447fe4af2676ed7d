package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	patterns := []string{"*.stl", "*.scad"}

	assert.True(t, Matches("part.stl", patterns))
	assert.True(t, Matches("PART.STL", patterns))
	assert.True(t, Matches("gear.scad", patterns))
	assert.False(t, Matches("part.stl_front.jpg", patterns))
	assert.False(t, Matches("notes.txt", patterns))
	assert.False(t, Matches("part.stl", nil))
}

func TestDirWatcherDebounces(t *testing.T) {
	dir := t.TempDir()
	fw, err := NewDirWatcher(dir, []string{"*.stl"}, 50*time.Millisecond)
	require.NoError(t, err)
	defer fw.Close()
	fw.Start()

	path := filepath.Join(dir, "part.stl")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("solid x\nendsolid x\n"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644))

	select {
	case name := <-fw.Changes():
		assert.Equal(t, "part.stl", name)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case name := <-fw.Changes():
		t.Fatalf("unexpected second change %q", name)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestDirWatcherMissingDir(t *testing.T) {
	_, err := NewDirWatcher(filepath.Join(t.TempDir(), "missing"), []string{"*.stl"}, time.Millisecond)
	assert.Error(t, err)
}

func TestDirWatcherCloseTwice(t *testing.T) {
	fw, err := NewDirWatcher(t.TempDir(), []string{"*.stl"}, time.Millisecond)
	require.NoError(t, err)
	fw.Start()

	require.NoError(t, fw.Close())
	assert.NoError(t, fw.Close())
}
