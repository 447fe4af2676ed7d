package host

import (
	"context"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/philipparndt/stlsnap/internal/scene"
	"github.com/philipparndt/stlsnap/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowCycle(t *testing.T) {
	a := test.NewTempApp(t)
	dir := t.TempDir()
	mesh := testutil.WriteSTL(t, dir, "cube.stl", testutil.Cube("cube", 10))

	h := NewWindow(a, testHostOptions(t))
	h.Show()

	out := filepath.Join(dir, "cube.stl_front.jpg")
	assert.ErrorIs(t, h.Capture(out), ErrNoFrame)

	require.NoError(t, h.Clear())
	require.NoError(t, h.Import(context.Background(), mesh))
	require.NoError(t, h.SetView(view(t, scene.Front, 20)))
	require.NoError(t, h.Redraw())
	require.NoError(t, h.Capture(out))

	img := decodeJPEG(t, out)
	assert.False(t, img.Bounds().Empty())
	assert.Equal(t, "stlsnap - cube.stl (front)", h.window.Title())

	summary, err := h.Describe()
	require.NoError(t, err)
	assert.Equal(t, 12, summary.TriangleCount)

	assert.ErrorIs(t, h.Import(context.Background(), mesh), scene.ErrSceneNotEmpty)

	require.NoError(t, h.Quit())
	assert.ErrorIs(t, h.Redraw(), ErrClosed)
}
