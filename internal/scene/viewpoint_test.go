package scene

import (
	"testing"

	"github.com/philipparndt/stlsnap/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultViewpointsOrder(t *testing.T) {
	views := DefaultViewpoints(-50, 150)
	require.Len(t, views, 4)

	names := make([]string, 0, len(views))
	for _, v := range views {
		names = append(names, v.Name)
		assert.Equal(t, 150.0, v.Distance)
		assert.Equal(t, geometry.NewVector3(0, 0, -50), v.View.Translation())
	}
	assert.Equal(t, []string{"front", "back", "right", "left"}, names)
}

func TestViewpointMatrices(t *testing.T) {
	front, err := NewViewpoint(Front, -50, 150)
	require.NoError(t, err)

	assert.Equal(t, geometry.Matrix4{
		{-1, 0, 0, 0},
		{0, 0, 1, 0},
		{0, 1, 0, 0},
		{0, 0, -50, 1},
	}, front.View)

	left, err := NewViewpoint(Left, -10, 1)
	require.NoError(t, err)
	assert.Equal(t, geometry.Matrix4{
		{0, 0, -1, 0},
		{-1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, -10, 1},
	}, left.View)
}

func TestViewpointsLookAlongHorizontalAxes(t *testing.T) {
	// The direction pointing at the camera, in world space, per view
	toward := map[string]geometry.Vector3{
		Front: geometry.NewVector3(0, 1, 0),
		Back:  geometry.NewVector3(0, -1, 0),
		Right: geometry.NewVector3(1, 0, 0),
		Left:  geometry.NewVector3(-1, 0, 0),
	}

	for _, v := range DefaultViewpoints(0, 1) {
		t.Run(v.Name, func(t *testing.T) {
			dir := v.View.TransformDirection(toward[v.Name])
			assert.Equal(t, geometry.NewVector3(0, 0, 1), dir)

			up := v.View.TransformDirection(geometry.NewVector3(0, 0, 1))
			assert.Equal(t, geometry.NewVector3(0, 1, 0), up, "world Z is screen up")
		})
	}
}

func TestUnknownViewpoint(t *testing.T) {
	_, err := NewViewpoint("top", 0, 1)
	assert.Error(t, err)
}
