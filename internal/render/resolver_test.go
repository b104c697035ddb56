package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zKarlz/photomock/internal/model"
)

func TestResolveIdentity(t *testing.T) {
	bounds := model.PlacementBounds{X: 10, Y: 20, Width: 200, Height: 100}
	transform := model.UserTransform{Scale: 1}

	geom, err := Resolve(bounds, transform)
	require.NoError(t, err)

	assert.Equal(t, 200, geom.PlacedWidth)
	assert.Equal(t, 100, geom.PlacedHeight)
	assert.Equal(t, 0.0, geom.Rotation)
	assert.Equal(t, 10, geom.PasteX)
	assert.Equal(t, 20, geom.PasteY)
}

func TestResolveScaleRounding(t *testing.T) {
	// Round half away from zero: 3 * 0.5 = 1.5 -> 2.
	geom, err := Resolve(
		model.PlacementBounds{Width: 3, Height: 5, X: 0, Y: 0},
		model.UserTransform{Scale: 0.5},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, geom.PlacedWidth)
	assert.Equal(t, 3, geom.PlacedHeight) // 2.5 -> 3
}

func TestResolveRotationAdditiveMod360(t *testing.T) {
	geom, err := Resolve(
		model.PlacementBounds{Width: 10, Height: 10, Rotation: 270},
		model.UserTransform{Scale: 1, Rotation: 180},
	)
	require.NoError(t, err)
	assert.Equal(t, 90.0, geom.Rotation)
}

func TestResolveNegativeRotationNormalized(t *testing.T) {
	geom, err := Resolve(
		model.PlacementBounds{Width: 10, Height: 10, Rotation: -90},
		model.UserTransform{Scale: 1},
	)
	require.NoError(t, err)
	assert.Equal(t, 270.0, geom.Rotation)
}

func TestResolveFullTurnIsZero(t *testing.T) {
	geom, err := Resolve(
		model.PlacementBounds{Width: 10, Height: 10, Rotation: 360},
		model.UserTransform{Scale: 1},
	)
	require.NoError(t, err)
	assert.Equal(t, 0.0, geom.Rotation)
}

func TestResolvePositionOffset(t *testing.T) {
	geom, err := Resolve(
		model.PlacementBounds{X: 100, Y: 50, Width: 10, Height: 10},
		model.UserTransform{Scale: 1, Position: &model.Offset{X: -20.4, Y: 5.6}},
	)
	require.NoError(t, err)
	assert.Equal(t, 80, geom.PasteX)
	assert.Equal(t, 56, geom.PasteY)
}

func TestResolveInvalidScale(t *testing.T) {
	_, err := Resolve(
		model.PlacementBounds{Width: 10, Height: 10},
		model.UserTransform{Scale: 0},
	)
	assert.ErrorIs(t, err, ErrInvalidTransform)

	_, err = Resolve(
		model.PlacementBounds{Width: 10, Height: 10},
		model.UserTransform{Scale: -1},
	)
	assert.ErrorIs(t, err, ErrInvalidTransform)
}

func TestResolveZeroSizedPlacement(t *testing.T) {
	// Not clamped to 1x1; a placement that rounds to nothing is an
	// input error.
	_, err := Resolve(
		model.PlacementBounds{Width: 1, Height: 10},
		model.UserTransform{Scale: 0.4},
	)
	assert.ErrorIs(t, err, ErrInvalidTransform)
}

func TestResolveInvalidBounds(t *testing.T) {
	_, err := Resolve(
		model.PlacementBounds{Width: 0, Height: 10},
		model.UserTransform{Scale: 1},
	)
	assert.ErrorIs(t, err, ErrInvalidBounds)
}
