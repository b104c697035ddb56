package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/zKarlz/photomock/internal/model"
)

var (
	ErrInvalidBounds    = errors.New("invalid placement bounds")
	ErrInvalidTransform = errors.New("invalid user transform")
)

// Geometry is the resolved pixel-space plan for one placement. The
// resolver never touches pixels; the compositor executes the plan.
type Geometry struct {
	PlacedWidth  int
	PlacedHeight int
	Rotation     float64 // degrees in [0,360), clockwise
	PasteX       int
	PasteY       int
}

// Resolve merges the merchant's placement bounds with the buyer's
// transform into a single set of pixel-space operations. Pure function,
// no state.
func Resolve(bounds model.PlacementBounds, transform model.UserTransform) (Geometry, error) {
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return Geometry{}, fmt.Errorf("%w: width and height must be positive, got %dx%d",
			ErrInvalidBounds, bounds.Width, bounds.Height)
	}
	if transform.Scale <= 0 {
		return Geometry{}, fmt.Errorf("%w: scale must be positive, got %g", ErrInvalidTransform, transform.Scale)
	}

	// Round half away from zero; math.Round does exactly that.
	w := int(math.Round(float64(bounds.Width) * transform.Scale))
	h := int(math.Round(float64(bounds.Height) * transform.Scale))
	if w == 0 || h == 0 {
		return Geometry{}, fmt.Errorf("%w: placed size rounds to %dx%d", ErrInvalidTransform, w, h)
	}

	rotation := math.Mod(bounds.Rotation+transform.Rotation, 360)
	if rotation < 0 {
		rotation += 360
	}

	pasteX, pasteY := bounds.X, bounds.Y
	if transform.Position != nil {
		pasteX = int(math.Round(float64(bounds.X) + transform.Position.X))
		pasteY = int(math.Round(float64(bounds.Y) + transform.Position.Y))
	}

	return Geometry{
		PlacedWidth:  w,
		PlacedHeight: h,
		Rotation:     rotation,
		PasteX:       pasteX,
		PasteY:       pasteY,
	}, nil
}
