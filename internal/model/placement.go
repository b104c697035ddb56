package model

// PlacementBounds is the merchant-authored placement rectangle for one
// product variation, in base-image pixel space.
type PlacementBounds struct {
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Rotation float64 `json:"rotation"` // degrees, clockwise

	// Acceptance hints for the upload step. The compositor ignores them.
	AspectRatio   float64 `json:"aspect_ratio,omitempty"`
	MinResolution int     `json:"min_resolution,omitempty"`
	OutputDPI     int     `json:"output_dpi,omitempty"`
}

// CropRect is a sub-rectangle of the original photo, in the original's
// own pixel space.
type CropRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Offset is a discrete position adjustment added to the placement origin.
type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// UserTransform is the buyer-authored adjustment applied to their photo
// before placement. Crop defaults to the full image when nil.
type UserTransform struct {
	Crop     *CropRect `json:"crop,omitempty"`
	Scale    float64   `json:"scale"`
	Rotation float64   `json:"rotation"` // degrees, clockwise, additive with the bounds rotation
	Position *Offset   `json:"position,omitempty"`
}
