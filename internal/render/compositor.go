package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"

	"github.com/zKarlz/photomock/internal/codec"
	"github.com/zKarlz/photomock/internal/model"
)

var ErrCropOutOfBounds = errors.New("crop rectangle outside the original image")

const (
	// Thumbnails are lossy; 90 matches what product emails expect.
	thumbQuality = 90

	DefaultThumbSize = 200
)

// Output holds the two encoded derivatives of one render.
type Output struct {
	Composite []byte // PNG, same dimensions as the base
	Thumbnail []byte // JPEG, ThumbSize x ThumbSize
}

// Compositor merges a buyer photo onto a base template. It is stateless
// and safe for concurrent use; every call works on its own rasters.
type Compositor struct {
	thumbSize int
}

func NewCompositor(thumbSize int) *Compositor {
	if thumbSize <= 0 {
		thumbSize = DefaultThumbSize
	}
	return &Compositor{thumbSize: thumbSize}
}

// Composite runs the render pipeline in strict order: crop, resize,
// rotate, mask, paste, encode, thumbnail. The mask argument is nil when
// the variation has no mask configured; a configured-but-missing mask
// must be rejected by the caller before reaching here.
func (c *Compositor) Composite(original, base, mask image.Image, bounds model.PlacementBounds, transform model.UserTransform) (*Output, error) {
	geom, err := Resolve(bounds, transform)
	if err != nil {
		return nil, err
	}

	cropped, err := crop(original, transform.Crop)
	if err != nil {
		return nil, err
	}

	// Lanczos holds up at both upscale and downscale; nearest-neighbor
	// artifacts are visible at typical preview sizes.
	placed := imaging.Resize(cropped, geom.PlacedWidth, geom.PlacedHeight, imaging.Lanczos)

	if geom.Rotation != 0 {
		// The editor treats positive rotation as clockwise; imaging
		// treats it as counter-clockwise, hence the sign flip. The
		// canvas expands to the rotated bounding box and the new
		// corners stay transparent.
		placed = imaging.Rotate(placed, -geom.Rotation, color.NRGBA{})
	}

	if mask != nil {
		resized := imaging.Resize(mask, placed.Rect.Dx(), placed.Rect.Dy(), imaging.Lanczos)
		applyMask(placed, resized)
	}

	merged := imaging.Clone(base)
	pasteRect := image.Rect(geom.PasteX, geom.PasteY,
		geom.PasteX+placed.Rect.Dx(), geom.PasteY+placed.Rect.Dy())
	// draw.Over clips against the destination, so placements partially
	// outside the base are cut off rather than rejected.
	draw.Draw(merged, pasteRect, placed, placed.Rect.Min, draw.Over)

	composite, err := codec.Encode(merged, codec.FormatPNG, 0)
	if err != nil {
		return nil, err
	}

	thumb := imaging.Fill(merged, c.thumbSize, c.thumbSize, imaging.Center, imaging.Lanczos)
	thumbBytes, err := codec.Encode(thumb, codec.FormatJPEG, thumbQuality)
	if err != nil {
		return nil, err
	}

	return &Output{Composite: composite, Thumbnail: thumbBytes}, nil
}

// crop returns the transform's sub-rectangle of the original, or the
// original itself when no crop is set. A rectangle reaching past the
// source is an error, never a silent clamp.
func crop(img image.Image, r *model.CropRect) (image.Image, error) {
	if r == nil {
		return img, nil
	}
	b := img.Bounds()
	if r.Width <= 0 || r.Height <= 0 {
		return nil, fmt.Errorf("%w: empty rectangle %dx%d", ErrCropOutOfBounds, r.Width, r.Height)
	}
	if r.X < 0 || r.Y < 0 || r.X+r.Width > b.Dx() || r.Y+r.Height > b.Dy() {
		return nil, fmt.Errorf("%w: rect (%d,%d %dx%d) vs source %dx%d",
			ErrCropOutOfBounds, r.X, r.Y, r.Width, r.Height, b.Dx(), b.Dy())
	}
	rect := image.Rect(b.Min.X+r.X, b.Min.Y+r.Y, b.Min.X+r.X+r.Width, b.Min.Y+r.Y+r.Height)
	return imaging.Crop(img, rect), nil
}

// applyMask multiplies the image's alpha channel by the mask's alpha
// channel, in place. Coverage is the mask's alpha alone, normalized to
// [0,1]; the mask's color channels are ignored, so a fully opaque mask
// of any color leaves the image untouched and mask transparency cuts
// the placed photo out. Both buffers must be the same size.
//
// The loop walks rows over the two pix slices directly; each row is an
// independent elementwise pass, which keeps the door open for
// parallelizing rows later without changing behavior.
func applyMask(img, mask *image.NRGBA) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	for y := 0; y < h; y++ {
		ip := img.Pix[y*img.Stride : y*img.Stride+w*4]
		mp := mask.Pix[y*mask.Stride : y*mask.Stride+w*4]
		for x := 0; x < w*4; x += 4 {
			ip[x+3] = uint8(uint32(ip[x+3]) * uint32(mp[x+3]) / 255)
		}
	}
}
