package codec

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 37), G: uint8(y * 57), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestSniffByContent(t *testing.T) {
	img := testImage(8, 8)

	f, err := Sniff(encodePNG(t, img))
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, f)

	f, err = Sniff(encodeJPEG(t, img))
	require.NoError(t, err)
	assert.Equal(t, FormatJPEG, f)

	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, img, nil))
	f, err = Sniff(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, FormatGIF, f)
}

func TestSniffRejectsNonImage(t *testing.T) {
	_, err := Sniff([]byte("<html><body>not an image</body></html>"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecodeRoundTrip(t *testing.T) {
	img, f, err := Decode(encodePNG(t, testImage(31, 17)))
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, f)
	assert.Equal(t, 31, img.Bounds().Dx())
	assert.Equal(t, 17, img.Bounds().Dy())
}

func TestDecodeDeclaredMismatch(t *testing.T) {
	// PNG bytes renamed to .jpg must not slip through.
	_, _, err := DecodeDeclared(encodePNG(t, testImage(8, 8)), "photo.jpg")
	assert.ErrorIs(t, err, ErrFormatMismatch)
}

func TestDecodeDeclaredMatch(t *testing.T) {
	_, f, err := DecodeDeclared(encodeJPEG(t, testImage(8, 8)), "photo.JPEG")
	require.NoError(t, err)
	assert.Equal(t, FormatJPEG, f)
}

func TestDecodeDeclaredUnknownExtension(t *testing.T) {
	_, _, err := DecodeDeclared(encodePNG(t, testImage(8, 8)), "photo.tiff")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecodeGarbageWithValidMagic(t *testing.T) {
	// A PNG signature followed by junk sniffs fine but must fail decode.
	data := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0xde, 0xad}, 100)...)
	_, _, err := Decode(data)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestEncodeWebPUnsupported(t *testing.T) {
	_, err := Encode(testImage(8, 8), FormatWebP, 90)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestEncodeDecodeAllEncodableFormats(t *testing.T) {
	src := testImage(16, 16)
	for _, f := range []Format{FormatJPEG, FormatPNG, FormatGIF} {
		data, err := Encode(src, f, 90)
		require.NoError(t, err, f)

		img, sniffed, err := Decode(data)
		require.NoError(t, err, f)
		assert.Equal(t, f, sniffed)
		assert.Equal(t, 16, img.Bounds().Dx())
	}
}

func TestExtAndMIME(t *testing.T) {
	assert.Equal(t, ".jpg", Ext(FormatJPEG))
	assert.Equal(t, ".png", Ext(FormatPNG))
	assert.Equal(t, "image/webp", MIME(FormatWebP))
}

func TestNormalizeOrientationSwapsDimensions(t *testing.T) {
	src := testImage(4, 2)

	// Orientation 6: stored rotated 90 CCW, upright needs 90 CW.
	upright := normalizeOrientation(src, 6)
	assert.Equal(t, 2, upright.Bounds().Dx())
	assert.Equal(t, 4, upright.Bounds().Dy())

	// Orientation 3: 180 turn keeps dimensions.
	flipped := normalizeOrientation(src, 3)
	assert.Equal(t, 4, flipped.Bounds().Dx())
	assert.Equal(t, 2, flipped.Bounds().Dy())

	// Orientation 1 and out-of-range tags are no-ops.
	assert.Equal(t, image.Image(src), normalizeOrientation(src, 1))
	assert.Equal(t, image.Image(src), normalizeOrientation(src, 9))
}

func TestOrientationTagAbsent(t *testing.T) {
	// Images without EXIF read as upright.
	assert.Equal(t, 1, orientationTag(encodePNG(t, testImage(4, 4))))
	assert.Equal(t, 1, orientationTag(encodeJPEG(t, testImage(4, 4))))
}
