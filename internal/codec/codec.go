package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"net/http"
	"path/filepath"
	"strings"

	"golang.org/x/image/webp"
)

var (
	ErrDecode            = errors.New("could not decode image")
	ErrEncode            = errors.New("could not encode image")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrFormatMismatch    = errors.New("declared format does not match file content")
)

// Format identifies an image codec.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatGIF  Format = "gif"
	FormatWebP Format = "webp"
)

// entry binds a format to its codec functions. Encode is nil for
// decode-only formats; calling Encode for those yields
// ErrUnsupportedFormat rather than a crash.
type entry struct {
	mime   string
	ext    string
	decode func([]byte) (image.Image, error)
	encode func(*bytes.Buffer, image.Image, int) error
}

var codecs = map[Format]entry{
	FormatJPEG: {
		mime:   "image/jpeg",
		ext:    ".jpg",
		decode: decodeJPEG,
		encode: func(buf *bytes.Buffer, img image.Image, quality int) error {
			return jpeg.Encode(buf, img, &jpeg.Options{Quality: quality})
		},
	},
	FormatPNG: {
		mime:   "image/png",
		ext:    ".png",
		decode: func(data []byte) (image.Image, error) { return png.Decode(bytes.NewReader(data)) },
		encode: func(buf *bytes.Buffer, img image.Image, _ int) error {
			return png.Encode(buf, img)
		},
	},
	FormatGIF: {
		mime:   "image/gif",
		ext:    ".gif",
		decode: func(data []byte) (image.Image, error) { return gif.Decode(bytes.NewReader(data)) },
		encode: func(buf *bytes.Buffer, img image.Image, _ int) error {
			return gif.Encode(buf, img, nil)
		},
	},
	FormatWebP: {
		mime:   "image/webp",
		ext:    ".webp",
		decode: func(data []byte) (image.Image, error) { return webp.Decode(bytes.NewReader(data)) },
		// No pure-Go WebP encoder exists; decode-only.
		encode: nil,
	},
}

var mimeToFormat = func() map[string]Format {
	m := make(map[string]Format, len(codecs))
	for f, e := range codecs {
		m[e.mime] = f
	}
	return m
}()

var extToFormat = map[string]Format{
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".png":  FormatPNG,
	".gif":  FormatGIF,
	".webp": FormatWebP,
}

// Sniff determines the format from the file content (magic bytes).
// Client-declared extensions and content types are never trusted here.
func Sniff(data []byte) (Format, error) {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	mime := http.DetectContentType(head)
	f, ok := mimeToFormat[mime]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mime)
	}
	return f, nil
}

// FormatFromName maps a declared file name to a format via its extension.
func FormatFromName(name string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(name))
	f, ok := extToFormat[ext]
	if !ok {
		return "", fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, ext)
	}
	return f, nil
}

// Decode sniffs the format and decodes the raster. JPEG pixel data is
// normalized to the visually upright orientation so downstream geometry
// never has to consult the orientation tag.
func Decode(data []byte) (image.Image, Format, error) {
	f, err := Sniff(data)
	if err != nil {
		return nil, "", err
	}
	img, err := codecs[f].decode(data)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, f, nil
}

// DecodeDeclared decodes like Decode but additionally requires the
// client-declared file name to agree with the sniffed content. A
// polyglot file with a lying extension fails here instead of being
// stored under the wrong type.
func DecodeDeclared(data []byte, declaredName string) (image.Image, Format, error) {
	declared, err := FormatFromName(declaredName)
	if err != nil {
		return nil, "", err
	}
	img, sniffed, err := Decode(data)
	if err != nil {
		return nil, "", err
	}
	if declared != sniffed {
		return nil, "", fmt.Errorf("%w: declared %s, content %s", ErrFormatMismatch, declared, sniffed)
	}
	return img, sniffed, nil
}

// Encode serializes the raster in the given format. Quality applies to
// lossy formats only. Encoding from decoded pixels drops all source
// metadata, which doubles as the privacy strip for uploads.
func Encode(img image.Image, f Format, quality int) ([]byte, error) {
	e, ok := codecs[f]
	if !ok || e.encode == nil {
		return nil, fmt.Errorf("%w: encode %s", ErrUnsupportedFormat, f)
	}
	var buf bytes.Buffer
	if err := e.encode(&buf, img, quality); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return buf.Bytes(), nil
}

// Ext returns the canonical file extension for a format, dot included.
func Ext(f Format) string {
	return codecs[f].ext
}

// MIME returns the content type for a format.
func MIME(f Format) string {
	return codecs[f].mime
}
