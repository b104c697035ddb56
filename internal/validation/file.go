package validation

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

// ErrInvalidFile wraps every upload validation failure so callers can
// classify without matching message text.
var ErrInvalidFile = errors.New("invalid upload")

// FileConstraints defines validation rules for file uploads.
type FileConstraints struct {
	AllowedMimeTypes  map[string]bool
	AllowedExtensions map[string]bool
	MaxSize           int64
}

// ImageConstraints covers the photo formats the upload pipeline accepts.
// WebP is deliberately absent: uploads are always re-encoded and no
// pure-Go WebP encoder exists, so a WebP upload could never be stored.
// Bases and masks may still be WebP; they are only ever decoded.
var ImageConstraints = FileConstraints{
	AllowedMimeTypes: map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
	},
	AllowedExtensions: map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
	},
	MaxSize: 15 << 20, // 15MB
}

// ValidateUpload checks a raw upload against a constraint set. The MIME
// type is detected from the first bytes (magic numbers), so it cannot be
// faked by renaming the file or lying in a Content-Type header.
func ValidateUpload(declaredName string, data []byte, constraints FileConstraints) error {
	if int64(len(data)) > constraints.MaxSize {
		maxMB := constraints.MaxSize / (1 << 20)
		return fmt.Errorf("%w: file too large, maximum size is %d MB", ErrInvalidFile, maxMB)
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	detectedType := http.DetectContentType(head)
	if !constraints.AllowedMimeTypes[detectedType] {
		return fmt.Errorf("%w: file type not allowed (detected %s)", ErrInvalidFile, detectedType)
	}

	ext := strings.ToLower(filepath.Ext(declaredName))
	if !constraints.AllowedExtensions[ext] {
		return fmt.Errorf("%w: file extension not allowed (%s)", ErrInvalidFile, ext)
	}

	return nil
}
