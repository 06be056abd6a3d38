// Package render applies the per-page pixel transforms: footer numbers, the
// footer logo and the full-bleed cover crop.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// ErrAssetUnavailable marks a missing or unreadable optional asset (font,
// logo). It is never fatal: callers fall back or skip the overlay.
var ErrAssetUnavailable = errors.New("asset unavailable")

// AssetError describes which asset could not be loaded.
type AssetError struct {
	Asset string
	Path  string
	Err   error
}

func (e *AssetError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %q unavailable", e.Asset, e.Path)
	}
	return fmt.Sprintf("%s %q unavailable: %v", e.Asset, e.Path, e.Err)
}

func (e *AssetError) Unwrap() []error {
	return []error{ErrAssetUnavailable, e.Err}
}

// Decode decodes PNG or JPEG bytes.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// ToRGBA returns an RGBA copy of img with its origin at (0, 0). The copy is
// always fresh so callers may draw on it without touching img.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
