package render

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Trim size of the full-bleed edition.
const (
	TrimWidthIn  = 6.125
	TrimHeightIn = 9.25
	BleedDPI     = 300
)

// BleedSize returns the trim size in pixels at BleedDPI (1838 x 2775).
func BleedSize() (width, height int) {
	return int(math.Round(TrimWidthIn * BleedDPI)), int(math.Round(TrimHeightIn * BleedDPI))
}

// Fit scales and center-crops img so it covers exactly targetW x targetH,
// like CSS "object-fit: cover". The canvas is always fully painted.
func Fit(img image.Image, targetW, targetH int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, max(targetW, 0), max(targetH, 0)))
	b := img.Bounds()
	if b.Empty() || dst.Bounds().Empty() {
		return dst
	}

	sr := coverRect(b.Dx(), b.Dy(), targetW, targetH).Add(b.Min)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, sr, draw.Src, nil)
	return dst
}

// coverRect returns the centered region of a w x h source whose aspect ratio
// matches tw x th. Cropping in source space keeps degenerate 1xN inputs from
// allocating a huge intermediate image.
func coverRect(w, h, tw, th int) image.Rectangle {
	if int64(w)*int64(th) > int64(h)*int64(tw) {
		// Wider than the target: keep the full height and crop the sides.
		cw := int(math.Round(float64(h) * float64(tw) / float64(th)))
		cw = max(1, min(cw, w))
		x0 := (w - cw) / 2
		return image.Rect(x0, 0, x0+cw, h)
	}
	ch := int(math.Round(float64(w) * float64(th) / float64(tw)))
	ch = max(1, min(ch, h))
	y0 := (h - ch) / 2
	return image.Rect(0, y0, w, y0+ch)
}
