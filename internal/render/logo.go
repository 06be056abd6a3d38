package render

import (
	"image"
	"math"
	"os"

	"golang.org/x/image/draw"
)

// LogoOptions controls the footer logo placement.
type LogoOptions struct {
	// MaxWidth is the logo width in pixels before Scale is applied.
	MaxWidth int
	// Scale multiplies MaxWidth. The default of 0.5 draws the logo at half size.
	Scale float64
	// MarginCM is the distance from the bottom edge, in centimeters at 96 DPI.
	MarginCM float64
}

// DefaultLogoOptions matches the branding used on printed editions.
var DefaultLogoOptions = LogoOptions{MaxWidth: 230, Scale: 0.5, MarginCM: 1}

// Logo composites a branding image onto page footers. A nil *Logo is valid and
// leaves pages untouched.
type Logo struct {
	img  image.Image
	opts LogoOptions
}

// NewLogo wraps an already decoded logo image.
func NewLogo(img image.Image, opts LogoOptions) *Logo {
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = DefaultLogoOptions.MaxWidth
	}
	if opts.Scale <= 0 {
		opts.Scale = DefaultLogoOptions.Scale
	}
	return &Logo{img: img, opts: opts}
}

// LoadLogo reads a PNG or JPEG logo. The returned error is an *AssetError;
// callers log it and continue without a logo.
func LoadLogo(path string, opts LogoOptions) (*Logo, error) {
	if path == "" {
		return nil, &AssetError{Asset: "logo", Path: path}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &AssetError{Asset: "logo", Path: path, Err: err}
	}
	img, err := Decode(data)
	if err != nil {
		return nil, &AssetError{Asset: "logo", Path: path, Err: err}
	}
	return NewLogo(img, opts), nil
}

// Rect returns where the logo lands on a width x height page.
func (l *Logo) Rect(width, height int) image.Rectangle {
	lb := l.img.Bounds()
	if lb.Empty() {
		return image.Rectangle{}
	}

	w := int(math.Round(float64(l.opts.MaxWidth) * l.opts.Scale))
	w = max(1, min(w, width/2))
	h := max(1, int(math.Round(float64(w)*float64(lb.Dy())/float64(lb.Dx()))))

	x := (width - w) / 2
	y := max(0, height-h-CMToPixels(l.opts.MarginCM))
	return image.Rect(x, y, x+w, y+h)
}

// Apply returns a copy of page with the logo alpha-blended, centered
// horizontally above the bottom margin. A nil logo returns page as is.
func (l *Logo) Apply(page *image.RGBA) *image.RGBA {
	if l == nil || l.img == nil {
		return page
	}

	dst := ToRGBA(page)
	r := l.Rect(dst.Bounds().Dx(), dst.Bounds().Dy())
	if r.Empty() {
		return dst
	}
	draw.CatmullRom.Scale(dst, r, l.img, l.img.Bounds(), draw.Over, nil)
	return dst
}
