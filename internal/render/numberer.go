package render

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"sync"

	"github.com/globalteceducacional/toth/internal/numbering"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// MarginPx is the footer margin: 2 cm at an assumed 96 DPI. It is the same for
// every image resolution.
const MarginPx = 75

// CMToPixels converts centimeters to pixels at 96 DPI.
func CMToPixels(cm float64) int {
	return int(cm / 2.54 * 96)
}

var (
	goRegularOnce sync.Once
	goRegular     *opentype.Font
	goRegularErr  error
)

func embeddedFont() (*opentype.Font, error) {
	goRegularOnce.Do(func() {
		goRegular, goRegularErr = opentype.Parse(goregular.TTF)
	})
	return goRegular, goRegularErr
}

// Numberer stamps footer page numbers onto page images.
type Numberer struct {
	font     *opentype.Font
	fallback bool
}

// NewNumberer loads the TrueType/OpenType font at path. When path is empty or
// the font cannot be read, the embedded Go Regular font is used instead.
func NewNumberer(path string) *Numberer {
	if path != "" {
		f, err := loadFont(path)
		if err == nil {
			return &Numberer{font: f}
		}
		slog.Warn("Falling back to embedded font", "error", err)
	}

	f, err := embeddedFont()
	if err != nil {
		slog.Warn("Embedded font unavailable, using bitmap face", "error", err)
		return &Numberer{fallback: true}
	}
	return &Numberer{font: f, fallback: true}
}

func loadFont(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &AssetError{Asset: "font", Path: path, Err: err}
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, &AssetError{Asset: "font", Path: path, Err: err}
	}
	return f, nil
}

// UsingFallback reports whether the configured font could not be used.
func (n *Numberer) UsingFallback() bool {
	return n.fallback
}

// face returns a face sized to a tenth of the page height.
func (n *Numberer) face(pageHeight int) (font.Face, error) {
	if n.font == nil {
		return basicfont.Face7x13, nil
	}
	size := max(float64(pageHeight)/10, 8)
	return opentype.NewFace(n.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// Placement returns the box the text occupies on a width x height page.
func (n *Numberer) Placement(width, height int, text string, align numbering.Alignment) (image.Rectangle, error) {
	face, err := n.face(height)
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("failed to create font face: %w", err)
	}
	defer face.Close()

	bounds, _ := font.BoundString(face, text)
	origin := footerOrigin(width, height, bounds, align)
	return image.Rectangle{Min: origin, Max: origin.Add(boxSize(bounds))}, nil
}

// Apply returns a copy of img with label drawn in the footer. The outline is
// produced by stamping the text in black at every offset within the outline
// width before drawing the fill.
func (n *Numberer) Apply(img image.Image, label numbering.Label, align numbering.Alignment) (*image.RGBA, error) {
	dst := ToRGBA(img)
	if !label.Show || label.Text == "" {
		return dst, nil
	}

	size := dst.Bounds().Size()
	face, err := n.face(size.Y)
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	defer face.Close()

	bounds, _ := font.BoundString(face, label.Text)
	origin := footerOrigin(size.X, size.Y, bounds, align)
	dot := fixed.Point26_6{
		X: fixed.I(origin.X) - bounds.Min.X,
		Y: fixed.I(origin.Y) - bounds.Min.Y,
	}

	d := &font.Drawer{Dst: dst, Face: face}
	if label.Outline && label.OutlineWidth > 0 {
		d.Src = image.NewUniform(color.Black)
		w := label.OutlineWidth
		for dx := -w; dx <= w; dx++ {
			for dy := -w; dy <= w; dy++ {
				d.Dot = dot.Add(fixed.P(dx, dy))
				d.DrawString(label.Text)
			}
		}
	}

	d.Src = image.NewUniform(label.Fill)
	d.Dot = dot
	d.DrawString(label.Text)
	return dst, nil
}

func boxSize(bounds fixed.Rectangle26_6) image.Point {
	return image.Point{
		X: (bounds.Max.X - bounds.Min.X).Ceil(),
		Y: (bounds.Max.Y - bounds.Min.Y).Ceil(),
	}
}

// footerOrigin returns the top-left corner of the text box.
func footerOrigin(width, height int, bounds fixed.Rectangle26_6, align numbering.Alignment) image.Point {
	box := boxSize(bounds)

	var x int
	switch align {
	case numbering.Left:
		x = MarginPx
	case numbering.Right:
		x = width - box.X - MarginPx
	default:
		x = MarginPx + (width-2*MarginPx-box.X)/2
	}
	return image.Point{X: x, Y: height - box.Y - MarginPx}
}
