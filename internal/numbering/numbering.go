// Package numbering decides which pages carry a number and how it looks.
package numbering

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/globalteceducacional/toth/internal/roman"
)

// Range selects the positions that are numbered. Positions are 1-based and
// inclusive; position Start displays Initial.
type Range struct {
	Start   int `json:"start" yaml:"start"`
	End     int `json:"end" yaml:"end"`
	Initial int `json:"initial" yaml:"initial"`
}

// RangeError reports a numbering range that does not fit the book.
type RangeError struct {
	Range  Range
	Pages  int
	Reason string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid numbering range %d-%d (initial %d) for %d pages: %s",
		e.Range.Start, e.Range.End, e.Range.Initial, e.Pages, e.Reason)
}

// Validate checks 1 <= Start <= End <= pageCount and Initial >= 1. Ranges are
// refused, never clamped.
func (r Range) Validate(pageCount int) error {
	fail := func(reason string) error {
		return &RangeError{Range: r, Pages: pageCount, Reason: reason}
	}
	switch {
	case r.Start < 1:
		return fail("start must be at least 1")
	case r.Start > r.End:
		return fail("start is after end")
	case r.End > pageCount:
		return fail("end is past the last page")
	case r.Initial < 1:
		return fail("initial number must be at least 1")
	}
	return nil
}

// Contains reports whether position is numbered.
func (r Range) Contains(position int) bool {
	return position >= r.Start && position <= r.End
}

// Number returns the number displayed at position.
func (r Range) Number(position int) int {
	return r.Initial + (position - r.Start)
}

// Label is the resolved numbering for one page.
type Label struct {
	Show         bool
	Number       int
	Text         string
	Fill         color.RGBA
	OutlineWidth int
	Outline      bool
}

type styleDef struct {
	fill         color.RGBA
	outlineWidth int
}

func styleOf(s Style) styleDef {
	switch s {
	case Standard, Roman:
		return styleDef{fill: color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}, outlineWidth: 1}
	case Fresco:
		return styleDef{fill: color.RGBA{0xFF, 0xD7, 0x00, 0xFF}, outlineWidth: 2}
	case Modern:
		return styleDef{fill: color.RGBA{0x00, 0x7B, 0xFF, 0xFF}, outlineWidth: 0}
	case Vintage:
		return styleDef{fill: color.RGBA{0xA0, 0x52, 0x2D, 0xFF}, outlineWidth: 2}
	case Elegant:
		return styleDef{fill: color.RGBA{0x8E, 0x44, 0xAD, 0xFF}, outlineWidth: 1}
	default:
		return styleOf(Standard)
	}
}

// DefaultColor returns the fill color of a style when no custom color is given.
func DefaultColor(s Style) color.RGBA {
	return styleOf(s).fill
}

// Resolve returns the label for position. custom overrides the style color
// when non-nil.
func Resolve(style Style, position int, r Range, custom *color.RGBA) Label {
	if !r.Contains(position) {
		return Label{}
	}

	def := styleOf(style)
	n := r.Number(position)
	label := Label{
		Show:         true,
		Number:       n,
		Text:         strconv.Itoa(n),
		Fill:         def.fill,
		OutlineWidth: def.outlineWidth,
		Outline:      def.outlineWidth > 0,
	}
	if style == Roman {
		label.Text = roman.Format(n)
	}
	if custom != nil {
		label.Fill = *custom
	}
	return label
}

// ParseColor parses "#RRGGBB" or "#RGB" into an opaque color.
func ParseColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: expected #RRGGBB", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}

// Hex formats c as "#RRGGBB".
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
