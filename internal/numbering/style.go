package numbering

import (
	"fmt"
	"strings"
)

// Style is the visual style of a page number.
type Style int

const (
	Standard Style = iota
	Roman
	Fresco
	Modern
	Vintage
	Elegant
)

// Styles lists every style in display order.
var Styles = []Style{Standard, Roman, Fresco, Modern, Vintage, Elegant}

func (s Style) String() string {
	switch s {
	case Standard:
		return "standard"
	case Roman:
		return "roman"
	case Fresco:
		return "fresco"
	case Modern:
		return "modern"
	case Vintage:
		return "vintage"
	case Elegant:
		return "elegant"
	default:
		return fmt.Sprintf("style(%d)", int(s))
	}
}

// ParseStyle accepts the English and Portuguese style names, case-insensitively.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "padrão", "padrao":
		return Standard, nil
	case "roman", "romano":
		return Roman, nil
	case "fresco":
		return Fresco, nil
	case "modern", "moderno":
		return Modern, nil
	case "vintage":
		return Vintage, nil
	case "elegant", "elegante":
		return Elegant, nil
	default:
		return Standard, fmt.Errorf("unknown numbering style %q", s)
	}
}

func (s Style) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Style) UnmarshalText(text []byte) error {
	v, err := ParseStyle(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Alignment is the horizontal placement of the footer number. The zero value
// is Center.
type Alignment int

const (
	Center Alignment = iota
	Left
	Right
)

func (a Alignment) String() string {
	switch a {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "center"
	}
}

// ParseAlignment accepts left/center/right and esquerda/central/direita.
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "center", "centre", "central", "centro":
		return Center, nil
	case "left", "esquerda":
		return Left, nil
	case "right", "direita":
		return Right, nil
	default:
		return Center, fmt.Errorf("unknown alignment %q", s)
	}
}

func (a Alignment) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Alignment) UnmarshalText(text []byte) error {
	v, err := ParseAlignment(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
