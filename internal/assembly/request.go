package assembly

import (
	"image/color"

	"github.com/globalteceducacional/toth/internal/numbering"
)

// Request describes how to assemble a session's pages. The zero Request
// assembles an untitled book without numbers or logo.
type Request struct {
	Title string `json:"title"`

	// Numbering enables footer numbers on the rendered PDF pages.
	Numbering bool                `json:"numbering"`
	Range     numbering.Range     `json:"range"`
	Style     numbering.Style     `json:"style"`
	Alignment numbering.Alignment `json:"alignment"`
	Color     *color.RGBA         `json:"-"`

	IncludeLogo bool `json:"include_logo"`
	// EpubNumbering adds markup numbers to the EPUB over the same Range,
	// independently of Numbering.
	EpubNumbering bool `json:"epub_numbering"`
}

// Validate checks the request against a book of pageCount pages. The range is
// only checked when some artifact is numbered.
func (r Request) Validate(pageCount int) error {
	if pageCount == 0 {
		return ErrEmptyBook
	}
	if !r.Numbering && !r.EpubNumbering {
		return nil
	}
	return r.Range.Validate(pageCount)
}
