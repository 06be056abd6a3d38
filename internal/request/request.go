// Package request reads book requests from YAML files.
package request

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/globalteceducacional/toth/internal/assembly"
	"github.com/globalteceducacional/toth/internal/book"
	"github.com/globalteceducacional/toth/internal/numbering"
	"gopkg.in/yaml.v3"
)

// File is the YAML form of a book request:
//
//	title: Meu Livro
//	pages: [capa.png, p1.jpg, p2.jpg]
//	moves:
//	  - {page: capa.png, position: 3}
//	numbering:
//	  start: 2
//	  initial: 1
//	  style: romano
//	  alignment: direita
//	  color: "#FFD700"
//	logo: true
//	epub_numbering: false
//
// Both PDFs and the EPUB are numbered over every page unless disabled.
type File struct {
	Title         string    `json:"title" yaml:"title"`
	Pages         []string  `json:"pages,omitempty" yaml:"pages"`
	Moves         []Move    `json:"moves,omitempty" yaml:"moves,omitempty"`
	Numbering     Numbering `json:"numbering" yaml:"numbering"`
	Logo          bool      `json:"logo" yaml:"logo"`
	EpubNumbering *bool     `json:"epub_numbering,omitempty" yaml:"epub_numbering,omitempty"`

	dir string
}

// Move places a page, named as in Pages, at a 1-based position.
type Move struct {
	Page     string `json:"page" yaml:"page"`
	Position int    `json:"position" yaml:"position"`
}

// Numbering is the numbering block. A missing Enabled means true, zero Start
// and Initial mean 1 and zero End means the last page.
type Numbering struct {
	Enabled   *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Start     int    `json:"start,omitempty" yaml:"start,omitempty"`
	End       int    `json:"end,omitempty" yaml:"end,omitempty"`
	Initial   int    `json:"initial,omitempty" yaml:"initial,omitempty"`
	Style     string `json:"style,omitempty" yaml:"style,omitempty"`
	Alignment string `json:"alignment,omitempty" yaml:"alignment,omitempty"`
	Color     string `json:"color,omitempty" yaml:"color,omitempty"`
}

// Load reads a request file. Relative page paths are resolved against the
// file's directory.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.dir = filepath.Dir(path)
	return f, nil
}

// Parse decodes a request. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &f, nil
}

// Marshal encodes f back to YAML.
func (f *File) Marshal() ([]byte, error) {
	return yaml.Marshal(f)
}

// PagePaths returns the page sources in order. URLs are kept as is.
func (f *File) PagePaths() []string {
	paths := make([]string, len(f.Pages))
	for i, p := range f.Pages {
		if IsURL(p) || filepath.IsAbs(p) || f.dir == "" {
			paths[i] = p
			continue
		}
		paths[i] = filepath.Join(f.dir, p)
	}
	return paths
}

// IsURL reports whether a page source is an http(s) URL.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ToRequest converts the file into an assembly request for a book of
// pageCount pages, filling defaults and validating the numbering block.
func (f *File) ToRequest(pageCount int) (assembly.Request, error) {
	n := f.Numbering
	req := assembly.Request{
		Title:         f.Title,
		Numbering:     boolOr(n.Enabled, true),
		IncludeLogo:   f.Logo,
		EpubNumbering: boolOr(f.EpubNumbering, true),
		Range: numbering.Range{
			Start:   orDefault(n.Start, 1),
			End:     orDefault(n.End, pageCount),
			Initial: orDefault(n.Initial, 1),
		},
	}

	var errs []error
	var err error
	if req.Style, err = numbering.ParseStyle(n.Style); err != nil {
		errs = append(errs, err)
	}
	if req.Alignment, err = numbering.ParseAlignment(n.Alignment); err != nil {
		errs = append(errs, err)
	}
	if n.Color != "" {
		c, err := numbering.ParseColor(n.Color)
		if err != nil {
			errs = append(errs, err)
		} else {
			req.Color = &c
		}
	}
	if err := errors.Join(errs...); err != nil {
		return assembly.Request{}, err
	}

	if err := req.Validate(pageCount); err != nil {
		return assembly.Request{}, err
	}
	return req, nil
}

// ApplyMoves places the named pages of s at their requested positions, in
// order.
func (f *File) ApplyMoves(s *book.Session) error {
	for _, m := range f.Moves {
		page, ok := s.PageByName(m.Page)
		if !ok {
			return fmt.Errorf("move %s: %w", m.Page, book.ErrPageNotFound)
		}
		if err := s.Move(page.ID, m.Position); err != nil {
			return err
		}
	}
	return nil
}

// Bool returns a pointer to v, for setting the optional flags of a File.
func Bool(v bool) *bool {
	return &v
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
