package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html"
	"image/color"
	"net/http"

	epub "github.com/go-shiori/go-epub"
	"github.com/globalteceducacional/toth/internal/numbering"
	"github.com/globalteceducacional/toth/internal/render"
)

// EpubPage is one page of the EPUB in reading order.
type EpubPage struct {
	Name string
	Data []byte
}

// EpubOptions carries the book metadata and the markup numbering settings.
type EpubOptions struct {
	Title      string
	Author     string
	Language   string
	Identifier string

	IncludeNumbering bool
	Range            numbering.Range
	Style            numbering.Style
	Alignment        numbering.Alignment
	Color            *color.RGBA
}

// EPUB builds a reflowable book with one image section per page. Page numbers
// are markup rather than pixels, so no outline is drawn.
func EPUB(pages []EpubPage, opts EpubOptions) ([]byte, error) {
	data, err := writeEPUB(pages, opts)
	if err != nil {
		return nil, &EncodingError{Artifact: ArtifactEPUB, Err: err}
	}
	return data, nil
}

func writeEPUB(pages []EpubPage, opts EpubOptions) ([]byte, error) {
	title := opts.Title
	if title == "" {
		title = DefaultSlug
	}

	book, err := epub.NewEpub(title)
	if err != nil {
		return nil, fmt.Errorf("failed to create epub: %w", err)
	}
	if opts.Author != "" {
		book.SetAuthor(opts.Author)
	}
	lang := opts.Language
	if lang == "" {
		lang = "pt-BR"
	}
	book.SetLang(lang)

	id := opts.Identifier
	if id == "" {
		id = "urn:toth:" + Slug(opts.Title)
	}
	book.SetIdentifier(id)

	for i, page := range pages {
		position := i + 1

		mediaType, ext, err := imageType(page.Data)
		if err != nil {
			return nil, fmt.Errorf("page %d (%s): %w", position, page.Name, err)
		}

		source := "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(page.Data)
		imgPath, err := book.AddImage(source, fmt.Sprintf("page_%03d%s", position, ext))
		if err != nil {
			return nil, fmt.Errorf("failed to add image for page %d: %w", position, err)
		}

		heading := fmt.Sprintf("Página %d", position)
		body := sectionBody(heading, imgPath, page.Name, pageNumberDiv(position, opts))
		if _, err := book.AddSection(body, heading, fmt.Sprintf("page_%03d.xhtml", position), ""); err != nil {
			return nil, fmt.Errorf("failed to add section for page %d: %w", position, err)
		}
	}

	var buf bytes.Buffer
	if _, err := book.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write epub: %w", err)
	}
	return buf.Bytes(), nil
}

func imageType(data []byte) (mediaType, ext string, err error) {
	switch ct := http.DetectContentType(data); ct {
	case "image/png":
		return ct, ".png", nil
	case "image/jpeg":
		return ct, ".jpg", nil
	default:
		return "", "", fmt.Errorf("unsupported image type %q", ct)
	}
}

func sectionBody(heading, imgPath, alt, numberDiv string) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(heading))
	fmt.Fprintf(&b, "<img src=\"%s\" alt=\"%s\" style=\"width:100%%\" />\n", imgPath, html.EscapeString(alt))
	b.WriteString(numberDiv)
	return b.String()
}

// pageNumberDiv returns the footer markup for position, or "" when the page
// is not numbered.
func pageNumberDiv(position int, opts EpubOptions) string {
	if !opts.IncludeNumbering {
		return ""
	}
	label := numbering.Resolve(opts.Style, position, opts.Range, opts.Color)
	if !label.Show {
		return ""
	}

	var align string
	switch opts.Alignment {
	case numbering.Left:
		align = fmt.Sprintf("text-align:left; margin-left:%dpx;", render.MarginPx)
	case numbering.Right:
		align = fmt.Sprintf("text-align:right; margin-right:%dpx;", render.MarginPx)
	default:
		align = fmt.Sprintf("text-align:center; margin:0 %dpx;", render.MarginPx)
	}
	return fmt.Sprintf("<div class=\"page-number\" style=\"%s font-size:16px; margin-top:10px; color:%s\">%s</div>\n",
		align, numbering.Hex(label.Fill), html.EscapeString(label.Text))
}
