// Package assembly turns a book session into the standard PDF, the bleed PDF
// and the EPUB.
package assembly

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"runtime"
	"time"

	"github.com/globalteceducacional/toth/internal/book"
	"github.com/globalteceducacional/toth/internal/export"
	"github.com/globalteceducacional/toth/internal/numbering"
	"github.com/globalteceducacional/toth/internal/render"
	"golang.org/x/sync/errgroup"
)

// ErrEmptyBook is returned when a session has no pages.
var ErrEmptyBook = errors.New("book has no pages")

// Options configures an Assembler.
type Options struct {
	// Workers bounds parallel page rendering. Zero means GOMAXPROCS.
	Workers int
	// Numberer draws footer numbers. Nil uses the embedded font.
	Numberer *render.Numberer
	// Logo is composited when a request asks for it. Nil skips the logo.
	Logo *render.Logo

	Author   string
	Language string
}

// Assembler renders and encodes books.
type Assembler struct {
	workers  int
	numberer *render.Numberer
	logo     *render.Logo
	author   string
	language string
}

func New(opts Options) *Assembler {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	numberer := opts.Numberer
	if numberer == nil {
		numberer = render.NewNumberer("")
	}
	return &Assembler{
		workers:  workers,
		numberer: numberer,
		logo:     opts.Logo,
		author:   opts.Author,
		language: opts.Language,
	}
}

// Rendition records how one page was rendered.
type Rendition struct {
	Position int
	PageID   string
	Name     string
	Width    int
	Height   int
	Label    numbering.Label
}

// Result holds the produced artifacts. An artifact that failed is nil and its
// error is in Errors.
type Result struct {
	Title       string
	StandardPDF []byte
	BleedPDF    []byte
	EPUB        []byte
	Pages       []Rendition
	Errors      map[export.Artifact]error
}

// Err joins the artifact errors in packaging order, or returns nil.
func (r *Result) Err() error {
	var errs []error
	for _, a := range export.Artifacts {
		if err := r.Errors[a]; err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Files maps each produced artifact to its bytes.
func (r *Result) Files() map[export.Artifact][]byte {
	files := make(map[export.Artifact][]byte, len(export.Artifacts))
	for a, data := range map[export.Artifact][]byte{
		export.ArtifactStandardPDF: r.StandardPDF,
		export.ArtifactBleedPDF:    r.BleedPDF,
		export.ArtifactEPUB:        r.EPUB,
	} {
		if len(data) > 0 {
			files[a] = data
		}
	}
	return files
}

// Archive packages the produced artifacts into one ZIP.
func (r *Result) Archive() ([]byte, error) {
	return export.Package(r.Title, r.Files())
}

// Assemble renders every page of s in order and encodes the three artifacts.
// Validation errors and context cancellation fail the whole call; encoding
// failures are per artifact and reported through Result.Errors.
func (a *Assembler) Assemble(ctx context.Context, s *book.Session, req Request) (*Result, error) {
	start := time.Now()
	pages := s.Pages()
	if err := req.Validate(len(pages)); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	res := &Result{
		Title:  req.Title,
		Pages:  make([]Rendition, len(pages)),
		Errors: make(map[export.Artifact]error),
	}
	for i, p := range pages {
		res.Pages[i] = Rendition{
			Position: i + 1,
			PageID:   p.ID,
			Name:     p.Name,
			Width:    p.Width,
			Height:   p.Height,
			Label:    a.label(req, i+1),
		}
	}

	logo := a.logo
	if req.IncludeLogo && logo == nil {
		slog.Warn("Logo requested but none is configured", "session_id", s.ID)
	}
	if !req.IncludeLogo {
		logo = nil
	}

	rendered, renderErr := a.render(ctx, pages, res.Pages, req.Alignment, logo)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if renderErr != nil {
		res.Errors[export.ArtifactStandardPDF] = &export.EncodingError{Artifact: export.ArtifactStandardPDF, Err: renderErr}
		res.Errors[export.ArtifactBleedPDF] = &export.EncodingError{Artifact: export.ArtifactBleedPDF, Err: renderErr}
	} else {
		var err error
		if res.StandardPDF, err = export.StandardPDF(rendered); err != nil {
			res.Errors[export.ArtifactStandardPDF] = err
		}
		if res.BleedPDF, err = export.BleedPDF(rendered); err != nil {
			res.Errors[export.ArtifactBleedPDF] = err
		}
	}

	epubPages := make([]export.EpubPage, len(pages))
	for i, p := range pages {
		epubPages[i] = export.EpubPage{Name: p.Name, Data: p.Data}
	}
	epub, err := export.EPUB(epubPages, export.EpubOptions{
		Title:            req.Title,
		Author:           a.author,
		Language:         a.language,
		IncludeNumbering: req.EpubNumbering,
		Range:            req.Range,
		Style:            req.Style,
		Alignment:        req.Alignment,
		Color:            req.Color,
	})
	if err != nil {
		res.Errors[export.ArtifactEPUB] = err
	}
	res.EPUB = epub

	for artifact, err := range res.Errors {
		slog.Error("Artifact failed", "session_id", s.ID, "artifact", artifact, "error", err)
	}
	slog.Info("Assembled book",
		"session_id", s.ID,
		"title", req.Title,
		"pages", len(pages),
		"failed_artifacts", len(res.Errors),
		"duration", time.Since(start))

	return res, nil
}

func (a *Assembler) label(req Request, position int) numbering.Label {
	if !req.Numbering {
		return numbering.Label{}
	}
	return numbering.Resolve(req.Style, position, req.Range, req.Color)
}

// render decodes and overlays pages in parallel. Results are stored by index
// so the output order matches the input order.
func (a *Assembler) render(ctx context.Context, pages []*book.Page, renditions []Rendition, align numbering.Alignment, logo *render.Logo) ([]image.Image, error) {
	out := make([]image.Image, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, p := range pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			img, err := render.Decode(p.Data)
			if err != nil {
				return fmt.Errorf("page %d (%s): %w", i+1, p.Name, err)
			}
			rgba, err := a.numberer.Apply(img, renditions[i].Label, align)
			if err != nil {
				return fmt.Errorf("page %d (%s): %w", i+1, p.Name, err)
			}
			out[i] = logo.Apply(rgba)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
