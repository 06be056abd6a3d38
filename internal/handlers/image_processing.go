package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/globalteceducacional/toth/internal/book"
)

type rejectedPage struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

type ingestResult struct {
	Added    []*book.Page   `json:"added"`
	Skipped  []string       `json:"skipped"`
	Rejected []rejectedPage `json:"rejected"`
	Pages    int            `json:"pages"`
}

func newIngestResult() *ingestResult {
	return &ingestResult{Added: []*book.Page{}, Skipped: []string{}, Rejected: []rejectedPage{}}
}

// ingest adds one page. Unsupported images are recorded as rejected; any
// other failure is returned.
func (res *ingestResult) ingest(session *book.Session, name string, data []byte) error {
	page, added, err := session.Ingest(name, data)
	switch {
	case errors.Is(err, book.ErrUnsupportedImage):
		res.Rejected = append(res.Rejected, rejectedPage{Name: name, Error: err.Error()})
		return nil
	case err != nil:
		return err
	case added:
		res.Added = append(res.Added, page)
		slog.Info("Page ingested", "session_id", session.ID, "page_id", page.ID, "name", name,
			"width", page.Width, "height", page.Height)
	default:
		res.Skipped = append(res.Skipped, name)
	}
	return nil
}

func (h *Handler) processImageFile(session *book.Session, res *ingestResult, header *multipart.FileHeader) error {
	file, err := header.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", header.Filename, err)
	}
	defer file.Close()

	fileData, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", header.Filename, err)
	}
	if int64(len(fileData)) > h.maxUploadBytes {
		res.Rejected = append(res.Rejected, rejectedPage{
			Name:  header.Filename,
			Error: fmt.Sprintf("file too large (max %d MB)", h.maxUploadBytes>>20),
		})
		return nil
	}
	return res.ingest(session, header.Filename, fileData)
}

func (h *Handler) processImageURL(ctx context.Context, session *book.Session, res *ingestResult, imageURL string) error {
	src, err := h.fetcher.Fetch(ctx, imageURL)
	if err != nil {
		res.Rejected = append(res.Rejected, rejectedPage{Name: imageURL, Error: err.Error()})
		return nil
	}
	return res.ingest(session, src.Name, src.Data)
}
