package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/globalteceducacional/toth/internal/assembly"
	"github.com/globalteceducacional/toth/internal/book"
	"github.com/globalteceducacional/toth/internal/drive"
	"github.com/globalteceducacional/toth/internal/images"
	"github.com/globalteceducacional/toth/internal/numbering"
	"github.com/globalteceducacional/toth/internal/storage"
)

// Uploader stores an exported archive remotely.
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte, folderID string) (*drive.Reference, error)
}

type Handler struct {
	sessionStore   *storage.SessionStore
	assembler      *assembly.Assembler
	fetcher        *images.Fetcher
	uploader       Uploader
	maxUploadBytes int64
	rateLimit      int
}

// Options wires a Handler. Only Store and Assembler are required; a nil
// Uploader disables the upload route.
type Options struct {
	Store          *storage.SessionStore
	Assembler      *assembly.Assembler
	Fetcher        *images.Fetcher
	Uploader       Uploader
	MaxUploadBytes int64
	// RateLimit is the number of page, export and upload requests allowed
	// per client IP per minute.
	RateLimit int
}

func New(opts Options) *Handler {
	h := &Handler{
		sessionStore:   opts.Store,
		assembler:      opts.Assembler,
		fetcher:        opts.Fetcher,
		uploader:       opts.Uploader,
		maxUploadBytes: opts.MaxUploadBytes,
		rateLimit:      opts.RateLimit,
	}
	if h.fetcher == nil {
		h.fetcher = images.NewFetcher()
	}
	if h.maxUploadBytes <= 0 {
		h.maxUploadBytes = 10 << 20
	}
	if h.rateLimit <= 0 {
		h.rateLimit = 30
	}
	return h
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data any) {
	h.writeJSONStatus(w, data, http.StatusOK)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message, "status", code)
	} else {
		slog.Warn(message, "status", code)
	}
	http.Error(w, message, code)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var rangeErr *numbering.RangeError
	var uploadErr *drive.UploadError
	switch {
	case errors.As(err, &rangeErr),
		errors.Is(err, assembly.ErrEmptyBook),
		errors.Is(err, book.ErrUnsupportedImage):
		return http.StatusBadRequest
	case errors.Is(err, book.ErrPageNotFound):
		return http.StatusNotFound
	case errors.As(err, &uploadErr):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled):
		return 499
	default:
		return http.StatusInternalServerError
	}
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, sessionID string) (*book.Session, bool) {
	session, exists := h.sessionStore.Get(sessionID)
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return session, true
}
