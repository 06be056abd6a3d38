package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/globalteceducacional/toth/internal/book"
	"github.com/globalteceducacional/toth/internal/request"
	"github.com/go-chi/chi/v5"
)

var errMissingInput = errors.New("missing input")

// HandleAddPages ingests pages from a multipart form ("files", repeated) or
// from a JSON body {"image_url": ...} or {"image_urls": [...]}.
func (h *Handler) HandleAddPages(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, chi.URLParam(r, "sessionID"))
	if !ok {
		return
	}

	res := newIngestResult()
	var err error
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		err = h.handleURLUpload(w, r, session, res)
	} else {
		err = h.handleFileUpload(w, r, session, res)
	}
	if err != nil {
		return
	}

	res.Pages = session.Len()
	if len(res.Added)+len(res.Skipped) == 0 && len(res.Rejected) > 0 {
		h.writeJSONStatus(w, res, http.StatusBadRequest)
		return
	}
	h.writeJSON(w, res)
}

func (h *Handler) handleURLUpload(w http.ResponseWriter, r *http.Request, session *book.Session, res *ingestResult) error {
	var body struct {
		ImageURL  string   `json:"image_url"`
		ImageURLs []string `json:"image_urls"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return err
	}

	urls := body.ImageURLs
	if body.ImageURL != "" {
		urls = append([]string{body.ImageURL}, urls...)
	}
	if len(urls) == 0 {
		h.writeError(w, "image_url is required", http.StatusBadRequest)
		return errMissingInput
	}

	for _, u := range urls {
		if !request.IsURL(u) {
			res.Rejected = append(res.Rejected, rejectedPage{Name: u, Error: "not an http(s) URL"})
			continue
		}
		if err := h.processImageURL(r.Context(), session, res, u); err != nil {
			h.writeError(w, "Failed to process image URL: "+err.Error(), statusFor(err))
			return err
		}
	}
	return nil
}

func (h *Handler) handleFileUpload(w http.ResponseWriter, r *http.Request, session *book.Session, res *ingestResult) error {
	// Every file may use the per-file limit; the form as a whole is capped at
	// ten times that.
	r.Body = http.MaxBytesReader(w, r.Body, 10*h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.writeError(w, "Failed to read form: "+err.Error(), http.StatusBadRequest)
		return err
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		headers = r.MultipartForm.File["file"]
	}
	if len(headers) == 0 {
		h.writeError(w, "No files uploaded", http.StatusBadRequest)
		return errMissingInput
	}

	for _, header := range headers {
		if err := h.processImageFile(session, res, header); err != nil {
			h.writeError(w, err.Error(), http.StatusInternalServerError)
			return err
		}
	}
	return nil
}
