package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/globalteceducacional/toth/internal/assembly"
	"github.com/globalteceducacional/toth/internal/book"
	"github.com/globalteceducacional/toth/internal/export"
	"github.com/globalteceducacional/toth/internal/request"
	"github.com/go-chi/chi/v5"
)

// FailedArtifactsHeader lists the artifacts missing from a partial export.
const FailedArtifactsHeader = "X-Toth-Failed-Artifacts"

// HandleExport assembles the session and responds with the ZIP archive.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, chi.URLParam(r, "sessionID"))
	if !ok {
		return
	}

	archive, title, failed, ok := h.assemble(w, r, session)
	if !ok {
		return
	}

	if len(failed) > 0 {
		w.Header().Set(FailedArtifactsHeader, strings.Join(failed, ","))
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Slug(title)+".zip"))
	if _, err := w.Write(archive); err != nil {
		slog.Error("Unable to write archive", "session_id", session.ID, "err", err)
	}
}

// HandleUpload assembles the session and stores the archive in Drive. The
// optional folder_id query parameter overrides the configured folder.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		h.writeError(w, "Drive upload is not configured", http.StatusServiceUnavailable)
		return
	}
	session, ok := h.getSessionOrError(w, chi.URLParam(r, "sessionID"))
	if !ok {
		return
	}

	archive, title, failed, ok := h.assemble(w, r, session)
	if !ok {
		return
	}

	name := export.Slug(title) + ".zip"
	ref, err := h.uploader.Upload(r.Context(), name, archive, r.URL.Query().Get("folder_id"))
	if err != nil {
		h.writeError(w, "Upload failed: "+err.Error(), statusFor(err))
		return
	}

	h.writeJSON(w, map[string]any{
		"file_id":          ref.FileID,
		"url":              ref.URL,
		"name":             name,
		"failed_artifacts": failed,
	})
}

// assemble decodes the request body, applies its moves to the session, runs
// the assembly and packages it. On failure it writes the error response and
// returns ok=false.
func (h *Handler) assemble(w http.ResponseWriter, r *http.Request, session *book.Session) (archive []byte, title string, failed []string, ok bool) {
	var file request.File
	if err := json.NewDecoder(r.Body).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return nil, "", nil, false
	}

	if len(file.Pages) > 0 {
		h.writeError(w, "Invalid request: pages are added through the pages endpoint", http.StatusBadRequest)
		return nil, "", nil, false
	}
	if err := file.ApplyMoves(session); err != nil {
		h.writeError(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return nil, "", nil, false
	}

	req, err := file.ToRequest(session.Len())
	if err != nil {
		h.writeError(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return nil, "", nil, false
	}

	res, err := h.assembler.Assemble(r.Context(), session, req)
	if err != nil {
		h.writeError(w, "Assembly failed: "+err.Error(), statusFor(err))
		return nil, "", nil, false
	}

	failed = failedArtifacts(res)
	if len(failed) == len(export.Artifacts) {
		h.writeError(w, "Assembly failed: "+res.Err().Error(), http.StatusInternalServerError)
		return nil, "", nil, false
	}

	archive, err = res.Archive()
	if err != nil {
		h.writeError(w, "Failed to package archive: "+err.Error(), http.StatusInternalServerError)
		return nil, "", nil, false
	}
	return archive, req.Title, failed, true
}

func failedArtifacts(res *assembly.Result) []string {
	failed := []string{}
	for _, a := range export.Artifacts {
		if res.Errors[a] != nil {
			failed = append(failed, string(a))
		}
	}
	return failed
}
