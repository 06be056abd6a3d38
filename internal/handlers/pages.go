package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type orderView struct {
	Order []string `json:"order"`
}

func (h *Handler) HandleRemovePage(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, chi.URLParam(r, "sessionID"))
	if !ok {
		return
	}

	if err := session.Remove(chi.URLParam(r, "pageID")); err != nil {
		h.writeError(w, err.Error(), statusFor(err))
		return
	}
	h.writeJSON(w, orderView{Order: session.Order()})
}

// HandleMovePage moves a page to {"position": n}. Out of range positions are
// clamped to the first or last page.
func (h *Handler) HandleMovePage(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, chi.URLParam(r, "sessionID"))
	if !ok {
		return
	}

	var body struct {
		Position *int `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if body.Position == nil {
		h.writeError(w, "position is required", http.StatusBadRequest)
		return
	}

	if err := session.Move(chi.URLParam(r, "pageID"), *body.Position); err != nil {
		h.writeError(w, err.Error(), statusFor(err))
		return
	}
	h.writeJSON(w, orderView{Order: session.Order()})
}
