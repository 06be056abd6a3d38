package handlers

import (
	"net/http"
	"time"

	"github.com/globalteceducacional/toth/internal/book"
	"github.com/go-chi/chi/v5"
)

type pageView struct {
	Position int `json:"position"`
	*book.Page
}

type sessionView struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	Pages     []pageView `json:"pages"`
}

func newSessionView(s *book.Session) sessionView {
	pages := s.Pages()
	view := sessionView{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		Pages:     make([]pageView, len(pages)),
	}
	for i, p := range pages {
		view.Pages[i] = pageView{Position: i + 1, Page: p}
	}
	return view
}

func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	session := book.NewSession()
	h.sessionStore.Set(session)
	h.writeJSONStatus(w, newSessionView(session), http.StatusCreated)
}

func (h *Handler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := h.sessionStore.GetAll()
	sessionList := make([]sessionView, 0, len(sessions))
	for _, session := range sessions {
		sessionList = append(sessionList, newSessionView(session))
	}
	h.writeJSON(w, sessionList)
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, chi.URLParam(r, "sessionID"))
	if !ok {
		return
	}
	h.writeJSON(w, newSessionView(session))
}

func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !h.sessionStore.Delete(chi.URLParam(r, "sessionID")) {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
