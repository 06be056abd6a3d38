package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// Routes builds the API router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	limited := httprate.LimitByIP(h.rateLimit, time.Minute)

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})

	r.Get("/api/sessions", h.HandleListSessions)
	r.Post("/api/sessions", h.HandleCreateSession)
	r.Get("/api/sessions/{sessionID}", h.HandleGetSession)
	r.Delete("/api/sessions/{sessionID}", h.HandleDeleteSession)
	r.With(limited).Post("/api/sessions/{sessionID}/pages", h.HandleAddPages)
	r.Delete("/api/sessions/{sessionID}/pages/{pageID}", h.HandleRemovePage)
	r.Post("/api/sessions/{sessionID}/pages/{pageID}/move", h.HandleMovePage)
	r.With(limited).Post("/api/sessions/{sessionID}/export", h.HandleExport)
	r.With(limited).Post("/api/sessions/{sessionID}/upload", h.HandleUpload)

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		level := slog.LevelInfo
		switch {
		case ww.Status() >= 500:
			level = slog.LevelError
		case ww.Status() >= 400:
			level = slog.LevelWarn
		}
		slog.Log(r.Context(), level, "Request handled",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}
