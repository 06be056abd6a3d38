package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/globalteceducacional/toth/internal/handlers"
	"github.com/globalteceducacional/toth/internal/images"
	"github.com/globalteceducacional/toth/internal/storage"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the book assembly HTTP API",
		Long: `Starts the Toth HTTP API on the specified port.

Clients create a session, upload page images, reorder them and export the
numbered PDFs and EPUB as one ZIP, or upload it to Google Drive.`,
		Example: `  # Start server on default port 8888
  toth serve

  # Start server on custom port
  toth serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := handlers.Options{
				Store:          storage.New(a.cfg.SessionTTL),
				Assembler:      a.newAssembler(),
				Fetcher:        images.NewFetcher(),
				MaxUploadBytes: a.cfg.MaxUploadBytes(),
				RateLimit:      a.cfg.RateLimit,
			}
			uploader, err := a.newUploader(cmd.Context())
			if err != nil {
				slog.Warn("Drive upload disabled", "error", err)
			} else {
				opts.Uploader = uploader
			}
			handler := handlers.New(opts)

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Toth API available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")

	return cmd
}
