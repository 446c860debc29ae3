package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/realmeta/docent/internal/analytics"
	"github.com/realmeta/docent/internal/config"
	"github.com/realmeta/docent/internal/handlers"
	"github.com/realmeta/docent/internal/kvstore"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the museum companion web service",
		Long: `Starts the Docent companion service on the specified port.

The service backs the mobile-web companion: visitors scan paintings with
their camera, a vision-capable LLM identifies them, and tours guide the
visit. Managers author tours through the same interface.`,
		Example: `  # Start server on default port 8888
  docent serve

  # Start server on custom port
  docent serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}

			durable, err := kvstore.OpenSQLite(cfg.DBPath)
			if err != nil {
				return err
			}
			defer func() {
				if err := durable.Close(); err != nil {
					slog.Error("Failed to close durable store", "err", err)
				}
			}()

			sink := analytics.NewSink(cfg.AnalyticsLog)
			defer func() {
				if err := sink.Close(); err != nil {
					slog.Error("Failed to close analytics sink", "err", err)
				}
			}()

			handler := handlers.New(cfg, durable, sink)

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/identify", handler.HandleIdentify)
			mux.HandleFunc("/api/tours", handler.HandleTours)
			mux.HandleFunc("/api/tours/", handler.HandleTourDetail)
			mux.HandleFunc("/api/tour-images", handler.HandleTourImage)
			mux.HandleFunc("/api/visitor", handler.HandleVisitor)
			mux.HandleFunc("/api/visitor/consent", handler.HandleConsent)
			mux.HandleFunc("/api/manager/login", handler.HandleManagerLogin)
			mux.HandleFunc("/api/state/", handler.HandleState)
			mux.HandleFunc("/api/progress", handler.HandleProgress)
			mux.HandleFunc("/api/events", handler.HandleEvents)
			mux.HandleFunc("/", handler.HandleStatic)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + cfg.Port
			server := &http.Server{
				Addr:    addr,
				Handler: mux,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Docent companion available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
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

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides DOCENT_PORT)")

	return cmd
}
