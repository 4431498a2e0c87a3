// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/mirekh/jotdesk/internal/api"
	"github.com/mirekh/jotdesk/internal/mcpserver"
	"github.com/mirekh/jotdesk/internal/notestore"
	"github.com/mirekh/jotdesk/internal/sse"
	"github.com/mirekh/jotdesk/internal/storage"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger. In MCP mode stdout carries the
	// protocol, so logs go to stderr.
	logOut := os.Stdout
	if app.mcpMode {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("notes_dir", cfg.Notes.Dir),
		slog.String("log_level", cfg.App.LogLevel.String()),
		slog.Bool("mcp_mode", app.mcpMode))

	// Ensure the notes directory exists (first run).
	if err := os.MkdirAll(cfg.Notes.Dir, 0o755); err != nil {
		return fmt.Errorf("create notes dir: %w", err)
	}

	// Initialize storage.
	files, err := storage.NewDir(cfg.Notes.Dir)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	// Build the store and load existing notes.
	store := notestore.New(files, logger)
	notes, err := store.LoadAll()
	if err != nil {
		return fmt.Errorf("initial load: %w", err)
	}
	logger.Info("Notes loaded", slog.Int("count", len(notes)))

	if app.mcpMode {
		return runMCP(ctx, store, files, logger)
	}
	return runHTTP(ctx, cfg, store, files, logger)
}

// runMCP serves the collaborator interface over MCP stdio, with the
// directory watcher running alongside until the session ends.
func runMCP(ctx context.Context, store *notestore.Store, files *storage.Dir, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return notestore.Watch(gCtx, store, files.Root(), logger, nil)
	})

	srv := mcpserver.New(store)
	err := srv.ServeStdio()

	// Stdio session over; stop the watcher.
	cancel()
	if waitErr := g.Wait(); waitErr != nil && err == nil {
		err = waitErr
	}
	return err
}

// runHTTP serves the collaborator interface over local HTTP with SSE events.
func runHTTP(ctx context.Context, cfg *Config, store *notestore.Store, files *storage.Dir, logger *slog.Logger) error {
	broker := sse.NewBroker()
	defer broker.Close()

	apiRouter := api.NewRouter(store, broker, cfg.Auth.AuthEnabled(), cfg.Auth.Token)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start the directory watcher; reloads publish an SSE event.
	g.Go(func() error {
		return notestore.Watch(gCtx, store, files.Root(), logger, broker.PublishReloaded)
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		// Stop the watcher as well.
		cancel()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
