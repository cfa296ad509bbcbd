// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/exhyte/internal/api"
	"github.com/starford/exhyte/internal/catalog"
	"github.com/starford/exhyte/internal/index"
	"github.com/starford/exhyte/internal/mcpserver"
	"github.com/starford/exhyte/internal/paperservice"
	"github.com/starford/exhyte/internal/sse"
	"github.com/starford/exhyte/internal/survey"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{version: "dev", out: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// core holds the components shared by the HTTP and MCP front ends.
type core struct {
	cache *catalog.Cache
	db    *index.DB
	svc   *paperservice.Service
}

func openCore(cfg *Config, logger *slog.Logger, cb index.EventCallback) (*core, error) {
	cache := catalog.NewCache(cfg.Papers.Path, logger)

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}

	if err := index.Sync(db, cache.Current(), logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	svcOpts := []paperservice.Option{
		paperservice.WithLogger(logger),
		paperservice.WithNotifier(cb),
	}
	if cfg.LLM.Enabled() {
		client := survey.NewClient(
			survey.WithBaseURL(cfg.LLM.BaseURL),
			survey.WithAPIKey(cfg.LLM.APIKey),
			survey.WithHTTPClient(&http.Client{Timeout: cfg.LLM.Timeout}),
			survey.WithRateLimit(cfg.LLM.RateLimit),
		)
		gen := survey.NewGenerator(client, cfg.LLM.SurveyOptions(), logger)
		svcOpts = append(svcOpts, paperservice.WithGenerator(gen))
		logger.Info("survey generation enabled",
			slog.String("base_url", cfg.LLM.BaseURL),
			slog.String("model", cfg.LLM.Model))
	}

	return &core{
		cache: cache,
		db:    db,
		svc:   paperservice.NewService(cache, db, svcOpts...),
	}, nil
}

func (c *core) Close() error {
	return c.db.Close()
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := newLogger(os.Stdout, cfg.App.LogLevel)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("papers_path", cfg.Papers.Path),
		slog.Bool("watch", cfg.Papers.Watch),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	var c *core
	broker := sse.NewBroker(2*time.Second, func() string {
		return c.cache.Current().Generation
	})
	defer broker.Close()
	notify := index.EventCallback(broker.PublishPaperEvent)

	c, err = openCore(cfg, logger, notify)
	if err != nil {
		return err
	}
	defer c.Close()

	apiRouter := api.NewRouter(c.svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(api.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := c.db.Ping(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Papers.Watch {
		g.Go(func() error {
			if err := index.Watch(gCtx, c.db, c.cache, logger, notify); err != nil {
				logger.Error("watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group once the server has been asked to stop so
// that the watcher exits too.
var errShutdown = errors.New("shutdown")

// RunMCP serves the paper tools over MCP stdio. Logs go to stderr since
// stdout carries the protocol.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := newLogger(os.Stderr, cfg.App.LogLevel)

	c, err := openCore(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if cfg.Papers.Watch {
		go func() {
			if err := index.Watch(ctx, c.db, c.cache, logger, nil); err != nil {
				logger.Error("watcher stopped", slog.String("error", err.Error()))
			}
		}()
	}

	logger.Info("MCP server starting", slog.String("papers_path", cfg.Papers.Path))
	return mcpserver.New(c.svc, app.version).ServeStdio()
}

// Check loads the paper directory once and writes a report of the catalog
// and every load warning. It returns an error only when a file or the
// directory itself could not be loaded.
func Check(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := newLogger(os.Stderr, cfg.App.LogLevel)
	snap := catalog.Load(cfg.Papers.Path, logger)

	fmt.Fprintf(app.out, "directory: %s\n", cfg.Papers.Path)
	fmt.Fprintf(app.out, "papers:    %d\n", snap.Len())
	fmt.Fprintf(app.out, "topics:    %d\n", len(snap.Topics))
	for _, t := range catalog.TopicCounts(snap.Papers) {
		fmt.Fprintf(app.out, "  %-30s %d\n", t.Name, t.Count)
	}
	if len(snap.Warnings) == 0 {
		return nil
	}
	fmt.Fprintf(app.out, "warnings:  %d\n", len(snap.Warnings))
	skipped := 0
	for _, w := range snap.Warnings {
		if w.Skipped {
			skipped++
		}
		fmt.Fprintf(app.out, "  %s: %s\n", w.File, w.Error)
	}
	if skipped == 0 {
		return nil
	}
	return fmt.Errorf("%d file(s) could not be loaded", skipped)
}
