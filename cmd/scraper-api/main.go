package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prasdev/ebay-scraper-api/internal/api"
	"github.com/prasdev/ebay-scraper-api/internal/browser"
	"github.com/prasdev/ebay-scraper-api/internal/config"
	"github.com/prasdev/ebay-scraper-api/internal/enhancer"
	"github.com/prasdev/ebay-scraper-api/internal/ratelimit"
	"github.com/prasdev/ebay-scraper-api/internal/scraper"
	"github.com/prasdev/ebay-scraper-api/internal/snapshot"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	// Each scrape run gets its own browser session, acquired at pipeline
	// entry and released when the run finishes.
	newFetcher := func(ctx context.Context) (scraper.Fetcher, error) {
		return scraper.NewPlaywrightFetcher(&browser.Options{
			Headless:       cfg.Browser.Headless,
			Timeout:        cfg.Browser.Timeout,
			UserAgent:      cfg.Browser.UserAgent,
			ViewportWidth:  cfg.Browser.ViewportWidth,
			ViewportHeight: cfg.Browser.ViewportHeight,
			Locale:         cfg.Browser.Locale,
			TimezoneID:     cfg.Browser.TimezoneID,
		}, cfg.Scraper.SearchBaseURL, cfg.Scraper.NavigationTimeout)
	}

	var enh enhancer.Enhancer
	if cfg.Enhancer.APIKey == "" {
		logger.Warn("OPENAI_API_KEY not set, enhancement disabled")
		enh = enhancer.Disabled{}
	} else {
		enh = enhancer.NewClient(cfg.Enhancer.BaseURL, cfg.Enhancer.APIKey, cfg.Enhancer.Model, cfg.Enhancer.Timeout)
		if cfg.Enhancer.CacheSize > 0 {
			cached, err := enhancer.NewCached(enh, cfg.Enhancer.CacheSize)
			if err != nil {
				logger.Error("failed to create enhancement cache", "error", err)
				os.Exit(1)
			}
			enh = cached
		}
	}

	metrics := scraper.NewMetrics()

	pipeline := scraper.NewPipeline(scraper.PipelineOptions{
		NewFetcher:      newFetcher,
		Enhancer:        enh,
		ItemLimiter:     ratelimit.NewJitterLimiter(cfg.Scraper.ItemDelayMin, cfg.Scraper.ItemDelayMax),
		PageLimiter:     ratelimit.NewJitterLimiter(cfg.Scraper.PageDelayMin, cfg.Scraper.PageDelayMax),
		MaxItemsPerPage: cfg.Scraper.MaxItemsPerPage,
		Metrics:         metrics,
		Logger:          logger,
	})

	store := snapshot.NewStore(cfg.Snapshot.Path)
	handlers := api.NewHandlers(pipeline, store, cfg.Scraper.MaxPages, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", handlers.Health)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	r.Get("/api/scrape", handlers.Scrape)
	r.Get("/download", handlers.Download)

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	logger.Info("server starting", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
