package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/DeafMist/trend-dashboard/internal/config"
	"github.com/DeafMist/trend-dashboard/internal/geo"
	"github.com/DeafMist/trend-dashboard/internal/logger"
	"github.com/DeafMist/trend-dashboard/internal/logs"
	"github.com/DeafMist/trend-dashboard/internal/newsapi"
	"github.com/DeafMist/trend-dashboard/internal/trends"
	"github.com/DeafMist/trend-dashboard/internal/web"
)

func newServeCmd() *cobra.Command {
	var debug bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if debug {
				if err := os.Setenv("LOG_LEVEL", "debug"); err != nil {
					return err
				}
			}
			return serve(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "log at debug level")
	return cmd
}

func serve(parent context.Context) error {
	cfg, err := config.LoadDashboard()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, logFile, err := logger.Setup("dashboard", cfg.Logs.Dir)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logFile.Close()
	slog.SetDefault(log)
	log.Debug("writing log file", slog.String("path", logFile.Path()))

	news, err := newsapi.New(cfg.News.BaseURL, cfg.News.APIKey,
		&http.Client{Timeout: cfg.News.Timeout},
		log.With(logger.ComponentKey, "newsapi"))
	if err != nil {
		return fmt.Errorf("init newsapi: %w", err)
	}

	google, err := trends.NewGoogleSource(cfg.Trends.Language, log.With(logger.ComponentKey, "trends"))
	if err != nil {
		return fmt.Errorf("init trends: %w", err)
	}

	srv, err := web.New(log.With(logger.ComponentKey, "web"), news,
		trends.NewCached(google, cfg.Trends.CacheTTL),
		boundarySource(cfg.Geo.BoundariesPath),
		web.Settings{
			NewsQuery: cfg.News.Query,
			PageSize:  cfg.News.PageSize,
			Trends: trends.Query{
				Keywords:  cfg.Trends.Keywords,
				Timeframe: cfg.Trends.Timeframe,
				Geo:       cfg.Trends.Geo,
			},
			Exclude: cfg.Geo.Exclude,
			Aliases: cfg.Geo.Aliases,
			LogDir:  cfg.Logs.Dir,
		},
		time.Now,
	)
	if err != nil {
		return fmt.Errorf("init web: %w", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go runRetention(ctx, log.With(logger.ComponentKey, "retention"), cfg.Logs)

	errCh := make(chan error, 1)
	go func() {
		log.Info("dashboard server starting", slog.String("addr", cfg.BindAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
	return nil
}

// boundarySource parses the boundary dataset on first use and reuses it.
func boundarySource(path string) web.BoundarySource {
	return sync.OnceValues(func() ([]geo.Boundary, error) {
		if path == "" {
			return geo.Default()
		}
		return geo.LoadFile(path)
	})
}

func runRetention(ctx context.Context, log *slog.Logger, cfg config.Logs) {
	ticker := time.NewTicker(cfg.RetentionInterval)
	defer ticker.Stop()

	log.Info("log retention running",
		slog.Duration("interval", cfg.RetentionInterval),
		slog.Duration("max_age", cfg.RetentionMaxAge),
	)

	pruneOnce(log, cfg)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pruneOnce(log, cfg)
		}
	}
}

func pruneOnce(log *slog.Logger, cfg config.Logs) {
	deleted, err := logs.Prune(cfg.Dir, cfg.RetentionMaxAge, time.Now())
	if err != nil {
		log.Warn("retention run failed (will retry on next interval)", slog.Any("err", err))
		return
	}
	if deleted > 0 {
		log.Info("retention run completed", slog.Int("deleted", deleted))
	} else {
		log.Debug("retention run completed, no old log files found")
	}
}
