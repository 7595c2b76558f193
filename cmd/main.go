package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matheusft/hackathon-evaluator/internal/adapters/http/api"
	"github.com/matheusft/hackathon-evaluator/internal/adapters/repository"
	"github.com/matheusft/hackathon-evaluator/internal/adapters/submitlog"
	"github.com/matheusft/hackathon-evaluator/internal/app"
	"github.com/matheusft/hackathon-evaluator/internal/config"
	"github.com/matheusft/hackathon-evaluator/internal/domain/scoring"
	"github.com/matheusft/hackathon-evaluator/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Scoring strategy from config. Load already rejected unknown names.
	strategy, err := scoring.New(cfg.Strategy, scoring.Params{
		Weights:              cfg.CriterionWeights,
		TimeThresholdSeconds: cfg.TimeThresholdSeconds,
		MemoryThresholdMB:    cfg.MemoryThresholdMB,
		BaseScoreMin:         cfg.BaseScoreMin,
		BaseScoreMax:         cfg.BaseScoreMax,
	})
	if err != nil {
		os.Stderr.WriteString("failed to build scoring strategy: " + err.Error() + "\n")
		return
	}

	// Leaderboard store backed by the durable CSV file.
	store := repository.NewMemStore(
		repository.WithFlusher(repository.NewCSVFlusher(cfg.LeaderboardCSVPath)),
	)
	if err := store.Restore(ctx); err != nil {
		os.Stderr.WriteString("failed to restore leaderboard: " + err.Error() + "\n")
		return
	}
	log.Info(ctx, "leaderboard restored",
		logger.String("path", cfg.LeaderboardCSVPath),
		logger.Int("entries", store.Count(ctx)))

	// Submission history is best effort; the service runs without it.
	var recorder submitlog.Recorder = submitlog.Nop{}
	if cfg.SubmissionsDSN != "" {
		pg, err := submitlog.NewPostgresRecorder(ctx, cfg.SubmissionsDSN)
		if err != nil {
			log.Warn(ctx, "submission log unavailable; continuing without it", logger.Error(err))
		} else {
			defer func() {
				if err := pg.Close(); err != nil {
					log.Error(ctx, "failed to close submission log", logger.Error(err))
				}
			}()
			recorder = pg
		}
	}

	engine := app.New(
		app.WithLogger(log),
		app.WithStrategy(strategy),
		app.WithStore(store),
		app.WithSubmitLog(recorder),
	)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(engine, engine, cfg.MaxLeaderboardLimit)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("strategy", strategy.Name()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}
