package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kiranshivaraju/mediagate/internal/ai"
	"github.com/kiranshivaraju/mediagate/internal/api"
	"github.com/kiranshivaraju/mediagate/internal/api/handler"
	"github.com/kiranshivaraju/mediagate/internal/api/response"
	"github.com/kiranshivaraju/mediagate/internal/cache"
	"github.com/kiranshivaraju/mediagate/internal/config"
	"github.com/kiranshivaraju/mediagate/internal/jobs"
	"github.com/kiranshivaraju/mediagate/internal/logging"
	"github.com/kiranshivaraju/mediagate/internal/media"
	"github.com/kiranshivaraju/mediagate/internal/retry"
	"github.com/kiranshivaraju/mediagate/internal/store"
	"github.com/kiranshivaraju/mediagate/pkg/models"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	// 1. Load config, fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.New(cfg.Server.Env)
	logger.Info().Str("env", cfg.Server.Env).Msg("config loaded")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	logger.Info().Msg("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info().Msg("database migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	logger.Info().Msg("redis connected")

	// 5. Media storage and asset ledger
	pgStore := store.NewPostgresStore(pool)
	s3, err := media.NewS3Store(cfg.Storage, cfg.Providers.Timeout)
	if err != nil {
		return fmt.Errorf("create media storage: %w", err)
	}
	rehoster := media.NewRehoster(s3, pgStore, cfg.Providers.Timeout, logger)
	logger.Info().Str("bucket", cfg.Storage.Bucket).Msg("media storage ready")

	// 6. Provider adapters, job tracker and dispatcher
	policy := retry.Policy{Attempts: cfg.Retry.Attempts, Delay: cfg.Retry.Delay}
	clients := ai.NewClients(cfg.Providers)

	tracker, err := jobs.NewTracker(jobs.Config{
		Memo:     redisCache,
		Rehoster: rehoster,
		Retry:    policy,
		TTL:      cfg.Redis.JobStatusTTL,
		Logger:   logger,
	}, clients.JobAdapters()...)
	if err != nil {
		return fmt.Errorf("create job tracker: %w", err)
	}

	dispatcher, err := ai.NewDispatcher(clients.Dependencies(ai.Dependencies{
		Uploader: rehoster,
		Media:    rehoster,
		Jobs:     tracker,
		Retry:    policy,
		Logger:   logger,
	}))
	if err != nil {
		return fmt.Errorf("create dispatcher: %w", err)
	}
	logger.Info().Int("task_kinds", len(dispatcher.Kinds())).Msg("dispatcher initialized")

	// 7. Build router with dependencies
	deps := routes(dispatcher, tracker, clients.Streamer(), rehoster, pgStore, logger)
	deps.HealthHandler = healthHandler(pgStore, redisCache)

	router := api.NewRouter(deps)

	// 8. Start HTTP server. No write timeout: streams and long generations are
	// bounded by the provider timeout instead.
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info().Msg("server stopped gracefully")
	return nil
}

// mediaService is what the file endpoints need from the rehoster.
type mediaService interface {
	handler.Storer
	models.Uploader
}

// routes wires every endpoint handler. A nil streamer leaves /lm-stream unimplemented.
func routes(d handler.Dispatcher, p handler.Poller, streamer models.TokenStreamer, files mediaService, assets handler.AssetLister, logger zerolog.Logger) api.Dependencies {
	deps := api.Dependencies{
		Logger: logger,

		PutFile:    handler.NewPutFileHandler(files),
		PutFiles:   handler.NewPutFilesHandler(files),
		ListAssets: handler.NewListAssetsHandler(assets),

		LM:                handler.NewTaskHandler(d, handler.RouteLM),
		ImageTask:         handler.NewTaskHandler(d, handler.RouteImageTask),
		ImageBulkDescribe: handler.NewTaskHandler(d, handler.RouteBulkDescribe),
		ImageEdit:         handler.NewTaskHandler(d, handler.RouteImageEdit),
		ImageImagine:      handler.NewTaskHandler(d, handler.RouteImagine),
		ImageInpaint:      handler.NewTaskHandler(d, handler.RouteInpaint),
		ImageFill:         handler.NewTaskHandler(d, handler.RouteFill),
		ImageStable:       handler.NewTaskHandler(d, handler.RouteStable),
		WorkflowImagine:   handler.NewTaskHandler(d, handler.RouteWorkflowImagine),

		Runway:     handler.NewTaskHandler(d, handler.RouteRunway),
		PollRunway: handler.NewPollHandler(p, models.JobProviderRunway),
		Synthesize: handler.NewTaskHandler(d, handler.RouteSynthesize),
		CloneVoice: handler.NewTaskHandler(d, handler.RouteCloneVoice),
		Speak:      handler.NewTaskHandler(d, handler.RouteSpeak),
		Avatar:     handler.NewTaskHandler(d, handler.RouteAvatar),
		PollAvatar: handler.NewPollHandler(p, models.JobProviderSieve),
	}
	if streamer != nil {
		deps.LMStream = handler.NewStreamHandler(streamer, logger)
	}
	return deps
}

// pinger is satisfied by both the asset store and the cache.
type pinger interface {
	Ping(ctx context.Context) error
}

// healthHandler checks database and cache connectivity.
func healthHandler(db, c pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}

		if err := db.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := c.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}

		degraded := checks["database"] != "ok" || checks["cache"] != "ok"
		if degraded {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
