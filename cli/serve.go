package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"loan-engine/config"
	httpLayer "loan-engine/http"
	"loan-engine/logging"
	"loan-engine/repository"
	"loan-engine/service"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP calculator service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.cfgFile)
			if err != nil {
				printError("loading config", err)
				return err
			}
			logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
			if err != nil {
				printError("building logger", err)
				return err
			}
			defer func() { _ = logger.Sync() }()
			return runServe(cmd.Context(), cfg, logger)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	cache, closeCache := buildCache(ctx, cfg, logger)
	defer closeCache()

	history := repository.NewCalculationRepositoryMemory(cfg.History.Size)
	loanService := newLoanService(cfg, history, cache, logger)
	termService := service.NewTermRecommendationService(loanService)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Window.Duration)
	defer rateLimiter.Stop()

	router := httpLayer.Router{
		Loan:        httpLayer.NewLoanHandler(loanService, logger),
		Terms:       httpLayer.NewTermRecommendationHandler(termService, logger),
		RateLimiter: rateLimiter,
		Metrics:     httpLayer.NewMetrics(),
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
		IdleTimeout:  cfg.Server.IdleTimeout.Duration,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		logger.Error("error starting server", zap.Error(err))
		return err
	case <-quit:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", zap.Error(err))
		return err
	}

	logger.Info("server exited")
	return nil
}

// buildCache returns Redis when it is enabled and reachable, and the
// in-memory cache otherwise.
func buildCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.CacheRepository, func()) {
	if !cfg.Redis.Enabled {
		return repository.NewMemoryCache(), func() {}
	}

	redisCache := repository.NewRedisCache(cfg.Redis.Addr)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := redisCache.Ping(pingCtx); err != nil {
		logger.Warn("redis unreachable, using in-memory cache",
			zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		_ = redisCache.Close()
		return repository.NewMemoryCache(), func() {}
	}

	logger.Info("using redis cache", zap.String("addr", cfg.Redis.Addr))
	return redisCache, func() {
		if err := redisCache.Close(); err != nil {
			logger.Warn("error closing redis client", zap.Error(err))
		}
	}
}
