package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/SkynetNext/writeresult/internal/bench"
	"github.com/SkynetNext/writeresult/internal/config"
	"github.com/SkynetNext/writeresult/internal/logger"
	"github.com/SkynetNext/writeresult/internal/metrics"
	"github.com/SkynetNext/writeresult/internal/result"
	"github.com/SkynetNext/writeresult/internal/tracing"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// applyConfig applies the settings that can change at runtime
func applyConfig(cfg *config.Config) error {
	logger.SetLevel(cfg.Log.Level)
	result.SetTracking(cfg.TrackingEnabled(result.DefaultTracking()))
	return nil
}

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Configuration file path (defaults apply when empty)")
	flag.Parse()

	// Load configuration
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		cfg = loaded
	}

	// LOG_LEVEL overrides the configured level
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
		if err := config.ValidateConfig(cfg); err != nil {
			log.Fatalf("Invalid LOG_LEVEL %q: %v", level, err)
		}
	}
	if err := logger.Init(cfg.Log.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := applyConfig(cfg); err != nil {
		log.Fatalf("Failed to apply configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize tracing (optional)
	if err := tracing.Init(ctx, cfg.Tracing, version); err != nil {
		logger.L.Warn("Failed to initialize tracing", zap.Error(err))
	} else if cfg.Tracing.Endpoint != "" {
		logger.L.Info("Tracing initialized", zap.String("endpoint", cfg.Tracing.Endpoint))
	}

	// Metrics endpoint
	var metricsServer *http.Server
	if cfg.Metrics.ListenAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{Addr: cfg.Metrics.ListenAddr, Handler: mux}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.L.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	// Hot reload
	if configPath != "" && cfg.ReloadInterval > 0 {
		reloader := config.NewHotReloadManager(cfg, applyConfig)
		reloader.OnError(func(err error) {
			metrics.ConfigReloadErrors.Inc()
			logger.WarnWithTrace(ctx, "Configuration reload failed", zap.Error(err))
		})
		go func() {
			_ = reloader.WatchConfigFile(ctx, configPath, cfg.ReloadInterval)
		}()
	}

	logger.L.Info("Result bench started",
		zap.String("version", version),
		zap.String("build_time", buildTime),
		zap.String("git_commit", gitCommit),
		zap.Int("workers", cfg.Bench.Workers),
		zap.Int("writes", cfg.Bench.Writes),
		zap.Bool("shared_pool", cfg.Pool.Shared),
		zap.Bool("tracking", result.Tracking()),
	)

	// Stop early on interrupt
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			logger.L.Info("Received stop signal, stopping workers...")
			cancel()
		case <-ctx.Done():
		}
	}()

	runCtx, span := tracing.StartSpan(ctx, "bench.run")
	summary, err := bench.Run(runCtx, cfg.Bench, cfg.Pool)
	if err != nil && !errors.Is(err, context.Canceled) {
		span.RecordError(err)
		logger.ErrorWithTrace(runCtx, "Bench run failed", zap.Error(err))
	}
	if summary != nil {
		logger.InfoWithTrace(runCtx, "Bench finished",
			zap.Int64("writes", summary.Writes),
			zap.Int64("bytes", summary.Bytes),
			zap.Int64("copies", summary.Copies),
			zap.Uint64("pool_hits", summary.Stats.Hits),
			zap.Uint64("pool_misses", summary.Stats.Misses),
			zap.Uint64("pool_drops", summary.Stats.Drops),
			zap.Duration("duration", summary.Duration),
		)
	}
	span.End()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
	defer shutdownCancel()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.L.Warn("Error during metrics server shutdown", zap.Error(err))
		}
	}

	if err := tracing.Shutdown(shutdownCtx); err != nil {
		logger.L.Warn("Error during tracing shutdown", zap.Error(err))
	}

	logger.L.Info("Result bench closed")
}
