package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	httpadapter "github.com/skyfolio/ambience/internal/adapter/http"
	"github.com/skyfolio/ambience/internal/adapter/openweather"
	"github.com/skyfolio/ambience/internal/adapter/suncalc"
	"github.com/skyfolio/ambience/internal/broker"
	"github.com/skyfolio/ambience/internal/config"
	"github.com/skyfolio/ambience/internal/domain"
	"github.com/skyfolio/ambience/internal/engine"
	"github.com/skyfolio/ambience/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	// Weather is feature-flagged via OPENWEATHER_ENABLED / OPENWEATHER_KEY.
	var weather engine.WeatherSource
	if cfg.OpenWeatherEnabled {
		client := openweather.NewClient(cfg.OpenWeatherKey, cfg.OpenWeatherTimeout, metrics, logger)
		weather = openweather.NewCachedSource(client, cfg.WeatherCacheSize, cfg.WeatherCacheTTL, clock, metrics)
		logger.Info("openweather enabled", "cache_size", cfg.WeatherCacheSize, "cache_ttl", cfg.WeatherCacheTTL)
	} else {
		logger.Info("openweather disabled, sessions keep a clear sky")
	}

	frames := broker.New(logger, metrics)
	eng := engine.New(suncalc.New(), weather, frames, clock, engine.Config{
		TickInterval: cfg.TickInterval,
		SessionTTL:   cfg.SessionTTL,
		Fallback:     domain.Location{Lat: cfg.FallbackLat, Lon: cfg.FallbackLon},
		AudioLevel:   cfg.AudioVolume,
	}, metrics, logger)

	srv := httpadapter.NewServer(cfg.HTTPAddr, eng, eng, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start scene engine.
	go func() {
		if err := eng.Run(ctx); err != nil {
			logger.Error("scene engine error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
