package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// TickInterval is the scene recompute period; SessionTTL reaps sessions
	// whose client has gone away without closing.
	TickInterval time.Duration
	SessionTTL   time.Duration

	// Fallback coordinates used when a client does not share its location.
	FallbackLat float64
	FallbackLon float64

	// AudioVolume is the target volume for ambient audio channels.
	AudioVolume float64

	// OpenWeatherMap configuration.
	OpenWeatherKey     string
	OpenWeatherEnabled bool
	OpenWeatherTimeout time.Duration
	WeatherCacheSize   int
	WeatherCacheTTL    time.Duration
}

// Load reads configuration from the environment (and an optional .env file),
// applying defaults where unset.
func Load() (*Config, error) {
	// Best effort: a missing .env just means plain env vars.
	_ = godotenv.Load()

	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	tickInterval, err := envDuration("TICK_INTERVAL", 60*time.Second)
	if err != nil {
		return nil, err
	}
	sessionTTL, err := envDuration("SESSION_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	weatherTimeout, err := envDuration("OPENWEATHER_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := envDuration("WEATHER_CACHE_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	fallbackLat, err := envFloat("FALLBACK_LAT", 19.0760)
	if err != nil {
		return nil, err
	}
	fallbackLon, err := envFloat("FALLBACK_LON", 72.8777)
	if err != nil {
		return nil, err
	}
	audioVolume, err := envFloat("AUDIO_VOLUME", 0.6)
	if err != nil {
		return nil, err
	}

	weatherKey := os.Getenv("OPENWEATHER_API_KEY")
	weatherEnabled := weatherKey != ""
	if v := os.Getenv("OPENWEATHER_ENABLED"); v != "" {
		weatherEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		TickInterval:    tickInterval,
		SessionTTL:      sessionTTL,
		FallbackLat:     fallbackLat,
		FallbackLon:     fallbackLon,
		AudioVolume:     audioVolume,

		OpenWeatherKey:     weatherKey,
		OpenWeatherEnabled: weatherEnabled,
		OpenWeatherTimeout: weatherTimeout,
		WeatherCacheSize:   envInt("WEATHER_CACHE_SIZE", 256),
		WeatherCacheTTL:    cacheTTL,
	}

	if cfg.TickInterval <= 0 {
		return nil, errors.New("TICK_INTERVAL must be positive")
	}
	if cfg.SessionTTL <= 0 {
		return nil, errors.New("SESSION_TTL must be positive")
	}
	if cfg.AudioVolume < 0 || cfg.AudioVolume > 1 {
		return nil, errors.New("AUDIO_VOLUME must be in [0,1]")
	}
	if cfg.FallbackLat < -90 || cfg.FallbackLat > 90 {
		return nil, errors.New("FALLBACK_LAT must be in [-90,90]")
	}
	if cfg.FallbackLon < -180 || cfg.FallbackLon > 180 {
		return nil, errors.New("FALLBACK_LON must be in [-180,180]")
	}
	if cfg.OpenWeatherEnabled && cfg.OpenWeatherKey == "" {
		return nil, errors.New("OPENWEATHER_ENABLED is true but OPENWEATHER_API_KEY is not set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
