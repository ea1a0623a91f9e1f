package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/city-weather/internal/ratelimit"
)

// Supported upstream providers.
const (
	ProviderOpenWeather = "openweathermap"
	ProviderWeatherAPI  = "weatherapi"
	ProviderOpenMeteo   = "openmeteo"
)

// Supported rate limiter backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type AppConfig struct {
	Port     string
	AppEnv   string // dev or prod
	LogLevel slog.Level

	// Provider selects the single upstream weather source.
	Provider          string
	OpenWeatherAPIKey string
	WeatherAPIKey     string
	GeocoderAPIKey    string // Google geocoding for Open-Meteo; optional

	HTTPTimeout   time.Duration // per outbound HTTP call
	LookupTimeout time.Duration // per weather lookup

	RateLimit ratelimit.Config
	// RateLimitBackend is memory (single process) or redis (shared by replicas).
	RateLimitBackend string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RedisKey         string

	// Outbound throttle; UpstreamRPS <= 0 disables it.
	UpstreamRPS   float64
	UpstreamBurst int

	ReportInterval time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:              getenvDefault("PORT", "8080"),
		AppEnv:            getenvDefault("APP_ENV", "dev"),
		Provider:          strings.ToLower(getenvDefault("WEATHER_PROVIDER", ProviderOpenWeather)),
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		WeatherAPIKey:     os.Getenv("WEATHERAPI_API_KEY"),
		GeocoderAPIKey:    os.Getenv("GEOCODER_API_KEY"),
		RateLimitBackend:  strings.ToLower(getenvDefault("RATE_LIMIT_BACKEND", BackendMemory)),
		RedisAddr:         getenvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisKey:          getenvDefault("RATE_LIMIT_REDIS_KEY", ratelimit.DefaultRedisKey),
	}

	switch cfg.AppEnv {
	case "dev", "prod":
	default:
		return nil, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", cfg.AppEnv)
	}

	level, err := parseLogLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	switch cfg.Provider {
	case ProviderOpenWeather:
		if cfg.OpenWeatherAPIKey == "" {
			return nil, fmt.Errorf("OPENWEATHER_API_KEY is required for provider %s", cfg.Provider)
		}
	case ProviderWeatherAPI:
		if cfg.WeatherAPIKey == "" {
			return nil, fmt.Errorf("WEATHERAPI_API_KEY is required for provider %s", cfg.Provider)
		}
	case ProviderOpenMeteo:
	default:
		return nil, fmt.Errorf("invalid WEATHER_PROVIDER %q (allowed: %s, %s, %s)",
			cfg.Provider, ProviderOpenWeather, ProviderWeatherAPI, ProviderOpenMeteo)
	}

	switch cfg.RateLimitBackend {
	case BackendMemory, BackendRedis:
	default:
		return nil, fmt.Errorf("invalid RATE_LIMIT_BACKEND %q (allowed: %s, %s)", cfg.RateLimitBackend, BackendMemory, BackendRedis)
	}

	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.LookupTimeout, err = getenvDuration("LOOKUP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.ReportInterval, err = getenvDuration("RATE_LIMIT_REPORT_INTERVAL", time.Minute); err != nil {
		return nil, err
	}

	window, err := getenvDuration("RATE_LIMIT_WINDOW", ratelimit.Basic.Window)
	if err != nil {
		return nil, err
	}
	if window < time.Millisecond {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW %s: must be at least 1ms", window)
	}

	limit, err := getenvInt("RATE_LIMIT_MAX", ratelimit.Basic.Max)
	if err != nil {
		return nil, err
	}
	if limit < 1 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_MAX %d: must be positive", limit)
	}
	cfg.RateLimit = ratelimit.Config{Max: limit, Window: window}

	if cfg.RedisDB, err = getenvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}

	if cfg.UpstreamBurst, err = getenvInt("UPSTREAM_BURST", 5); err != nil {
		return nil, err
	}
	rps := getenvDefault("UPSTREAM_RPS", "1")
	if cfg.UpstreamRPS, err = strconv.ParseFloat(rps, 64); err != nil {
		return nil, fmt.Errorf("invalid UPSTREAM_RPS: %w", err)
	}

	return cfg, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
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
