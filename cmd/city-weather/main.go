package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/i474232898/city-weather/internal/api/http"
	"github.com/i474232898/city-weather/internal/config"
	"github.com/i474232898/city-weather/internal/logging"
	"github.com/i474232898/city-weather/internal/ratelimit"
	"github.com/i474232898/city-weather/internal/scheduler"
	"github.com/i474232898/city-weather/internal/weather"
	"github.com/i474232898/city-weather/internal/weather/providers"
)

const appName = "city-weather"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.AppEnv, cfg.LogLevel, appName)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
	logger.Info("shutting down")
}

func run(cfg *config.AppConfig, logger *slog.Logger) error {
	// The client timeout bounds each upstream attempt; LookupTimeout bounds the whole lookup.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider, err := newProvider(cfg, httpClient)
	if err != nil {
		return err
	}
	if cfg.UpstreamRPS > 0 {
		provider = providers.Throttle(provider, cfg.UpstreamRPS, cfg.UpstreamBurst)
	}
	service := weather.NewService(provider, cfg.LookupTimeout, logger)

	// One limiter for the whole process; every caller shares its quota.
	limiter, closeLimiter, err := newLimiter(cfg, logger)
	if err != nil {
		return err
	}
	defer closeLimiter()

	stats := &ratelimit.Stats{}
	sched := scheduler.New(stats, cfg.ReportInterval, cfg.RateLimit.Max, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// requestid must run first so both loggers see the id.
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(httpapi.Logger(logger))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": appName,
		})
	})

	httpapi.RegisterRoutes(app, service, httpapi.RateLimit(limiter, stats))

	logger.Info("starting",
		"port", cfg.Port,
		"provider", provider.Name(),
		"rate_limit_max", cfg.RateLimit.Max,
		"rate_limit_window", cfg.RateLimit.Window,
		"rate_limit_backend", cfg.RateLimitBackend,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + cfg.Port)
	}()

	// Block until SIGINT/SIGTERM or a listener failure.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return fmt.Errorf("fiber server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
	return nil
}

func newProvider(cfg *config.AppConfig, client *http.Client) (weather.Provider, error) {
	switch cfg.Provider {
	case config.ProviderOpenWeather:
		return providers.NewOpenWeatherProvider(client, cfg.OpenWeatherAPIKey), nil
	case config.ProviderWeatherAPI:
		return providers.NewWeatherAPIProvider(client, cfg.WeatherAPIKey), nil
	case config.ProviderOpenMeteo:
		// Open-Meteo needs coordinates; Google geocoding is used when a key is configured.
		var geo providers.Geocoder
		if cfg.GeocoderAPIKey != "" {
			geo = providers.NewGoogleGeocoder(cfg.GeocoderAPIKey)
		}
		return providers.NewOpenMeteoProvider(client, geo), nil
	default:
		return nil, fmt.Errorf("unsupported weather provider %q", cfg.Provider)
	}
}

func newLimiter(cfg *config.AppConfig, logger *slog.Logger) (ratelimit.Limiter, func(), error) {
	if cfg.RateLimitBackend != config.BackendRedis {
		return ratelimit.NewFixedWindow(cfg.RateLimit), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	logger.Info("rate limiter backed by redis", "addr", cfg.RedisAddr, "key", cfg.RedisKey)

	closeFn := func() {
		if err := client.Close(); err != nil {
			logger.Warn("close redis client", "error", err)
		}
	}
	return ratelimit.NewRedis(client, cfg.RedisKey, cfg.RateLimit), closeFn, nil
}
