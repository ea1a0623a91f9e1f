package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// DefaultLookupTimeout bounds a single upstream lookup.
const DefaultLookupTimeout = 10 * time.Second

// Service resolves current weather through a single provider.
type Service struct {
	provider Provider
	timeout  time.Duration
	logger   *slog.Logger
}

var _ Lookup = (*Service)(nil)

// NewService creates a new Service. A non-positive timeout means DefaultLookupTimeout.
func NewService(provider Provider, timeout time.Duration, logger *slog.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		provider: provider,
		timeout:  timeout,
		logger:   logger,
	}
}

// GetWeatherByCityName fetches the current weather for cityName.
//
// Errors wrap ErrCityNotFound, ErrRateLimited or ErrUpstream.
func (s *Service) GetWeatherByCityName(ctx context.Context, cityName string) (Weather, error) {
	if s.provider == nil {
		s.logger.Error("no weather provider configured")
		return Weather{}, fmt.Errorf("%w: no weather provider configured", ErrUpstream)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	loc := Location{City: cityName}
	start := time.Now()

	r, err := s.provider.Fetch(ctx, loc)
	if err != nil {
		s.logger.Warn("provider fetch failed",
			"provider", s.provider.Name(),
			"city", cityName,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return Weather{}, classify(s.provider.Name(), err)
	}

	s.logger.Debug("provider fetch succeeded",
		"provider", s.provider.Name(),
		"city", cityName,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if r.ProviderName == "" {
		r.ProviderName = s.provider.Name()
	}
	return FromReading(loc, r), nil
}

func classify(provider string, err error) error {
	switch {
	case errors.Is(err, ErrCityNotFound), errors.Is(err, ErrRateLimited):
		return fmt.Errorf("%s: %w", provider, err)
	default:
		return fmt.Errorf("%w: %s: %v", ErrUpstream, provider, err)
	}
}
