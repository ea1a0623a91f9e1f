package providers

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/i474232898/city-weather/internal/weather"
)

// ThrottledProvider keeps outbound calls within the upstream's quota.
// Calls over the quota fail immediately with weather.ErrRateLimited.
type ThrottledProvider struct {
	provider weather.Provider
	limiter  *rate.Limiter
}

// Throttle wraps p with a token bucket of rps requests per second and the given burst.
func Throttle(p weather.Provider, rps float64, burst int) *ThrottledProvider {
	return &ThrottledProvider{
		provider: p,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (t *ThrottledProvider) Name() string {
	return t.provider.Name()
}

func (t *ThrottledProvider) Fetch(ctx context.Context, loc weather.Location) (weather.ProviderReading, error) {
	if !t.limiter.Allow() {
		return weather.ProviderReading{}, fmt.Errorf("%s outbound quota: %w", t.provider.Name(), weather.ErrRateLimited)
	}
	return t.provider.Fetch(ctx, loc)
}

var _ weather.Provider = (*ThrottledProvider)(nil)
