package weather

import (
	"context"
	"time"
)

// ProviderReading represents a single provider's normalized reading.
type ProviderReading struct {
	ProviderName string
	Timestamp    time.Time

	// Location as resolved by the provider, if it resolves one.
	Location Location

	TemperatureC float64
	HumidityPct  float64
	WindSpeedMS  float64
	PressureHpa  float64
	PrecipMm     float64
	Condition    Condition
}

// Provider abstracts a weather data source (e.g. OpenWeatherMap, WeatherAPI, Open-Meteo).
//
// Fetch returns an error wrapping ErrCityNotFound when the source cannot
// resolve the location and ErrRateLimited when its quota is exhausted.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, loc Location) (ProviderReading, error)
}

// Lookup is the contract the HTTP layer delegates to.
type Lookup interface {
	GetWeatherByCityName(ctx context.Context, cityName string) (Weather, error)
}
