package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/city-weather/internal/weather"
)

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		client:  client,
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// Fetch queries current weather by name ("city" or "city,country").
// OpenWeatherMap answers an unknown city with 404.
func (p *OpenWeatherProvider) Fetch(ctx context.Context, loc weather.Location) (weather.ProviderReading, error) {
	if p.apiKey == "" {
		return weather.ProviderReading{}, fmt.Errorf("openweather api key is not configured")
	}

	q := loc.City
	if loc.Country != "" {
		q += "," + loc.Country
	}
	query := url.Values{
		"q":     {q},
		"units": {"metric"},
		"appid": {p.apiKey},
	}

	resp, err := doRequest(ctx, p.client, p.circuit, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, p.baseURL+"?"+query.Encode(), nil)
	})
	if err != nil {
		return weather.ProviderReading{}, err
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		return weather.ProviderReading{}, fmt.Errorf("openweather %q: %w", loc.City, err)
	}

	var body openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return weather.ProviderReading{}, fmt.Errorf("decode openweather response: %w", err)
	}

	r := body.reading(loc)
	r.ProviderName = p.name
	return r, nil
}

type openWeatherResponse struct {
	Dt    int64  `json:"dt"`
	Name  string `json:"name"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
		Pressure float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Rain struct {
		OneH   float64 `json:"1h"`
		ThreeH float64 `json:"3h"`
	} `json:"rain"`
	Weather []struct {
		Main string `json:"main"`
	} `json:"weather"`
}

// Condition groups of the "main" field, see https://openweathermap.org/weather-conditions.
var openWeatherConditions = map[string]weather.Condition{
	"Clear":        weather.ConditionClear,
	"Clouds":       weather.ConditionCloudy,
	"Rain":         weather.ConditionRain,
	"Drizzle":      weather.ConditionRain,
	"Snow":         weather.ConditionSnow,
	"Thunderstorm": weather.ConditionStorm,
	"Mist":         weather.ConditionMist,
	"Fog":          weather.ConditionMist,
	"Haze":         weather.ConditionMist,
}

func (b openWeatherResponse) reading(requested weather.Location) weather.ProviderReading {
	r := weather.ProviderReading{
		Timestamp:    time.Now().UTC(),
		Location:     requested,
		TemperatureC: b.Main.Temp,
		HumidityPct:  b.Main.Humidity,
		WindSpeedMS:  b.Wind.Speed,
		PressureHpa:  b.Main.Pressure,
		PrecipMm:     b.Rain.OneH,
		Condition:    weather.ConditionUnknown,
	}
	if b.Dt > 0 {
		r.Timestamp = time.Unix(b.Dt, 0).UTC()
	}
	// Only the 3h accumulation is reported for some stations.
	if r.PrecipMm == 0 {
		r.PrecipMm = b.Rain.ThreeH
	}
	if len(b.Weather) > 0 {
		if c, ok := openWeatherConditions[b.Weather[0].Main]; ok {
			r.Condition = c
		}
	}
	if b.Name != "" {
		lat, lon := b.Coord.Lat, b.Coord.Lon
		r.Location = weather.Location{City: b.Name, Country: b.Sys.Country, Lat: &lat, Lon: &lon}
	}
	return r
}
