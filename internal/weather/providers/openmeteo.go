package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/city-weather/internal/weather"
)

// Open-Meteo reports local ISO 8601 times without seconds; with the default
// timezone they are GMT.
const openMeteoTimeLayout = "2006-01-02T15:04"

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
// City names are resolved to coordinates through a Geocoder first.
type OpenMeteoProvider struct {
	name     string
	baseURL  string
	client   *http.Client
	circuit  *gobreaker.CircuitBreaker
	geocoder Geocoder
}

func NewOpenMeteoProvider(client *http.Client, geo Geocoder) *OpenMeteoProvider {
	if geo == nil {
		geo = NewOpenMeteoGeocoder(client)
	}
	return &OpenMeteoProvider{
		name:     "openmeteo",
		baseURL:  "https://api.open-meteo.com/v1/forecast",
		client:   client,
		circuit:  newCircuitBreaker("openmeteo"),
		geocoder: geo,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, loc weather.Location) (weather.ProviderReading, error) {
	if loc.Lat == nil || loc.Lon == nil {
		resolved, err := p.geocoder.Geocode(ctx, loc.City)
		if err != nil {
			return weather.ProviderReading{}, err
		}
		loc = resolved
	}

	query := url.Values{
		"latitude":        {strconv.FormatFloat(*loc.Lat, 'f', 4, 64)},
		"longitude":       {strconv.FormatFloat(*loc.Lon, 'f', 4, 64)},
		"current_weather": {"true"},
		"windspeed_unit":  {"ms"},
	}

	resp, err := doRequest(ctx, p.client, p.circuit, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, p.baseURL+"?"+query.Encode(), nil)
	})
	if err != nil {
		return weather.ProviderReading{}, err
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		return weather.ProviderReading{}, fmt.Errorf("openmeteo %q: %w", loc.City, err)
	}

	var body openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return weather.ProviderReading{}, fmt.Errorf("decode openmeteo response: %w", err)
	}

	cw := body.CurrentWeather
	ts, err := time.Parse(openMeteoTimeLayout, cw.Time)
	if err != nil {
		ts = time.Now()
	}

	// current_weather carries no humidity, pressure or precipitation.
	return weather.ProviderReading{
		ProviderName: p.name,
		Timestamp:    ts.UTC(),
		Location:     loc,
		TemperatureC: cw.Temperature,
		WindSpeedMS:  cw.WindSpeed,
		Condition:    mapOpenMeteoCondition(cw.WeatherCode),
	}, nil
}

type openMeteoResponse struct {
	CurrentWeather struct {
		Time        string  `json:"time"`
		Temperature float64 `json:"temperature"`
		WindSpeed   float64 `json:"windspeed"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

// mapOpenMeteoCondition groups WMO weather interpretation codes.
func mapOpenMeteoCondition(code int) weather.Condition {
	switch {
	case code == 0:
		return weather.ConditionClear
	case code >= 1 && code <= 3:
		return weather.ConditionCloudy
	case code == 45 || code == 48:
		return weather.ConditionMist
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return weather.ConditionRain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return weather.ConditionSnow
	case code >= 95:
		return weather.ConditionStorm
	default:
		return weather.ConditionUnknown
	}
}
