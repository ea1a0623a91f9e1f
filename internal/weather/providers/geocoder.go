package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"

	"github.com/i474232898/city-weather/internal/common"
	"github.com/i474232898/city-weather/internal/weather"
)

// Geocoder resolves a city name to coordinates.
// It returns an error wrapping weather.ErrCityNotFound when nothing matches.
type Geocoder interface {
	Geocode(ctx context.Context, city string) (weather.Location, error)
}

// OpenMeteoGeocoder uses the keyless Open-Meteo geocoding search.
type OpenMeteoGeocoder struct {
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoGeocoder(client *http.Client) *OpenMeteoGeocoder {
	return &OpenMeteoGeocoder{
		baseURL: "https://geocoding-api.open-meteo.com/v1/search",
		client:  client,
		circuit: newCircuitBreaker("openmeteo-geocoding"),
	}
}

func (g *OpenMeteoGeocoder) Geocode(ctx context.Context, city string) (weather.Location, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("name", city)
		values.Set("count", "1")
		values.Set("format", "json")

		u := fmt.Sprintf("%s?%s", g.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, g.client, g.circuit, buildRequest)
	if err != nil {
		return weather.Location{}, err
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		return weather.Location{}, fmt.Errorf("geocoding %q: %w", city, err)
	}

	var payload struct {
		Results []struct {
			Name        string  `json:"name"`
			Latitude    float64 `json:"latitude"`
			Longitude   float64 `json:"longitude"`
			CountryCode string  `json:"country_code"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Location{}, err
	}
	if len(payload.Results) == 0 {
		return weather.Location{}, fmt.Errorf("geocoding %q: %w", city, weather.ErrCityNotFound)
	}

	r := payload.Results[0]
	lat, lon := r.Latitude, r.Longitude
	return weather.Location{City: r.Name, Country: r.CountryCode, Lat: &lat, Lon: &lon}, nil
}

// GoogleGeocoder uses the Google Geocoding API through kelvins/geocoder.
type GoogleGeocoder struct {
	geocode func(geocoder.Address) (geocoder.Location, error)
}

var setGoogleAPIKey sync.Once

// NewGoogleGeocoder configures the process-wide Google API key on first use.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	setGoogleAPIKey.Do(func() {
		geocoder.ApiKey = apiKey
	})
	return &GoogleGeocoder{geocode: geocoder.Geocoding}
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, city string) (weather.Location, error) {
	type result struct {
		loc geocoder.Location
		err error
	}

	// The library call takes no context; abandon it when ctx is done.
	ch := make(chan result, 1)
	go func() {
		loc, err := g.geocode(geocoder.Address{City: city})
		ch <- result{loc: loc, err: err}
	}()

	select {
	case <-ctx.Done():
		return weather.Location{}, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			if common.ContainsAnyFold(r.err.Error(), "ZERO_RESULTS", "no results") {
				return weather.Location{}, fmt.Errorf("geocoding %q: %w", city, weather.ErrCityNotFound)
			}
			if common.ContainsAnyFold(r.err.Error(), "OVER_QUERY_LIMIT") {
				return weather.Location{}, fmt.Errorf("geocoding %q: %w", city, weather.ErrRateLimited)
			}
			return weather.Location{}, fmt.Errorf("geocoding %q: %w", city, r.err)
		}
		lat, lon := r.loc.Latitude, r.loc.Longitude
		return weather.Location{City: city, Lat: &lat, Lon: &lon}, nil
	}
}
