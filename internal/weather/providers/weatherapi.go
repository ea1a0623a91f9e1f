package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/city-weather/internal/common"
	"github.com/i474232898/city-weather/internal/weather"
)

// WeatherAPI.com error codes, see https://www.weatherapi.com/docs/#intro-error-codes.
const (
	weatherAPINoLocationFound = 1006
	weatherAPIQuotaExceeded   = 2007
)

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1/current.json",
		client:  client,
		circuit: newCircuitBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) Fetch(ctx context.Context, loc weather.Location) (weather.ProviderReading, error) {
	if p.apiKey == "" {
		return weather.ProviderReading{}, fmt.Errorf("weatherapi api key is not configured")
	}

	resp, err := doRequest(ctx, p.client, p.circuit, func() (*http.Request, error) {
		query := url.Values{"key": {p.apiKey}, "q": {weatherAPIQuery(loc)}}
		return http.NewRequest(http.MethodGet, p.baseURL+"?"+query.Encode(), nil)
	})
	if err != nil {
		return weather.ProviderReading{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return weather.ProviderReading{}, fmt.Errorf("weatherapi %q: %w", loc.City, weatherAPIError(resp))
	}

	var body weatherAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return weather.ProviderReading{}, fmt.Errorf("decode weatherapi response: %w", err)
	}

	r := body.reading(loc)
	r.ProviderName = p.name
	return r, nil
}

// weatherAPIQuery builds the "q" parameter: "lat,lon" when coordinates are
// known, otherwise "city" or "city,country".
func weatherAPIQuery(loc weather.Location) string {
	switch {
	case loc.Lat != nil && loc.Lon != nil:
		return fmt.Sprintf("%f,%f", *loc.Lat, *loc.Lon)
	case loc.Country != "":
		return loc.City + "," + loc.Country
	default:
		return loc.City
	}
}

type weatherAPIResponse struct {
	Location struct {
		Name           string  `json:"name"`
		Country        string  `json:"country"`
		Lat            float64 `json:"lat"`
		Lon            float64 `json:"lon"`
		LocaltimeEpoch int64   `json:"localtime_epoch"`
	} `json:"location"`
	Current struct {
		TempC      float64 `json:"temp_c"`
		Humidity   float64 `json:"humidity"`
		WindKph    float64 `json:"wind_kph"`
		PressureMb float64 `json:"pressure_mb"`
		PrecipMm   float64 `json:"precip_mm"`
		Condition  struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
}

func (b weatherAPIResponse) reading(requested weather.Location) weather.ProviderReading {
	cur := b.Current
	r := weather.ProviderReading{
		Timestamp:    time.Now().UTC(),
		Location:     weather.Location{City: requested.City},
		TemperatureC: cur.TempC,
		HumidityPct:  cur.Humidity,
		WindSpeedMS:  cur.WindKph / 3.6,
		PressureHpa:  cur.PressureMb,
		PrecipMm:     cur.PrecipMm,
		Condition:    mapWeatherAPICondition(cur.Condition.Text),
	}
	if b.Location.LocaltimeEpoch > 0 {
		r.Timestamp = time.Unix(b.Location.LocaltimeEpoch, 0).UTC()
	}
	if b.Location.Name != "" {
		lat, lon := b.Location.Lat, b.Location.Lon
		r.Location = weather.Location{City: b.Location.Name, Country: b.Location.Country, Lat: &lat, Lon: &lon}
	}
	return r
}

// weatherAPIError maps an error response. WeatherAPI reports an unknown
// location as a 400 with code 1006 and an exhausted quota as a 403 with 2007.
func weatherAPIError(resp *http.Response) error {
	var body struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		switch body.Error.Code {
		case weatherAPINoLocationFound:
			return weather.ErrCityNotFound
		case weatherAPIQuotaExceeded:
			return weather.ErrRateLimited
		case 0:
		default:
			return fmt.Errorf("%w: %d: code %d: %s", errUnexpected, resp.StatusCode, body.Error.Code, body.Error.Message)
		}
	}
	if err := statusError(resp.StatusCode); err != nil {
		return err
	}
	return fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
}

func mapWeatherAPICondition(text string) weather.Condition {
	switch {
	case text == "":
		return weather.ConditionUnknown
	case common.ContainsAnyFold(text, "thunder", "storm"):
		return weather.ConditionStorm
	case common.ContainsAnyFold(text, "snow", "sleet", "blizzard", "ice pellets"):
		return weather.ConditionSnow
	case common.ContainsAnyFold(text, "rain", "shower", "drizzle"):
		return weather.ConditionRain
	case common.ContainsAnyFold(text, "mist", "fog"):
		return weather.ConditionMist
	case common.ContainsAnyFold(text, "cloud", "overcast"):
		return weather.ConditionCloudy
	case common.ContainsAnyFold(text, "sunny", "clear"):
		return weather.ConditionClear
	default:
		return weather.ConditionUnknown
	}
}
