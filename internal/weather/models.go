package weather

import "time"

// Condition is the provider-independent summary of the sky.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// Location identifies the place a reading belongs to.
// City is always set; the rest is filled in by providers that resolve it.
type Location struct {
	City    string   `json:"city"`
	Country string   `json:"country,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

// Weather is the current-conditions payload returned for a city.
// Units are metric; Timestamp is the observation time in UTC.
type Weather struct {
	Location     Location  `json:"location"`
	Timestamp    time.Time `json:"timestamp"`
	TemperatureC float64   `json:"temperatureC"`
	HumidityPct  float64   `json:"humidityPercent"`
	WindSpeedMS  float64   `json:"windSpeed"`
	PressureHpa  float64   `json:"pressureHpa"`
	PrecipMm     float64   `json:"precipMm"`
	Condition    Condition `json:"condition"`
	Provider     string    `json:"provider"`
}
