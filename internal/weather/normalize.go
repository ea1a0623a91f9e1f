package weather

import "time"

// FromReading turns a single provider reading into the Weather payload for loc.
func FromReading(loc Location, r ProviderReading) Weather {
	ts := r.Timestamp.UTC()
	if r.Timestamp.IsZero() {
		ts = time.Now().UTC()
	}

	cond := r.Condition
	if cond == "" {
		cond = ConditionUnknown
	}

	// Providers that resolve the location (geocoding) report it back.
	if r.Location.City != "" {
		loc = r.Location
	}

	return Weather{
		Location:     loc,
		Timestamp:    ts,
		TemperatureC: r.TemperatureC,
		HumidityPct:  r.HumidityPct,
		WindSpeedMS:  r.WindSpeedMS,
		PressureHpa:  r.PressureHpa,
		PrecipMm:     r.PrecipMm,
		Condition:    cond,
		Provider:     r.ProviderName,
	}
}
