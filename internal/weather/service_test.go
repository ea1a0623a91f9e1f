package weather

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeProvider struct {
	mu      sync.Mutex
	calls   []string
	reading ProviderReading
	err     error
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Fetch(ctx context.Context, loc Location) (ProviderReading, error) {
	p.mu.Lock()
	p.calls = append(p.calls, loc.City)
	p.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		return ProviderReading{}, errors.New("expected a bounded context")
	}
	return p.reading, p.err
}

func TestGetWeatherByCityNameDelegatesOnce(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p := &fakeProvider{reading: ProviderReading{
		ProviderName: "fake",
		Timestamp:    ts,
		TemperatureC: 14.5,
		HumidityPct:  70,
		Condition:    ConditionCloudy,
	}}
	svc := NewService(p, time.Second, nil)

	w, err := svc.GetWeatherByCityName(context.Background(), "London")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(p.calls) != 1 || p.calls[0] != "London" {
		t.Fatalf("expected one call with London, got %v", p.calls)
	}
	if w.Location.City != "London" {
		t.Fatalf("expected city London, got %q", w.Location.City)
	}
	if w.TemperatureC != 14.5 || w.HumidityPct != 70 || w.Condition != ConditionCloudy {
		t.Fatalf("unexpected weather payload: %+v", w)
	}
	if !w.Timestamp.Equal(ts) {
		t.Fatalf("expected timestamp %v, got %v", ts, w.Timestamp)
	}
	if w.Provider != "fake" {
		t.Fatalf("expected provider fake, got %q", w.Provider)
	}
}

func TestGetWeatherByCityNameClassifiesErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"not found", fmt.Errorf("lookup: %w", ErrCityNotFound), ErrCityNotFound},
		{"rate limited", ErrRateLimited, ErrRateLimited},
		{"other", errors.New("connection refused"), ErrUpstream},
		{"deadline", context.DeadlineExceeded, ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&fakeProvider{err: tt.err}, time.Second, nil)
			_, err := svc.GetWeatherByCityName(context.Background(), "Atlantis")
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestGetWeatherByCityNameWithoutProvider(t *testing.T) {
	svc := NewService(nil, 0, nil)
	if _, err := svc.GetWeatherByCityName(context.Background(), "London"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestFromReadingDefaults(t *testing.T) {
	w := FromReading(Location{City: "Oslo"}, ProviderReading{ProviderName: "x"})
	if w.Condition != ConditionUnknown {
		t.Fatalf("expected unknown condition, got %q", w.Condition)
	}
	if w.Timestamp.IsZero() || w.Timestamp.Location() != time.UTC {
		t.Fatalf("expected a UTC timestamp, got %v", w.Timestamp)
	}
}

func TestFromReadingPrefersResolvedLocation(t *testing.T) {
	lat, lon := 59.91, 10.75
	resolved := Location{City: "Oslo", Country: "NO", Lat: &lat, Lon: &lon}

	w := FromReading(Location{City: "oslo"}, ProviderReading{Location: resolved})
	if w.Location.Country != "NO" || w.Location.Lat == nil || *w.Location.Lat != lat {
		t.Fatalf("expected resolved location, got %+v", w.Location)
	}
}
