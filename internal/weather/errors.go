package weather

import "errors"

var (
	// ErrInvalidCityName is returned when a raw city name fails validation.
	ErrInvalidCityName = errors.New("invalid city name")

	// ErrCityNotFound is returned when the upstream cannot resolve the city.
	ErrCityNotFound = errors.New("city not found")

	// ErrRateLimited is returned when the upstream quota is exhausted.
	ErrRateLimited = errors.New("upstream rate limit exceeded")

	// ErrUpstream wraps every other lookup failure.
	ErrUpstream = errors.New("upstream weather lookup failed")
)
