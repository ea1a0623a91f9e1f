package httpapi

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/city-weather/internal/weather"
)

// RegisterRoutes wires the HTTP handlers into the Fiber app. Every weather
// request passes the admission gate before anything else runs.
func RegisterRoutes(app fiber.Router, lookup weather.Lookup, gate fiber.Handler) {
	v1 := app.Group("/v1/api")

	// The parameter is optional so an empty segment reaches validation.
	v1.Get("/weather/:city?", gate, getWeather(lookup))
}

func getWeather(lookup weather.Lookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := url.PathUnescape(c.Params("city"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, weather.ErrInvalidCityName.Error())
		}

		q, err := weather.ParseQuery(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, weather.ErrInvalidCityName.Error())
		}

		w, err := lookup.GetWeatherByCityName(c.UserContext(), q.CityName)
		if err != nil {
			logger(c).Warn("weather lookup failed", "city", q.CityName, "error", err)
			return lookupError(err)
		}

		return c.JSON(w)
	}
}

func lookupError(err error) *fiber.Error {
	switch {
	case errors.Is(err, weather.ErrCityNotFound):
		return fiber.ErrNotFound
	case errors.Is(err, weather.ErrRateLimited):
		return fiber.ErrTooManyRequests
	default:
		return fiber.ErrInternalServerError
	}
}
