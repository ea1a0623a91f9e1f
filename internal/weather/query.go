package weather

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	cityNameTag = "cityname"

	// MaxCityNameLength is the longest accepted city name, in runes.
	MaxCityNameLength = 85
)

// A city name starts with a letter and continues with letters, combining
// marks, spaces and the punctuation found in place names ("St. John's",
// "Saint-Étienne", "Washington, D.C.").
var cityNamePattern = regexp.MustCompile(`^\p{L}[\p{L}\p{M} '’.,\-]*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation(cityNameTag, func(fl validator.FieldLevel) bool {
		return ValidCityName(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("weather: register %s validation: %v", cityNameTag, err))
	}
	return v
}

// ValidCityName reports whether s is a non-blank, structurally plausible
// city name. Surrounding whitespace is ignored.
func ValidCityName(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > MaxCityNameLength {
		return false
	}
	return cityNamePattern.MatchString(s)
}

// Query is a validated request for the current weather of a city.
type Query struct {
	CityName string `validate:"required,cityname"`
}

// ParseQuery trims and validates raw, returning ErrInvalidCityName when it
// is not an acceptable city name.
func ParseQuery(raw string) (Query, error) {
	q := Query{CityName: strings.TrimSpace(raw)}
	if err := validate.Struct(q); err != nil {
		return Query{}, fmt.Errorf("%w: %q", ErrInvalidCityName, raw)
	}
	return q, nil
}
