package weather

import (
	"errors"
	"strings"
	"testing"
)

func TestValidCityName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"simple", "London", true},
		{"spaces", "New York", true},
		{"apostrophe and period", "St. John's", true},
		{"hyphen and accent", "Saint-Étienne", true},
		{"non latin", "東京", true},
		{"combining mark", "Há Noi", true},
		{"comma", "Washington, D.C.", true},
		{"surrounding whitespace", "  Paris\t", true},
		{"empty", "", false},
		{"single space", " ", false},
		{"whitespace only", " \t\n ", false},
		{"digits", "Area 51", false},
		{"leading punctuation", "-Berlin", false},
		{"path traversal", "../etc/passwd", false},
		{"markup", "<script>", false},
		{"too long", strings.Repeat("a", MaxCityNameLength+1), false},
		{"max length", strings.Repeat("a", MaxCityNameLength), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidCityName(tt.in); got != tt.want {
				t.Fatalf("ValidCityName(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseQueryTrims(t *testing.T) {
	q, err := ParseQuery("  London ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.CityName != "London" {
		t.Fatalf("expected trimmed city name %q, got %q", "London", q.CityName)
	}
}

func TestParseQueryRejectsBlank(t *testing.T) {
	for _, raw := range []string{"", " ", "\t\t"} {
		_, err := ParseQuery(raw)
		if !errors.Is(err, ErrInvalidCityName) {
			t.Fatalf("ParseQuery(%q): expected ErrInvalidCityName, got %v", raw, err)
		}
	}
}
