package weather

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Provider abstracts a current-weather source (e.g. OpenWeatherMap, WeatherAPI).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, city City) (Snapshot, error)
}

// Capitalize upper-cases the first letter and lower-cases the rest,
// so "light RAIN" becomes "Light rain".
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
