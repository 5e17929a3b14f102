package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-stickers/internal/platform/resilience"
	"github.com/i474232898/weather-stickers/internal/weather"
)

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
// Its condition codes are translated to OpenWeatherMap icon codes so both
// providers share one set of background and icon assets.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg resilience.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1/current.json",
		httpCfg: resilience.HTTPClientConfig{
			Client:  client,
			Backoff: resilience.BackoffConfig{MaxRetries: 0},
		},
		circuit: resilience.NewBreaker("weatherapi"),
	}
}

// WithBaseURL points the provider at another endpoint (used by tests).
func (p *WeatherAPIProvider) WithBaseURL(u string) *WeatherAPIProvider {
	p.baseURL = u
	return p
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) Fetch(ctx context.Context, city weather.City) (weather.Snapshot, error) {
	if p.apiKey == "" {
		return weather.Snapshot{}, fmt.Errorf("weatherapi api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		// WeatherAPI uses "q" for location; it accepts "city,country" or "lat,lon".
		values.Set("q", city.Query)

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := resilience.Do(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Snapshot{}, fmt.Errorf("weatherapi fetch %q: %w", city.Query, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Current *struct {
			TempC     float64 `json:"temp_c"`
			Humidity  int     `json:"humidity"`
			WindKph   float64 `json:"wind_kph"`
			IsDay     int     `json:"is_day"`
			Condition struct {
				Text string `json:"text"`
				Code int    `json:"code"`
			} `json:"condition"`
		} `json:"current"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Snapshot{}, fmt.Errorf("weatherapi decode %q: %w", city.Query, err)
	}
	if payload.Current == nil {
		return weather.Snapshot{}, fmt.Errorf("weatherapi %q: response lacks current block", city.Query)
	}
	cur := payload.Current

	family, group := mapWeatherAPICondition(cur.Condition.Code)
	icon := ""
	if family != "" {
		suffix := "n"
		if cur.IsDay == 1 {
			suffix = "d"
		}
		icon = family + suffix
	}

	return weather.Snapshot{
		TemperatureC: cur.TempC,
		HumidityPct:  cur.Humidity,
		// Convert wind from kph to m/s.
		WindSpeedMS:   cur.WindKph / 3.6,
		Description:   weather.Capitalize(cur.Condition.Text),
		ConditionMain: group,
		IconCode:      icon,
	}, nil
}

// mapWeatherAPICondition returns the OpenWeatherMap icon family ("01".."50")
// and condition group for a WeatherAPI condition code.
func mapWeatherAPICondition(code int) (string, string) {
	switch code {
	case 1000:
		return "01", "Clear"
	case 1003:
		return "02", "Clouds"
	case 1006:
		return "03", "Clouds"
	case 1009:
		return "04", "Clouds"
	case 1030, 1135, 1147:
		return "50", "Mist"
	case 1087, 1273, 1276, 1279, 1282:
		return "11", "Thunderstorm"
	case 1150, 1153, 1168, 1171, 1180, 1183, 1240:
		return "09", "Drizzle"
	case 1063, 1186, 1189, 1192, 1195, 1198, 1201, 1243, 1246:
		return "10", "Rain"
	case 1066, 1069, 1072, 1114, 1117, 1204, 1207, 1210, 1213, 1216, 1219,
		1222, 1225, 1237, 1249, 1252, 1255, 1258, 1261, 1264:
		return "13", "Snow"
	default:
		return "", weather.DefaultCondition
	}
}
