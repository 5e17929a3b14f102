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

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg resilience.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		httpCfg: resilience.HTTPClientConfig{
			Client: client,
			// A failed fetch fails the run; no retries here.
			Backoff: resilience.BackoffConfig{MaxRetries: 0},
		},
		circuit: resilience.NewBreaker("openweather"),
	}
}

// WithBaseURL points the provider at another endpoint (used by tests).
func (p *OpenWeatherProvider) WithBaseURL(u string) *OpenWeatherProvider {
	p.baseURL = u
	return p
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type openWeatherPayload struct {
	Main struct {
		Temp     *float64 `json:"temp"`
		Humidity *int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Main        *string `json:"main"`
		Description string  `json:"description"`
		Icon        string  `json:"icon"`
	} `json:"weather"`
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, city weather.City) (weather.Snapshot, error) {
	if p.apiKey == "" {
		return weather.Snapshot{}, fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("q", city.Query)
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := resilience.Do(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Snapshot{}, fmt.Errorf("openweather fetch %q: %w", city.Query, err)
	}
	defer resp.Body.Close()

	var payload openWeatherPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Snapshot{}, fmt.Errorf("openweather decode %q: %w", city.Query, err)
	}
	if payload.Main.Temp == nil || payload.Main.Humidity == nil {
		return weather.Snapshot{}, fmt.Errorf("openweather %q: response lacks main.temp or main.humidity", city.Query)
	}

	snap := weather.Snapshot{
		TemperatureC:  *payload.Main.Temp,
		HumidityPct:   *payload.Main.Humidity,
		WindSpeedMS:   payload.Wind.Speed,
		ConditionMain: weather.DefaultCondition,
	}
	if len(payload.Weather) > 0 {
		w := payload.Weather[0]
		snap.Description = weather.Capitalize(w.Description)
		snap.IconCode = w.Icon
		if w.Main != nil {
			snap.ConditionMain = *w.Main
		}
	}

	return snap, nil
}
