package providers

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWeatherAPIFetchMapsIconCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "k" {
			t.Errorf("missing key in %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"current": {
			"temp_c": 12.5, "humidity": 40, "wind_kph": 18.0, "is_day": 0,
			"condition": {"text": "Patchy RAIN possible", "code": 1063}
		}}`))
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(srv.Client(), "k").WithBaseURL(srv.URL)
	got, err := p.Fetch(context.Background(), ufa)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IconCode != "10n" {
		t.Errorf("icon = %q, want 10n", got.IconCode)
	}
	if got.ConditionMain != "Rain" {
		t.Errorf("condition = %q, want Rain", got.ConditionMain)
	}
	if math.Abs(got.WindSpeedMS-5.0) > 1e-9 {
		t.Errorf("wind = %v, want 5", got.WindSpeedMS)
	}
	if got.Description != "Patchy rain possible" {
		t.Errorf("description = %q", got.Description)
	}
}

func TestMapWeatherAPIConditionUnknown(t *testing.T) {
	family, group := mapWeatherAPICondition(4242)
	if family != "" || group != "Default" {
		t.Fatalf("got (%q, %q)", family, group)
	}
}
