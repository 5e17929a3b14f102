package stickers

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/i474232898/weather-stickers/internal/render"
	"github.com/i474232898/weather-stickers/internal/telegram"
	"github.com/i474232898/weather-stickers/internal/weather"
)

type fakeProvider struct {
	snaps map[string]weather.Snapshot
	err   map[string]error
	calls []string
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Fetch(ctx context.Context, city weather.City) (weather.Snapshot, error) {
	p.calls = append(p.calls, city.Key())
	if err := p.err[city.Key()]; err != nil {
		return weather.Snapshot{}, err
	}
	return p.snaps[city.Key()], nil
}

type memReports struct {
	saved []RunReport
}

func (m *memReports) Save(r RunReport) { m.saved = append(m.saved, r) }

func (m *memReports) Latest() (RunReport, error) {
	if len(m.saved) == 0 {
		return RunReport{}, errors.New("empty")
	}
	return m.saved[len(m.saved)-1], nil
}

func (m *memReports) List() []RunReport { return m.saved }

var cities = []weather.City{
	{Name: "Ufa", Query: "Ufa,RU", Emoji: "🏙️", Output: "sticker_ufa.png", UTCOffsetHours: 5},
	{Name: "Salavat", Query: "Salavat,RU", Emoji: "🌆", Output: "sticker_salavat.png", UTCOffsetHours: 5},
}

func newTestService(t *testing.T, provider weather.Provider, api StickerAPI, reports ReportStore) (*Service, string) {
	t.Helper()
	assets := t.TempDir()
	if err := imaging.Save(imaging.New(512, 512, color.NRGBA{B: 200, A: 255}), filepath.Join(assets, "bg_fallback.png")); err != nil {
		t.Fatal(err)
	}
	logger := zap.NewNop()
	composer := render.NewComposer(
		render.DefaultLayout(),
		render.NewResolver(assets, logger),
		render.NewFontSource([]string{filepath.Join(assets, "none.ttf")}, logger),
		logger,
	)

	out := t.TempDir()
	clock := func() time.Time { return time.Date(2024, time.December, 7, 20, 55, 0, 0, time.UTC) }
	svc := NewService(provider, composer, api, reports, Options{
		Cities:    cities,
		Target:    target,
		OutputDir: out,
		Now:       clock,
	}, logger)
	return svc, out
}

func TestSyncCreatesSetOnFirstRun(t *testing.T) {
	provider := &fakeProvider{snaps: map[string]weather.Snapshot{
		"Ufa,RU":     {TemperatureC: -5.2, HumidityPct: 90, IconCode: "13n", Description: "Snow"},
		"Salavat,RU": {TemperatureC: -2.5, HumidityPct: 70, IconCode: "", Description: "Overcast clouds"},
	}}
	api := &fakeAPI{getErr: &telegram.APIError{Code: 400, Description: "Bad Request: STICKERSET_INVALID"}}
	reports := &memReports{}
	svc, out := newTestService(t, provider, api, reports)

	report, err := svc.Sync(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantCalls := []string{"upload sticker_ufa.png", "upload sticker_salavat.png", "create F1,F2"}
	if !reflect.DeepEqual(api.calls, wantCalls) {
		t.Fatalf("calls = %v, want %v", api.calls, wantCalls)
	}
	if !reflect.DeepEqual(provider.calls, []string{"Ufa,RU", "Salavat,RU"}) {
		t.Fatalf("fetch order = %v", provider.calls)
	}

	for _, name := range []string{"sticker_ufa.png", "sticker_salavat.png"} {
		data, err := os.ReadFile(filepath.Join(out, name))
		if err != nil {
			t.Fatalf("expected %s to be written: %v", name, err)
		}
		if _, err := imaging.Decode(bytes.NewReader(data)); err != nil {
			t.Fatalf("%s is not a valid image: %v", name, err)
		}
	}

	if !report.Outcome.Created || len(report.Cities) != 2 || report.Cities[1].FileID != "F2" {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.ID == "" || report.Error != "" {
		t.Fatalf("unexpected report id/error: %+v", report)
	}
	if len(reports.saved) != 1 {
		t.Fatalf("expected the report to be stored, got %d", len(reports.saved))
	}
}

func TestSyncReplacesExistingSet(t *testing.T) {
	provider := &fakeProvider{snaps: map[string]weather.Snapshot{}}
	api := &fakeAPI{set: setOf("A", "B", "C")}
	svc, _ := newTestService(t, provider, api, &memReports{})

	report, err := svc.Sync(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantCalls := []string{
		"upload sticker_ufa.png", "upload sticker_salavat.png",
		"replace A->F1", "replace B->F2", "delete C",
	}
	if !reflect.DeepEqual(api.calls, wantCalls) {
		t.Fatalf("calls = %v, want %v", api.calls, wantCalls)
	}
	if report.Outcome.Replaced != 2 || report.Outcome.Deleted != 1 {
		t.Fatalf("unexpected outcome %+v", report.Outcome)
	}
}

func TestSyncFailsFastOnFetchError(t *testing.T) {
	fetchErr := errors.New("provider down")
	provider := &fakeProvider{err: map[string]error{"Ufa,RU": fetchErr}}
	api := &fakeAPI{set: setOf("A")}
	reports := &memReports{}
	svc, _ := newTestService(t, provider, api, reports)

	_, err := svc.Sync(context.Background())
	if !errors.Is(err, fetchErr) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if len(api.calls) != 0 {
		t.Fatalf("expected no API calls, got %v", api.calls)
	}
	if len(provider.calls) != 1 {
		t.Fatalf("expected processing to stop at the first city, got %v", provider.calls)
	}
	if len(reports.saved) != 1 || reports.saved[0].Error == "" {
		t.Fatalf("expected a failed report to be stored, got %+v", reports.saved)
	}
}

func TestSyncFailsOnMissingBackground(t *testing.T) {
	provider := &fakeProvider{}
	api := &fakeAPI{set: setOf("A")}
	svc, _ := newTestService(t, provider, api, &memReports{})
	svc.composer = render.NewComposer(
		render.DefaultLayout(),
		render.NewResolver(t.TempDir(), zap.NewNop()),
		render.NewFontSource(nil, zap.NewNop()),
		zap.NewNop(),
	)

	_, err := svc.Sync(context.Background())
	var missing *render.MissingAssetError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingAssetError, got %v", err)
	}
	if len(api.calls) != 0 {
		t.Fatalf("expected no API calls, got %v", api.calls)
	}
}

func TestPreview(t *testing.T) {
	provider := &fakeProvider{}
	svc, out := newTestService(t, provider, &fakeAPI{}, &memReports{})

	png, err := svc.Preview(context.Background(), "Salavat,RU")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := imaging.Decode(bytes.NewReader(png)); err != nil {
		t.Fatalf("preview is not an image: %v", err)
	}
	if entries, _ := os.ReadDir(out); len(entries) != 0 {
		t.Fatalf("preview must not write files, found %d", len(entries))
	}

	if _, err := svc.Preview(context.Background(), "Paris,FR"); !errors.Is(err, ErrUnknownCity) {
		t.Fatalf("expected ErrUnknownCity, got %v", err)
	}
}
