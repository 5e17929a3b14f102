package stickers

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/i474232898/weather-stickers/internal/platform/obs"
	"github.com/i474232898/weather-stickers/internal/render"
	"github.com/i474232898/weather-stickers/internal/telegram"
	"github.com/i474232898/weather-stickers/internal/weather"
)

// ErrUnknownCity is returned by Preview for a city that is not configured.
var ErrUnknownCity = errors.New("city is not configured")

// StickerAPI is the Bot API surface the service needs.
type StickerAPI interface {
	SetEditor
	UploadStickerFile(ctx context.Context, userID int64, filename string, png []byte) (string, error)
}

// Composer renders a sticker image.
type Composer interface {
	Compose(city weather.City, snap weather.Snapshot, stamp weather.LocalStamp) (*image.NRGBA, error)
}

// Options configures a Service.
type Options struct {
	Cities    []weather.City
	Target    Target
	OutputDir string
	// Now defaults to time.Now.
	Now func() time.Time
}

// Service runs the fetch, render, upload and reconcile pipeline.
type Service struct {
	provider weather.Provider
	composer Composer
	api      StickerAPI
	store    ReportStore
	opts     Options
	logger   *zap.Logger
}

// NewService creates a new Service.
func NewService(provider weather.Provider, composer Composer, api StickerAPI, store ReportStore, opts Options, logger *zap.Logger) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		provider: provider,
		composer: composer,
		api:      api,
		store:    store,
		opts:     opts,
		logger:   logger,
	}
}

// Cities returns the configured cities in sticker order.
func (s *Service) Cities() []weather.City {
	out := make([]weather.City, len(s.opts.Cities))
	copy(out, s.opts.Cities)
	return out
}

// Sync processes every city in order and then reconciles the sticker set.
// The first city that fails aborts the run before the set is touched.
// The report is stored whatever the outcome.
func (s *Service) Sync(ctx context.Context) (report RunReport, err error) {
	runID := uuid.NewString()
	ctx = obs.WithRunID(ctx, runID)
	logger := s.logger.With(zap.String("run_id", runID))

	report = RunReport{ID: runID, StartedAt: s.opts.Now().UTC()}
	defer func() {
		report.FinishedAt = s.opts.Now().UTC()
		if err != nil {
			report.Error = err.Error()
		}
		if s.store != nil {
			s.store.Save(report)
		}
	}()

	logger.Info("sync started", zap.Int("cities", len(s.opts.Cities)))

	fresh := make([]telegram.InputSticker, 0, len(s.opts.Cities))
	for _, city := range s.opts.Cities {
		sticker, result, err := s.processCity(ctx, logger, city)
		if err != nil {
			return report, fmt.Errorf("city %s: %w", city.Key(), err)
		}
		fresh = append(fresh, sticker)
		report.Cities = append(report.Cities, result)
	}

	logger.Info("reconciling sticker set", zap.String("state", "reconciling"), zap.String("set", s.opts.Target.Name))
	report.Outcome, err = Reconcile(ctx, s.api, s.opts.Target, fresh, logger)
	if err != nil {
		return report, err
	}

	logger.Info("sync done", zap.Int("stickers", len(fresh)))
	return report, nil
}

func (s *Service) processCity(ctx context.Context, logger *zap.Logger, city weather.City) (sticker telegram.InputSticker, result CityResult, err error) {
	defer obs.Time(ctx, s.logger, "process_city", zap.String("city", city.Key()))(&err)
	logger = logger.With(zap.String("city", city.Key()))

	logger.Debug("fetching weather", zap.String("state", "fetching_weather"))
	snap, err := s.provider.Fetch(ctx, city)
	if err != nil {
		return sticker, result, fmt.Errorf("fetch weather: %w", err)
	}

	logger.Debug("composing sticker", zap.String("state", "composing"), zap.String("icon", snap.IconCode))
	png, err := s.render(city, snap)
	if err != nil {
		return sticker, result, err
	}

	path := filepath.Join(s.opts.OutputDir, city.Output)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return sticker, result, fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return sticker, result, fmt.Errorf("write %s: %w", path, err)
	}

	logger.Debug("uploading sticker", zap.String("state", "uploading"), zap.String("path", path))
	fileID, err := s.api.UploadStickerFile(ctx, s.opts.Target.Owner, filepath.Base(path), png)
	if err != nil {
		return sticker, result, fmt.Errorf("upload sticker: %w", err)
	}

	sticker = telegram.InputSticker{
		Sticker:   fileID,
		Format:    telegram.StickerFormatStatic,
		EmojiList: []string{city.Emoji},
	}
	result = CityResult{
		City:         city.Name,
		IconCode:     snap.IconCode,
		TemperatureC: snap.TemperatureC,
		Output:       path,
		FileID:       fileID,
	}
	return sticker, result, nil
}

func (s *Service) render(city weather.City, snap weather.Snapshot) ([]byte, error) {
	stamp := weather.StampAt(s.opts.Now(), city.UTCOffsetHours)
	img, err := s.composer.Compose(city, snap, stamp)
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	return render.EncodePNG(img)
}

// Preview fetches weather for one configured city and returns its sticker as
// PNG without writing or uploading anything.
func (s *Service) Preview(ctx context.Context, cityKey string) ([]byte, error) {
	for _, city := range s.opts.Cities {
		if city.Key() != cityKey {
			continue
		}
		snap, err := s.provider.Fetch(ctx, city)
		if err != nil {
			return nil, fmt.Errorf("fetch weather: %w", err)
		}
		return s.render(city, snap)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCity, cityKey)
}
