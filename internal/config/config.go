package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/weather-stickers/internal/common"
	"github.com/i474232898/weather-stickers/internal/weather"
)

// ErrFatalConfig wraps every error that must stop the process before any city is processed.
var ErrFatalConfig = errors.New("fatal config error")

var validate = validator.New()

type AppConfig struct {
	WeatherAPIKey   string `validate:"required" env:"WEATHER_API_KEY"`
	BotToken        string `validate:"required" env:"BOT_TOKEN"`
	StickerSetName  string `validate:"required" env:"STICKER_SET_NAME"`
	StickerSetTitle string `validate:"required" env:"STICKER_SET_TITLE"`
	OwnerUserID     int64  `validate:"required" env:"TELEGRAM_USER_ID"`

	// WeatherProvider selects the weather source: "openweather" or "weatherapi".
	WeatherProvider string `validate:"oneof=openweather weatherapi"`
	TelegramAPIURL  string `validate:"omitempty,url"`

	// FetchInterval controls how often the sticker set is refreshed.
	FetchInterval time.Duration `validate:"gt=0"`
	RunTimeout    time.Duration `validate:"gt=0"`
	HTTPTimeout   time.Duration `validate:"gt=0"`
	RunOnce       bool

	AssetsDir string `validate:"required"`
	OutputDir string `validate:"required"`
	FontPaths []string

	ReportHistory int
	Port          string
	LogLevel      string `validate:"oneof=debug info warn error"`
	LogDev        bool

	Cities []weather.City `validate:"required,min=1,dive"`
}

// Load reads configuration from environment with sensible defaults.
// The caller loads .env files first.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		WeatherAPIKey:   strings.TrimSpace(os.Getenv("WEATHER_API_KEY")),
		BotToken:        strings.TrimSpace(os.Getenv("BOT_TOKEN")),
		StickerSetName:  strings.TrimSpace(os.Getenv("STICKER_SET_NAME")),
		StickerSetTitle: strings.TrimSpace(os.Getenv("STICKER_SET_TITLE")),
		WeatherProvider: getenvDefault("WEATHER_PROVIDER", "openweather"),
		TelegramAPIURL:  os.Getenv("TELEGRAM_API_URL"),
		AssetsDir:       getenvDefault("ASSETS_DIR", "images"),
		OutputDir:       getenvDefault("OUTPUT_DIR", "."),
		FontPaths:       common.SplitList(os.Getenv("FONT_PATHS")),
		ReportHistory:   getenvInt("REPORT_HISTORY", 48),
		Port:            getenvDefault("PORT", "8080"),
		LogLevel:        strings.ToLower(getenvDefault("LOG_LEVEL", "info")),
		Cities:          DefaultCities(),
	}

	var missing []string
	if v := strings.TrimSpace(os.Getenv("TELEGRAM_USER_ID")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid TELEGRAM_USER_ID: %v", ErrFatalConfig, err)
		}
		cfg.OwnerUserID = id
	}

	var err error
	if cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.RunTimeout, err = getenvDuration("RUN_TIMEOUT", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.RunOnce, err = getenvBool("RUN_ONCE", false); err != nil {
		return nil, err
	}
	if cfg.LogDev, err = getenvBool("LOG_DEV", false); err != nil {
		return nil, err
	}

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, fmt.Errorf("%w: %v", ErrFatalConfig, err)
		}
		for _, fe := range verrs {
			missing = append(missing, describe(fe))
		}
		return nil, fmt.Errorf("%w: %s", ErrFatalConfig, strings.Join(missing, "; "))
	}

	return cfg, nil
}

// describe names the environment variable behind a failed field when it has one.
func describe(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		if env := envName(fe.StructField()); env != "" {
			return env + " is required"
		}
	}
	return fmt.Sprintf("%s failed %q validation", fe.Namespace(), fe.Tag())
}

// envName returns the env tag of an AppConfig field.
func envName(field string) string {
	f, ok := reflect.TypeOf(AppConfig{}).FieldByName(field)
	if !ok {
		return ""
	}
	return f.Tag.Get("env")
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s: %v", ErrFatalConfig, key, err)
	}
	return d, nil
}

func getenvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: invalid %s: %v", ErrFatalConfig, key, err)
	}
	return b, nil
}
