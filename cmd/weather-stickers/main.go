package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/weather-stickers/internal/api/http"
	"github.com/i474232898/weather-stickers/internal/config"
	"github.com/i474232898/weather-stickers/internal/logging"
	"github.com/i474232898/weather-stickers/internal/render"
	"github.com/i474232898/weather-stickers/internal/scheduler"
	"github.com/i474232898/weather-stickers/internal/stickers"
	"github.com/i474232898/weather-stickers/internal/store"
	"github.com/i474232898/weather-stickers/internal/telegram"
	"github.com/i474232898/weather-stickers/internal/weather"
	"github.com/i474232898/weather-stickers/internal/weather/providers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	var provider weather.Provider
	switch cfg.WeatherProvider {
	case "weatherapi":
		provider = providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey)
	default:
		provider = providers.NewOpenWeatherProvider(httpClient, cfg.WeatherAPIKey)
	}

	composer := render.NewComposer(
		render.DefaultLayout(),
		render.NewResolver(cfg.AssetsDir, logger),
		render.NewFontSource(cfg.FontPaths, logger),
		logger,
	)

	bot := telegram.NewClient(httpClient, cfg.TelegramAPIURL, cfg.BotToken)

	// In-memory history of sync runs.
	reports := store.NewMemoryStore(cfg.ReportHistory)

	service := stickers.NewService(provider, composer, bot, reports, stickers.Options{
		Cities: cfg.Cities,
		Target: stickers.Target{
			Owner: cfg.OwnerUserID,
			Name:  cfg.StickerSetName,
			Title: cfg.StickerSetTitle,
		},
		OutputDir: cfg.OutputDir,
	}, logger)

	logger.Info("starting",
		zap.String("provider", provider.Name()),
		zap.String("sticker_set", cfg.StickerSetName),
		zap.Int("cities", len(cfg.Cities)),
	)

	if cfg.RunOnce {
		if err := scheduler.RunOnce(context.Background(), service, cfg.RunTimeout, logger); err != nil {
			_ = logger.Sync()
			os.Exit(1)
		}
		return
	}

	// Scheduler that periodically refreshes the sticker set.
	sched := scheduler.New(service, cfg.FetchInterval, cfg.RunTimeout, logger)
	if err := sched.Start(); err != nil {
		logger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-stickers",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(requestLogger(logger))
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-stickers",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service, reports, logger)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Warn("fiber server stopped", zap.Error(err))
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("error during shutdown", zap.Error(err))
	}
}

// requestLogger logs one line per request through zap.
func requestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				return herr
			}
		}
		logger.Info("http request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		)
		return nil
	}
}
