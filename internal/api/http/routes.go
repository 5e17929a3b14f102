package httpapi

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/i474232898/weather-stickers/internal/stickers"
	"github.com/i474232898/weather-stickers/internal/store"
	"github.com/i474232898/weather-stickers/internal/weather"
)

var validate = validator.New()

// Previewer renders a single sticker on demand.
type Previewer interface {
	Cities() []weather.City
	Preview(ctx context.Context, cityKey string) ([]byte, error)
}

// RunHistory exposes recorded sync runs.
type RunHistory interface {
	Latest() (stickers.RunReport, error)
	List() []stickers.RunReport
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, previewer Previewer, history RunHistory, logger *zap.Logger) {
	v1 := app.Group("/api/v1")

	v1.Get("/runs", func(c *fiber.Ctx) error {
		runs := history.List()
		return c.JSON(fiber.Map{
			"count": len(runs),
			"runs":  runs,
		})
	})

	v1.Get("/runs/latest", func(c *fiber.Ctx) error {
		report, err := history.Latest()
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no sync runs recorded yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read run history")
		}
		return c.JSON(report)
	})

	v1.Get("/cities", func(c *fiber.Ctx) error {
		return c.JSON(previewer.Cities())
	})

	v1.Get("/preview", func(c *fiber.Ctx) error {
		q, err := parsePreviewQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		png, err := previewer.Preview(c.UserContext(), q.City)
		if err != nil {
			if errors.Is(err, stickers.ErrUnknownCity) {
				return fiber.NewError(fiber.StatusNotFound, "city is not configured")
			}
			logger.Warn("preview failed", zap.String("city", q.City), zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render sticker")
		}

		c.Set(fiber.HeaderContentType, "image/png")
		return c.Send(png)
	})
}

// previewQuery holds query parameters for the preview endpoint.
type previewQuery struct {
	City string `validate:"required,max=128"`
}

func parsePreviewQuery(c *fiber.Ctx) (previewQuery, error) {
	q := previewQuery{City: c.Query("city")}
	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}
