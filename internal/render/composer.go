package render

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/i474232898/weather-stickers/internal/weather"
)

const (
	degreeLabel = "°C"
	// headlineDefaultY applies to the temperature and unit blocks when their Y is unset.
	headlineDefaultY = 70
)

// Composer renders one sticker image from a background, an icon and text fields.
type Composer struct {
	layout StickerLayout
	assets *Resolver
	fonts  *FontSource
	logger *zap.Logger
}

func NewComposer(layout StickerLayout, assets *Resolver, fonts *FontSource, logger *zap.Logger) *Composer {
	return &Composer{
		layout: layout,
		assets: assets,
		fonts:  fonts,
		logger: logger,
	}
}

// Compose builds the sticker for city. A missing background is an error;
// a missing icon only produces a warning.
func (c *Composer) Compose(city weather.City, snap weather.Snapshot, stamp weather.LocalStamp) (*image.NRGBA, error) {
	bgPath, err := c.assets.Background(snap.IconCode)
	if err != nil {
		return nil, err
	}

	bg, err := imaging.Open(bgPath)
	if err != nil {
		return nil, fmt.Errorf("open background %s: %w", bgPath, err)
	}
	canvas := imaging.Clone(bg)

	canvas = c.pasteIcon(canvas, snap.IconCode)

	faces := c.fonts.NewFaceSet()
	defer faces.Close()

	l := c.layout
	headline := Defaults{Y: Px(headlineDefaultY)}

	// Digits and unit are separate blocks so the unit stays put whatever the digit count.
	DrawField(canvas, faces, formatTemperature(snap.TemperatureC), l.Temp, headline)
	DrawField(canvas, faces, degreeLabel, l.Degree, headline)

	DrawField(canvas, faces, city.Name, l.City, Defaults{})
	DrawField(canvas, faces, stamp.Day, l.Day, Defaults{})
	DrawField(canvas, faces, stamp.Month, l.Month, Defaults{})
	DrawField(canvas, faces, stamp.Time, l.Time, Defaults{})

	DrawDetails(canvas, faces, DetailLines(snap), l.Details)

	return canvas, nil
}

func (c *Composer) pasteIcon(canvas *image.NRGBA, iconCode string) *image.NRGBA {
	path, ok := c.assets.Icon(iconCode)
	if !ok {
		c.logger.Warn("weather icon skipped", zap.String("icon", iconCode), zap.String("path", path))
		return canvas
	}

	icon, err := imaging.Open(path)
	if err != nil {
		c.logger.Warn("weather icon unreadable", zap.String("path", path), zap.Error(err))
		return canvas
	}

	p := c.layout.Icon
	if b := icon.Bounds(); b.Dx() != p.Size || b.Dy() != p.Size {
		icon = imaging.Resize(icon, p.Size, p.Size, imaging.Lanczos)
	}

	return imaging.Overlay(canvas, icon, image.Pt(p.X, p.Y), 1.0)
}

// formatTemperature rounds half to even and prints no decimals.
func formatTemperature(c float64) string {
	return fmt.Sprintf("%d", int(math.RoundToEven(c)))
}

// EncodePNG serializes a composed sticker.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
