package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/i474232898/weather-stickers/internal/weather"
)

// bottomMargin is the gap kept below a field that has neither Y nor a default Y.
const bottomMargin = 40

var textColor = image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 255})

// Defaults are caller-supplied coordinates used when a LayoutSpec leaves X or Y unset.
type Defaults struct {
	X *int
	Y *int
}

// Box is the placement computed for a drawn piece of text.
type Box struct {
	X, Y, W, H int
}

// step yields a coordinate when it applies.
type step func() (int, bool)

// firstOf returns the value of the first applicable step.
// The last step of every ladder always applies.
func firstOf(steps ...step) int {
	for _, s := range steps {
		if v, ok := s(); ok {
			return v
		}
	}
	return 0
}

func optional(p *int, f func(int) int) step {
	return func() (int, bool) {
		if p == nil {
			return 0, false
		}
		return f(*p), true
	}
}

func always(v int) step {
	return func() (int, bool) { return v, true }
}

func identity(v int) int { return v }

// floorDiv rounds toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func resolveX(spec LayoutSpec, def Defaults, canvasW, textW int) int {
	explicit := identity
	if spec.RightAlign {
		explicit = func(margin int) int { return canvasW - margin - textW }
	}
	return firstOf(
		optional(spec.X, explicit),
		optional(def.X, identity),
		always(floorDiv(canvasW-textW, 2)),
	)
}

func resolveY(spec LayoutSpec, def Defaults, canvasH, textH int) int {
	return firstOf(
		optional(spec.Y, identity),
		optional(def.Y, identity),
		always(canvasH-textH-bottomMargin),
	)
}

// measure returns the ink width and height of text.
func measure(face font.Face, text string) (int, int) {
	b, _ := font.BoundString(face, text)
	return (b.Max.X - b.Min.X).Ceil(), (b.Max.Y - b.Min.Y).Ceil()
}

// drawAt draws text with the top of the line box at y.
func drawAt(dst draw.Image, face font.Face, text string, x, y int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  textColor,
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y) + face.Metrics().Ascent},
	}
	d.DrawString(text)
}

// DrawField measures text, resolves its position and draws it in white.
func DrawField(dst draw.Image, faces Faces, text string, spec LayoutSpec, def Defaults) Box {
	face := faces.Face(spec.FontSize)
	w, h := measure(face, text)

	bounds := dst.Bounds()
	x := resolveX(spec, def, bounds.Dx(), w)
	y := resolveY(spec, def, bounds.Dy(), h)

	drawAt(dst, face, text, x, y)
	return Box{X: x, Y: y, W: w, H: h}
}

// DrawDetails draws lines left-aligned, each below the previous one by its
// measured height plus the block's line spacing.
func DrawDetails(dst draw.Image, faces Faces, lines []string, spec DetailsBlockSpec) []Box {
	face := faces.Face(spec.FontSize)
	boxes := make([]Box, 0, len(lines))

	y := spec.Y
	for _, line := range lines {
		w, h := measure(face, line)
		drawAt(dst, face, line, spec.X, y)
		boxes = append(boxes, Box{X: spec.X, Y: y, W: w, H: h})
		y += h + spec.LineSpacing
	}
	return boxes
}

// DetailLines returns the humidity, wind and description lines for a snapshot.
func DetailLines(snap weather.Snapshot) []string {
	return []string{
		fmt.Sprintf("Humidity: %d%%", snap.HumidityPct),
		fmt.Sprintf("Wind: %.1f m/s", snap.WindSpeedMS),
		snap.Description,
	}
}
