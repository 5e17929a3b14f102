package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/i474232898/weather-stickers/internal/weather"
)

func testFaces(t *testing.T) *FaceSet {
	t.Helper()
	fs := NewFontSource([]string{"testdata/does-not-exist.ttf"}, zap.NewNop()).NewFaceSet()
	t.Cleanup(func() { _ = fs.Close() })
	return fs
}

func blankCanvas(w, h int) *image.NRGBA {
	return imaging.New(w, h, color.NRGBA{A: 255})
}

func TestDrawFieldCentersAndAnchorsBottom(t *testing.T) {
	faces := testFaces(t)

	for _, text := range []string{"Ufa", "Kushnarenkovo", "07"} {
		canvas := blankCanvas(512, 512)
		box := DrawField(canvas, faces, text, LayoutSpec{FontSize: 40}, Defaults{})

		if box.X != (512-box.W)/2 {
			t.Errorf("%q: x = %d, want centered %d", text, box.X, (512-box.W)/2)
		}
		if box.Y != 512-box.H-40 {
			t.Errorf("%q: y = %d, want %d", text, box.Y, 512-box.H-40)
		}
	}
}

func TestDrawFieldRightAlignKeepsRightEdge(t *testing.T) {
	faces := testFaces(t)
	spec := LayoutSpec{X: Px(80), Y: Px(30), FontSize: 140, RightAlign: true}

	for _, text := range []string{"1", "-7", "23", "-30"} {
		canvas := blankCanvas(512, 512)
		box := DrawField(canvas, faces, text, spec, Defaults{})
		if box.X+box.W != 512-80 {
			t.Errorf("%q: right edge = %d, want %d", text, box.X+box.W, 512-80)
		}
		if box.Y != 30 {
			t.Errorf("%q: y = %d, want 30", text, box.Y)
		}
	}
}

func TestDrawFieldFallbackLadder(t *testing.T) {
	faces := testFaces(t)
	canvas := blankCanvas(400, 300)

	tests := []struct {
		name  string
		spec  LayoutSpec
		def   Defaults
		wantX func(b Box) int
		wantY func(b Box) int
	}{
		{
			name:  "explicit wins over defaults",
			spec:  LayoutSpec{X: Px(12), Y: Px(34), FontSize: 20},
			def:   Defaults{X: Px(100), Y: Px(100)},
			wantX: func(Box) int { return 12 },
			wantY: func(Box) int { return 34 },
		},
		{
			name:  "defaults when unset",
			spec:  LayoutSpec{FontSize: 20},
			def:   Defaults{X: Px(7), Y: Px(70)},
			wantX: func(Box) int { return 7 },
			wantY: func(Box) int { return 70 },
		},
		{
			name:  "right align without x uses default x as coordinate",
			spec:  LayoutSpec{FontSize: 20, RightAlign: true},
			def:   Defaults{X: Px(15)},
			wantX: func(Box) int { return 15 },
			wantY: func(b Box) int { return 300 - b.H - 40 },
		},
		{
			name:  "x and y resolve independently",
			spec:  LayoutSpec{Y: Px(5), FontSize: 20},
			def:   Defaults{},
			wantX: func(b Box) int { return (400 - b.W) / 2 },
			wantY: func(Box) int { return 5 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := DrawField(canvas, faces, "Sterlitamak", tt.spec, tt.def)
			if box.X != tt.wantX(box) {
				t.Errorf("x = %d, want %d", box.X, tt.wantX(box))
			}
			if box.Y != tt.wantY(box) {
				t.Errorf("y = %d, want %d", box.Y, tt.wantY(box))
			}
		})
	}
}

func TestDrawFieldPaintsWhite(t *testing.T) {
	faces := testFaces(t)
	canvas := blankCanvas(300, 200)

	box := DrawField(canvas, faces, "HELLO", LayoutSpec{X: Px(10), Y: Px(10), FontSize: 48}, Defaults{})

	found := false
	for y := box.Y; y < box.Y+box.H*2 && !found; y++ {
		for x := box.X; x < box.X+box.W; x++ {
			if canvas.NRGBAAt(x, y).R == 255 {
				found = true
				break
			}
		}
	}
	if !found {
		t.Fatal("expected white glyph pixels near the computed box")
	}
}

func TestDrawDetailsStacksLines(t *testing.T) {
	faces := testFaces(t)
	canvas := blankCanvas(512, 512)
	spec := DetailsBlockSpec{X: 50, Y: 290, FontSize: 30, LineSpacing: 6}

	lines := DetailLines(weather.Snapshot{HumidityPct: 81, WindSpeedMS: 3.25, Description: "Overcast clouds"})
	boxes := DrawDetails(canvas, faces, lines, spec)

	if len(boxes) != 3 {
		t.Fatalf("expected 3 boxes, got %d", len(boxes))
	}
	if boxes[0].X != 50 || boxes[0].Y != 290 {
		t.Fatalf("first line at (%d,%d), want (50,290)", boxes[0].X, boxes[0].Y)
	}
	for i := 1; i < len(boxes); i++ {
		want := boxes[i-1].Y + boxes[i-1].H + spec.LineSpacing
		if boxes[i].Y != want {
			t.Errorf("line %d y = %d, want %d", i, boxes[i].Y, want)
		}
		if boxes[i].X != 50 {
			t.Errorf("line %d x = %d, want 50", i, boxes[i].X)
		}
	}
}

func TestDetailLines(t *testing.T) {
	got := DetailLines(weather.Snapshot{HumidityPct: 93, WindSpeedMS: 0, Description: "Mist"})
	want := []string{"Humidity: 93%", "Wind: 0.0 m/s", "Mist"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFormatTemperature(t *testing.T) {
	cases := map[float64]string{
		-3.6: "-4",
		2.5:  "2",
		3.5:  "4",
		-0.4: "0",
		19.2: "19",
	}
	for in, want := range cases {
		if got := formatTemperature(in); got != want {
			t.Errorf("formatTemperature(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestResolveXCentersWideTextWithFloor(t *testing.T) {
	tests := []struct {
		canvasW, textW, want int
	}{
		{512, 100, 206},
		{512, 101, 205},
		{100, 103, -2},
		{100, 101, -1},
	}
	for _, tt := range tests {
		if got := resolveX(LayoutSpec{}, Defaults{}, tt.canvasW, tt.textW); got != tt.want {
			t.Errorf("resolveX(W=%d, w=%d) = %d, want %d", tt.canvasW, tt.textW, got, tt.want)
		}
	}
}
