package render

// LayoutSpec places one single-line text field.
//
// X and Y are optional. When RightAlign is set, X is a margin from the right
// edge of the canvas rather than a left coordinate. A nil X falls back to the
// caller's default X or horizontal centering; a nil Y falls back to the
// caller's default Y or a fixed margin above the bottom edge.
type LayoutSpec struct {
	X          *int
	Y          *int
	FontSize   int
	RightAlign bool
}

// DetailsBlockSpec places the stacked humidity/wind/description lines.
type DetailsBlockSpec struct {
	X           int
	Y           int
	FontSize    int
	LineSpacing int
}

// IconPlacement is the square box the weather icon is pasted into.
type IconPlacement struct {
	X    int
	Y    int
	Size int
}

// StickerLayout is the full per-field layout table of a sticker.
type StickerLayout struct {
	City    LayoutSpec
	Temp    LayoutSpec
	Degree  LayoutSpec
	Day     LayoutSpec
	Month   LayoutSpec
	Time    LayoutSpec
	Details DetailsBlockSpec
	Icon    IconPlacement
}

// Px returns a pointer to v, for filling optional LayoutSpec coordinates.
func Px(v int) *int {
	return &v
}

// DefaultLayout returns the production layout tuned for the bundled backgrounds.
func DefaultLayout() StickerLayout {
	return StickerLayout{
		City: LayoutSpec{X: Px(50), Y: Px(400), FontSize: 58},
		// Right edge of the digits sits 80px from the right edge.
		Temp:   LayoutSpec{X: Px(80), Y: Px(30), FontSize: 140, RightAlign: true},
		Degree: LayoutSpec{X: Px(430), Y: Px(56), FontSize: 42},
		Day:    LayoutSpec{X: Px(396), Y: Px(310), FontSize: 48},
		Month:  LayoutSpec{X: Px(396), Y: Px(280), FontSize: 30},
		Time:   LayoutSpec{X: Px(400), Y: Px(366), FontSize: 20},
		Details: DetailsBlockSpec{
			X:           50,
			Y:           290,
			FontSize:    30,
			LineSpacing: 6,
		},
		Icon: IconPlacement{X: 0, Y: 0, Size: 225},
	}
}
