package render

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

// DefaultFontPaths are searched in order before falling back to the bundled face.
var DefaultFontPaths = []string{
	"font.ttf",
	"Font.ttf",
	"fonts/font.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
}

// Faces hands out font faces by pixel size.
type Faces interface {
	Face(size int) font.Face
}

// FontSource loads the sticker font once and creates per-render face sets.
type FontSource struct {
	paths  []string
	logger *zap.Logger

	once sync.Once
	font *opentype.Font
}

func NewFontSource(paths []string, logger *zap.Logger) *FontSource {
	if len(paths) == 0 {
		paths = DefaultFontPaths
	}
	return &FontSource{paths: paths, logger: logger}
}

func (s *FontSource) load() {
	for _, p := range s.paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		f, err := opentype.Parse(data)
		if err != nil {
			s.logger.Warn("font file unusable", zap.String("path", p), zap.Error(err))
			continue
		}
		s.logger.Info("loaded font", zap.String("path", p))
		s.font = f
		return
	}

	s.logger.Warn("no font file found, using bundled Go Bold", zap.Strings("candidates", s.paths))
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		s.logger.Error("bundled font unusable, text falls back to basicfont", zap.Error(err))
		return
	}
	s.font = f
}

// NewFaceSet returns a face cache for one render. Faces are not safe for
// concurrent use, so every composition gets its own set.
func (s *FontSource) NewFaceSet() *FaceSet {
	s.once.Do(s.load)
	return &FaceSet{font: s.font, faces: make(map[int]font.Face), logger: s.logger}
}

// FaceSet caches faces by size for a single composition.
type FaceSet struct {
	font   *opentype.Font
	faces  map[int]font.Face
	logger *zap.Logger
}

func (fs *FaceSet) Face(size int) font.Face {
	if f, ok := fs.faces[size]; ok {
		return f
	}

	var face font.Face = basicfont.Face7x13
	if fs.font != nil {
		f, err := opentype.NewFace(fs.font, &opentype.FaceOptions{
			Size:    float64(size),
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			fs.logger.Warn("create font face", zap.Int("size", size), zap.Error(err))
		} else {
			face = f
		}
	}

	fs.faces[size] = face
	return face
}

// Close releases all faces of the set.
func (fs *FaceSet) Close() error {
	var firstErr error
	for size, f := range fs.faces {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close face %d: %w", size, err)
		}
	}
	fs.faces = map[int]font.Face{}
	return firstErr
}
