package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	backgroundPrefix = "bg_"

	// FallbackBackground is tried when no background matches the icon code.
	FallbackBackground = "bg_fallback.png"
	// SecondaryFallbackBackground is a known-good condition background tried last.
	SecondaryFallbackBackground = "bg_01d.png"
)

// MissingAssetError is returned when none of the background candidates exist.
type MissingAssetError struct {
	Candidates []string
}

func (e *MissingAssetError) Error() string {
	return fmt.Sprintf("no suitable background found; expected one of: %s", strings.Join(e.Candidates, ", "))
}

// Resolver maps weather icon codes to background and icon files.
// Backgrounds live in dir as bg_<code>.png; icons live in dir/icons as <code>.png.
type Resolver struct {
	dir      string
	iconsDir string
	logger   *zap.Logger
}

func NewResolver(dir string, logger *zap.Logger) *Resolver {
	return &Resolver{
		dir:      dir,
		iconsDir: filepath.Join(dir, "icons"),
		logger:   logger,
	}
}

// Background returns the first existing of bg_<code>.png, the fallback
// background and the secondary fallback.
func (r *Resolver) Background(iconCode string) (string, error) {
	exact := filepath.Join(r.dir, backgroundPrefix+iconCode+".png")
	if iconCode != "" {
		if fileExists(exact) {
			return exact, nil
		}
		r.logger.Warn("weather background not found", zap.String("icon", iconCode), zap.String("path", exact))
	}

	fb1 := filepath.Join(r.dir, FallbackBackground)
	if fileExists(fb1) {
		return fb1, nil
	}

	fb2 := filepath.Join(r.dir, SecondaryFallbackBackground)
	if fileExists(fb2) {
		return fb2, nil
	}

	return "", &MissingAssetError{Candidates: []string{exact, fb1, fb2}}
}

// Icon returns the icon file for iconCode and whether it exists.
// There is no fallback icon.
func (r *Resolver) Icon(iconCode string) (string, bool) {
	if iconCode == "" {
		return "", false
	}
	p := filepath.Join(r.iconsDir, iconCode+".png")
	if !fileExists(p) {
		return p, false
	}
	return p, true
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
