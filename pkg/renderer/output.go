package renderer

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/image/bmp"
)

var ErrUnsupportedFormat = errors.New("renderer: unsupported image format")

// SaveImage writes img to path, encoding by extension (.png or .bmp).
// Missing parent directories are created.
func SaveImage(path string, img image.Image) error {
	var encode func(f *os.File) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		encode = func(f *os.File) error { return png.Encode(f, img) }
	case ".bmp":
		encode = func(f *os.File) error { return bmp.Encode(f, img) }
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("renderer: creating output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("renderer: creating %s: %w", path, err)
	}
	if err := encode(file); err != nil {
		file.Close()
		return fmt.Errorf("renderer: encoding %s: %w", path, err)
	}
	return file.Close()
}

// DefaultOutputPath returns output/<scene>/render_<timestamp>_<run>.png
func DefaultOutputPath(sceneName string, runID uuid.UUID, now time.Time) string {
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", sceneName, fmt.Sprintf("render_%s_%s.png", timestamp, runID.String()[:8]))
}
