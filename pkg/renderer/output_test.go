package renderer

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/image/bmp"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			img.SetRGBA(x, y, color.RGBA{0, 0, 0, 255})
		}
	}
	img.SetRGBA(1, 1, color.RGBA{10, 20, 30, 255})
	return img
}

func TestSaveImage(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		decode func(f *os.File) (image.Image, error)
	}{
		{"png", "out.png", func(f *os.File) (image.Image, error) { return png.Decode(f) }},
		{"bmp", "nested/out.BMP", func(f *os.File) (image.Image, error) { return bmp.Decode(f) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := SaveImage(path, testImage()); err != nil {
				t.Fatalf("SaveImage failed: %v", err)
			}

			f, err := os.Open(path)
			if err != nil {
				t.Fatalf("Failed to open output: %v", err)
			}
			defer f.Close()

			img, err := tt.decode(f)
			if err != nil {
				t.Fatalf("Failed to decode output: %v", err)
			}
			if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
				t.Errorf("Unexpected bounds %v", img.Bounds())
			}
			r, g, b, _ := img.At(1, 1).RGBA()
			if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
				t.Errorf("Unexpected pixel (%d,%d,%d)", r>>8, g>>8, b>>8)
			}
		})
	}
}

func TestSaveImage_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jpg")
	if err := SaveImage(path, testImage()); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected no file for unsupported format")
	}
}

func TestDefaultOutputPath(t *testing.T) {
	id := uuid.MustParse("12345678-9abc-def0-1234-56789abcdef0")
	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

	path := DefaultOutputPath("cornell", id, now)
	want := filepath.Join("output", "cornell", "render_20240305_140709_12345678.png")
	if path != want {
		t.Errorf("Expected %s, got %s", want, path)
	}
	if !strings.HasSuffix(path, ".png") {
		t.Errorf("Expected png output, got %s", path)
	}
}
