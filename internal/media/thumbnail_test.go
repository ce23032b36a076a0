package media

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"gen-studio/internal/mediatypes"
)

func writeTestPNG(t *testing.T, dir string, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}

	path := filepath.Join(dir, "test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGetThumbnail(t *testing.T) {
	dir := t.TempDir()
	src := writeTestPNG(t, dir, 800, 600)

	gen := NewThumbnailGenerator(filepath.Join(dir, "cache"), true)

	data, err := gen.GetThumbnail(src, mediatypes.KindImage)
	if err != nil {
		t.Fatalf("GetThumbnail() error: %v", err)
	}

	thumb, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("thumbnail is not valid JPEG: %v", err)
	}
	bounds := thumb.Bounds()
	if bounds.Dx() > thumbSize || bounds.Dy() > thumbSize {
		t.Errorf("thumbnail %dx%d exceeds bounding box", bounds.Dx(), bounds.Dy())
	}

	// Second call must come from cache and be byte-identical
	cached, err := gen.GetThumbnail(src, mediatypes.KindImage)
	if err != nil {
		t.Fatalf("cached GetThumbnail() error: %v", err)
	}
	if !bytes.Equal(data, cached) {
		t.Error("cached thumbnail differs from generated one")
	}
}

func TestGetThumbnailDisabled(t *testing.T) {
	gen := NewThumbnailGenerator(t.TempDir(), false)

	if gen.IsEnabled() {
		t.Error("IsEnabled() = true for disabled generator")
	}
	if _, err := gen.GetThumbnail("anything.png", mediatypes.KindImage); err == nil {
		t.Error("expected error from disabled generator")
	}
}

func TestGetThumbnailMissingFile(t *testing.T) {
	gen := NewThumbnailGenerator(t.TempDir(), true)

	if _, err := gen.GetThumbnail("/does/not/exist.png", mediatypes.KindImage); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetThumbnailCorruptImage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.png")
	if err := os.WriteFile(src, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	gen := NewThumbnailGenerator(filepath.Join(dir, "cache"), true)
	if _, err := gen.GetThumbnail(src, mediatypes.KindImage); err == nil {
		t.Error("expected error for corrupt image")
	}
}
