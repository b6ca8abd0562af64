package media

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/desertthunder/wavedl/internal/models"
)

func makeTestImage(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 128, 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}

	return buf.Bytes()
}

func TestResizeCover(t *testing.T) {
	t.Run("downscales large images", func(t *testing.T) {
		data := makeTestImage(t, 1200, 800)

		out, err := ResizeCover(data, models.DefaultProfile)
		if err != nil {
			t.Fatalf("ResizeCover failed: %v", err)
		}

		img, err := jpeg.Decode(bytes.NewReader(out))
		if err != nil {
			t.Fatalf("output is not valid JPEG: %v", err)
		}

		if img.Bounds().Dx() != 500 {
			t.Errorf("expected width 500, got %d", img.Bounds().Dx())
		}

		if img.Bounds().Dy() != 333 {
			t.Errorf("expected height 333, got %d", img.Bounds().Dy())
		}
	})

	t.Run("keeps small images", func(t *testing.T) {
		data := makeTestImage(t, 100, 100)

		out, err := ResizeCover(data, models.DefaultProfile)
		if err != nil {
			t.Fatalf("ResizeCover failed: %v", err)
		}

		img, err := jpeg.Decode(bytes.NewReader(out))
		if err != nil {
			t.Fatalf("output is not valid JPEG: %v", err)
		}

		if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 100 {
			t.Errorf("expected 100x100, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
		}
	})

	t.Run("respects byte budget", func(t *testing.T) {
		data := makeTestImage(t, 1000, 1000)

		out, err := ResizeCover(data, models.Portable)
		if err != nil {
			t.Fatalf("ResizeCover failed: %v", err)
		}

		if len(out) > models.Portable.MaxCoverBytes {
			t.Errorf("output %d bytes exceeds budget %d", len(out), models.Portable.MaxCoverBytes)
		}
	})

	t.Run("rejects invalid data", func(t *testing.T) {
		if _, err := ResizeCover([]byte("not an image"), models.DefaultProfile); err == nil {
			t.Error("expected error for invalid image data")
		}
	})
}
