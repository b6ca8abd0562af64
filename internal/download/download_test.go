package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/wavedl/internal/shared"
)

func TestQualityValue(t *testing.T) {
	tests := []struct {
		quality string
		want    string
	}{
		{"high", "0"},
		{"medium", "5"},
		{"low", "9"},
		{"bogus", "0"},
	}

	for _, tc := range tests {
		t.Run(tc.quality, func(t *testing.T) {
			if got := QualityValue(tc.quality); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestBitrate(t *testing.T) {
	tests := []struct {
		format  string
		quality string
		want    string
	}{
		{"mp3", "high", "320k"},
		{"mp3", "medium", "192k"},
		{"mp3", "low", "128k"},
		{"mp3", "bogus", "320k"},
		{"aac", "high", "256k"},
		{"aac", "low", "128k"},
		{"flac", "high", ""},
		{"wav", "low", ""},
	}

	for _, tc := range tests {
		t.Run(tc.format+"/"+tc.quality, func(t *testing.T) {
			if got := Bitrate(tc.format, tc.quality); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestCodec(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"mp3", "libmp3lame"},
		{"flac", "flac"},
		{"wav", "pcm_s16le"},
		{"aac", "aac"},
		{"ogg", "libmp3lame"},
	}

	for _, tc := range tests {
		if got := Codec(tc.format); got != tc.want {
			t.Errorf("Codec(%q): expected %q, got %q", tc.format, tc.want, got)
		}
	}
}

func TestIsSupportedFormat(t *testing.T) {
	for _, format := range SupportedFormats {
		if !IsSupportedFormat(format) {
			t.Errorf("expected %q to be supported", format)
		}
	}

	if !IsSupportedFormat("MP3") {
		t.Error("format check should be case insensitive")
	}

	if IsSupportedFormat("ogg") {
		t.Error("ogg should not be supported")
	}
}

func TestFormatFromPath(t *testing.T) {
	if got := FormatFromPath("/music/Artist/01 - Song.MP3"); got != "mp3" {
		t.Errorf("expected mp3, got %q", got)
	}

	if got := FormatFromPath("/music/noext"); got != "" {
		t.Errorf("expected empty format, got %q", got)
	}
}

func TestConvertValidation(t *testing.T) {
	t.Run("unsupported format", func(t *testing.T) {
		_, err := Convert(context.Background(), "/tmp/in.mp3", "ogg", "high", nil)
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("missing input", func(t *testing.T) {
		_, err := Convert(context.Background(), "/nonexistent/in.mp3", "flac", "high", nil)
		if !errors.Is(err, shared.ErrResourceNotFound) {
			t.Errorf("expected ErrResourceNotFound, got %v", err)
		}
	})

	t.Run("same format", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "in.flac")
		if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
			t.Fatalf("failed to write input: %v", err)
		}

		_, err := Convert(context.Background(), path, "flac", "high", nil)
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}
