package media

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"

	"github.com/desertthunder/wavedl/internal/models"
)

func TestTagMP3(t *testing.T) {
	t.Run("writes frames", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "track.mp3")
		// frame sync plus padding; the parser needs at least a tag
		// header's worth of bytes to read
		payload := append([]byte{0xFF, 0xFB, 0x90, 0x00}, make([]byte, 16)...)
		if err := os.WriteFile(path, payload, 0644); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}

		track := models.TrackMeta{
			Artist:      "The Artist",
			Album:       "The Album",
			Title:       "The Song",
			TrackNumber: 4,
		}

		if err := TagMP3(path, track, []byte("fake-jpeg")); err != nil {
			t.Fatalf("TagMP3 failed: %v", err)
		}

		tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
		if err != nil {
			t.Fatalf("failed to reopen tagged file: %v", err)
		}
		defer tag.Close()

		if tag.Artist() != "The Artist" {
			t.Errorf("expected artist The Artist, got %q", tag.Artist())
		}

		if tag.Album() != "The Album" {
			t.Errorf("expected album The Album, got %q", tag.Album())
		}

		if tag.Title() != "The Song" {
			t.Errorf("expected title The Song, got %q", tag.Title())
		}

		pics := tag.GetFrames(tag.CommonID("Attached picture"))
		if len(pics) != 1 {
			t.Errorf("expected 1 picture frame, got %d", len(pics))
		}
	})

	t.Run("skips non-mp3", func(t *testing.T) {
		if err := TagMP3("/nonexistent/track.flac", models.TrackMeta{}, nil); err != nil {
			t.Errorf("expected flac to be skipped, got %v", err)
		}
	})
}
