package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/wavedl/internal/models"
)

func testEntry(artist, title, path string) models.TrackEntry {
	return models.TrackEntry{Artist: artist, Title: title, Path: path}
}

func TestCatalog(t *testing.T) {
	t.Run("AddAndContains", func(t *testing.T) {
		catalog := OpenCatalog(filepath.Join(t.TempDir(), "songs.json"))
		entry := testEntry("Artist", "Song", "/music/song.mp3")

		if catalog.Contains(entry) {
			t.Error("empty catalog should not contain entry")
		}

		if err := catalog.Add(entry); err != nil {
			t.Fatalf("Add failed: %v", err)
		}

		if !catalog.Contains(entry) {
			t.Error("catalog should contain added entry")
		}

		if !catalog.Contains(testEntry("ARTIST", "SONG", "/music/song.mp3")) {
			t.Error("lookup should be case insensitive on artist and title")
		}

		if catalog.Contains(testEntry("Artist", "Song", "/other/song.mp3")) {
			t.Error("different path should not match")
		}
	})

	t.Run("WriteThrough", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "songs.json")

		catalog := OpenCatalog(path)
		if err := catalog.Add(testEntry("Artist", "Song", "/music/song.mp3")); err != nil {
			t.Fatalf("Add failed: %v", err)
		}

		// a fresh handle sees the persisted entry
		reopened := OpenCatalog(path)
		if !reopened.Contains(testEntry("Artist", "Song", "/music/song.mp3")) {
			t.Error("persisted entry missing after reopen")
		}
	})

	t.Run("CorruptFileDegradesToEmpty", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "songs.json")
		if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
			t.Fatalf("failed to write corrupt file: %v", err)
		}

		catalog := OpenCatalog(path)
		if catalog.Len() != 0 {
			t.Errorf("corrupt catalog should load empty, got %d entries", catalog.Len())
		}
	})

	t.Run("UpdatePath", func(t *testing.T) {
		catalog := OpenCatalog(filepath.Join(t.TempDir(), "songs.json"))
		if err := catalog.Add(testEntry("Artist", "Song", "/music/song.wav")); err != nil {
			t.Fatalf("Add failed: %v", err)
		}

		found, err := catalog.UpdatePath("/music/song.wav", "/music/song.mp3")
		if err != nil {
			t.Fatalf("UpdatePath failed: %v", err)
		}

		if !found {
			t.Error("UpdatePath should find the entry")
		}

		if catalog.Contains(testEntry("Artist", "Song", "/music/song.wav")) {
			t.Error("old path should be gone")
		}

		if !catalog.Contains(testEntry("Artist", "Song", "/music/song.mp3")) {
			t.Error("new path should be recorded")
		}

		found, err = catalog.UpdatePath("/missing.wav", "/missing.mp3")
		if err != nil {
			t.Fatalf("UpdatePath failed: %v", err)
		}

		if found {
			t.Error("UpdatePath should report missing entry")
		}
	})

	t.Run("RemoveByPath", func(t *testing.T) {
		catalog := OpenCatalog(filepath.Join(t.TempDir(), "songs.json"))
		if err := catalog.Add(testEntry("Artist", "Song", "/music/song.mp3")); err != nil {
			t.Fatalf("Add failed: %v", err)
		}

		found, err := catalog.RemoveByPath("/music/song.mp3")
		if err != nil {
			t.Fatalf("RemoveByPath failed: %v", err)
		}

		if !found {
			t.Error("RemoveByPath should find the entry")
		}

		if catalog.Len() != 0 {
			t.Errorf("expected empty catalog, got %d entries", catalog.Len())
		}

		found, _ = catalog.RemoveByPath("/music/song.mp3")
		if found {
			t.Error("second removal should report not found")
		}
	})

	t.Run("Cleanup", func(t *testing.T) {
		tmpDir := t.TempDir()
		existing := filepath.Join(tmpDir, "keep.mp3")
		if err := os.WriteFile(existing, []byte("audio"), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		catalog := OpenCatalog(filepath.Join(tmpDir, "songs.json"))
		catalog.Add(testEntry("Artist", "Keep", existing))
		catalog.Add(testEntry("Artist", "Gone", filepath.Join(tmpDir, "gone.mp3")))

		removed, totalBefore, err := catalog.Cleanup()
		if err != nil {
			t.Fatalf("Cleanup failed: %v", err)
		}

		if removed != 1 || totalBefore != 2 {
			t.Errorf("expected (1, 2), got (%d, %d)", removed, totalBefore)
		}

		if !catalog.Contains(testEntry("Artist", "Keep", existing)) {
			t.Error("entry with existing file should survive cleanup")
		}
	})

	t.Run("TracksSorted", func(t *testing.T) {
		catalog := OpenCatalog(filepath.Join(t.TempDir(), "songs.json"))
		catalog.Add(testEntry("Zed", "A", "/z.mp3"))
		catalog.Add(testEntry("Abe", "B", "/b.mp3"))
		catalog.Add(testEntry("Abe", "A", "/a.mp3"))

		tracks := catalog.Tracks()
		if len(tracks) != 3 {
			t.Fatalf("expected 3 tracks, got %d", len(tracks))
		}

		if tracks[0].Artist != "Abe" || tracks[0].Title != "A" {
			t.Errorf("unexpected first track: %+v", tracks[0])
		}

		if tracks[2].Artist != "Zed" {
			t.Errorf("unexpected last track: %+v", tracks[2])
		}
	})
}
