package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/wavedl/internal/models"
	"github.com/desertthunder/wavedl/internal/store"
	"github.com/desertthunder/wavedl/internal/tasks"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()

	tmpDir := t.TempDir()
	db := store.OpenCatalog(filepath.Join(tmpDir, "songs.json"))
	journal := store.OpenJournal(filepath.Join(tmpDir, "errors"))

	worker := tasks.NewWorker(tasks.WorkerConfig{
		Store:        db,
		Journal:      journal,
		MusicPath:    filepath.Join(tmpDir, "music"),
		PlaylistPath: filepath.Join(tmpDir, "playlists"),
	})

	return NewModel(context.Background(), worker, db, journal)
}

func TestApplyDownloadEvents(t *testing.T) {
	m := newTestModel(t)
	m.queue = append(m.queue, QueueItem{ID: 1, Name: "some-link", Status: StatusPending})

	m.apply(tasks.MetadataFetched{ID: 1, Name: "Artist - Album"})

	item := m.item(1)
	if item.Name != "Artist - Album" || item.Status != StatusFetching {
		t.Errorf("expected fetching 'Artist - Album', got %+v", item)
	}

	m.apply(tasks.JobStarted{ID: 1, Name: "Artist - Album", TotalTracks: 3})
	if item.Status != StatusDownloading || item.Total != 3 {
		t.Errorf("expected downloading with 3 tracks, got %+v", item)
	}

	m.apply(tasks.TrackStarted{ID: 1, Artist: "Artist", Title: "One", TrackNum: 1})
	if item.CurrentTrack != "Artist - One" {
		t.Errorf("expected current track, got %q", item.CurrentTrack)
	}

	m.apply(tasks.TrackComplete{ID: 1, Artist: "Artist", Title: "One"})
	m.apply(tasks.TrackSkipped{ID: 1, Artist: "Artist", Title: "Two"})
	m.apply(tasks.TrackFailed{ID: 1, Artist: "Artist", Title: "Three", Error: "boom"})

	// completed, skipped, and failed tracks all advance progress
	if item.Done != 3 {
		t.Errorf("expected 3 done, got %d", item.Done)
	}

	m.apply(tasks.JobComplete{ID: 1, Name: "Artist - Album"})
	if item.Status != StatusComplete || item.CurrentTrack != "" {
		t.Errorf("expected completed item, got %+v", item)
	}
}

func TestApplyJobError(t *testing.T) {
	m := newTestModel(t)
	m.queue = append(m.queue, QueueItem{ID: 1, Name: "bad-link", Status: StatusPending})

	m.apply(tasks.JobError{ID: 1, Error: "fetch failed"})

	item := m.item(1)
	if item.Status != StatusFailed || item.Reason != "fetch failed" {
		t.Errorf("expected failed item with reason, got %+v", item)
	}
}

func TestApplyUnknownJobID(t *testing.T) {
	m := newTestModel(t)

	// events for jobs the UI does not track must not panic
	m.apply(tasks.TrackComplete{ID: 99, Artist: "A", Title: "T"})
	m.apply(tasks.JobComplete{ID: 99, Name: "gone"})
}

func TestLogRing(t *testing.T) {
	m := newTestModel(t)

	for i := 0; i < maxLogLines+100; i++ {
		m.apply(tasks.LogLine{ID: 1, Line: fmt.Sprintf("line %d", i)})
	}

	if len(m.logs) != maxLogLines {
		t.Fatalf("expected ring capped at %d, got %d", maxLogLines, len(m.logs))
	}

	last := m.logs[len(m.logs)-1]
	if last != fmt.Sprintf("line %d", maxLogLines+99) {
		t.Errorf("expected newest line kept, got %q", last)
	}
}

func TestApplyConvertConfirmation(t *testing.T) {
	m := newTestModel(t)
	m.queue = append(m.queue, QueueItem{ID: 1, Name: "convert: t", Status: StatusPending, Total: 1})

	m.apply(tasks.ConvertDeleteConfirm{ID: 1, Path: "/music/t.wav"})

	if m.view != ConfirmView {
		t.Fatalf("expected confirm view, got %v", m.view)
	}
	if m.confirm.kind != confirmDeleteFiles || len(m.confirm.paths) != 1 {
		t.Errorf("expected delete-files confirmation, got %+v", m.confirm)
	}
	if m.item(1).Status != StatusComplete {
		t.Errorf("conversion item should be complete, got %+v", m.item(1))
	}
}

func TestApplyM3UConfirmation(t *testing.T) {
	m := newTestModel(t)

	m.apply(tasks.M3UConfirm{ID: 1, Name: "Mix", Paths: []string{"/music/a.mp3"}, Missing: []string{"B - Gone"}})

	if m.view != ConfirmView || m.confirm.kind != confirmM3U {
		t.Fatalf("expected m3u confirmation, got view=%v confirm=%+v", m.view, m.confirm)
	}
	if m.confirm.name != "Mix" || len(m.confirm.paths) != 1 {
		t.Errorf("confirmation should carry resolved paths, got %+v", m.confirm)
	}
}

func TestApplyBatchSummary(t *testing.T) {
	m := newTestModel(t)
	m.queue = append(m.queue, QueueItem{ID: 1, Name: "convert 3 tracks", Status: StatusPending, Total: 3})

	m.apply(tasks.ConvertBatchComplete{ID: 1, Total: 3, Successful: 2})

	item := m.item(1)
	if item.Status != StatusComplete || item.Done != 2 || item.Total != 3 {
		t.Errorf("expected (2/3) complete, got %+v", item)
	}
}

func TestSubmitLink(t *testing.T) {
	m := newTestModel(t)

	m.addAs = addAlbum
	m.submitLink("https://open.spotify.com/album/abc")

	if len(m.queue) != 1 {
		t.Fatalf("expected 1 queue item, got %d", len(m.queue))
	}
	if m.queue[0].Status != StatusPending || m.queue[0].ID != 1 {
		t.Errorf("unexpected queue item: %+v", m.queue[0])
	}

	// ids are monotonically increasing per submission
	m.addAs = addM3U
	m.submitLink("https://open.spotify.com/playlist/xyz")

	if len(m.queue) != 2 || m.queue[1].ID != 2 {
		t.Errorf("expected second item with id 2, got %+v", m.queue)
	}
}

func TestLibraryTrackActions(t *testing.T) {
	m := newTestModel(t)
	m.db.Add(models.TrackEntry{Artist: "Artist", Title: "Song", Path: "/music/song.mp3"})
	m.refreshLibrary()
	m.view = LibraryView

	entry, ok := m.selectedTrack()
	if !ok {
		t.Fatal("expected a selected track")
	}
	if entry.Artist != "Artist" || entry.Title != "Song" || entry.Path != "/music/song.mp3" {
		t.Errorf("unexpected entry: %+v", entry)
	}

	m.handleLibraryKeys(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	if len(m.queue) != 1 || m.queue[0].Name != "convert: Song" {
		t.Errorf("expected convert job queued, got %+v", m.queue)
	}

	m.handleLibraryKeys(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	if m.view != ConfirmView || m.confirm.kind != confirmDeleteTrack {
		t.Errorf("expected delete confirmation, got view=%v", m.view)
	}
	if len(m.confirm.paths) != 1 || m.confirm.paths[0] != "/music/song.mp3" {
		t.Errorf("unexpected confirm paths: %v", m.confirm.paths)
	}
}

func TestAcceptCleanupConfirmation(t *testing.T) {
	m := newTestModel(t)
	m.confirm = confirmation{kind: confirmCleanup}
	m.prevView = QueueView
	m.view = ConfirmView

	m.acceptConfirmation()

	if m.confirm.kind != confirmNone {
		t.Errorf("confirmation should be cleared")
	}
	if len(m.queue) != 1 || m.queue[0].Name != "cleanup" {
		t.Errorf("expected cleanup request queued, got %+v", m.queue)
	}
}

func TestStatusString(t *testing.T) {
	cases := map[JobStatus]string{
		StatusPending:     "pending",
		StatusFetching:    "fetching",
		StatusDownloading: "working",
		StatusComplete:    "done",
		StatusFailed:      "failed",
	}

	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}
