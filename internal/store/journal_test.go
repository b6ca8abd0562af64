package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestJournalAddAndRead(t *testing.T) {
	journal := OpenJournal(t.TempDir())
	today := Today()

	entry := NewDownloadError("https://open.spotify.com/album/x", "album", "mp3", "high", false, "Artist", "Song", "network timeout")
	if err := journal.AddDownloadError(entry); err != nil {
		t.Fatalf("AddDownloadError failed: %v", err)
	}

	got := journal.DownloadErrorsForDate(today)
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}

	if got[0].ID != entry.ID {
		t.Errorf("expected id %s, got %s", entry.ID, got[0].ID)
	}

	if got[0].RetryCount != 0 {
		t.Errorf("new entry should start at retry count 0, got %d", got[0].RetryCount)
	}

	if got[0].Link != entry.Link || got[0].Format != "mp3" {
		t.Errorf("entry parameters not preserved: %+v", got[0])
	}
}

func TestJournalPartitionLayout(t *testing.T) {
	base := t.TempDir()
	journal := OpenJournal(base)

	journal.AddDownloadError(NewDownloadError("link", "album", "mp3", "high", false, "", "", "fail"))
	journal.AddConvertError(NewConvertError("/in.wav", "mp3", "high", false, "A", "T", "fail"))

	date := Today()
	for _, name := range []string{"download.json", "convert.json"} {
		path := filepath.Join(base, date, name)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected partition file %s: %v", path, err)
		}
	}

	if _, err := os.Stat(filepath.Join(base, date, "refresh.json")); err == nil {
		t.Error("refresh partition should not exist without refresh errors")
	}
}

func TestJournalRemove(t *testing.T) {
	base := t.TempDir()
	journal := OpenJournal(base)
	date := Today()

	first := NewDownloadError("l1", "album", "mp3", "high", false, "", "", "e1")
	second := NewDownloadError("l2", "album", "mp3", "high", false, "", "", "e2")
	journal.AddDownloadError(first)
	journal.AddDownloadError(second)

	if !journal.RemoveDownloadError(date, first.ID) {
		t.Error("expected removal of existing entry")
	}

	if journal.RemoveDownloadError(date, first.ID) {
		t.Error("second removal of same id should report false")
	}

	remaining := journal.DownloadErrorsForDate(date)
	if len(remaining) != 1 || remaining[0].ID != second.ID {
		t.Errorf("unexpected remaining entries: %+v", remaining)
	}

	// removing the last entry garbage collects the date directory
	if !journal.RemoveDownloadError(date, second.ID) {
		t.Error("expected removal of last entry")
	}

	if _, err := os.Stat(filepath.Join(base, date)); err == nil {
		t.Error("empty date directory should be removed")
	}
}

func TestJournalIncrementRetry(t *testing.T) {
	journal := OpenJournal(t.TempDir())
	date := Today()

	entry := NewConvertError("/in.wav", "mp3", "high", false, "A", "T", "fail")
	journal.AddConvertError(entry)

	before := journal.ConvertErrorsForDate(date)[0].Timestamp

	time.Sleep(5 * time.Millisecond)
	journal.IncrementConvertRetry(date, entry.ID)
	journal.IncrementConvertRetry(date, entry.ID)

	got := journal.ConvertErrorsForDate(date)[0]
	if got.RetryCount != 2 {
		t.Errorf("expected retry count 2, got %d", got.RetryCount)
	}

	if !got.Timestamp.After(before) {
		t.Error("increment should refresh the timestamp")
	}

	if got.ID != entry.ID {
		t.Error("id must stay stable across increments")
	}
}

func TestJournalAllErrorsSortedNewestFirst(t *testing.T) {
	base := t.TempDir()
	journal := OpenJournal(base)

	old := NewRefreshError("/old.mp3", "A", "Old", "fail")
	old.Timestamp = time.Now().UTC().Add(-48 * time.Hour)
	older := NewRefreshError("/older.mp3", "A", "Older", "fail")
	older.Timestamp = time.Now().UTC().Add(-96 * time.Hour)
	recent := NewRefreshError("/recent.mp3", "A", "Recent", "fail")

	// write older entries into their own date partitions directly
	oldDate := old.Timestamp.Format("2006-01-02")
	olderDate := older.Timestamp.Format("2006-01-02")
	saveEntries(filepath.Join(base, oldDate, "refresh.json"), []RefreshError{old})
	saveEntries(filepath.Join(base, olderDate, "refresh.json"), []RefreshError{older})
	journal.AddRefreshError(recent)

	all := journal.AllRefreshErrors()
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}

	if all[0].Entry.ID != recent.ID || all[2].Entry.ID != older.ID {
		t.Errorf("expected newest-first ordering, got %s, %s, %s",
			all[0].Entry.Title, all[1].Entry.Title, all[2].Entry.Title)
	}

	if all[0].Date != Today() {
		t.Errorf("expected today's date on newest entry, got %s", all[0].Date)
	}
}

func TestJournalFindByID(t *testing.T) {
	journal := OpenJournal(t.TempDir())

	entry := NewDownloadError("link", "playlist", "flac", "medium", true, "A", "T", "fail")
	journal.AddDownloadError(entry)

	date, found, ok := journal.FindDownloadError(entry.ID)
	if !ok {
		t.Fatal("expected to find entry by id")
	}

	if date != Today() || found.Link != "link" {
		t.Errorf("unexpected result: date=%s entry=%+v", date, found)
	}

	if _, _, ok := journal.FindDownloadError("missing"); ok {
		t.Error("missing id should not be found")
	}
}

func TestJournalListDates(t *testing.T) {
	base := t.TempDir()
	journal := OpenJournal(base)

	for _, dir := range []string{"2026-01-05", "2026-03-10"} {
		if err := os.MkdirAll(filepath.Join(base, dir), 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(filepath.Join(base, dir, "download.json"), []byte("[]"), 0644); err != nil {
			t.Fatalf("failed to write partition: %v", err)
		}
	}

	// non-dates and empty partitions (an interrupted write) are skipped
	for _, dir := range []string{"not-a-date", "2026-02-01"} {
		if err := os.MkdirAll(filepath.Join(base, dir), 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
	}

	dates := journal.ListDates()
	if len(dates) != 2 {
		t.Fatalf("expected 2 valid dates, got %d: %v", len(dates), dates)
	}

	if dates[0] != "2026-03-10" || dates[1] != "2026-01-05" {
		t.Errorf("expected descending order, got %v", dates)
	}
}

func TestJournalCounts(t *testing.T) {
	journal := OpenJournal(t.TempDir())
	date := Today()

	journal.AddDownloadError(NewDownloadError("l", "album", "mp3", "high", false, "", "", "e"))
	journal.AddDownloadError(NewDownloadError("l", "album", "mp3", "high", false, "", "", "e"))
	journal.AddConvertError(NewConvertError("/i", "mp3", "high", false, "A", "T", "e"))

	d, c, r := journal.ErrorCounts(date)
	if d != 2 || c != 1 || r != 0 {
		t.Errorf("expected (2, 1, 0), got (%d, %d, %d)", d, c, r)
	}

	d, c, r = journal.TotalErrorCounts()
	if d != 2 || c != 1 || r != 0 {
		t.Errorf("expected totals (2, 1, 0), got (%d, %d, %d)", d, c, r)
	}
}

func TestJournalClear(t *testing.T) {
	base := t.TempDir()
	journal := OpenJournal(base)
	date := Today()

	journal.AddDownloadError(NewDownloadError("l", "album", "mp3", "high", false, "", "", "e"))
	journal.AddConvertError(NewConvertError("/i", "mp3", "high", false, "A", "T", "e"))

	journal.ClearKind(KindDownload)
	if len(journal.DownloadErrorsForDate(date)) != 0 {
		t.Error("download errors should be cleared")
	}

	if len(journal.ConvertErrorsForDate(date)) != 1 {
		t.Error("convert errors should survive clearing downloads")
	}

	journal.ClearDate(date)
	if _, err := os.Stat(filepath.Join(base, date)); err == nil {
		t.Error("date directory should be gone after ClearDate")
	}

	journal.AddRefreshError(NewRefreshError("/i", "A", "T", "e"))
	journal.ClearAll()

	d, c, r := journal.TotalErrorCounts()
	if d+c+r != 0 {
		t.Error("journal should be empty after ClearAll")
	}

	if _, err := os.Stat(base); err != nil {
		t.Error("base directory should be recreated after ClearAll")
	}
}

func TestJournalCorruptPartitionDegradesToEmpty(t *testing.T) {
	base := t.TempDir()
	journal := OpenJournal(base)
	date := Today()

	dir := filepath.Join(base, date)
	os.MkdirAll(dir, 0755)
	os.WriteFile(filepath.Join(dir, "download.json"), []byte("{corrupt"), 0644)

	if got := journal.DownloadErrorsForDate(date); len(got) != 0 {
		t.Errorf("corrupt partition should read as empty, got %d entries", len(got))
	}

	// a new entry replaces the corrupt partition rather than failing
	if err := journal.AddDownloadError(NewDownloadError("l", "album", "mp3", "high", false, "", "", "e")); err != nil {
		t.Fatalf("AddDownloadError over corrupt partition failed: %v", err)
	}

	if got := journal.DownloadErrorsForDate(date); len(got) != 1 {
		t.Errorf("expected 1 entry after re-add, got %d", len(got))
	}
}
