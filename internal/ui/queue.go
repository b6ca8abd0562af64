package ui

import (
	"fmt"

	"github.com/desertthunder/wavedl/internal/tasks"
)

// maxLogLines bounds the in-memory log ring.
const maxLogLines = 500

// JobStatus describes where a queue item is in its lifecycle.
type JobStatus int

const (
	StatusPending JobStatus = iota
	StatusFetching
	StatusDownloading
	StatusComplete
	StatusFailed
)

func (s JobStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFetching:
		return "fetching"
	case StatusDownloading:
		return "working"
	case StatusComplete:
		return "done"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// QueueItem is the UI's view of one submitted job, built purely from the
// worker's event stream.
type QueueItem struct {
	ID           int
	Name         string
	Status       JobStatus
	CurrentTrack string
	Done         int
	Total        int
	Reason       string
}

func (m *Model) item(id int) *QueueItem {
	for i := range m.queue {
		if m.queue[i].ID == id {
			return &m.queue[i]
		}
	}
	return nil
}

func (m *Model) pushLog(line string) {
	m.logs = append(m.logs, line)
	if len(m.logs) > maxLogLines {
		m.logs = m.logs[len(m.logs)-maxLogLines:]
	}
}

// apply reduces one worker event into queue, log, and confirmation state.
// The UI never writes the stores; its library and error views are
// snapshots refreshed on demand.
func (m *Model) apply(ev tasks.Event) {
	switch e := ev.(type) {
	case tasks.MetadataFetched:
		if item := m.item(e.ID); item != nil {
			item.Name = e.Name
			item.Status = StatusFetching
		}

	case tasks.JobStarted:
		if item := m.item(e.ID); item != nil {
			item.Name = e.Name
			item.Total = e.TotalTracks
			item.Status = StatusDownloading
		}

	case tasks.TrackStarted:
		if item := m.item(e.ID); item != nil {
			item.CurrentTrack = fmt.Sprintf("%s - %s", e.Artist, e.Title)
		}

	case tasks.TrackComplete:
		if item := m.item(e.ID); item != nil {
			item.Done++
		}

	case tasks.TrackSkipped:
		if item := m.item(e.ID); item != nil {
			item.Done++
		}
		m.pushLog(fmt.Sprintf("Skipped (already in library): %s - %s", e.Artist, e.Title))

	case tasks.TrackFailed:
		if item := m.item(e.ID); item != nil {
			item.Done++
		}
		m.pushLog(fmt.Sprintf("Failed: %s - %s: %s", e.Artist, e.Title, e.Error))

	case tasks.LogLine:
		m.pushLog(e.Line)

	case tasks.JobComplete:
		if item := m.item(e.ID); item != nil {
			item.Status = StatusComplete
			item.CurrentTrack = ""
		}
		m.refreshLibrary()

	case tasks.JobError:
		if item := m.item(e.ID); item != nil {
			item.Status = StatusFailed
			item.Reason = e.Error
			item.CurrentTrack = ""
		}
		m.pushLog(e.Error)

	case tasks.ConvertStarted:
		if item := m.item(e.ID); item != nil {
			item.Status = StatusDownloading
			item.CurrentTrack = e.InputPath
		}

	case tasks.ConvertComplete:
		if item := m.item(e.ID); item != nil {
			item.Done++
		}
		m.pushLog("Converted: " + e.InputPath)

	case tasks.ConvertFailed:
		if item := m.item(e.ID); item != nil {
			item.Done++
			if item.Total <= 1 {
				item.Status = StatusFailed
				item.Reason = e.Error
			}
		}
		m.pushLog(fmt.Sprintf("Conversion failed: %s: %s", e.InputPath, e.Error))

	case tasks.ConvertDeleteConfirm:
		if item := m.item(e.ID); item != nil {
			item.Status = StatusComplete
			item.CurrentTrack = ""
		}
		m.refreshLibrary()
		m.askDeleteOriginals([]string{e.Path})

	case tasks.ConvertBatchComplete:
		if item := m.item(e.ID); item != nil {
			item.Status = StatusComplete
			item.CurrentTrack = ""
			item.Done = e.Successful
			item.Total = e.Total
		}
		m.refreshLibrary()
		m.pushLog(fmt.Sprintf("Converted %d of %d files", e.Successful, e.Total))

	case tasks.ConvertBatchDeleteConfirm:
		m.askDeleteOriginals(e.Paths)

	case tasks.RefreshStarted:
		if item := m.item(e.ID); item != nil {
			item.Status = StatusDownloading
			item.CurrentTrack = e.InputPath
		}

	case tasks.RefreshComplete:
		if item := m.item(e.ID); item != nil {
			item.Done++
			if item.Total <= 1 {
				item.Status = StatusComplete
				item.CurrentTrack = ""
			}
		}
		m.pushLog("Refreshed metadata: " + e.InputPath)

	case tasks.RefreshFailed:
		if item := m.item(e.ID); item != nil {
			item.Done++
			if item.Total <= 1 {
				item.Status = StatusFailed
				item.Reason = e.Error
			}
		}
		m.pushLog(fmt.Sprintf("Refresh failed: %s: %s", e.InputPath, e.Error))

	case tasks.RefreshBatchComplete:
		if item := m.item(e.ID); item != nil {
			item.Status = StatusComplete
			item.CurrentTrack = ""
			item.Done = e.Successful
			item.Total = e.Total
		}
		m.pushLog(fmt.Sprintf("Refreshed %d of %d files", e.Successful, e.Total))

	case tasks.M3UGenerated:
		if item := m.item(e.ID); item != nil {
			item.Status = StatusComplete
		}
		m.pushLog("Playlist file written: " + e.Path)

	case tasks.M3UConfirm:
		m.askM3U(e.Name, e.Paths, e.Missing)

	case tasks.CleanupDone:
		if item := m.item(e.ID); item != nil {
			item.Status = StatusComplete
		}
		m.refreshLibrary()
		m.pushLog(fmt.Sprintf("Cleanup removed %d of %d entries", e.Removed, e.TotalBefore))

	case tasks.ErrorsPurged:
		m.refreshErrors()
		m.pushLog("Error log updated")

	case tasks.FilesDeleted:
		m.refreshLibrary()
		m.pushLog(fmt.Sprintf("Deleted %d files", e.Deleted))
	}
}
