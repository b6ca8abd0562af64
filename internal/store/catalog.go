// package store persists the download catalog and the error journal as
// flat JSON files
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/desertthunder/wavedl/internal/models"
	"github.com/desertthunder/wavedl/internal/shared"
)

// Catalog is the write-through set of tracks already on disk. Every
// mutation rewrites the backing JSON file before returning, so the
// in-memory set and the persisted form never diverge. The worker is the
// only writer; the UI reads point-in-time snapshots via Tracks.
type Catalog struct {
	mu       sync.RWMutex
	tracks   map[string]models.TrackEntry
	filePath string
}

func entryKey(e models.TrackEntry) string {
	return shared.NormalizeTrackKey(e.Title, e.Artist) + "|" + e.Path
}

// OpenCatalog loads the catalog from filePath. A missing or corrupt file
// degrades to an empty catalog rather than failing startup.
func OpenCatalog(filePath string) *Catalog {
	c := &Catalog{
		tracks:   make(map[string]models.TrackEntry),
		filePath: filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return c
	}

	var entries []models.TrackEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return c
	}

	for _, e := range entries {
		c.tracks[entryKey(e)] = e
	}

	return c
}

// Contains reports whether an identical entry is already recorded. Lookups
// are case-insensitive on artist and title.
func (c *Catalog) Contains(entry models.TrackEntry) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.tracks[entryKey(entry)]
	return ok
}

// Add records a downloaded track and persists. Re-adding an existing entry
// only costs a redundant rewrite.
func (c *Catalog) Add(entry models.TrackEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tracks[entryKey(entry)] = entry
	return c.save()
}

// FindByTrack returns the first entry matching artist and title, ignoring
// path. Matching is case-insensitive.
func (c *Catalog) FindByTrack(artist, title string) (models.TrackEntry, bool) {
	key := shared.NormalizeTrackKey(title, artist)

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, e := range c.tracks {
		if shared.NormalizeTrackKey(e.Title, e.Artist) == key {
			return e, true
		}
	}

	return models.TrackEntry{}, false
}

// FindByPath returns the entry whose path matches, if one exists.
func (c *Catalog) FindByPath(path string) (models.TrackEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, e := range c.tracks {
		if e.Path == path {
			return e, true
		}
	}

	return models.TrackEntry{}, false
}

// UpdatePath rewrites the path of the entry at oldPath, used after a format
// conversion renames the file. Returns whether an entry was found.
func (c *Catalog) UpdatePath(oldPath, newPath string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.tracks {
		if e.Path == oldPath {
			delete(c.tracks, key)
			e.Path = newPath
			c.tracks[entryKey(e)] = e

			return true, c.save()
		}
	}

	return false, nil
}

// RemoveByPath deletes the entry at path. Returns whether an entry was
// found.
func (c *Catalog) RemoveByPath(path string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.tracks {
		if e.Path == path {
			delete(c.tracks, key)
			return true, c.save()
		}
	}

	return false, nil
}

// Cleanup drops every entry whose file no longer exists on disk. Returns
// the number removed and the total before the sweep.
func (c *Catalog) Cleanup() (removed, totalBefore int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	totalBefore = len(c.tracks)

	for key, e := range c.tracks {
		if _, statErr := os.Stat(e.Path); statErr != nil {
			delete(c.tracks, key)
			removed++
		}
	}

	if removed > 0 {
		err = c.save()
	}

	return removed, totalBefore, err
}

// Tracks returns a snapshot of all entries sorted by artist then title.
func (c *Catalog) Tracks() []models.TrackEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]models.TrackEntry, 0, len(c.tracks))
	for _, e := range c.tracks {
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Artist != entries[j].Artist {
			return entries[i].Artist < entries[j].Artist
		}

		return entries[i].Title < entries[j].Title
	})

	return entries
}

// Len returns the number of recorded tracks.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.tracks)
}

// save rewrites the backing file. Callers must hold the write lock.
func (c *Catalog) save() error {
	if dir := filepath.Dir(c.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}

	entries := make([]models.TrackEntry, 0, len(c.tracks))
	for _, e := range c.tracks {
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entryKey(entries[i]) < entryKey(entries[j])
	})

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}

	return nil
}
