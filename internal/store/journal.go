package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/desertthunder/wavedl/internal/shared"
)

// ErrorKind categorizes journal entries by the operation that failed.
type ErrorKind int

const (
	KindDownload ErrorKind = iota
	KindConvert
	KindRefresh
)

// Filename returns the partition file name for this kind.
func (k ErrorKind) Filename() string {
	switch k {
	case KindConvert:
		return "convert.json"
	case KindRefresh:
		return "refresh.json"
	default:
		return "download.json"
	}
}

func (k ErrorKind) String() string {
	switch k {
	case KindConvert:
		return "Convert"
	case KindRefresh:
		return "Refresh"
	default:
		return "Download"
	}
}

// DownloadError records a failed album or playlist track download with
// everything needed to retry it verbatim.
type DownloadError struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Link       string    `json:"link"`
	LinkType   string    `json:"link_type"` // "album", "playlist", or "youtube"
	Format     string    `json:"format"`
	Quality    string    `json:"quality"`
	Portable   bool      `json:"portable"`
	Artist     string    `json:"artist,omitempty"`
	Title      string    `json:"title,omitempty"`
	Error      string    `json:"error"`
	RetryCount int       `json:"retry_count"`
}

// NewDownloadError builds an entry with a fresh id, the current time, and a
// zero retry count.
func NewDownloadError(link, linkType, format, quality string, portable bool, artist, title, errMsg string) DownloadError {
	return DownloadError{
		ID:        shared.GenerateID(),
		Timestamp: time.Now().UTC(),
		Link:      link,
		LinkType:  linkType,
		Format:    format,
		Quality:   quality,
		Portable:  portable,
		Artist:    artist,
		Title:     title,
		Error:     errMsg,
	}
}

// ConvertError records a failed format conversion.
type ConvertError struct {
	ID              string    `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	InputPath       string    `json:"input_path"`
	TargetFormat    string    `json:"target_format"`
	Quality         string    `json:"quality"`
	RefreshMetadata bool      `json:"refresh_metadata"`
	Artist          string    `json:"artist"`
	Title           string    `json:"title"`
	Error           string    `json:"error"`
	RetryCount      int       `json:"retry_count"`
}

// NewConvertError builds an entry with a fresh id and the current time.
func NewConvertError(inputPath, targetFormat, quality string, refreshMetadata bool, artist, title, errMsg string) ConvertError {
	return ConvertError{
		ID:              shared.GenerateID(),
		Timestamp:       time.Now().UTC(),
		InputPath:       inputPath,
		TargetFormat:    targetFormat,
		Quality:         quality,
		RefreshMetadata: refreshMetadata,
		Artist:          artist,
		Title:           title,
		Error:           errMsg,
	}
}

// RefreshError records a failed metadata refresh.
type RefreshError struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	InputPath  string    `json:"input_path"`
	Artist     string    `json:"artist"`
	Title      string    `json:"title"`
	Error      string    `json:"error"`
	RetryCount int       `json:"retry_count"`
}

// NewRefreshError builds an entry with a fresh id and the current time.
func NewRefreshError(inputPath, artist, title, errMsg string) RefreshError {
	return RefreshError{
		ID:        shared.GenerateID(),
		Timestamp: time.Now().UTC(),
		InputPath: inputPath,
		Artist:    artist,
		Title:     title,
		Error:     errMsg,
	}
}

func (e DownloadError) entryID() string      { return e.ID }
func (e DownloadError) entryTime() time.Time { return e.Timestamp }
func (e ConvertError) entryID() string       { return e.ID }
func (e ConvertError) entryTime() time.Time  { return e.Timestamp }
func (e RefreshError) entryID() string       { return e.ID }
func (e RefreshError) entryTime() time.Time  { return e.Timestamp }

type journalRecord interface {
	entryID() string
	entryTime() time.Time
}

// Dated pairs a journal entry with the date partition it lives in, which
// callers need to remove or retry it later.
type Dated[T any] struct {
	Date  string
	Entry T
}

// Journal is the date-partitioned record of failed operations, one JSON
// file per date per kind under basePath/<YYYY-MM-DD>/. Reads of missing or
// malformed partitions degrade to empty lists; the journal is a diagnostic
// aid and never blocks the primary workflow.
type Journal struct {
	basePath string
}

// OpenJournal prepares a journal rooted at basePath, creating the
// directory if needed.
func OpenJournal(basePath string) *Journal {
	os.MkdirAll(basePath, 0755)
	return &Journal{basePath: basePath}
}

// Today returns the current date partition name.
func Today() string {
	return time.Now().Format("2006-01-02")
}

func (j *Journal) logPath(date string, kind ErrorKind) string {
	return filepath.Join(j.basePath, date, kind.Filename())
}

// AddDownloadError appends an entry to today's download partition.
func (j *Journal) AddDownloadError(entry DownloadError) error {
	return addEntry(j, KindDownload, entry)
}

// AddConvertError appends an entry to today's convert partition.
func (j *Journal) AddConvertError(entry ConvertError) error {
	return addEntry(j, KindConvert, entry)
}

// AddRefreshError appends an entry to today's refresh partition.
func (j *Journal) AddRefreshError(entry RefreshError) error {
	return addEntry(j, KindRefresh, entry)
}

// DownloadErrorsForDate returns the download entries in one date partition.
func (j *Journal) DownloadErrorsForDate(date string) []DownloadError {
	return loadEntries[DownloadError](j.logPath(date, KindDownload))
}

// ConvertErrorsForDate returns the convert entries in one date partition.
func (j *Journal) ConvertErrorsForDate(date string) []ConvertError {
	return loadEntries[ConvertError](j.logPath(date, KindConvert))
}

// RefreshErrorsForDate returns the refresh entries in one date partition.
func (j *Journal) RefreshErrorsForDate(date string) []RefreshError {
	return loadEntries[RefreshError](j.logPath(date, KindRefresh))
}

// AllDownloadErrors returns every download entry across all dates, newest
// failure first.
func (j *Journal) AllDownloadErrors() []Dated[DownloadError] {
	return allEntries[DownloadError](j, KindDownload)
}

// AllConvertErrors returns every convert entry across all dates, newest
// failure first.
func (j *Journal) AllConvertErrors() []Dated[ConvertError] {
	return allEntries[ConvertError](j, KindConvert)
}

// AllRefreshErrors returns every refresh entry across all dates, newest
// failure first.
func (j *Journal) AllRefreshErrors() []Dated[RefreshError] {
	return allEntries[RefreshError](j, KindRefresh)
}

// FindDownloadError locates a download entry by id across all dates and
// returns the partition it lives in.
func (j *Journal) FindDownloadError(id string) (string, DownloadError, bool) {
	return findEntry[DownloadError](j, KindDownload, id)
}

// FindConvertError locates a convert entry by id across all dates.
func (j *Journal) FindConvertError(id string) (string, ConvertError, bool) {
	return findEntry[ConvertError](j, KindConvert, id)
}

// FindRefreshError locates a refresh entry by id across all dates.
func (j *Journal) FindRefreshError(id string) (string, RefreshError, bool) {
	return findEntry[RefreshError](j, KindRefresh, id)
}

// RemoveDownloadError deletes an entry by id from a date partition.
// Returns whether an entry was removed.
func (j *Journal) RemoveDownloadError(date, id string) bool {
	return removeEntry[DownloadError](j, KindDownload, date, id)
}

// RemoveConvertError deletes an entry by id from a date partition.
func (j *Journal) RemoveConvertError(date, id string) bool {
	return removeEntry[ConvertError](j, KindConvert, date, id)
}

// RemoveRefreshError deletes an entry by id from a date partition.
func (j *Journal) RemoveRefreshError(date, id string) bool {
	return removeEntry[RefreshError](j, KindRefresh, date, id)
}

// IncrementDownloadRetry bumps the retry counter and refreshes the
// timestamp of an entry whose retry attempt failed.
func (j *Journal) IncrementDownloadRetry(date, id string) {
	incrementEntry(j, KindDownload, date, id, func(e *DownloadError) {
		e.RetryCount++
		e.Timestamp = time.Now().UTC()
	})
}

// IncrementConvertRetry bumps the retry counter of a convert entry.
func (j *Journal) IncrementConvertRetry(date, id string) {
	incrementEntry(j, KindConvert, date, id, func(e *ConvertError) {
		e.RetryCount++
		e.Timestamp = time.Now().UTC()
	})
}

// IncrementRefreshRetry bumps the retry counter of a refresh entry.
func (j *Journal) IncrementRefreshRetry(date, id string) {
	incrementEntry(j, KindRefresh, date, id, func(e *RefreshError) {
		e.RetryCount++
		e.Timestamp = time.Now().UTC()
	})
}

// ListDates returns every date partition containing at least one file,
// newest first. Directory names that are not well-formed dates are
// ignored.
func (j *Journal) ListDates() []string {
	entries, err := os.ReadDir(j.basePath)
	if err != nil {
		return nil
	}

	var dates []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		if _, err := time.Parse("2006-01-02", entry.Name()); err != nil {
			continue
		}

		// an interrupted write can leave an empty partition directory behind
		files, err := os.ReadDir(filepath.Join(j.basePath, entry.Name()))
		if err != nil || len(files) == 0 {
			continue
		}

		dates = append(dates, entry.Name())
	}

	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}

// ErrorCounts returns the number of download, convert, and refresh entries
// for one date.
func (j *Journal) ErrorCounts(date string) (download, convert, refresh int) {
	return len(j.DownloadErrorsForDate(date)),
		len(j.ConvertErrorsForDate(date)),
		len(j.RefreshErrorsForDate(date))
}

// TotalErrorCounts aggregates counts across all dates.
func (j *Journal) TotalErrorCounts() (download, convert, refresh int) {
	for _, date := range j.ListDates() {
		d, c, r := j.ErrorCounts(date)
		download += d
		convert += c
		refresh += r
	}

	return download, convert, refresh
}

// ClearDate deletes every entry for one date.
func (j *Journal) ClearDate(date string) {
	os.RemoveAll(filepath.Join(j.basePath, date))
}

// ClearKind deletes every entry of one kind across all dates.
func (j *Journal) ClearKind(kind ErrorKind) {
	for _, date := range j.ListDates() {
		os.Remove(j.logPath(date, kind))
		j.cleanupEmptyDateDir(date)
	}
}

// ClearAll deletes the whole journal and recreates the base directory.
func (j *Journal) ClearAll() {
	os.RemoveAll(j.basePath)
	os.MkdirAll(j.basePath, 0755)
}

// cleanupEmptyDateDir removes a date directory once its last partition
// file is gone.
func (j *Journal) cleanupEmptyDateDir(date string) {
	dir := filepath.Join(j.basePath, date)

	entries, err := os.ReadDir(dir)
	if err == nil && len(entries) == 0 {
		os.Remove(dir)
	}
}

func addEntry[T journalRecord](j *Journal, kind ErrorKind, entry T) error {
	date := Today()
	path := j.logPath(date, kind)

	entries := loadEntries[T](path)
	entries = append(entries, entry)
	return saveEntries(path, entries)
}

func removeEntry[T journalRecord](j *Journal, kind ErrorKind, date, id string) bool {
	path := j.logPath(date, kind)
	entries := loadEntries[T](path)

	kept := entries[:0]
	for _, e := range entries {
		if e.entryID() != id {
			kept = append(kept, e)
		}
	}

	if len(kept) == len(entries) {
		return false
	}

	if len(kept) == 0 {
		os.Remove(path)
		j.cleanupEmptyDateDir(date)
	} else {
		saveEntries(path, kept)
	}

	return true
}

func incrementEntry[T journalRecord](j *Journal, kind ErrorKind, date, id string, bump func(*T)) {
	path := j.logPath(date, kind)
	entries := loadEntries[T](path)

	for i := range entries {
		if entries[i].entryID() == id {
			bump(&entries[i])
			saveEntries(path, entries)
			return
		}
	}
}

func findEntry[T journalRecord](j *Journal, kind ErrorKind, id string) (string, T, bool) {
	for _, date := range j.ListDates() {
		for _, entry := range loadEntries[T](j.logPath(date, kind)) {
			if entry.entryID() == id {
				return date, entry, true
			}
		}
	}

	var zero T
	return "", zero, false
}

func allEntries[T journalRecord](j *Journal, kind ErrorKind) []Dated[T] {
	var all []Dated[T]
	for _, date := range j.ListDates() {
		for _, entry := range loadEntries[T](j.logPath(date, kind)) {
			all = append(all, Dated[T]{Date: date, Entry: entry})
		}
	}

	sort.SliceStable(all, func(a, b int) bool {
		return all[a].Entry.entryTime().After(all[b].Entry.entryTime())
	})

	return all
}

// loadEntries reads one partition file. Missing or malformed files load as
// empty lists.
func loadEntries[T journalRecord](path string) []T {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var entries []T
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}

	return entries
}

func saveEntries[T journalRecord](path string, entries []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
