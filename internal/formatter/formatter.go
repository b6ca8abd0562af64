// package formatter provides functions to export the library catalog and
// the error journal to various formats (CSV, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/desertthunder/wavedl/internal/models"
	"github.com/desertthunder/wavedl/internal/shared"
	"github.com/desertthunder/wavedl/internal/store"
)

// LibraryToCSV converts library entries to CSV format with columns: Artist, Title, Path
func LibraryToCSV(tracks []models.TrackEntry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Artist", "Title", "Path"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{track.Artist, track.Title, track.Path}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// LibraryToText converts library entries to plain text format
func LibraryToText(tracks []models.TrackEntry) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Library: %d tracks\n\n", len(tracks)))

	for i, track := range tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.Artist, track.Title))
		buf.WriteString(fmt.Sprintf("   %s\n", track.Path))
	}

	return buf.Bytes(), nil
}

// LibraryToJSON converts library entries to indented JSON
func LibraryToJSON(tracks []models.TrackEntry) ([]byte, error) {
	return shared.MarshalJSON(tracks, true)
}

// WriteCSVExport writes the library to a CSV file.
//
// Defaults to library_tracks.csv as the filename.
func WriteCSVExport(tracks []models.TrackEntry, filepath string) (string, error) {
	if filepath == "" {
		filepath = "library_tracks.csv"
	}

	csvData, err := LibraryToCSV(tracks)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	if err := os.WriteFile(filepath, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return filepath, nil
}

// WriteTextExport writes the library to a plain text file.
//
// Defaults to library_tracks.txt as the filename.
func WriteTextExport(tracks []models.TrackEntry, filepath string) (string, error) {
	if filepath == "" {
		filepath = "library_tracks.txt"
	}

	textData, err := LibraryToText(tracks)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

// WriteJSONExport writes the library to a JSON file.
//
// Defaults to library.json as the filename.
func WriteJSONExport(tracks []models.TrackEntry, filepath string) (string, error) {
	if filepath == "" {
		filepath = "library.json"
	}

	jsonData, err := LibraryToJSON(tracks)
	if err != nil {
		return "", fmt.Errorf("failed to generate JSON: %w", err)
	}

	if err := os.WriteFile(filepath, jsonData, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON file: %w", err)
	}

	return filepath, nil
}

// DownloadErrorsToCSV converts dated download errors to CSV format
func DownloadErrorsToCSV(entries []store.Dated[store.DownloadError]) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Date", "ID", "Artist", "Title", "Link", "Type", "Format", "Quality", "Retries", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, d := range entries {
		e := d.Entry
		record := []string{
			d.Date,
			e.ID,
			e.Artist,
			e.Title,
			e.Link,
			e.LinkType,
			e.Format,
			e.Quality,
			strconv.Itoa(e.RetryCount),
			e.Error,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ConvertErrorsToCSV converts dated conversion errors to CSV format
func ConvertErrorsToCSV(entries []store.Dated[store.ConvertError]) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Date", "ID", "Input", "Target Format", "Quality", "Artist", "Title", "Retries", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, d := range entries {
		e := d.Entry
		record := []string{
			d.Date,
			e.ID,
			e.InputPath,
			e.TargetFormat,
			e.Quality,
			e.Artist,
			e.Title,
			strconv.Itoa(e.RetryCount),
			e.Error,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// RefreshErrorsToCSV converts dated metadata refresh errors to CSV format
func RefreshErrorsToCSV(entries []store.Dated[store.RefreshError]) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Date", "ID", "Input", "Artist", "Title", "Retries", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, d := range entries {
		e := d.Entry
		record := []string{
			d.Date,
			e.ID,
			e.InputPath,
			e.Artist,
			e.Title,
			strconv.Itoa(e.RetryCount),
			e.Error,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ErrorSummaryToText renders per-date error counts as aligned plain text
func ErrorSummaryToText(journal *store.Journal) []byte {
	var buf bytes.Buffer

	dates := journal.ListDates()
	if len(dates) == 0 {
		buf.WriteString("No errors recorded.\n")
		return buf.Bytes()
	}

	buf.WriteString(fmt.Sprintf("%-12s %10s %10s %10s\n", "Date", "Download", "Convert", "Refresh"))
	for _, date := range dates {
		download, convert, refresh := journal.ErrorCounts(date)
		buf.WriteString(fmt.Sprintf("%-12s %10d %10d %10d\n", date, download, convert, refresh))
	}

	download, convert, refresh := journal.TotalErrorCounts()
	buf.WriteString(fmt.Sprintf("%-12s %10d %10d %10d\n", "Total", download, convert, refresh))

	return buf.Bytes()
}
