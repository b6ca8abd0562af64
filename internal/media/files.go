// package media handles filesystem naming, playlist files, artwork, and tags
package media

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/wavedl/internal/models"
)

// SanitizeFilename replaces characters that are unsafe in filenames and
// truncates the result to maxLen bytes. Non-ASCII runes become underscores
// so names survive FAT filesystems on portable players.
func SanitizeFilename(name string, maxLen int) string {
	var b strings.Builder
	b.Grow(len(name))

	for _, ch := range name {
		switch {
		case ch >= 'A' && ch <= 'Z', ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9':
			b.WriteRune(ch)
		case ch == ' ' || ch == '-' || ch == '_' || ch == '.' || ch == '(' || ch == ')':
			b.WriteRune(ch)
		case strings.ContainsRune(`/\?%*:|"<>`, ch) || ch == '\n' || ch == '\r' || ch == '\t':
			b.WriteRune('_')
		case ch < 128 && ch >= 32:
			b.WriteRune(ch)
		default:
			b.WriteRune('_')
		}
	}

	trimmed := strings.TrimSpace(b.String())
	if maxLen > 0 && len(trimmed) > maxLen {
		trimmed = trimmed[:maxLen]
	}

	return trimmed
}

// AlbumFolder creates and returns the Artist/Album directory under basePath.
func AlbumFolder(basePath, artist, album string, profile models.PortableProfile) (string, error) {
	folder := filepath.Join(basePath,
		SanitizeFilename(artist, profile.MaxFilenameLen),
		SanitizeFilename(album, profile.MaxFilenameLen))

	if err := os.MkdirAll(folder, 0755); err != nil {
		return "", fmt.Errorf("failed to create album folder: %w", err)
	}

	return folder, nil
}

// BuildFilename returns the output filename for a track, including the zero
// padded track number when one is known.
func BuildFilename(track models.TrackMeta, format string, profile models.PortableProfile) string {
	name := track.Title
	if track.TrackNumber > 0 {
		name = fmt.Sprintf("%02d - %s", track.TrackNumber, track.Title)
	}

	return SanitizeFilename(name, profile.MaxFilenameLen) + "." + format
}

// WriteM3U writes an extended M3U playlist file to outDir. Track paths are
// rewritten relative to outDir when possible so the playlist stays valid
// after the library is copied onto a device.
func WriteM3U(playlistName string, trackPaths []string, outDir string, profile models.PortableProfile) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create playlist directory: %w", err)
	}

	playlistFile := filepath.Join(outDir, SanitizeFilename(playlistName, profile.MaxFilenameLen)+".m3u")

	f, err := os.Create(playlistFile)
	if err != nil {
		return "", fmt.Errorf("failed to create playlist file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "#EXTM3U")

	for _, track := range trackPaths {
		rel, err := filepath.Rel(outDir, track)
		if err != nil || strings.HasPrefix(rel, "..") {
			rel = track
		}

		fmt.Fprintln(w, rel)
	}

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to write playlist file: %w", err)
	}

	return playlistFile, nil
}
