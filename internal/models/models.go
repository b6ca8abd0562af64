// package models defines the data model for the wavedl music fetcher
package models

import "time"

// TrackMeta carries the metadata for a single remote track. It is the unit
// the worker operates on: enough to build a search query, name the output
// file, and tag the result.
type TrackMeta struct {
	Artist      string        `json:"artist"`
	Album       string        `json:"album"`
	Title       string        `json:"title"`
	TrackNumber int           `json:"track_number"`
	Duration    time.Duration `json:"duration"`
	CoverURL    string        `json:"cover_url,omitempty"`
	SourceURL   string        `json:"source_url,omitempty"`
}

// SearchQuery returns the text used to locate this track on YouTube when no
// direct source URL is known.
func (t TrackMeta) SearchQuery() string {
	return t.Artist + " - " + t.Title
}

// AlbumMeta describes an album and its full track listing.
type AlbumMeta struct {
	Name     string      `json:"name"`
	Artist   string      `json:"artist"`
	CoverURL string      `json:"cover_url,omitempty"`
	Tracks   []TrackMeta `json:"tracks"`
}

// PlaylistInfo is the lightweight identity of a playlist, fetched cheaply
// before the full track listing is paginated.
type PlaylistInfo struct {
	Name       string `json:"name"`
	TrackCount int    `json:"track_count"`
}

// PlaylistMeta describes a playlist and its complete track listing.
type PlaylistMeta struct {
	Name   string      `json:"name"`
	Tracks []TrackMeta `json:"tracks"`
}

// TrackEntry records a downloaded track in the dedup catalog. Path is the
// absolute location of the audio file on disk.
type TrackEntry struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
	Path   string `json:"path"`
}

// PortableProfile bounds the size of embedded artwork and generated
// filenames. Portable players choke on large covers and long paths, so the
// portable profile trades fidelity for compatibility.
type PortableProfile struct {
	MaxCoverPx     int  // longest cover edge in pixels
	MaxCoverBytes  int  // upper bound on the encoded cover size
	MaxFilenameLen int  // filename length before truncation
	ForceMP3       bool // portable players rarely handle flac or wav
}

// DefaultProfile is used for normal library output.
var DefaultProfile = PortableProfile{
	MaxCoverPx:     500,
	MaxCoverBytes:  300 * 1024,
	MaxFilenameLen: 100,
}

// Portable is used when output targets a portable music player.
var Portable = PortableProfile{
	MaxCoverPx:     128,
	MaxCoverBytes:  64 * 1024,
	MaxFilenameLen: 64,
	ForceMP3:       true,
}

// ProfileFor selects the output profile for the given mode.
func ProfileFor(portable bool) PortableProfile {
	if portable {
		return Portable
	}

	return DefaultProfile
}
