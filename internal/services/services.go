// package services defines interface Catalog for resolving music metadata
//
// Spotify, YouTube (via yt-dlp)
package services

import (
	"context"

	"github.com/desertthunder/wavedl/internal/models"
)

// Catalog defines the interface for metadata providers that resolve links
// into albums, playlists, and tracks.
type Catalog interface {
	// FetchAlbum resolves an album link into its metadata and full track
	// listing.
	FetchAlbum(ctx context.Context, link string) (*models.AlbumMeta, error)

	// FetchPlaylistInfo resolves only a playlist's name and track count.
	// This is cheap relative to FetchPlaylistTracks and lets callers show
	// a meaningful label while the full listing loads.
	FetchPlaylistInfo(ctx context.Context, link string) (*models.PlaylistInfo, error)

	// FetchPlaylistTracks resolves a playlist link into its complete track
	// listing, following pagination.
	FetchPlaylistTracks(ctx context.Context, link string) (*models.PlaylistMeta, error)

	// SearchTrack finds the best metadata match for an artist and title.
	SearchTrack(ctx context.Context, artist, title string) (*models.TrackMeta, error)

	// Name returns the provider name (e.g. "Spotify")
	Name() string
}
