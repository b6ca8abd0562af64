// YouTube implementation of [Catalog] backed by yt-dlp
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/desertthunder/wavedl/internal/models"
	"github.com/desertthunder/wavedl/internal/shared"
)

// RunCommand executes an external command and returns its stdout. Split out
// so tests can substitute canned yt-dlp output.
type RunCommand func(ctx context.Context, name string, args ...string) ([]byte, error)

func runRealCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

type ytEntry struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Uploader string  `json:"uploader"`
	Channel  string  `json:"channel"`
	URL      string  `json:"url"`
	Duration float64 `json:"duration"`
}

type ytPlaylist struct {
	Title         string    `json:"title"`
	Uploader      string    `json:"uploader"`
	PlaylistCount int       `json:"playlist_count"`
	Entries       []ytEntry `json:"entries"`
}

// YouTubeService resolves YouTube playlist links by asking yt-dlp for a
// flat (metadata-only) dump of the playlist. Album fetching and track
// search are not YouTube concerns here, so those [Catalog] methods report
// [shared.ErrNotImplemented].
type YouTubeService struct {
	run RunCommand
}

// NewYouTubeService creates a YouTube catalog client that shells out to
// yt-dlp.
func NewYouTubeService() *YouTubeService {
	return &YouTubeService{run: runRealCommand}
}

// NewYouTubeServiceWithRunner creates a client with a custom command
// runner, used in tests.
func NewYouTubeServiceWithRunner(run RunCommand) *YouTubeService {
	return &YouTubeService{run: run}
}

func (y *YouTubeService) Name() string {
	return "YouTube"
}

func (y *YouTubeService) fetchPlaylist(ctx context.Context, link string) (*ytPlaylist, error) {
	out, err := y.run(ctx, "yt-dlp", "--flat-playlist", "-J", link)
	if err != nil {
		return nil, fmt.Errorf("%w: yt-dlp failed for %s: %v (%s)",
			shared.ErrAPIRequest, link, err, shared.PrivateHint)
	}

	var playlist ytPlaylist
	if err := json.Unmarshal(out, &playlist); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp playlist output: %w", err)
	}

	return &playlist, nil
}

// FetchPlaylistInfo resolves the playlist's title and entry count.
func (y *YouTubeService) FetchPlaylistInfo(ctx context.Context, link string) (*models.PlaylistInfo, error) {
	playlist, err := y.fetchPlaylist(ctx, link)
	if err != nil {
		return nil, err
	}

	count := playlist.PlaylistCount
	if count == 0 {
		count = len(playlist.Entries)
	}

	return &models.PlaylistInfo{Name: playlist.Title, TrackCount: count}, nil
}

// FetchPlaylistTracks resolves the playlist into track metadata. Uploader
// names stand in for artists, and each entry keeps its video URL so the
// downloader can fetch it directly instead of searching.
func (y *YouTubeService) FetchPlaylistTracks(ctx context.Context, link string) (*models.PlaylistMeta, error) {
	playlist, err := y.fetchPlaylist(ctx, link)
	if err != nil {
		return nil, err
	}

	meta := &models.PlaylistMeta{Name: playlist.Title}
	for _, entry := range playlist.Entries {
		artist := entry.Uploader
		if artist == "" {
			artist = entry.Channel
		}

		sourceURL := entry.URL
		if sourceURL == "" && entry.ID != "" {
			sourceURL = "https://www.youtube.com/watch?v=" + entry.ID
		}

		meta.Tracks = append(meta.Tracks, models.TrackMeta{
			Artist:    artist,
			Album:     playlist.Title,
			Title:     strings.TrimSpace(entry.Title),
			Duration:  time.Duration(entry.Duration * float64(time.Second)),
			SourceURL: sourceURL,
		})
	}

	return meta, nil
}

// FetchAlbum is not supported for YouTube links.
func (y *YouTubeService) FetchAlbum(ctx context.Context, link string) (*models.AlbumMeta, error) {
	return nil, fmt.Errorf("%w: youtube album fetch", shared.ErrNotImplemented)
}

// SearchTrack is not supported; track search happens at download time via
// yt-dlp's ytsearch.
func (y *YouTubeService) SearchTrack(ctx context.Context, artist, title string) (*models.TrackMeta, error) {
	return nil, fmt.Errorf("%w: youtube track search", shared.ErrNotImplemented)
}
