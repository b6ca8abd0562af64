// Spotify API implementation of [Catalog]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/desertthunder/wavedl/internal/models"
	"github.com/desertthunder/wavedl/internal/shared"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// Spotify allows bursts but sustained traffic gets 429s around
	// 180 requests/minute, so pace well under that.
	spotifyRequestsPerSecond = 2
)

type spotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type spotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotifyTrack struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []spotifyArtist `json:"artists"`
	TrackNumber int             `json:"track_number"`
	DurationMS  int             `json:"duration_ms"`
	Album       *spotifyAlbum   `json:"album,omitempty"`
}

type spotifyAlbum struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []spotifyArtist `json:"artists"`
	TotalTracks int             `json:"total_tracks"`
	Images      []spotifyImage  `json:"images"`
}

type spotifyTrackPage struct {
	Items []spotifyTrack `json:"items"`
	Total int            `json:"total"`
	Next  *string        `json:"next"`
}

type spotifyPlaylist struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Tracks struct {
		Total int `json:"total"`
	} `json:"tracks"`
}

type spotifyPlaylistItem struct {
	Track *spotifyTrack `json:"track"`
}

type spotifyPlaylistPage struct {
	Items []spotifyPlaylistItem `json:"items"`
	Total int                   `json:"total"`
	Next  *string               `json:"next"`
}

// SpotifyService implements [Catalog] against the Spotify Web API using the
// client credentials flow, which covers the public album/playlist/search
// endpoints this tool needs without a user login.
type SpotifyService struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// NewSpotifyService creates a Spotify catalog client with the given
// application credentials.
func NewSpotifyService(clientID, clientSecret string) (*SpotifyService, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyTokenURL,
	}

	client := conf.Client(context.Background())
	client.Timeout = 30 * time.Second

	return &SpotifyService{
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(spotifyRequestsPerSecond), 1),
		baseURL:    spotifyBaseURL,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// ExtractSpotifyID pulls the resource id out of an open.spotify.com link of
// the given kind ("album" or "playlist"). Bare ids pass through unchanged.
func ExtractSpotifyID(link, kind string) (string, error) {
	if !strings.Contains(link, "/") {
		return link, nil
	}

	marker := "/" + kind + "/"
	idx := strings.Index(link, marker)
	if idx < 0 {
		return "", fmt.Errorf("%w: not a spotify %s link: %s", shared.ErrInvalidInput, kind, link)
	}

	id := link[idx+len(marker):]
	if q := strings.IndexAny(id, "?#"); q >= 0 {
		id = id[:q]
	}

	if id == "" {
		return "", fmt.Errorf("%w: empty %s id in link: %s", shared.ErrInvalidInput, kind, link)
	}

	return id, nil
}

// doRequest performs a rate-limited GET against the Spotify API and decodes
// the JSON response into result.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result interface{}) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrResourceNotFound, shared.PrivateHint)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: spotify rejected credentials (status %d)", shared.ErrMissingCredentials, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: spotify API error: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func (s *SpotifyService) trackMeta(t spotifyTrack, album string, coverURL string) models.TrackMeta {
	artist := ""
	if len(t.Artists) > 0 {
		artist = t.Artists[0].Name
	}

	return models.TrackMeta{
		Artist:      artist,
		Album:       album,
		Title:       t.Name,
		TrackNumber: t.TrackNumber,
		Duration:    time.Duration(t.DurationMS) * time.Millisecond,
		CoverURL:    coverURL,
	}
}

// FetchAlbum retrieves an album and its complete track listing.
func (s *SpotifyService) FetchAlbum(ctx context.Context, link string) (*models.AlbumMeta, error) {
	id, err := ExtractSpotifyID(link, "album")
	if err != nil {
		return nil, err
	}

	var album spotifyAlbum
	if err := s.doRequest(ctx, "/albums/"+url.PathEscape(id), &album); err != nil {
		return nil, err
	}

	artist := ""
	if len(album.Artists) > 0 {
		artist = album.Artists[0].Name
	}

	coverURL := ""
	if len(album.Images) > 0 {
		coverURL = album.Images[0].URL
	}

	meta := &models.AlbumMeta{
		Name:     album.Name,
		Artist:   artist,
		CoverURL: coverURL,
	}

	offset := 0
	for {
		endpoint := fmt.Sprintf("/albums/%s/tracks?limit=50&offset=%d", url.PathEscape(id), offset)

		var page spotifyTrackPage
		if err := s.doRequest(ctx, endpoint, &page); err != nil {
			return nil, err
		}

		for _, t := range page.Items {
			track := s.trackMeta(t, album.Name, coverURL)
			if track.Artist == "" {
				track.Artist = artist
			}

			meta.Tracks = append(meta.Tracks, track)
		}

		offset += len(page.Items)
		if page.Next == nil || len(page.Items) == 0 {
			break
		}
	}

	return meta, nil
}

// FetchPlaylistInfo retrieves only the playlist's name and track count.
func (s *SpotifyService) FetchPlaylistInfo(ctx context.Context, link string) (*models.PlaylistInfo, error) {
	id, err := ExtractSpotifyID(link, "playlist")
	if err != nil {
		return nil, err
	}

	var playlist spotifyPlaylist
	if err := s.doRequest(ctx, "/playlists/"+url.PathEscape(id)+"?fields=id,name,tracks.total", &playlist); err != nil {
		return nil, err
	}

	return &models.PlaylistInfo{
		Name:       playlist.Name,
		TrackCount: playlist.Tracks.Total,
	}, nil
}

// FetchPlaylistTracks retrieves the playlist's complete track listing,
// following pagination 100 items at a time.
func (s *SpotifyService) FetchPlaylistTracks(ctx context.Context, link string) (*models.PlaylistMeta, error) {
	id, err := ExtractSpotifyID(link, "playlist")
	if err != nil {
		return nil, err
	}

	info, err := s.FetchPlaylistInfo(ctx, link)
	if err != nil {
		return nil, err
	}

	meta := &models.PlaylistMeta{Name: info.Name}

	offset := 0
	for {
		endpoint := fmt.Sprintf("/playlists/%s/tracks?limit=100&offset=%d", url.PathEscape(id), offset)

		var page spotifyPlaylistPage
		if err := s.doRequest(ctx, endpoint, &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			// local files and removed tracks come back null
			if item.Track == nil {
				continue
			}

			album := ""
			coverURL := ""
			if item.Track.Album != nil {
				album = item.Track.Album.Name
				if len(item.Track.Album.Images) > 0 {
					coverURL = item.Track.Album.Images[0].URL
				}
			}

			meta.Tracks = append(meta.Tracks, s.trackMeta(*item.Track, album, coverURL))
		}

		offset += len(page.Items)
		if page.Next == nil || len(page.Items) == 0 {
			break
		}
	}

	return meta, nil
}

// SearchTrack finds the best match for an artist and title.
func (s *SpotifyService) SearchTrack(ctx context.Context, artist, title string) (*models.TrackMeta, error) {
	query := url.QueryEscape(fmt.Sprintf("track:%s artist:%s", title, artist))

	var response struct {
		Tracks spotifyTrackPage `json:"tracks"`
	}

	if err := s.doRequest(ctx, "/search?type=track&limit=1&q="+query, &response); err != nil {
		return nil, err
	}

	if len(response.Tracks.Items) == 0 {
		return nil, fmt.Errorf("%w: no match for %s - %s", shared.ErrTrackNotFound, artist, title)
	}

	t := response.Tracks.Items[0]

	album := ""
	coverURL := ""
	if t.Album != nil {
		album = t.Album.Name
		if len(t.Album.Images) > 0 {
			coverURL = t.Album.Images[0].URL
		}
	}

	meta := s.trackMeta(t, album, coverURL)
	return &meta, nil
}
