// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/wavedl/internal/models"
)

// MockCatalog is a test double for [services.Catalog] with per-method
// canned results and call counters.
type MockCatalog struct {
	Album       *models.AlbumMeta
	AlbumErr    error
	Info        *models.PlaylistInfo
	InfoErr     error
	Playlist    *models.PlaylistMeta
	PlaylistErr error
	Track       *models.TrackMeta
	TrackErr    error

	AlbumCalls    int
	InfoCalls     int
	PlaylistCalls int
	SearchCalls   int
}

func (m *MockCatalog) FetchAlbum(ctx context.Context, link string) (*models.AlbumMeta, error) {
	m.AlbumCalls++
	return m.Album, m.AlbumErr
}

func (m *MockCatalog) FetchPlaylistInfo(ctx context.Context, link string) (*models.PlaylistInfo, error) {
	m.InfoCalls++
	return m.Info, m.InfoErr
}

func (m *MockCatalog) FetchPlaylistTracks(ctx context.Context, link string) (*models.PlaylistMeta, error) {
	m.PlaylistCalls++
	return m.Playlist, m.PlaylistErr
}

func (m *MockCatalog) SearchTrack(ctx context.Context, artist, title string) (*models.TrackMeta, error) {
	m.SearchCalls++
	return m.Track, m.TrackErr
}

func (m *MockCatalog) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading a response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error { return nil }

var _ io.ReadCloser = (*FCloser)(nil)

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
