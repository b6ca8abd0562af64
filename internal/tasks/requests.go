package tasks

import "github.com/desertthunder/wavedl/internal/store"

// Request is the closed union of jobs the worker accepts. Every request
// carries a caller-assigned job id used to correlate the events produced
// while servicing it.
type Request interface {
	JobID() int
	isRequest()
}

// RetryRef points at the journal entry a request is retrying. The worker
// removes the entry when the retry succeeds and increments its retry
// counter when it fails again; requests without a ref journal fresh
// entries on failure.
type RetryRef struct {
	Kind store.ErrorKind
	Date string
	ID   string
}

// AlbumRequest downloads every track of a Spotify album.
type AlbumRequest struct {
	ID       int
	Link     string
	Format   string
	Quality  string
	Portable bool
	Retry    *RetryRef
}

// PlaylistRequest downloads every track of a Spotify playlist and writes
// an M3U playlist file afterwards.
type PlaylistRequest struct {
	ID       int
	Link     string
	Format   string
	Quality  string
	Portable bool
	Retry    *RetryRef
}

// YouTubePlaylistRequest downloads every entry of a YouTube playlist.
type YouTubePlaylistRequest struct {
	ID       int
	Link     string
	Format   string
	Quality  string
	Portable bool
	Retry    *RetryRef
}

// ConvertRequest transcodes one file to a new format, optionally
// re-resolving its metadata afterwards.
type ConvertRequest struct {
	ID              int
	InputPath       string
	Format          string
	Quality         string
	RefreshMetadata bool
	Artist          string
	Title           string
	Retry           *RetryRef
}

// ConvertItem is one file within a batch conversion.
type ConvertItem struct {
	InputPath string
	Artist    string
	Title     string
}

// ConvertBatchRequest transcodes a list of files, aggregating a summary
// and a single delete-originals confirmation.
type ConvertBatchRequest struct {
	ID              int
	Items           []ConvertItem
	Format          string
	Quality         string
	RefreshMetadata bool
}

// RefreshRequest re-resolves one file's metadata by catalog search and
// rewrites its tags.
type RefreshRequest struct {
	ID        int
	InputPath string
	Artist    string
	Title     string
	Retry     *RetryRef
}

// RefreshItem is one file within a batch refresh.
type RefreshItem struct {
	InputPath string
	Artist    string
	Title     string
}

// RefreshBatchRequest refreshes metadata for a list of files.
type RefreshBatchRequest struct {
	ID    int
	Items []RefreshItem
}

// CleanupRequest sweeps catalog entries whose files no longer exist.
type CleanupRequest struct {
	ID int
}

// PurgeScope selects how much of the journal a purge removes.
type PurgeScope int

const (
	PurgeEntry PurgeScope = iota
	PurgeDate
	PurgeKind
	PurgeAll
)

// PurgeErrorsRequest deletes journal entries. The worker owns the journal,
// so even user-initiated deletions are routed through it.
type PurgeErrorsRequest struct {
	ID      int
	Scope   PurgeScope
	Kind    store.ErrorKind
	Date    string
	EntryID string
}

// M3URequest builds an M3U playlist file from a Spotify playlist link and
// the local library. When tracks are missing and Force is unset, the
// worker asks for confirmation instead of writing.
type M3URequest struct {
	ID       int
	Link     string
	Portable bool
	Force    bool
}

// WriteM3URequest writes an M3U file from already-resolved paths, used
// after the user confirms a playlist with missing tracks.
type WriteM3URequest struct {
	ID       int
	Name     string
	Paths    []string
	Portable bool
}

// DeleteFilesRequest removes files from disk, optionally dropping their
// catalog entries too.
type DeleteFilesRequest struct {
	ID          int
	Paths       []string
	FromCatalog bool
}

func (r AlbumRequest) JobID() int           { return r.ID }
func (r PlaylistRequest) JobID() int        { return r.ID }
func (r YouTubePlaylistRequest) JobID() int { return r.ID }
func (r ConvertRequest) JobID() int         { return r.ID }
func (r ConvertBatchRequest) JobID() int    { return r.ID }
func (r RefreshRequest) JobID() int         { return r.ID }
func (r RefreshBatchRequest) JobID() int    { return r.ID }
func (r CleanupRequest) JobID() int         { return r.ID }
func (r PurgeErrorsRequest) JobID() int     { return r.ID }
func (r M3URequest) JobID() int             { return r.ID }
func (r WriteM3URequest) JobID() int        { return r.ID }
func (r DeleteFilesRequest) JobID() int     { return r.ID }

func (AlbumRequest) isRequest()           {}
func (PlaylistRequest) isRequest()        {}
func (YouTubePlaylistRequest) isRequest() {}
func (ConvertRequest) isRequest()         {}
func (ConvertBatchRequest) isRequest()    {}
func (RefreshRequest) isRequest()         {}
func (RefreshBatchRequest) isRequest()    {}
func (CleanupRequest) isRequest()         {}
func (PurgeErrorsRequest) isRequest()     {}
func (M3URequest) isRequest()             {}
func (WriteM3URequest) isRequest()        {}
func (DeleteFilesRequest) isRequest()     {}
