package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/wavedl/internal/download"
	"github.com/desertthunder/wavedl/internal/media"
	"github.com/desertthunder/wavedl/internal/models"
	"github.com/desertthunder/wavedl/internal/services"
	"github.com/desertthunder/wavedl/internal/store"
)

const (
	// RequestQueueSize bounds how many jobs can wait for the worker.
	RequestQueueSize = 32

	// EventBufferSize gives state events room so the worker rarely blocks
	// on a slow consumer.
	EventBufferSize = 256
)

// DownloadFunc fetches one track to outputPath, streaming subprocess
// output through onLine.
type DownloadFunc func(ctx context.Context, query, outputPath, format, quality string, onLine download.LineFunc) error

// ConvertFunc transcodes inputPath and returns the new path.
type ConvertFunc func(ctx context.Context, inputPath, format, quality string, onLine download.LineFunc) (string, error)

// TagFunc writes metadata and optional artwork onto an audio file.
type TagFunc func(path string, track models.TrackMeta, artwork []byte) error

// CoverFunc fetches and resizes cover art.
type CoverFunc func(ctx context.Context, url string, profile models.PortableProfile) ([]byte, error)

// WorkerConfig wires the worker's collaborators and paths.
type WorkerConfig struct {
	Catalog      services.Catalog // metadata provider for albums/playlists/search
	YouTube      services.Catalog // playlist provider for video-site links
	Store        *store.Catalog
	Journal      *store.Journal
	MusicPath    string
	PlaylistPath string
	Logger       *log.Logger

	// Optional overrides, defaulted to the real implementations. Tests
	// substitute these to count calls and fake outcomes.
	Download   DownloadFunc
	Convert    ConvertFunc
	Tag        TagFunc
	FetchCover CoverFunc
}

// Worker is the single executor of all download, convert, and refresh
// jobs. It consumes a bounded request queue, emits an ordered event
// stream per job, and is the only writer of the dedup catalog and the
// error journal.
type Worker struct {
	requests chan Request
	events   chan Event
	gate     *Gate

	catalog services.Catalog
	youtube services.Catalog
	db      *store.Catalog
	journal *store.Journal
	logger  *log.Logger

	musicPath    string
	playlistPath string

	download   DownloadFunc
	convert    ConvertFunc
	tag        TagFunc
	fetchCover CoverFunc
}

// NewWorker builds a worker from cfg, filling in real yt-dlp, ffmpeg,
// tagging, and artwork implementations for any override left nil.
func NewWorker(cfg WorkerConfig) *Worker {
	w := &Worker{
		requests:     make(chan Request, RequestQueueSize),
		events:       make(chan Event, EventBufferSize),
		gate:         NewGate(),
		catalog:      cfg.Catalog,
		youtube:      cfg.YouTube,
		db:           cfg.Store,
		journal:      cfg.Journal,
		logger:       cfg.Logger,
		musicPath:    cfg.MusicPath,
		playlistPath: cfg.PlaylistPath,
		download:     cfg.Download,
		convert:      cfg.Convert,
		tag:          cfg.Tag,
		fetchCover:   cfg.FetchCover,
	}

	if w.logger == nil {
		w.logger = log.Default()
	}
	if w.download == nil {
		w.download = download.Track
	}
	if w.convert == nil {
		w.convert = download.Convert
	}
	if w.tag == nil {
		w.tag = media.TagMP3
	}
	if w.fetchCover == nil {
		w.fetchCover = media.FetchCover
	}

	return w
}

// Events returns the stream of job events.
func (w *Worker) Events() <-chan Event {
	return w.events
}

// Gate returns the shared pause gate.
func (w *Worker) Gate() *Gate {
	return w.gate
}

// Submit enqueues a request without blocking. It reports false when the
// queue is full.
func (w *Worker) Submit(req Request) bool {
	select {
	case w.requests <- req:
		return true
	default:
		return false
	}
}

// Run consumes requests until ctx is cancelled. Requests are serviced
// strictly in FIFO order by this single goroutine.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-w.requests:
			w.dispatch(ctx, req)
		}
	}
}

func (w *Worker) dispatch(ctx context.Context, req Request) {
	switch r := req.(type) {
	case AlbumRequest:
		w.processAlbum(ctx, r)
	case PlaylistRequest:
		w.processPlaylist(ctx, r)
	case YouTubePlaylistRequest:
		w.processYouTubePlaylist(ctx, r)
	case ConvertRequest:
		w.processConvert(ctx, r)
	case ConvertBatchRequest:
		w.processConvertBatch(ctx, r)
	case RefreshRequest:
		w.processRefresh(ctx, r)
	case RefreshBatchRequest:
		w.processRefreshBatch(ctx, r)
	case CleanupRequest:
		w.processCleanup(ctx, r)
	case PurgeErrorsRequest:
		w.processPurge(ctx, r)
	case M3URequest:
		w.processM3U(ctx, r)
	case WriteM3URequest:
		w.processWriteM3U(ctx, r)
	case DeleteFilesRequest:
		w.processDeleteFiles(ctx, r)
	}
}

// emit delivers a state event, blocking until the consumer takes it or
// ctx is cancelled. State transitions are never dropped.
func (w *Worker) emit(ctx context.Context, ev Event) {
	select {
	case w.events <- ev:
	case <-ctx.Done():
	}
}

// emitLog delivers a log line without blocking. Under backpressure the
// line is dropped; losing subprocess chatter is preferable to stalling
// the job.
func (w *Worker) emitLog(id int, line string) {
	select {
	case w.events <- LogLine{ID: id, Line: line}:
	default:
	}
}

// actualFormat applies the portable-mode format override.
func actualFormat(format string, profile models.PortableProfile) string {
	if profile.ForceMP3 {
		return "mp3"
	}

	return format
}

func (w *Worker) processAlbum(ctx context.Context, req AlbumRequest) {
	profile := models.ProfileFor(req.Portable)
	format := actualFormat(req.Format, profile)

	w.emitLog(req.ID, "Fetching album info from "+w.catalog.Name()+"...")

	album, err := w.catalog.FetchAlbum(ctx, req.Link)
	if err != nil {
		w.jobFailed(ctx, req.ID, req.Retry, store.KindDownload,
			fmt.Sprintf("Failed to fetch album (%s): %v", req.Link, err),
			func(msg string) store.DownloadError {
				return store.NewDownloadError(req.Link, "album", format, req.Quality, req.Portable, "", "", msg)
			})
		return
	}

	name := album.Artist + " - " + album.Name
	w.emit(ctx, MetadataFetched{ID: req.ID, Name: name})
	w.emitLog(req.ID, fmt.Sprintf("Found: %s (%d tracks, format: %s, quality: %s)",
		name, len(album.Tracks), format, req.Quality))
	w.emit(ctx, JobStarted{ID: req.ID, Name: name, TotalTracks: len(album.Tracks)})

	folder, err := media.AlbumFolder(w.musicPath, album.Artist, album.Name, profile)
	if err != nil {
		w.jobFailed(ctx, req.ID, req.Retry, store.KindDownload, err.Error(),
			func(msg string) store.DownloadError {
				return store.NewDownloadError(req.Link, "album", format, req.Quality, req.Portable, "", "", msg)
			})
		return
	}

	// one cover per album, reused for every track's tag
	var cover []byte
	if album.CoverURL != "" {
		w.emitLog(req.ID, "Downloading cover art...")
		if cover, err = w.fetchCover(ctx, album.CoverURL, profile); err != nil {
			w.emitLog(req.ID, "Cover art unavailable: "+err.Error())
			cover = nil
		}
	}

	ok := w.downloadTracks(ctx, req.ID, folder, album.Tracks, cover, format, req.Quality, profile,
		func(track models.TrackMeta, msg string) {
			if req.Retry != nil {
				return
			}

			w.journal.AddDownloadError(store.NewDownloadError(
				req.Link, "album", format, req.Quality, req.Portable, track.Artist, track.Title, msg))
		}, nil)

	w.settleRetry(req.Retry, ok)
	w.emit(ctx, JobComplete{ID: req.ID, Name: name})
}

func (w *Worker) processPlaylist(ctx context.Context, req PlaylistRequest) {
	w.servePlaylist(ctx, req.ID, w.catalog, req.Link, "playlist", req.Format, req.Quality, req.Portable, req.Retry)
}

func (w *Worker) processYouTubePlaylist(ctx context.Context, req YouTubePlaylistRequest) {
	w.servePlaylist(ctx, req.ID, w.youtube, req.Link, "youtube", req.Format, req.Quality, req.Portable, req.Retry)
}

// servePlaylist is the shared flow for catalog and video-site playlists:
// cheap name fetch, full listing, per-track loop, then an M3U file.
func (w *Worker) servePlaylist(ctx context.Context, id int, catalog services.Catalog, link, linkType, reqFormat, quality string, portable bool, retry *RetryRef) {
	profile := models.ProfileFor(portable)
	format := actualFormat(reqFormat, profile)

	journalJobError := func(msg string) store.DownloadError {
		return store.NewDownloadError(link, linkType, format, quality, portable, "", "", msg)
	}

	w.emitLog(id, "Fetching playlist info from "+catalog.Name()+"...")

	info, err := catalog.FetchPlaylistInfo(ctx, link)
	if err != nil {
		w.jobFailed(ctx, id, retry, store.KindDownload,
			fmt.Sprintf("Failed to fetch playlist (%s): %v", link, err), journalJobError)
		return
	}

	w.emit(ctx, MetadataFetched{ID: id, Name: info.Name})
	w.emitLog(id, "Fetching all playlist tracks...")

	playlist, err := catalog.FetchPlaylistTracks(ctx, link)
	if err != nil {
		w.jobFailed(ctx, id, retry, store.KindDownload,
			fmt.Sprintf("Failed to fetch playlist tracks for '%s': %v", info.Name, err), journalJobError)
		return
	}

	w.emitLog(id, fmt.Sprintf("Found: %s (%d tracks, format: %s, quality: %s)",
		playlist.Name, len(playlist.Tracks), format, quality))
	w.emit(ctx, JobStarted{ID: id, Name: playlist.Name, TotalTracks: len(playlist.Tracks)})

	var downloaded []string
	ok := w.downloadTracks(ctx, id, "", playlist.Tracks, nil, format, quality, profile,
		func(track models.TrackMeta, msg string) {
			if retry != nil {
				return
			}

			w.journal.AddDownloadError(store.NewDownloadError(
				link, linkType, format, quality, portable, track.Artist, track.Title, msg))
		},
		func(path string) { downloaded = append(downloaded, path) })

	if len(downloaded) > 0 {
		if path, err := media.WriteM3U(playlist.Name, downloaded, w.playlistPath, profile); err == nil {
			w.emit(ctx, M3UGenerated{ID: id, Path: path})
		} else {
			w.emitLog(id, "Failed to write playlist file: "+err.Error())
		}
	}

	w.settleRetry(retry, ok)
	w.emit(ctx, JobComplete{ID: id, Name: playlist.Name})
}

// downloadTracks runs the per-track loop. folder fixes the output
// directory for albums; when empty, each track gets an artist/album
// folder of its own. journalFail records a track failure; onPath collects
// output paths for playlist files. Returns whether every visited track
// succeeded or was skipped.
func (w *Worker) downloadTracks(ctx context.Context, id int, folder string, tracks []models.TrackMeta, cover []byte, format, quality string, profile models.PortableProfile, journalFail func(models.TrackMeta, string), onPath func(string)) bool {
	clean := true

	for i, track := range tracks {
		// the pause gate is the only suspension point: track granularity,
		// never mid-download
		if err := w.gate.Wait(ctx); err != nil {
			return false
		}

		if ctx.Err() != nil {
			return false
		}

		artist := track.Artist
		if artist == "" {
			artist = "Unknown Artist"
			track.Artist = artist
		}

		outDir := folder
		if outDir == "" {
			var err error
			outDir, err = media.AlbumFolder(w.musicPath, artist, track.Album, profile)
			if err != nil {
				clean = false
				journalFail(track, err.Error())
				w.emit(ctx, TrackFailed{ID: id, Artist: artist, Title: track.Title, Error: err.Error()})
				continue
			}
		}

		// output path is fixed before any external call so the dedup
		// check sees the same path a finished download would record
		filePath := filepath.Join(outDir, media.BuildFilename(track, format, profile))
		entry := models.TrackEntry{Artist: artist, Title: track.Title, Path: filePath}

		if w.db.Contains(entry) {
			w.emit(ctx, TrackSkipped{ID: id, Artist: artist, Title: track.Title})
			if onPath != nil {
				onPath(filePath)
			}
			continue
		}

		trackNum := track.TrackNumber
		if trackNum == 0 {
			trackNum = i + 1
		}

		w.emit(ctx, TrackStarted{ID: id, Artist: artist, Title: track.Title, TrackNum: trackNum})

		query := track.SourceURL
		if query == "" {
			query = track.SearchQuery()
		}

		err := w.download(ctx, query, filePath, format, quality, func(line string) {
			w.emitLog(id, line)
		})
		if err != nil {
			clean = false
			journalFail(track, err.Error())
			w.emit(ctx, TrackFailed{ID: id, Artist: artist, Title: track.Title, Error: err.Error()})
			continue
		}

		trackCover := cover
		if trackCover == nil && track.CoverURL != "" {
			trackCover, _ = w.fetchCover(ctx, track.CoverURL, profile)
		}

		if err := w.tag(filePath, track, trackCover); err != nil {
			clean = false
			msg := "Tagging failed: " + err.Error()
			journalFail(track, msg)
			w.emit(ctx, TrackFailed{ID: id, Artist: artist, Title: track.Title, Error: msg})
			continue
		}

		if err := w.db.Add(entry); err != nil {
			w.logger.Error("failed to persist catalog entry", "path", filePath, "err", err)
		}

		if onPath != nil {
			onPath(filePath)
		}

		w.emit(ctx, TrackComplete{ID: id, Artist: artist, Title: track.Title, Path: filePath})
	}

	return clean
}

// jobFailed journals and reports a job-level failure that short-circuits
// before track processing.
func (w *Worker) jobFailed(ctx context.Context, id int, retry *RetryRef, kind store.ErrorKind, msg string, build func(string) store.DownloadError) {
	w.logger.Error("job failed", "id", id, "err", msg)

	if retry != nil {
		w.incrementRetry(retry)
	} else if kind == store.KindDownload {
		w.journal.AddDownloadError(build(msg))
	}

	w.emit(ctx, JobError{ID: id, Error: msg})
}

// settleRetry resolves a retried journal entry: gone on success, bumped
// on another failure.
func (w *Worker) settleRetry(retry *RetryRef, succeeded bool) {
	if retry == nil {
		return
	}

	if succeeded {
		switch retry.Kind {
		case store.KindDownload:
			w.journal.RemoveDownloadError(retry.Date, retry.ID)
		case store.KindConvert:
			w.journal.RemoveConvertError(retry.Date, retry.ID)
		case store.KindRefresh:
			w.journal.RemoveRefreshError(retry.Date, retry.ID)
		}

		return
	}

	w.incrementRetry(retry)
}

func (w *Worker) incrementRetry(retry *RetryRef) {
	switch retry.Kind {
	case store.KindDownload:
		w.journal.IncrementDownloadRetry(retry.Date, retry.ID)
	case store.KindConvert:
		w.journal.IncrementConvertRetry(retry.Date, retry.ID)
	case store.KindRefresh:
		w.journal.IncrementRefreshRetry(retry.Date, retry.ID)
	}
}

// convertOne runs a single conversion plus the optional metadata refresh
// and the catalog path update. Returns the output path.
func (w *Worker) convertOne(ctx context.Context, id int, inputPath, format, quality string, refreshMeta bool, artist, title string) (string, error) {
	outputPath, err := w.convert(ctx, inputPath, format, quality, func(line string) {
		w.emitLog(id, line)
	})
	if err != nil {
		return "", err
	}

	if refreshMeta {
		if err := w.refreshTags(ctx, id, outputPath, artist, title); err != nil {
			w.emitLog(id, "Metadata refresh skipped: "+err.Error())
		}
	}

	if _, err := w.db.UpdatePath(inputPath, outputPath); err != nil {
		w.logger.Error("failed to update catalog path", "old", inputPath, "err", err)
	}

	return outputPath, nil
}

// refreshTags re-resolves metadata by catalog search and rewrites the
// file's tags with fresh artwork.
func (w *Worker) refreshTags(ctx context.Context, id int, path, artist, title string) error {
	meta, err := w.catalog.SearchTrack(ctx, artist, title)
	if err != nil {
		return err
	}

	var cover []byte
	if meta.CoverURL != "" {
		cover, _ = w.fetchCover(ctx, meta.CoverURL, models.DefaultProfile)
	}

	w.emitLog(id, fmt.Sprintf("Refreshed metadata: %s - %s (%s)", meta.Artist, meta.Title, meta.Album))
	return w.tag(path, *meta, cover)
}

func (w *Worker) processConvert(ctx context.Context, req ConvertRequest) {
	if err := w.gate.Wait(ctx); err != nil {
		return
	}

	w.emit(ctx, ConvertStarted{ID: req.ID, InputPath: req.InputPath})

	outputPath, err := w.convertOne(ctx, req.ID, req.InputPath, req.Format, req.Quality,
		req.RefreshMetadata, req.Artist, req.Title)
	if err != nil {
		if req.Retry != nil {
			w.incrementRetry(req.Retry)
		} else {
			w.journal.AddConvertError(store.NewConvertError(
				req.InputPath, req.Format, req.Quality, req.RefreshMetadata, req.Artist, req.Title, err.Error()))
		}

		w.emit(ctx, ConvertFailed{ID: req.ID, InputPath: req.InputPath, Error: err.Error()})
		return
	}

	w.settleRetry(req.Retry, true)
	w.emit(ctx, ConvertComplete{ID: req.ID, InputPath: req.InputPath, OutputPath: outputPath})
	w.emit(ctx, ConvertDeleteConfirm{ID: req.ID, Path: req.InputPath})
}

func (w *Worker) processConvertBatch(ctx context.Context, req ConvertBatchRequest) {
	var converted []string

	for _, item := range req.Items {
		if err := w.gate.Wait(ctx); err != nil {
			break
		}

		if ctx.Err() != nil {
			break
		}

		w.emit(ctx, ConvertStarted{ID: req.ID, InputPath: item.InputPath})

		_, err := w.convertOne(ctx, req.ID, item.InputPath, req.Format, req.Quality,
			req.RefreshMetadata, item.Artist, item.Title)
		if err != nil {
			w.journal.AddConvertError(store.NewConvertError(
				item.InputPath, req.Format, req.Quality, req.RefreshMetadata, item.Artist, item.Title, err.Error()))
			w.emit(ctx, ConvertFailed{ID: req.ID, InputPath: item.InputPath, Error: err.Error()})
			continue
		}

		converted = append(converted, item.InputPath)
		w.emit(ctx, ConvertComplete{ID: req.ID, InputPath: item.InputPath})
	}

	w.emit(ctx, ConvertBatchComplete{ID: req.ID, Total: len(req.Items), Successful: len(converted)})

	// one confirmation covers the whole batch
	if len(converted) > 0 {
		w.emit(ctx, ConvertBatchDeleteConfirm{ID: req.ID, Paths: converted})
	}
}

func (w *Worker) processRefresh(ctx context.Context, req RefreshRequest) {
	if err := w.gate.Wait(ctx); err != nil {
		return
	}

	w.emit(ctx, RefreshStarted{ID: req.ID, InputPath: req.InputPath})

	err := w.refreshTags(ctx, req.ID, req.InputPath, req.Artist, req.Title)
	if err != nil {
		if req.Retry != nil {
			w.incrementRetry(req.Retry)
		} else {
			w.journal.AddRefreshError(store.NewRefreshError(req.InputPath, req.Artist, req.Title, err.Error()))
		}

		w.emit(ctx, RefreshFailed{ID: req.ID, InputPath: req.InputPath, Error: err.Error()})
		return
	}

	w.settleRetry(req.Retry, true)
	w.emit(ctx, RefreshComplete{ID: req.ID, InputPath: req.InputPath})
}

func (w *Worker) processRefreshBatch(ctx context.Context, req RefreshBatchRequest) {
	successful := 0

	for _, item := range req.Items {
		if err := w.gate.Wait(ctx); err != nil {
			break
		}

		if ctx.Err() != nil {
			break
		}

		w.emit(ctx, RefreshStarted{ID: req.ID, InputPath: item.InputPath})

		if err := w.refreshTags(ctx, req.ID, item.InputPath, item.Artist, item.Title); err != nil {
			w.journal.AddRefreshError(store.NewRefreshError(item.InputPath, item.Artist, item.Title, err.Error()))
			w.emit(ctx, RefreshFailed{ID: req.ID, InputPath: item.InputPath, Error: err.Error()})
			continue
		}

		successful++
		w.emit(ctx, RefreshComplete{ID: req.ID, InputPath: item.InputPath})
	}

	w.emit(ctx, RefreshBatchComplete{ID: req.ID, Total: len(req.Items), Successful: successful})
}

func (w *Worker) processCleanup(ctx context.Context, req CleanupRequest) {
	removed, totalBefore, err := w.db.Cleanup()
	if err != nil {
		w.logger.Error("catalog cleanup did not persist", "err", err)
	}

	w.emit(ctx, CleanupDone{ID: req.ID, Removed: removed, TotalBefore: totalBefore})
}

func (w *Worker) processPurge(ctx context.Context, req PurgeErrorsRequest) {
	switch req.Scope {
	case PurgeEntry:
		switch req.Kind {
		case store.KindDownload:
			w.journal.RemoveDownloadError(req.Date, req.EntryID)
		case store.KindConvert:
			w.journal.RemoveConvertError(req.Date, req.EntryID)
		case store.KindRefresh:
			w.journal.RemoveRefreshError(req.Date, req.EntryID)
		}
	case PurgeDate:
		w.journal.ClearDate(req.Date)
	case PurgeKind:
		w.journal.ClearKind(req.Kind)
	case PurgeAll:
		w.journal.ClearAll()
	}

	w.emit(ctx, ErrorsPurged{ID: req.ID})
}

func (w *Worker) processM3U(ctx context.Context, req M3URequest) {
	playlist, err := w.catalog.FetchPlaylistTracks(ctx, req.Link)
	if err != nil {
		w.emit(ctx, JobError{ID: req.ID, Error: fmt.Sprintf("Failed to fetch playlist (%s): %v", req.Link, err)})
		return
	}

	var paths, missing []string
	for _, track := range playlist.Tracks {
		if entry, ok := w.db.FindByTrack(track.Artist, track.Title); ok {
			paths = append(paths, entry.Path)
		} else {
			missing = append(missing, track.Artist+" - "+track.Title)
		}
	}

	if len(missing) > 0 && !req.Force {
		w.emit(ctx, M3UConfirm{ID: req.ID, Name: playlist.Name, Paths: paths, Missing: missing})
		return
	}

	w.writeM3U(ctx, req.ID, playlist.Name, paths, req.Portable)
}

func (w *Worker) processWriteM3U(ctx context.Context, req WriteM3URequest) {
	w.writeM3U(ctx, req.ID, req.Name, req.Paths, req.Portable)
}

func (w *Worker) writeM3U(ctx context.Context, id int, name string, paths []string, portable bool) {
	path, err := media.WriteM3U(name, paths, w.playlistPath, models.ProfileFor(portable))
	if err != nil {
		w.emit(ctx, JobError{ID: id, Error: "Failed to write playlist file: " + err.Error()})
		return
	}

	w.emit(ctx, M3UGenerated{ID: id, Path: path})
}

func (w *Worker) processDeleteFiles(ctx context.Context, req DeleteFilesRequest) {
	deleted := 0

	for _, path := range req.Paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			w.emitLog(req.ID, "Failed to delete "+path+": "+err.Error())
			continue
		}

		deleted++

		if req.FromCatalog {
			if _, err := w.db.RemoveByPath(path); err != nil {
				w.logger.Error("failed to drop catalog entry", "path", path, "err", err)
			}
		}
	}

	w.emit(ctx, FilesDeleted{ID: req.ID, Deleted: deleted})
}
