package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/wavedl/internal/formatter"
	"github.com/desertthunder/wavedl/internal/services"
	"github.com/desertthunder/wavedl/internal/shared"
	"github.com/desertthunder/wavedl/internal/store"
	"github.com/desertthunder/wavedl/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	catalog services.Catalog
	youtube services.Catalog
	db      *store.Catalog
	journal *store.Journal
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Catalog services.Catalog
	YouTube services.Catalog
	DB      *store.Catalog
	Journal *store.Journal
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.DB == nil {
		opts.DB = store.OpenCatalog(opts.Config.Library.CachePath)
	}
	if opts.Journal == nil {
		opts.Journal = store.OpenJournal(opts.Config.Library.ErrorsPath)
	}

	return &Runner{
		config:  opts.Config,
		catalog: opts.Catalog,
		youtube: opts.YouTube,
		db:      opts.DB,
		journal: opts.Journal,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		initCommand, albumCommand, playlistCommand, m3uCommand, libraryCommand, errorsCommand, cleanupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// newWorker builds a worker wired to the runner's stores and starts it.
// The returned cancel stops the worker goroutine.
func (r *Runner) newWorker(ctx context.Context) (*tasks.Worker, context.CancelFunc) {
	worker := tasks.NewWorker(tasks.WorkerConfig{
		Catalog:      r.catalog,
		YouTube:      r.youtube,
		Store:        r.db,
		Journal:      r.journal,
		MusicPath:    r.config.Library.MusicPath,
		PlaylistPath: r.config.Library.PlaylistPath,
		Logger:       r.logger,
	})

	ctx, cancel := context.WithCancel(ctx)
	go worker.Run(ctx)

	return worker, cancel
}

// runJob submits one request and drains the event stream to the output
// until the job finishes. Headless runs never delete files, so delete
// confirmations are acknowledged and dropped.
func (r *Runner) runJob(ctx context.Context, req tasks.Request) error {
	worker, cancel := r.newWorker(ctx)
	defer cancel()

	if !worker.Submit(req) {
		return fmt.Errorf("%w: request queue is full", shared.ErrServiceUnavailable)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-worker.Events():
			done, err := r.report(ev)
			if done {
				return err
			}
		}
	}
}

// report prints one worker event and says whether the job is finished.
func (r *Runner) report(ev tasks.Event) (bool, error) {
	switch e := ev.(type) {
	case tasks.MetadataFetched:
		r.writePlain("Found: %s\n", e.Name)
	case tasks.JobStarted:
		r.writePlain("Downloading %d tracks...\n", e.TotalTracks)
	case tasks.TrackStarted:
		r.writePlain("  [%d] %s - %s\n", e.TrackNum, e.Artist, e.Title)
	case tasks.TrackComplete:
		r.writePlain("  done: %s\n", e.Title)
	case tasks.TrackSkipped:
		r.writePlain("  skipped (already in library): %s - %s\n", e.Artist, e.Title)
	case tasks.TrackFailed:
		r.writePlain("  failed: %s - %s: %s\n", e.Artist, e.Title, e.Error)
	case tasks.LogLine:
		r.logger.Debug(e.Line)
	case tasks.JobComplete:
		r.writePlain("Complete: %s\n", e.Name)
		return true, nil
	case tasks.JobError:
		return true, fmt.Errorf("%s", e.Error)
	case tasks.ConvertStarted:
		r.writePlain("Converting %s...\n", e.InputPath)
	case tasks.ConvertComplete:
		r.writePlain("Converted: %s\n", e.OutputPath)
	case tasks.ConvertFailed:
		return true, fmt.Errorf("conversion failed: %s", e.Error)
	case tasks.ConvertDeleteConfirm:
		r.writePlain("Original kept: %s\n", e.Path)
		return true, nil
	case tasks.RefreshStarted:
		r.writePlain("Refreshing metadata for %s...\n", e.InputPath)
	case tasks.RefreshComplete:
		r.writePlain("Refreshed: %s\n", e.InputPath)
		return true, nil
	case tasks.RefreshFailed:
		return true, fmt.Errorf("metadata refresh failed: %s", e.Error)
	case tasks.M3UGenerated:
		r.writePlain("Playlist file written: %s\n", e.Path)
	case tasks.M3UConfirm:
		r.writePlain("%d tracks are not in the library:\n", len(e.Missing))
		for _, name := range e.Missing {
			r.writePlain("  %s\n", name)
		}
		return true, fmt.Errorf("%w: re-run with --force to write the playlist anyway", shared.ErrInvalidInput)
	case tasks.CleanupDone:
		r.writePlain("Removed %d of %d entries\n", e.Removed, e.TotalBefore)
		return true, nil
	case tasks.ErrorsPurged:
		return true, nil
	case tasks.FilesDeleted:
		r.writePlain("Deleted %d files\n", e.Deleted)
		return true, nil
	}

	return false, nil
}

// Init writes a starter config.toml and creates the library directories.
func (r *Runner) Init(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return err
	}
	if err := config.EnsureLibraryDirs(); err != nil {
		return err
	}

	r.writePlain("Wrote %s. Fill in your Spotify credentials before downloading.\n", path)
	return nil
}

// Album downloads a full album resolved from a link or search query.
func (r *Runner) Album(ctx context.Context, cmd *cli.Command) error {
	link := cmd.StringArg("link")
	if link == "" {
		return fmt.Errorf("%w: album link", shared.ErrMissingArgument)
	}
	if r.catalog == nil {
		return fmt.Errorf("%w: Spotify credentials not configured, run 'wavedl init'", shared.ErrMissingCredentials)
	}

	return r.runJob(ctx, tasks.AlbumRequest{
		ID:       1,
		Link:     link,
		Format:   cmd.String("format"),
		Quality:  cmd.String("quality"),
		Portable: cmd.Bool("portable"),
	})
}

// Playlist downloads a playlist. YouTube links are routed to yt-dlp's
// flat-playlist listing, everything else to the Spotify catalog.
func (r *Runner) Playlist(ctx context.Context, cmd *cli.Command) error {
	link := cmd.StringArg("link")
	if link == "" {
		return fmt.Errorf("%w: playlist link", shared.ErrMissingArgument)
	}

	if cmd.Bool("youtube") || isYouTubeLink(link) {
		return r.runJob(ctx, tasks.YouTubePlaylistRequest{
			ID:       1,
			Link:     link,
			Format:   cmd.String("format"),
			Quality:  cmd.String("quality"),
			Portable: cmd.Bool("portable"),
		})
	}

	if r.catalog == nil {
		return fmt.Errorf("%w: Spotify credentials not configured, run 'wavedl init'", shared.ErrMissingCredentials)
	}

	return r.runJob(ctx, tasks.PlaylistRequest{
		ID:       1,
		Link:     link,
		Format:   cmd.String("format"),
		Quality:  cmd.String("quality"),
		Portable: cmd.Bool("portable"),
	})
}

// M3U writes a playlist file from tracks already in the library.
func (r *Runner) M3U(ctx context.Context, cmd *cli.Command) error {
	link := cmd.StringArg("link")
	if link == "" {
		return fmt.Errorf("%w: playlist link", shared.ErrMissingArgument)
	}
	if r.catalog == nil {
		return fmt.Errorf("%w: Spotify credentials not configured, run 'wavedl init'", shared.ErrMissingCredentials)
	}

	return r.runJob(ctx, tasks.M3URequest{
		ID:       1,
		Link:     link,
		Portable: cmd.Bool("portable"),
		Force:    cmd.Bool("force"),
	})
}

// Cleanup drops catalog entries whose files no longer exist.
func (r *Runner) Cleanup(ctx context.Context, cmd *cli.Command) error {
	return r.runJob(ctx, tasks.CleanupRequest{ID: 1})
}

// LibraryList prints the catalog contents.
func (r *Runner) LibraryList(ctx context.Context, cmd *cli.Command) error {
	tracks := r.db.Tracks()

	if cmd.Bool("json") {
		return r.writeJSON(tracks, true)
	}

	data, err := formatter.LibraryToText(tracks)
	if err != nil {
		return err
	}

	return r.writePlain("%s", string(data))
}

// LibraryExport writes the catalog to a file in the requested format.
func (r *Runner) LibraryExport(ctx context.Context, cmd *cli.Command) error {
	tracks := r.db.Tracks()
	output := cmd.String("output")

	var path string
	var err error
	switch cmd.String("format") {
	case "csv":
		path, err = formatter.WriteCSVExport(tracks, output)
	case "json":
		path, err = formatter.WriteJSONExport(tracks, output)
	case "text":
		path, err = formatter.WriteTextExport(tracks, output)
	default:
		return fmt.Errorf("%w: format must be csv, json, or text", shared.ErrInvalidFlag)
	}
	if err != nil {
		return err
	}

	r.writePlain("Exported %d tracks to %s\n", len(tracks), path)
	return nil
}

func isYouTubeLink(link string) bool {
	return strings.Contains(link, "youtube.com") || strings.Contains(link, "youtu.be")
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
