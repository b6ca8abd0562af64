package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/wavedl/internal/formatter"
	"github.com/desertthunder/wavedl/internal/shared"
	"github.com/desertthunder/wavedl/internal/store"
	"github.com/desertthunder/wavedl/internal/tasks"
)

// errorsCommand browses and manages the error journal.
func errorsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "errors",
		Aliases: []string{"err"},
		Usage:   "Browse and manage the download error log",
		Commands: []*cli.Command{
			{
				Name:   "summary",
				Usage:  "Per-date error counts",
				Flags:  []cli.Flag{configFlag()},
				Action: r.ErrorsSummary,
			},
			{
				Name:  "list",
				Usage: "List error entries",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:    "kind",
						Aliases: []string{"k"},
						Usage:   "Error kind (download, convert, refresh)",
						Value:   "download",
					},
					&cli.StringFlag{
						Name:    "date",
						Aliases: []string{"d"},
						Usage:   "Only entries from this date (YYYY-MM-DD)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output JSON",
					},
					&cli.BoolFlag{
						Name:  "csv",
						Usage: "Output CSV",
					},
				},
				Action: r.ErrorsList,
			},
			{
				Name:  "retry",
				Usage: "Re-run the job recorded in an error entry",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.ErrorsRetry,
			},
			{
				Name:  "clear",
				Usage: "Remove error entries",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:    "date",
						Aliases: []string{"d"},
						Usage:   "Clear one date partition",
					},
					&cli.StringFlag{
						Name:    "kind",
						Aliases: []string{"k"},
						Usage:   "Clear one kind across all dates",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Clear the whole journal",
					},
				},
				Action: r.ErrorsClear,
			},
		},
	}
}

func parseKind(name string) (store.ErrorKind, error) {
	switch name {
	case "download":
		return store.KindDownload, nil
	case "convert":
		return store.KindConvert, nil
	case "refresh":
		return store.KindRefresh, nil
	default:
		return 0, fmt.Errorf("%w: kind must be download, convert, or refresh", shared.ErrInvalidFlag)
	}
}

// ErrorsSummary prints per-date counts for every kind.
func (r *Runner) ErrorsSummary(ctx context.Context, cmd *cli.Command) error {
	return r.writePlain("%s", string(formatter.ErrorSummaryToText(r.journal)))
}

// ErrorsList prints journal entries, newest first.
func (r *Runner) ErrorsList(ctx context.Context, cmd *cli.Command) error {
	kind, err := parseKind(cmd.String("kind"))
	if err != nil {
		return err
	}

	date := cmd.String("date")

	switch kind {
	case store.KindDownload:
		entries := r.journal.AllDownloadErrors()
		if date != "" {
			entries = filterDate(entries, date)
		}
		if cmd.Bool("json") {
			return r.writeJSON(entries, true)
		}
		if cmd.Bool("csv") {
			data, err := formatter.DownloadErrorsToCSV(entries)
			if err != nil {
				return err
			}
			return r.writePlain("%s", string(data))
		}
		for _, d := range entries {
			e := d.Entry
			name := e.Link
			if e.Title != "" {
				name = fmt.Sprintf("%s - %s", e.Artist, e.Title)
			}
			r.writePlain("%s  %s  %s (retries: %d)\n    %s\n", d.Date, e.ID, name, e.RetryCount, e.Error)
		}

	case store.KindConvert:
		entries := r.journal.AllConvertErrors()
		if date != "" {
			entries = filterDate(entries, date)
		}
		if cmd.Bool("json") {
			return r.writeJSON(entries, true)
		}
		if cmd.Bool("csv") {
			data, err := formatter.ConvertErrorsToCSV(entries)
			if err != nil {
				return err
			}
			return r.writePlain("%s", string(data))
		}
		for _, d := range entries {
			e := d.Entry
			r.writePlain("%s  %s  %s -> %s (retries: %d)\n    %s\n", d.Date, e.ID, e.InputPath, e.TargetFormat, e.RetryCount, e.Error)
		}

	case store.KindRefresh:
		entries := r.journal.AllRefreshErrors()
		if date != "" {
			entries = filterDate(entries, date)
		}
		if cmd.Bool("json") {
			return r.writeJSON(entries, true)
		}
		if cmd.Bool("csv") {
			data, err := formatter.RefreshErrorsToCSV(entries)
			if err != nil {
				return err
			}
			return r.writePlain("%s", string(data))
		}
		for _, d := range entries {
			e := d.Entry
			r.writePlain("%s  %s  %s (retries: %d)\n    %s\n", d.Date, e.ID, e.InputPath, e.RetryCount, e.Error)
		}
	}

	return nil
}

func filterDate[T any](entries []store.Dated[T], date string) []store.Dated[T] {
	var out []store.Dated[T]
	for _, e := range entries {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out
}

// ErrorsRetry rebuilds the request recorded in an entry and runs it. The
// worker removes the entry on success and bumps its retry counter on
// another failure.
func (r *Runner) ErrorsRetry(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: entry id", shared.ErrMissingArgument)
	}

	if date, e, ok := r.journal.FindDownloadError(id); ok {
		ref := &tasks.RetryRef{Kind: store.KindDownload, Date: date, ID: e.ID}
		switch e.LinkType {
		case "playlist":
			return r.runJob(ctx, tasks.PlaylistRequest{ID: 1, Link: e.Link, Format: e.Format, Quality: e.Quality, Portable: e.Portable, Retry: ref})
		case "youtube":
			return r.runJob(ctx, tasks.YouTubePlaylistRequest{ID: 1, Link: e.Link, Format: e.Format, Quality: e.Quality, Portable: e.Portable, Retry: ref})
		default:
			return r.runJob(ctx, tasks.AlbumRequest{ID: 1, Link: e.Link, Format: e.Format, Quality: e.Quality, Portable: e.Portable, Retry: ref})
		}
	}

	if date, e, ok := r.journal.FindConvertError(id); ok {
		return r.runJob(ctx, tasks.ConvertRequest{
			ID:              1,
			InputPath:       e.InputPath,
			Format:          e.TargetFormat,
			Quality:         e.Quality,
			RefreshMetadata: e.RefreshMetadata,
			Artist:          e.Artist,
			Title:           e.Title,
			Retry:           &tasks.RetryRef{Kind: store.KindConvert, Date: date, ID: e.ID},
		})
	}

	if date, e, ok := r.journal.FindRefreshError(id); ok {
		return r.runJob(ctx, tasks.RefreshRequest{
			ID:        1,
			InputPath: e.InputPath,
			Artist:    e.Artist,
			Title:     e.Title,
			Retry:     &tasks.RetryRef{Kind: store.KindRefresh, Date: date, ID: e.ID},
		})
	}

	return fmt.Errorf("%w: no error entry with id %s", shared.ErrResourceNotFound, id)
}

// ErrorsClear purges journal entries by date, kind, or entirely.
func (r *Runner) ErrorsClear(ctx context.Context, cmd *cli.Command) error {
	switch {
	case cmd.Bool("all"):
		return r.runJob(ctx, tasks.PurgeErrorsRequest{ID: 1, Scope: tasks.PurgeAll})
	case cmd.String("date") != "":
		return r.runJob(ctx, tasks.PurgeErrorsRequest{ID: 1, Scope: tasks.PurgeDate, Date: cmd.String("date")})
	case cmd.String("kind") != "":
		kind, err := parseKind(cmd.String("kind"))
		if err != nil {
			return err
		}
		return r.runJob(ctx, tasks.PurgeErrorsRequest{ID: 1, Scope: tasks.PurgeKind, Kind: kind})
	default:
		return fmt.Errorf("%w: pass --date, --kind, or --all", shared.ErrMissingArgument)
	}
}
