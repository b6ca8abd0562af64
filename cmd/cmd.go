// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// downloadFlags are shared by every command that enqueues downloads.
func downloadFlags(r *Runner) []cli.Flag {
	return []cli.Flag{
		configFlag(),
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Audio format (mp3, flac, wav, aac)",
			Value:   r.config.Defaults.Format,
		},
		&cli.StringFlag{
			Name:    "quality",
			Aliases: []string{"q"},
			Usage:   "Audio quality (high, medium, low)",
			Value:   r.config.Defaults.Quality,
		},
		&cli.BoolFlag{
			Name:    "portable",
			Aliases: []string{"p"},
			Usage:   "Portable mode: force mp3, small covers, short filenames",
			Value:   r.config.Defaults.Portable,
		},
	}
}

// initCommand writes a starter configuration file.
func initCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "init",
		Usage:  "Create config.toml and the library directories",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Init,
	}
}

// albumCommand downloads a full album.
func albumCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "album",
		Usage: "Download an album from a Spotify link or ID",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "link"},
		},
		Flags:  downloadFlags(r),
		Action: r.Album,
	}
}

// playlistCommand downloads a Spotify or YouTube playlist.
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Download a playlist from a Spotify or YouTube link",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "link"},
		},
		Flags: append(downloadFlags(r),
			&cli.BoolFlag{
				Name:  "youtube",
				Usage: "Treat the link as a YouTube playlist",
			}),
		Action: r.Playlist,
	}
}

// m3uCommand writes a playlist file from library tracks.
func m3uCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "m3u",
		Usage: "Generate an M3U file for a playlist from tracks already downloaded",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "link"},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Write the playlist even when some tracks are missing",
			},
			&cli.BoolFlag{
				Name:    "portable",
				Aliases: []string{"p"},
				Usage:   "Shorten the playlist filename for portable devices",
			},
		},
		Action: r.M3U,
	}
}

// libraryCommand inspects and exports the download catalog.
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Inspect the download catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Print all cataloged tracks",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output JSON",
					},
				},
				Action: r.LibraryList,
			},
			{
				Name:  "export",
				Usage: "Export the catalog to a file",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (csv, json, text)",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
				},
				Action: r.LibraryExport,
			},
		},
	}
}

// cleanupCommand prunes catalog entries with missing files.
func cleanupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "cleanup",
		Usage:  "Remove catalog entries whose files no longer exist",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Cleanup,
	}
}

// tuiCommand returns the top-level TUI command for interactive use.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive download manager",
		Action:  r.TUI,
	}
}
