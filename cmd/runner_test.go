package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/wavedl/internal/models"
	"github.com/desertthunder/wavedl/internal/shared"
	"github.com/desertthunder/wavedl/internal/store"
	"github.com/desertthunder/wavedl/internal/tasks"
	tu "github.com/desertthunder/wavedl/internal/testing"
)

func testRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()

	tmpDir := t.TempDir()
	output := &bytes.Buffer{}

	runner := NewRunner(RunnerOpts{
		Config:  shared.DefaultConfig(),
		Catalog: &tu.MockCatalog{},
		YouTube: &tu.MockCatalog{},
		DB:      store.OpenCatalog(filepath.Join(tmpDir, "songs.json")),
		Journal: store.OpenJournal(filepath.Join(tmpDir, "errors")),
		Output:  output,
	})

	return runner, output
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			catalog := &tu.MockCatalog{}
			youtube := &tu.MockCatalog{}

			runner := NewRunner(RunnerOpts{
				Config:  config,
				Logger:  logger,
				Output:  output,
				Catalog: catalog,
				YouTube: youtube,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.catalog != catalog {
				t.Error("expected catalog to be set")
			}
			if runner.youtube != youtube {
				t.Error("expected youtube to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.db == nil || runner.journal == nil {
				t.Error("expected stores to be opened from config paths")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner, _ := testRunner(t)

		commands := runner.register()
		if len(commands) != 8 {
			t.Errorf("expected 8 top-level commands, got %d", len(commands))
		}

		names := map[string]bool{}
		for _, c := range commands {
			names[c.Name] = true
		}
		for _, want := range []string{"init", "album", "playlist", "m3u", "library", "errors", "cleanup", "tui"} {
			if !names[want] {
				t.Errorf("missing command %q", want)
			}
		}
	})
}

func TestReport(t *testing.T) {
	t.Run("JobComplete terminates without error", func(t *testing.T) {
		runner, output := testRunner(t)

		done, err := runner.report(tasks.JobComplete{ID: 1, Name: "Artist - Album"})
		if !done || err != nil {
			t.Errorf("expected clean termination, got done=%v err=%v", done, err)
		}
		if !strings.Contains(output.String(), "Complete: Artist - Album") {
			t.Errorf("missing completion line, got: %s", output.String())
		}
	})

	t.Run("JobError terminates with error", func(t *testing.T) {
		runner, _ := testRunner(t)

		done, err := runner.report(tasks.JobError{ID: 1, Error: "fetch failed"})
		if !done || err == nil {
			t.Errorf("expected failure termination, got done=%v err=%v", done, err)
		}
	})

	t.Run("track events do not terminate", func(t *testing.T) {
		runner, output := testRunner(t)

		for _, ev := range []tasks.Event{
			tasks.MetadataFetched{ID: 1, Name: "A - B"},
			tasks.JobStarted{ID: 1, Name: "A - B", TotalTracks: 2},
			tasks.TrackStarted{ID: 1, Artist: "A", Title: "T", TrackNum: 1},
			tasks.TrackComplete{ID: 1, Artist: "A", Title: "T"},
			tasks.TrackSkipped{ID: 1, Artist: "A", Title: "U"},
		} {
			done, err := runner.report(ev)
			if done || err != nil {
				t.Errorf("event %#v should not terminate", ev)
			}
		}

		if !strings.Contains(output.String(), "skipped (already in library)") {
			t.Errorf("missing skip line, got: %s", output.String())
		}
	})

	t.Run("M3UConfirm suggests force", func(t *testing.T) {
		runner, output := testRunner(t)

		done, err := runner.report(tasks.M3UConfirm{ID: 1, Name: "Mix", Missing: []string{"A - Gone"}})
		if !done || !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected invalid input error, got done=%v err=%v", done, err)
		}
		if !strings.Contains(output.String(), "A - Gone") {
			t.Errorf("missing track listing absent, got: %s", output.String())
		}
	})
}

func TestErrorsSummaryCommand(t *testing.T) {
	runner, output := testRunner(t)
	runner.journal.AddDownloadError(store.NewDownloadError("l", "album", "mp3", "high", false, "A", "T", "boom"))

	app := &cli.Command{Name: "wavedl", Commands: runner.register()}
	if err := app.Run(context.Background(), []string{"wavedl", "errors", "summary"}); err != nil {
		t.Fatalf("summary failed: %v", err)
	}

	if !strings.Contains(output.String(), store.Today()) {
		t.Errorf("summary missing today's partition, got: %s", output.String())
	}
}

func TestErrorsListCommand(t *testing.T) {
	runner, output := testRunner(t)
	runner.journal.AddDownloadError(store.NewDownloadError("l", "album", "mp3", "high", false, "Artist", "Title", "boom"))

	app := &cli.Command{Name: "wavedl", Commands: runner.register()}
	if err := app.Run(context.Background(), []string{"wavedl", "errors", "list", "--json"}); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if !strings.Contains(output.String(), `"boom"`) {
		t.Errorf("JSON output missing entry, got: %s", output.String())
	}
}

func TestErrorsListDateFilter(t *testing.T) {
	runner, output := testRunner(t)
	runner.journal.AddDownloadError(store.NewDownloadError("l", "album", "mp3", "high", false, "Artist", "Title", "boom"))

	app := &cli.Command{Name: "wavedl", Commands: runner.register()}
	if err := app.Run(context.Background(), []string{"wavedl", "errors", "list", "--json", "--date", store.Today()}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(output.String(), `"boom"`) {
		t.Errorf("expected today's entry, got: %s", output.String())
	}

	output.Reset()
	if err := app.Run(context.Background(), []string{"wavedl", "errors", "list", "--json", "--date", "1999-01-01"}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if strings.Contains(output.String(), `"boom"`) {
		t.Errorf("expected no entries for 1999-01-01, got: %s", output.String())
	}
}

func TestFilterDate(t *testing.T) {
	downloads := []store.Dated[store.DownloadError]{
		{Date: "2026-08-29"},
		{Date: "2026-08-30"},
	}
	if got := filterDate(downloads, "2026-08-30"); len(got) != 1 || got[0].Date != "2026-08-30" {
		t.Errorf("expected one entry for 2026-08-30, got %v", got)
	}

	converts := []store.Dated[store.ConvertError]{{Date: "2026-08-30"}}
	if got := filterDate(converts, "2026-01-01"); len(got) != 0 {
		t.Errorf("expected no entries, got %v", got)
	}
}

func TestLibraryListCommand(t *testing.T) {
	runner, output := testRunner(t)
	runner.db.Add(models.TrackEntry{Artist: "Artist", Title: "Title", Path: "/music/t.mp3"})

	app := &cli.Command{Name: "wavedl", Commands: runner.register()}
	if err := app.Run(context.Background(), []string{"wavedl", "library", "list"}); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if !strings.Contains(output.String(), "Artist - Title") {
		t.Errorf("library listing missing track, got: %s", output.String())
	}
}

func TestLibraryExportCommand(t *testing.T) {
	runner, _ := testRunner(t)
	runner.db.Add(models.TrackEntry{Artist: "Artist", Title: "Title", Path: "/music/t.mp3"})

	out := filepath.Join(t.TempDir(), "export.csv")
	app := &cli.Command{Name: "wavedl", Commands: runner.register()}
	if err := app.Run(context.Background(), []string{"wavedl", "library", "export", "-f", "csv", "-o", out}); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	content := tu.MustReadFile(t, out)
	if !strings.Contains(content, "Artist,Title,Path") {
		t.Errorf("export missing CSV header, got: %s", content)
	}
}

func TestInitCommand(t *testing.T) {
	runner, output := testRunner(t)

	tmpDir := t.TempDir()
	originalDir := tu.MustGetwd(t)
	tu.MustChdir(t, tmpDir)
	defer tu.MustChdir(t, originalDir)

	app := &cli.Command{Name: "wavedl", Commands: runner.register()}
	if err := app.Run(context.Background(), []string{"wavedl", "init"}); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	tu.AssertFileExists(t, "config.toml")
	if !strings.Contains(output.String(), "config.toml") {
		t.Errorf("missing confirmation, got: %s", output.String())
	}

	// a second init must not clobber the existing file
	if err := app.Run(context.Background(), []string{"wavedl", "init"}); err == nil {
		t.Error("expected error when config.toml already exists")
	}
}

func TestParseKind(t *testing.T) {
	for name, want := range map[string]store.ErrorKind{
		"download": store.KindDownload,
		"convert":  store.KindConvert,
		"refresh":  store.KindRefresh,
	} {
		kind, err := parseKind(name)
		if err != nil || kind != want {
			t.Errorf("parseKind(%q) = %v, %v", name, kind, err)
		}
	}

	if _, err := parseKind("bogus"); !errors.Is(err, shared.ErrInvalidFlag) {
		t.Errorf("expected invalid flag error, got %v", err)
	}
}

func TestIsYouTubeLink(t *testing.T) {
	cases := map[string]bool{
		"https://www.youtube.com/playlist?list=PL123": true,
		"https://youtu.be/abc":                        true,
		"https://open.spotify.com/playlist/xyz":       false,
		"some search query":                           false,
	}

	for link, want := range cases {
		if got := isYouTubeLink(link); got != want {
			t.Errorf("isYouTubeLink(%q) = %v, want %v", link, got, want)
		}
	}
}
