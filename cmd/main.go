package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/wavedl/internal/services"
	"github.com/desertthunder/wavedl/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var catalog services.Catalog
	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(config.Credentials.Spotify.ClientID, config.Credentials.Spotify.ClientSecret); err == nil {
			catalog = svc
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Catalog: catalog,
		YouTube: services.NewYouTubeService(),
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "wavedl",
		Usage:    "Download, convert, and tag music from streaming links",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}

		logger.Fatalf("application error: %v", err)
	}
}
