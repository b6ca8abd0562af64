package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Library     LibraryConfig     `toml:"library"`
	Credentials CredentialsConfig `toml:"credentials"`
	Defaults    DefaultsConfig    `toml:"defaults"`
}

// LibraryConfig contains filesystem layout settings for the music library.
type LibraryConfig struct {
	MusicPath    string `toml:"music_path"`
	PlaylistPath string `toml:"playlist_path"`
	CachePath    string `toml:"cache_path"`
	ErrorsPath   string `toml:"errors_path"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials for the client-credentials flow.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// DefaultsConfig contains default download settings.
type DefaultsConfig struct {
	Format   string `toml:"format"`
	Quality  string `toml:"quality"`
	Portable bool   `toml:"portable"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// EnsureLibraryDirs creates the music, playlist, cache, and error-journal
// directories named by the library configuration.
func (c *Config) EnsureLibraryDirs() error {
	for _, dir := range []string{
		c.Library.MusicPath,
		c.Library.PlaylistPath,
		c.Library.ErrorsPath,
	} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if c.Library.CachePath != "" {
		if err := os.MkdirAll(filepath.Dir(c.Library.CachePath), 0755); err != nil {
			return fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	return nil
}
