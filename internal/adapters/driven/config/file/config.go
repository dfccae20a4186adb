package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DefaultDir is the configuration directory under the user's home.
const DefaultDir = ".bibrarian"

// ConfigName is the configuration file name inside the directory.
const ConfigName = "config.toml"

// Config is the whole tool configuration.
type Config struct {
	// BibFiles are the glob patterns of the read-only local sources, one
	// source per pattern.
	BibFiles []string `toml:"bib_files"`

	// BibOutput is the glob of the read-write output source. It must
	// resolve to at most one file. Empty disables write-back.
	BibOutput string `toml:"bib_output"`

	// KeyList is the file receiving the selected citation keys on commit.
	// Empty disables the key list.
	KeyList string `toml:"key_list"`

	// LogFile receives the log output. The terminal belongs to the UI, so
	// logging to stderr would corrupt the display. Empty disables logging
	// to file.
	LogFile string `toml:"log_file"`

	// History configures the query history store.
	History HistoryConfig `toml:"history"`

	// DBLP configures the remote source.
	DBLP DBLPConfig `toml:"dblp"`
}

// HistoryConfig configures the query history store.
type HistoryConfig struct {
	// Enabled toggles history recording. Defaults to on.
	Enabled bool `toml:"enabled"`

	// Path is the SQLite database file. Empty means the default location
	// next to the configuration file.
	Path string `toml:"path"`
}

// DBLPConfig configures the remote DBLP source.
type DBLPConfig struct {
	// Enabled toggles the source. Defaults to on.
	Enabled bool `toml:"enabled"`

	// Endpoint overrides the API base URL. Empty means the public instance.
	Endpoint string `toml:"endpoint"`

	// RequestsPerSecond caps the request rate. Zero means the built-in
	// conservative default.
	RequestsPerSecond float64 `toml:"requests_per_second"`

	// Burst is the token bucket burst size. Zero means the default.
	Burst int `toml:"burst"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		History: HistoryConfig{Enabled: true},
		DBLP:    DBLPConfig{Enabled: true},
	}
}

// DefaultPath returns the default configuration file path.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultDir, ConfigName), nil
}

// Load reads the configuration from path. An empty path means the
// default location; a missing file yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return Config{}, err
		}
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, err
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.expandPaths()
	return cfg, nil
}

// expandPaths resolves a leading ~ in every configured path.
func (c *Config) expandPaths() {
	for i, pattern := range c.BibFiles {
		c.BibFiles[i] = expandHome(pattern)
	}
	c.BibOutput = expandHome(c.BibOutput)
	c.KeyList = expandHome(c.KeyList)
	c.LogFile = expandHome(c.LogFile)
	c.History.Path = expandHome(c.History.Path)
}

// HistoryPath returns the history database location, defaulting to the
// configuration directory.
func (c Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultDir, "history.db"), nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}
