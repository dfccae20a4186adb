package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Empty(t, cfg.BibFiles)
	assert.True(t, cfg.DBLP.Enabled)
	assert.True(t, cfg.History.Enabled)
}

func TestLoad_ParsesFullConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
bib_files = ["/refs/*.bib", "/papers/**.bib"]
bib_output = "/refs/own.bib"
key_list = "/refs/keys.txt"
log_file = "/tmp/bibrarian.log"

[history]
enabled = false

[dblp]
enabled = false
endpoint = "https://dblp.example.org"
requests_per_second = 0.5
burst = 1
`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"/refs/*.bib", "/papers/**.bib"}, cfg.BibFiles)
	assert.Equal(t, "/refs/own.bib", cfg.BibOutput)
	assert.Equal(t, "/refs/keys.txt", cfg.KeyList)
	assert.Equal(t, "/tmp/bibrarian.log", cfg.LogFile)
	assert.False(t, cfg.History.Enabled)
	assert.False(t, cfg.DBLP.Enabled)
	assert.Equal(t, "https://dblp.example.org", cfg.DBLP.Endpoint)
	assert.Equal(t, 0.5, cfg.DBLP.RequestsPerSecond)
	assert.Equal(t, 1, cfg.DBLP.Burst)
}

func TestLoad_PartialConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`bib_files = ["/refs/*.bib"]`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"/refs/*.bib"}, cfg.BibFiles)
	assert.True(t, cfg.DBLP.Enabled)
}

func TestLoad_RejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("bib_files = ["), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "refs", "a.bib"), expandHome("~/refs/a.bib"))
	assert.Equal(t, home, expandHome("~"))
	assert.Equal(t, "/abs/path.bib", expandHome("/abs/path.bib"))
	assert.Equal(t, "relative.bib", expandHome("relative.bib"))
}
