package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaochun-z/dirprofile/internal/scan"
)

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dirprofile.yaml")
	content := `directory: /srv/data
database: profile.db
hash: blake3
workers: 4
filter:
  exclude:
    - "*.tmp"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/data", c.Directory)
	assert.Equal(t, "profile.db", c.Database)
	assert.Equal(t, scan.AlgorithmBLAKE3, c.Hash)
	assert.Equal(t, 4, c.Workers)
	assert.Equal(t, DefaultLogPath, c.LogPath, "unset keys keep defaults")
	require.NotNil(t, c.Filter)
	assert.Equal(t, []string{"*.tmp"}, c.Filter.Exclude)
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
	require.NotNil(t, c)
	assert.Equal(t, scan.AlgorithmSHA256, c.Hash)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DIRPROFILE_DIRECTORY", "/env/dir")
	t.Setenv("DIRPROFILE_WORKERS", "8")
	t.Setenv("DIRPROFILE_VERBOSE", "true")
	t.Setenv("DIRPROFILE_TOLERANCE", "0.5")

	c := FromEnvFallback()
	assert.Equal(t, "/env/dir", c.Directory)
	assert.Equal(t, 8, c.Workers)
	assert.True(t, c.Verbose)
	assert.InDelta(t, 0.5, c.MtimeTolerance, 1e-9)
}

func TestValidate(t *testing.T) {
	c := Defaults()
	assert.Error(t, c.Validate(), "directory required")

	c.Directory = "/data"
	assert.Error(t, c.Validate(), "database required")

	c.Database = "p.db"
	c.Workers = 1000
	c.MtimeTolerance = 0
	require.NoError(t, c.Validate())
	assert.Equal(t, maxWorkers, c.Workers)
	assert.Equal(t, scan.DefaultTolerance, c.MtimeTolerance)

	c.Hash = "md5"
	assert.Error(t, c.Validate())
}
