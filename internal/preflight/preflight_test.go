package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDirectory(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, CheckDirectory(dir))
	assert.ErrorIs(t, CheckDirectory(filepath.Join(dir, "missing_directory")), ErrDirectoryMissing)

	file := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	assert.ErrorIs(t, CheckDirectory(file), ErrDirectoryMissing)
}

func TestCheckOutputFileCreatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")
	require.NoError(t, CheckOutputFile(path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "probe file must be removed")
}

func TestCheckOutputFileNotCreatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing_directory", "inaccessible.db")
	assert.ErrorIs(t, CheckOutputFile(path), ErrFileNotCreatable)
}

func TestCheckOutputFileReadOnly(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	path := filepath.Join(t.TempDir(), "inaccessible.db")
	require.NoError(t, os.WriteFile(path, nil, 0o400))
	assert.ErrorIs(t, CheckOutputFile(path), ErrFileNotAccessible)
}

func TestCheckOutputFileExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	assert.NoError(t, CheckOutputFile(path))
}
