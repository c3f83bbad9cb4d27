package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaochun-z/dirprofile/internal/preflight"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestProfileAndStats(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "structure")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "first"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "first", "file0.txt"), []byte("x"), 0o644))
	db := filepath.Join(dir, "data.db")
	logPath := filepath.Join(dir, "log.txt")

	out, err := runCmd(t, "-d", root, "-b", db, "-l", logPath, "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "found directory at: "+root)
	assert.Contains(t, out, "found file at: "+filepath.Join(root, "first", "file0.txt"))
	assert.Contains(t, out, "2 directories, 1 files")

	logged, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "Directory Profiler has finished operating")

	out, err = runCmd(t, "stats", "-b", db)
	require.NoError(t, err)
	assert.Contains(t, out, "directories: 2")
	assert.Contains(t, out, "files: 1")
	assert.Contains(t, out, "hash_algorithm: sha256")
}

func TestProfileRejectsMissingDirectory(t *testing.T) {
	dir := t.TempDir()
	_, err := runCmd(t, "-d", filepath.Join(dir, "missing_directory"), "-b", filepath.Join(dir, "data.db"), "-l", filepath.Join(dir, "log.txt"))
	assert.ErrorIs(t, err, preflight.ErrDirectoryMissing)
}

func TestProfileRejectsUncreatableDatabase(t *testing.T) {
	dir := t.TempDir()
	_, err := runCmd(t, "-d", dir, "-b", filepath.Join(dir, "missing_directory", "data.db"), "-l", filepath.Join(dir, "log.txt"))
	assert.ErrorIs(t, err, preflight.ErrFileNotCreatable)
}

func TestProfileRequiresDatabase(t *testing.T) {
	_, err := runCmd(t, "-d", t.TempDir())
	assert.Error(t, err)
}

func TestExplicitConfigMustExist(t *testing.T) {
	_, err := runCmd(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
