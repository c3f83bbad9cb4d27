// Package preflight checks the command-line paths before a profile run starts.
package preflight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

var (
	ErrDirectoryMissing  = errors.New("directory does not exist")
	ErrFileNotAccessible = errors.New("file cannot be opened for writing")
	ErrFileNotCreatable  = errors.New("file cannot be created")
)

// CheckDirectory verifies that path names an existing directory.
func CheckDirectory(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDirectoryMissing, path, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrDirectoryMissing, path)
	}
	return nil
}

// CheckOutputFile verifies that path can be written: an existing file must
// open read-write, a missing one must be creatable. A probe file created by
// the check is removed again.
func CheckOutputFile(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err == nil {
		return f.Close()
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s: %v", ErrFileNotAccessible, path, err)
	}
	f, err = os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFileNotCreatable, path, err)
	}
	f.Close()
	return os.Remove(path)
}
