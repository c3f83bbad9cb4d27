//go:build !unix

package scan

import "io/fs"

func statPath(path string) (fileStat, error) {
	return fileStat{}, &fs.PathError{Op: "stat", Path: path, Err: ErrUnsupportedPlatform}
}
