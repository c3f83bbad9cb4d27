//go:build unix

package scan

import (
	"io/fs"
	"time"

	"golang.org/x/sys/unix"
)

// statPath reports the fields of path the walk depends on. Symbolic links are
// followed.
func statPath(path string) (fileStat, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return fileStat{}, &fs.PathError{Op: "stat", Path: path, Err: err}
	}
	mode := uint32(st.Mode)
	kind := kindOther
	switch mode & unix.S_IFMT {
	case unix.S_IFDIR:
		kind = kindDir
	case unix.S_IFREG:
		kind = kindRegular
	}
	return fileStat{
		id:      ID(st.Ino),
		modTime: time.Unix(int64(st.Mtim.Sec), int64(st.Mtim.Nsec)),
		mode:    mode,
		kind:    kind,
	}, nil
}
