package scan

import (
	"errors"
	"time"
)

// ErrUnsupportedPlatform is returned where the platform offers no stable
// file identifier the walk can use.
var ErrUnsupportedPlatform = errors.New("platform does not expose inode numbers")

type statKind uint8

const (
	kindOther statKind = iota
	kindDir
	kindRegular
)

type fileStat struct {
	id      ID
	modTime time.Time
	mode    uint32
	kind    statKind
}
