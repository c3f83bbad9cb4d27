package scan

import (
	"fmt"
	"time"
)

// ID is the stable filesystem identifier of an entry (the inode number).
type ID uint64

// Digest is a 32-byte content hash.
type Digest [32]byte

// Directory is a directory visited during a walk. Parent is nil only for the
// walk root.
type Directory struct {
	ID     ID
	Name   string
	Parent *Directory
}

// ParentID returns the identifier of the enclosing directory, if any.
func (d *Directory) ParentID() (ID, bool) {
	if d.Parent == nil {
		return 0, false
	}
	return d.Parent.ID, true
}

// File is a regular file visited during a walk. ContentHash is nil when the
// content could not be read.
type File struct {
	ID           ID
	Name         string
	LastModified time.Time
	AccessRights string
	ContentHash  *Digest
	Directory    *Directory
}

type Kind uint8

const (
	KindDirectory Kind = iota + 1
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindFile:
		return "file"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Entry is one element of a walk: exactly one of Dir or File is set,
// selected by Kind.
type Entry struct {
	Kind Kind
	Dir  *Directory
	File *File
}

func DirectoryEntry(d *Directory) Entry { return Entry{Kind: KindDirectory, Dir: d} }

func FileEntry(f *File) Entry { return Entry{Kind: KindFile, File: f} }

// Name returns the base name of the entry.
func (e Entry) Name() string {
	switch e.Kind {
	case KindDirectory:
		return e.Dir.Name
	case KindFile:
		return e.File.Name
	}
	return ""
}

// AccessRights renders the permission bits of mode as three octal digits
// (owner, group, other).
func AccessRights(mode uint32) string {
	return fmt.Sprintf("%03o", mode&0o777)
}
