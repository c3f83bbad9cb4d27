package scan

import (
	"context"
	"math"
	"sync/atomic"
	"time"
)

// DefaultTolerance is the largest modification time difference, in seconds,
// still treated as "unchanged".
const DefaultTolerance = 0.0001

// Record is the previously persisted state of a file.
type Record struct {
	LastModified time.Time
	ContentHash  []byte
}

// RecordLookup finds the persisted record of a file. ok is false both when no
// record exists and when the lookup itself failed.
type RecordLookup interface {
	FileRecord(ctx context.Context, id ID) (rec Record, ok bool)
}

// ChangeDetector decides whether a stored hash may be reused instead of
// hashing a file again.
type ChangeDetector struct {
	lookup    RecordLookup
	tolerance float64

	reused atomic.Int64
	missed atomic.Int64
}

// NewChangeDetector returns a detector backed by lookup. A nil lookup disables
// reuse; a non-positive tolerance selects DefaultTolerance.
func NewChangeDetector(lookup RecordLookup, tolerance float64) *ChangeDetector {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &ChangeDetector{lookup: lookup, tolerance: tolerance}
}

// Reuse returns the stored hash of file id when its modification time matches
// modTime within the tolerance. Any doubt means the file must be hashed.
func (c *ChangeDetector) Reuse(ctx context.Context, id ID, modTime time.Time) (*Digest, bool) {
	if c == nil || c.lookup == nil {
		return nil, false
	}
	rec, ok := c.lookup.FileRecord(ctx, id)
	if !ok || len(rec.ContentHash) != len(Digest{}) {
		c.missed.Add(1)
		return nil, false
	}
	if math.Abs(UnixSeconds(modTime)-UnixSeconds(rec.LastModified)) >= c.tolerance {
		c.missed.Add(1)
		return nil, false
	}
	var d Digest
	copy(d[:], rec.ContentHash)
	c.reused.Add(1)
	return &d, true
}

// Reused reports how many lookups produced a reusable hash.
func (c *ChangeDetector) Reused() int64 {
	if c == nil {
		return 0
	}
	return c.reused.Load()
}

// misses reports how many lookups fell back to hashing.
func (c *ChangeDetector) misses() int64 {
	if c == nil {
		return 0
	}
	return c.missed.Load()
}

// UnixSeconds converts t to fractional seconds since the Unix epoch, the form
// modification times are persisted in.
func UnixSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}

// FromUnixSeconds is the inverse of UnixSeconds.
func FromUnixSeconds(s float64) time.Time {
	sec, frac := math.Modf(s)
	return time.Unix(int64(sec), int64(math.Round(frac*1e9)))
}
