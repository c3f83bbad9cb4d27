package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/xiaochun-z/dirprofile/internal/scan"
)

// Gateway is the single access point to a profile database for one run.
type Gateway struct {
	db *sql.DB
}

func NewGateway(db *sql.DB) *Gateway { return &Gateway{db: db} }

// FileRecord implements scan.RecordLookup. Missing rows and failed lookups are
// both reported as absent.
func (g *Gateway) FileRecord(ctx context.Context, id scan.ID) (scan.Record, bool) {
	f, err := GetFileRow(ctx, g.db, int64(id))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Debug("file record lookup failed", "id", id, "error", err)
		}
		return scan.Record{}, false
	}
	return scan.Record{
		LastModified: scan.FromUnixSeconds(f.LastModified),
		ContentHash:  f.ContentHash,
	}, true
}

// Meta returns the stored value of key.
func (g *Gateway) Meta(ctx context.Context, key string) (string, bool) {
	v, err := GetMeta(ctx, g.db, key)
	if err != nil {
		return "", false
	}
	return v, true
}

type PersistStats struct {
	Directories  int
	Files        int
	SkippedFiles int
}

// Persist writes entries, in order, and the meta values in a single
// transaction. Nothing is committed if any write fails.
func (g *Gateway) Persist(ctx context.Context, entries []scan.Entry, meta map[string]string) (stats PersistStats, err error) {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, e := range entries {
		switch e.Kind {
		case scan.KindDirectory:
			if err = UpsertDirectory(ctx, tx, directoryRow(e.Dir)); err != nil {
				return stats, fmt.Errorf("upsert directory %s: %w", e.Dir.Name, err)
			}
			stats.Directories++
		case scan.KindFile:
			var written bool
			if written, err = UpsertFile(ctx, tx, fileRow(e.File)); err != nil {
				return stats, fmt.Errorf("upsert file %s: %w", e.File.Name, err)
			}
			if written {
				stats.Files++
			} else {
				stats.SkippedFiles++
			}
		default:
			err = fmt.Errorf("unknown entry %s", e.Kind)
			return stats, err
		}
	}

	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err = SetMeta(ctx, tx, k, meta[k]); err != nil {
			return stats, fmt.Errorf("set meta %s: %w", k, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return stats, fmt.Errorf("commit: %w", err)
	}
	return stats, nil
}

func directoryRow(d *scan.Directory) DirectoryRow {
	r := DirectoryRow{ID: int64(d.ID), Name: d.Name}
	if pid, ok := d.ParentID(); ok {
		r.ParentID = sql.NullInt64{Int64: int64(pid), Valid: true}
	}
	return r
}

func fileRow(f *scan.File) FileRow {
	r := FileRow{
		ID:           int64(f.ID),
		DirectoryID:  int64(f.Directory.ID),
		Name:         f.Name,
		LastModified: scan.UnixSeconds(f.LastModified),
		AccessRights: f.AccessRights,
	}
	if f.ContentHash != nil {
		r.ContentHash = f.ContentHash[:]
	}
	return r
}

// Counts summarises what a profile database holds.
type Counts struct {
	Directories int64
	Files       int64
	Meta        map[string]string
}

func (g *Gateway) Counts(ctx context.Context) (Counts, error) {
	c := Counts{Meta: map[string]string{}}
	if err := g.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM directories`).Scan(&c.Directories); err != nil {
		return c, fmt.Errorf("count directories: %w", err)
	}
	if err := g.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM files`).Scan(&c.Files); err != nil {
		return c, fmt.Errorf("count files: %w", err)
	}
	rows, err := g.db.QueryContext(ctx, `SELECT key, value FROM meta ORDER BY key`)
	if err != nil {
		return c, fmt.Errorf("read meta: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return c, err
		}
		c.Meta[k] = v
	}
	return c, rows.Err()
}
