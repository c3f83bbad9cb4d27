package store

import (
	"context"
	"fmt"
)

// HashSize is the length of every stored content hash.
const HashSize = 32

type FileRow struct {
	ID           int64
	DirectoryID  int64
	Name         string
	LastModified float64 // seconds since the Unix epoch
	AccessRights string
	ContentHash  []byte
}

// UpsertFile inserts the file or replaces the stored row with the same id. A
// row without a content hash is not written and written reports false.
func UpsertFile(ctx context.Context, q Querier, f FileRow) (written bool, err error) {
	if len(f.ContentHash) == 0 {
		return false, nil
	}
	if len(f.ContentHash) != HashSize {
		return false, fmt.Errorf("file %d: content hash is %d bytes, want %d", f.ID, len(f.ContentHash), HashSize)
	}
	_, err = q.ExecContext(ctx, `INSERT INTO files(id, directory, name, last_modification, access_rights, content_hash)
	VALUES (?,?,?,?,?,?)
	ON CONFLICT(id) DO UPDATE SET directory=excluded.directory, name=excluded.name,
	last_modification=excluded.last_modification, access_rights=excluded.access_rights,
	content_hash=excluded.content_hash`,
		f.ID, f.DirectoryID, f.Name, f.LastModified, f.AccessRights, f.ContentHash)
	if err != nil {
		return false, err
	}
	return true, nil
}

func GetFileRow(ctx context.Context, q Querier, id int64) (*FileRow, error) {
	row := q.QueryRowContext(ctx, `SELECT id, directory, name, last_modification, access_rights, content_hash
		FROM files WHERE id = ?`, id)
	var f FileRow
	if err := row.Scan(&f.ID, &f.DirectoryID, &f.Name, &f.LastModified, &f.AccessRights, &f.ContentHash); err != nil {
		return nil, err
	}
	return &f, nil
}
