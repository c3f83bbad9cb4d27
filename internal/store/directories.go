package store

import (
	"context"
	"database/sql"
)

type DirectoryRow struct {
	ID       int64
	ParentID sql.NullInt64
	Name     string
}

// UpsertDirectory inserts the directory or replaces the stored row with the
// same id.
func UpsertDirectory(ctx context.Context, q Querier, d DirectoryRow) error {
	_, err := q.ExecContext(ctx, `INSERT INTO directories(id, parent_id, name) VALUES (?,?,?)
	ON CONFLICT(id) DO UPDATE SET parent_id=excluded.parent_id, name=excluded.name`,
		d.ID, d.ParentID, d.Name)
	return err
}

func getDirectoryRow(ctx context.Context, q Querier, id int64) (*DirectoryRow, error) {
	row := q.QueryRowContext(ctx, `SELECT id, parent_id, name FROM directories WHERE id = ?`, id)
	var d DirectoryRow
	if err := row.Scan(&d.ID, &d.ParentID, &d.Name); err != nil {
		return nil, err
	}
	return &d, nil
}
