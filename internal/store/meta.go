package store

import (
	"context"
)

const (
	MetaLastRoot      = "last_root"
	MetaLastRunAt     = "last_run_at"
	MetaHashAlgorithm = "hash_algorithm"
	MetaEntryCount    = "entry_count"
)

func GetMeta(ctx context.Context, q Querier, key string) (string, error) {
	row := q.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = ?", key)
	var val string
	if err := row.Scan(&val); err != nil {
		return "", err
	}
	return val, nil
}

func SetMeta(ctx context.Context, q Querier, key, value string) error {
	_, err := q.ExecContext(ctx, `INSERT INTO meta(key, value) VALUES(?, ?)
	ON CONFLICT(key) DO UPDATE SET value=excluded.value`, key, value)
	return err
}
