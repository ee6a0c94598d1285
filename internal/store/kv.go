package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// KVRecord is a raw progress record as listed by KVRepo.List.
type KVRecord struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

// KVRepo is a durable key-value table. It satisfies progress.Backend and
// progress.KeyLister.
type KVRepo struct {
	db *sql.DB
}

func (r *KVRepo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM progress_kv WHERE key = ?`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (r *KVRepo) Put(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO progress_kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

func (r *KVRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM progress_kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// List returns every record whose key starts with prefix, ordered by key.
func (r *KVRepo) List(ctx context.Context, prefix string) ([]KVRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key, value, updated_at FROM progress_kv WHERE substr(key, 1, ?) = ? ORDER BY key`,
		len(prefix), prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	var out []KVRecord
	for rows.Next() {
		var rec KVRecord
		var updated int64
		if err := rows.Scan(&rec.Key, &rec.Value, &updated); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		rec.UpdatedAt = time.UnixMilli(updated)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Keys returns the keys starting with prefix, ordered.
func (r *KVRepo) Keys(ctx context.Context, prefix string) ([]string, error) {
	recs, err := r.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(recs))
	for i, rec := range recs {
		keys[i] = rec.Key
	}
	return keys, nil
}

// DeletePrefix removes every record whose key starts with prefix and
// returns how many were removed.
func (r *KVRepo) DeletePrefix(ctx context.Context, prefix string) (int64, error) {
	if strings.TrimSpace(prefix) == "" {
		return 0, errors.New("refusing to delete with empty prefix")
	}
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM progress_kv WHERE substr(key, 1, ?) = ?`, len(prefix), prefix)
	if err != nil {
		return 0, fmt.Errorf("delete progress: %w", err)
	}
	return res.RowsAffected()
}
