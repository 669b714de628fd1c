package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Metadata keys maintained by the store itself.
const (
	MetaSchemaVersion  = "schema_version"
	MetaLastSnapshotAt = "last_snapshot_at"
)

const upsertMetadata = `
	INSERT INTO metadata (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value
`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// GetMetadata returns the value stored under key, or ErrNotFound.
func (d *Database) GetMetadata(ctx context.Context, key string) (value string, err error) {
	start := time.Now()
	defer func() { recordQuery("get_metadata", start, ignoreNotFound(err)) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var v sql.NullString
	err = d.db.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return v.String, err
}

// SetMetadata stores value under key.
func (d *Database) SetMetadata(ctx context.Context, key, value string) (err error) {
	start := time.Now()
	defer func() { recordQuery("set_metadata", start, err) }()

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return setMetadata(ctx, d.db, key, value)
}

func setMetadata(ctx context.Context, ex execer, key, value string) error {
	_, err := ex.ExecContext(ctx, upsertMetadata, key, value)
	return err
}

// SchemaVersionOf returns the schema version recorded in the file.
func (d *Database) SchemaVersionOf(ctx context.Context) (string, error) {
	return d.GetMetadata(ctx, MetaSchemaVersion)
}

// LastSnapshotAt returns when the last snapshot was committed, or the zero
// time if none was.
func (d *Database) LastSnapshotAt(ctx context.Context) (time.Time, error) {
	value, err := d.GetMetadata(ctx, MetaLastSnapshotAt)
	if errors.Is(err, ErrNotFound) || (err == nil && value == "") {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, value)
}
