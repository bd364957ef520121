// Package snapshot saves and restores store state in a SQLite file.
//
// A snapshot is written only when the caller asks for it; records created after
// the last Save are not recovered by Load.
package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/ugur10/course-store/internal/record"
	"github.com/ugur10/course-store/internal/resource"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Exporter is a store whose state can be saved.
type Exporter interface {
	Export(ctx context.Context) resource.State
}

// Importer is a store whose state can be restored.
type Importer interface {
	Import(ctx context.Context, state resource.State) error
}

// DB is a SQLite file holding one snapshot per resource name.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens or creates the snapshot file at path.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, errors.New("snapshot path must not be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		resource TEXT PRIMARY KEY,
		next_id INTEGER NOT NULL,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create snapshots table: %w", err)
	}
	return &DB{db: db, path: path}, nil
}

// Path returns the file backing the snapshot database.
func (d *DB) Path() string { return d.path }

// Close releases the database handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// Save writes the current state of src under name, replacing any earlier snapshot.
func (d *DB) Save(ctx context.Context, name string, src Exporter) error {
	state := src.Export(ctx)
	payload, err := json.Marshal(state.Records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if _, err := d.db.ExecContext(ctx,
		`INSERT INTO snapshots(resource, next_id, payload) VALUES(?, ?, ?)
		ON CONFLICT(resource) DO UPDATE SET next_id = excluded.next_id, payload = excluded.payload`,
		name, state.NextID, payload); err != nil {
		return fmt.Errorf("upsert %s: %w", name, err)
	}
	return nil
}

// Load restores the snapshot saved under name into dst. It reports false
// without touching dst when no snapshot exists.
func (d *DB) Load(ctx context.Context, name string, dst Importer) (bool, error) {
	var (
		nextID  int64
		payload []byte
	)
	err := d.db.QueryRowContext(ctx, `SELECT next_id, payload FROM snapshots WHERE resource = ?`, name).
		Scan(&nextID, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("select %s: %w", name, err)
	}

	var records []record.Record
	if err := json.Unmarshal(payload, &records); err != nil {
		return false, fmt.Errorf("decode %s: %w", name, err)
	}
	if err := dst.Import(ctx, resource.State{NextID: nextID, Records: records}); err != nil {
		return false, fmt.Errorf("import %s: %w", name, err)
	}
	return true, nil
}
