package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const createSessionsTable = `CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	snapshot   BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteStore keeps encoded sessions in a single sessions table.
type SQLiteStore[T any] struct {
	db    *sql.DB
	codec Codec[T]
	now   func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite[T any](path string, codec Codec[T]) (*SQLiteStore[T], error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(createSessionsTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sessions table: %w", err)
	}
	return &SQLiteStore[T]{db: db, codec: codec, now: time.Now}, nil
}

func (s *SQLiteStore[T]) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T
	if err := validID(id); err != nil {
		return zero, false, err
	}
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT snapshot FROM sessions WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("select session %s: %w", id, err)
	}
	v, err := s.codec.Decode(data)
	if err != nil {
		return zero, false, fmt.Errorf("decode session %s: %w", id, err)
	}
	return v, true, nil
}

func (s *SQLiteStore[T]) Put(ctx context.Context, id string, v T) error {
	if err := validID(id); err != nil {
		return err
	}
	data, err := s.codec.Encode(v)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, snapshot, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET snapshot = excluded.snapshot, updated_at = excluded.updated_at`,
		id, data, s.now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("upsert session %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore[T]) NewID() string { return newID() }
