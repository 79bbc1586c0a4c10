// Package history records fetched Gemini URLs in a SQLite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/adamwoolhether/geminer/response"
)

// DefaultLimit caps List when no limit is given.
const DefaultLimit = 20

// Entry is one fetch. Status is zero and Error set when the request
// failed before a response was parsed.
type Entry struct {
	ID        string          `json:"id" yaml:"id"`
	URL       string          `json:"url" yaml:"url"`
	Host      string          `json:"host" yaml:"host"`
	Status    response.Status `json:"status,omitempty" yaml:"status,omitempty"`
	Meta      string          `json:"meta,omitempty" yaml:"meta,omitempty"`
	BodySize  int             `json:"body_size" yaml:"body_size"`
	Error     string          `json:"error,omitempty" yaml:"error,omitempty"`
	Duration  time.Duration   `json:"duration" yaml:"duration"`
	FetchedAt time.Time       `json:"fetched_at" yaml:"fetched_at"`
}

// ListParams filters List.
type ListParams struct {
	Host  string
	Limit int
}

// SQLiteStore keeps entries in the "requests" table.
type SQLiteStore struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewSQLiteStore opens or creates the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close releases the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS requests (
		id          TEXT PRIMARY KEY,
		url         TEXT NOT NULL,
		host        TEXT NOT NULL,
		status      INTEGER NOT NULL DEFAULT 0,
		meta        TEXT NOT NULL DEFAULT '',
		body_size   INTEGER NOT NULL DEFAULT 0,
		error       TEXT NOT NULL DEFAULT '',
		duration_ns INTEGER NOT NULL DEFAULT 0,
		fetched_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_requests_host ON requests(host, id DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) newID(t time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}

// Record stores e, filling in ID and FetchedAt, and returns the stored
// entry.
func (s *SQLiteStore) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.FetchedAt.IsZero() {
		e.FetchedAt = time.Now()
	}
	e.FetchedAt = e.FetchedAt.UTC()
	e.ID = s.newID(e.FetchedAt)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO requests (id, url, host, status, meta, body_size, error, duration_ns, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.URL, e.Host, int(e.Status), e.Meta, e.BodySize, e.Error, int64(e.Duration), e.FetchedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert request: %w", err)
	}

	return e, nil
}

// List returns entries newest first.
func (s *SQLiteStore) List(ctx context.Context, p ListParams) ([]Entry, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	query := `SELECT id, url, host, status, meta, body_size, error, duration_ns, fetched_at FROM requests`
	var args []any
	if p.Host != "" {
		query += ` WHERE host = ?`
		args = append(args, p.Host)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query requests: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			status    int
			duration  int64
			fetchedAt string
		)
		if err := rows.Scan(&e.ID, &e.URL, &e.Host, &status, &e.Meta, &e.BodySize, &e.Error, &duration, &fetchedAt); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}

		e.Status = response.Status(status)
		e.Duration = time.Duration(duration)
		e.FetchedAt, err = time.Parse(time.RFC3339Nano, fetchedAt)
		if err != nil {
			return nil, fmt.Errorf("parse fetched_at %q: %w", fetchedAt, err)
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}
