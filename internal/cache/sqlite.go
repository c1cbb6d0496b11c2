package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/nhanzalone1/netgains/internal/brief"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists briefs in a local file so the CLI can reuse them
// between runs.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLiteStore opens (or creates) the cache database at dir/briefs.db.
func OpenSQLiteStore(dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "briefs.db"))
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS briefs (
		user_id    TEXT NOT NULL,
		day        TEXT NOT NULL,
		payload    TEXT NOT NULL,
		expires_at INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (user_id, day)
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating briefs table: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key Key) (*brief.Response, error) {
	var (
		payload string
		expires int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, expires_at FROM briefs WHERE user_id = ? AND day = ?`,
		key.UserID.String(), key.Day.String(),
	).Scan(&payload, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("reading cached brief %s: %w", key, err)
	}
	if expires > 0 && s.now().Unix() >= expires {
		return nil, ErrMiss
	}

	var resp brief.Response
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling cached brief %s: %w", key, err)
	}
	return &resp, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key Key, resp *brief.Response, ttl time.Duration) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshaling brief %s: %w", key, err)
	}
	var expires int64
	if ttl > 0 {
		expires = s.now().Add(ttl).Unix()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO briefs (user_id, day, payload, expires_at) VALUES (?, ?, ?, ?)`,
		key.UserID.String(), key.Day.String(), string(data), expires,
	)
	if err != nil {
		return fmt.Errorf("writing cached brief %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM briefs WHERE user_id = ?`, userID.String()); err != nil {
		return fmt.Errorf("invalidating briefs for %s: %w", userID, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
