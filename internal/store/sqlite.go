package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	_ "github.com/mattn/go-sqlite3"

	"github.com/i474232898/fire-risk-dashboard/internal/firerisk"
)

const schema = `
CREATE TABLE IF NOT EXISTS assessments (
    id          TEXT PRIMARY KEY,
    checked_at  INTEGER NOT NULL,
    risk_code   INTEGER NOT NULL,
    payload     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_assessments_checked_at ON assessments(checked_at);
`

// SQLiteStore persists assessments in a SQLite database so history survives
// restarts.
type SQLiteStore struct {
	db     *sql.DB
	maxAge time.Duration
	clock  clockwork.Clock
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string, maxAge time.Duration, clock clockwork.Clock) (*SQLiteStore, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer (the refresh loop); readers share the same connection pool.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db, maxAge: maxAge, clock: clock}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveAssessment inserts an assessment and prunes rows older than maxAge.
func (s *SQLiteStore) SaveAssessment(a firerisk.Assessment) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode assessment: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO assessments (id, checked_at, risk_code, payload) VALUES (?, ?, ?, ?)`,
		a.ID, a.CheckedAt.UnixNano(), a.Current.Code, string(payload),
	); err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}

	if s.maxAge > 0 {
		cutoff := s.clock.Now().Add(-s.maxAge).UnixNano()
		if _, err := tx.Exec(
			`DELETE FROM assessments WHERE checked_at < ? AND id <> ?`, cutoff, a.ID,
		); err != nil {
			return fmt.Errorf("prune assessments: %w", err)
		}
	}
	return tx.Commit()
}

// GetLatest returns the most recent assessment.
func (s *SQLiteStore) GetLatest() (firerisk.Assessment, error) {
	var payload string
	err := s.db.QueryRow(
		`SELECT payload FROM assessments ORDER BY checked_at DESC LIMIT 1`,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return firerisk.Assessment{}, ErrNotFound
	}
	if err != nil {
		return firerisk.Assessment{}, fmt.Errorf("query latest: %w", err)
	}
	return decodeAssessment(payload)
}

// GetRange returns all assessments checked between from and to (inclusive).
func (s *SQLiteStore) GetRange(from, to time.Time) ([]firerisk.Assessment, error) {
	rows, err := s.db.Query(
		`SELECT payload FROM assessments WHERE checked_at BETWEEN ? AND ? ORDER BY checked_at ASC`,
		from.UnixNano(), to.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("query range: %w", err)
	}
	defer rows.Close()

	var result []firerisk.Assessment
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		a, err := decodeAssessment(payload)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

func decodeAssessment(payload string) (firerisk.Assessment, error) {
	var a firerisk.Assessment
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		return firerisk.Assessment{}, fmt.Errorf("decode assessment: %w", err)
	}
	return a, nil
}
