// Package store keeps the attempt journal: one SQLite row per verified
// submission.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"codequest/internal/logging"
)

// Attempt is one recorded verification.
type Attempt struct {
	ID          string
	CharacterID string
	Character   string
	ChallengeID string
	Success     bool
	Passed      int
	Total       int
	Elapsed     time.Duration
	Source      string
	Feedback    []string
	CreatedAt   time.Time
}

// Summary aggregates the attempts at one challenge.
type Summary struct {
	ChallengeID string
	Attempts    int
	Successes   int
	// BestElapsed is the fastest successful attempt; zero without one.
	BestElapsed time.Duration
	LastAttempt time.Time
}

// Journal records attempts in SQLite.
type Journal struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open opens or creates the journal database at path.
func Open(path string) (*Journal, error) {
	logging.Store("Opening attempt journal at %s", path)

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			logging.StoreDebug("%s failed: %v", pragma, err)
		}
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if _, err := RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Journal{db: db, path: path, now: time.Now}, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Path returns the database file path.
func (j *Journal) Path() string { return j.path }

// Record stores a, assigning its ID and timestamp when unset.
func (j *Journal) Record(ctx context.Context, a Attempt) (Attempt, error) {
	if strings.TrimSpace(a.ChallengeID) == "" {
		return a, errors.New("attempt has no challenge id")
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = j.now().UTC()
	}
	feedback, err := json.Marshal(a.Feedback)
	if err != nil {
		return a, fmt.Errorf("failed to marshal feedback: %w", err)
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO attempts (id, character_id, character_name, challenge_id, success,
			passed, total, elapsed_ns, source, feedback_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.CharacterID, a.Character, a.ChallengeID, a.Success,
		a.Passed, a.Total, a.Elapsed.Nanoseconds(), a.Source, string(feedback),
		a.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return a, fmt.Errorf("failed to record attempt: %w", err)
	}
	logging.StoreDebug("Recorded attempt %s at %s (success=%v)", a.ID, a.ChallengeID, a.Success)
	return a, nil
}

const attemptColumns = `id, character_id, character_name, challenge_id, success,
	passed, total, elapsed_ns, source, feedback_json, created_at`

// Recent returns the latest attempts, newest first. limit <= 0 means 20.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = 20
	}
	return j.query(ctx, `SELECT `+attemptColumns+` FROM attempts
		ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
}

// ForChallenge returns the attempts at one challenge, newest first.
func (j *Journal) ForChallenge(ctx context.Context, challengeID string, limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = 20
	}
	return j.query(ctx, `SELECT `+attemptColumns+` FROM attempts
		WHERE challenge_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`, challengeID, limit)
}

func (j *Journal) query(ctx context.Context, q string, args ...any) ([]Attempt, error) {
	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts: %w", err)
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var (
			a        Attempt
			elapsed  int64
			feedback string
			created  string
		)
		if err := rows.Scan(&a.ID, &a.CharacterID, &a.Character, &a.ChallengeID, &a.Success,
			&a.Passed, &a.Total, &elapsed, &a.Source, &feedback, &created); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		a.Elapsed = time.Duration(elapsed)
		if feedback != "" {
			if err := json.Unmarshal([]byte(feedback), &a.Feedback); err != nil {
				logging.StoreDebug("Attempt %s has unreadable feedback: %v", a.ID, err)
			}
		}
		if a.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			logging.StoreDebug("Attempt %s has unreadable timestamp %q: %v", a.ID, created, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Summarize aggregates the attempts at challengeID.
func (j *Journal) Summarize(ctx context.Context, challengeID string) (Summary, error) {
	s := Summary{ChallengeID: challengeID}
	var (
		best sql.NullInt64
		last sql.NullString
	)
	err := j.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN success THEN 1 ELSE 0 END), 0),
			MIN(CASE WHEN success THEN elapsed_ns END),
			MAX(created_at)
		FROM attempts WHERE challenge_id = ?`, challengeID).
		Scan(&s.Attempts, &s.Successes, &best, &last)
	if err != nil {
		return s, fmt.Errorf("failed to summarize attempts: %w", err)
	}
	if best.Valid {
		s.BestElapsed = time.Duration(best.Int64)
	}
	if last.Valid {
		s.LastAttempt, _ = time.Parse(time.RFC3339Nano, last.String)
	}
	return s, nil
}
