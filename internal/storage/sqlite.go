// Package storage provides SQLite-based persistence for finished puzzle
// sessions. Uses the pure-Go modernc.org/sqlite driver to avoid CGO.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Outcome is how a session ended.
type Outcome string

const (
	OutcomeWon  Outcome = "won"
	OutcomeLost Outcome = "lost"
	OutcomeQuit Outcome = "quit"
)

// Store manages the SQLite database connection for results.
type Store struct {
	db *sql.DB
}

// Result is one finished session.
type Result struct {
	ID        int64
	SessionID string
	Player    string
	Level     string
	Outcome   Outcome
	Moves     int
	Undos     int
	Skips     int
	Seconds   int
	CreatedAt time.Time
}

// LevelStats aggregates the results of one level.
type LevelStats struct {
	Level       string
	Plays       int
	Wins        int
	BestSeconds int // fastest win, 0 without wins
	FewestMoves int // fewest moves in a win, 0 without wins
	LastPlayed  time.Time
}

// NewSessionID returns a fresh identifier for a play session.
func NewSessionID() string {
	return uuid.NewString()
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			level TEXT NOT NULL,
			outcome TEXT NOT NULL,
			moves INTEGER NOT NULL DEFAULT 0,
			undos INTEGER NOT NULL DEFAULT 0,
			skips INTEGER NOT NULL DEFAULT 0,
			seconds INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_results_level ON results(level);
		CREATE INDEX IF NOT EXISTS idx_results_best ON results(level, outcome, seconds, moves);
		CREATE INDEX IF NOT EXISTS idx_results_session ON results(session_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveResult records a finished session and returns its row ID.
// An empty SessionID gets a fresh one.
func (s *Store) SaveResult(r Result) (int64, error) {
	if r.Level == "" {
		return 0, errors.New("storage: result without level")
	}
	if r.SessionID == "" {
		r.SessionID = NewSessionID()
	}
	res, err := s.db.Exec(
		`INSERT INTO results (session_id, player, level, outcome, moves, undos, skips, seconds)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.Player, r.Level, string(r.Outcome), r.Moves, r.Undos, r.Skips, r.Seconds,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save result: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

const resultColumns = `id, session_id, player, level, outcome, moves, undos, skips, seconds, created_at`

// TopResults returns the best wins for a level: fastest first, then
// fewest moves.
func (s *Store) TopResults(level string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.query(
		`SELECT `+resultColumns+`
		 FROM results
		 WHERE level = ? AND outcome = ?
		 ORDER BY seconds ASC, moves ASC, id ASC
		 LIMIT ?`,
		level, string(OutcomeWon), limit,
	)
}

// RecentResults returns the latest results across all levels.
func (s *Store) RecentResults(limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.query(
		`SELECT `+resultColumns+`
		 FROM results
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
}

// SessionResults returns every result of one play session in order.
func (s *Store) SessionResults(sessionID string) ([]Result, error) {
	return s.query(
		`SELECT `+resultColumns+`
		 FROM results
		 WHERE session_id = ?
		 ORDER BY id ASC`,
		sessionID,
	)
}

func (s *Store) query(q string, args ...any) ([]Result, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var outcome string
		var createdAt any
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Player, &r.Level, &outcome,
			&r.Moves, &r.Undos, &r.Skips, &r.Seconds, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Outcome = Outcome(outcome)
		r.CreatedAt = parseTime(createdAt)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return results, nil
}

// Levels returns the names of all levels with at least one result.
func (s *Store) Levels() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT level FROM results ORDER BY level`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query levels: %w", err)
	}
	defer rows.Close()

	var levels []string
	for rows.Next() {
		var level string
		if err := rows.Scan(&level); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		levels = append(levels, level)
	}
	return levels, rows.Err()
}

// Stats aggregates the results of one level.
func (s *Store) Stats(level string) (*LevelStats, error) {
	stats := &LevelStats{Level: level}
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(MIN(CASE WHEN outcome = ? THEN seconds END), 0),
		        COALESCE(MIN(CASE WHEN outcome = ? THEN moves END), 0),
		        MAX(created_at)
		 FROM results WHERE level = ?`,
		string(OutcomeWon), string(OutcomeWon), string(OutcomeWon), level,
	).Scan(&stats.Plays, &stats.Wins, &stats.BestSeconds, &stats.FewestMoves, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// ClearResults deletes all results of a level.
func (s *Store) ClearResults(level string) error {
	if _, err := s.db.Exec("DELETE FROM results WHERE level = ?", level); err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}

// parseTime accepts what the driver hands back for DATETIME columns.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse(time.DateTime, v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
