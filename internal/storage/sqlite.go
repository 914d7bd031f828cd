// Package storage provides SQLite-based persistence for the career save
// and the race results archive. Uses the pure-Go modernc.org/sqlite driver
// to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-runner/internal/career"
	"github.com/vovakirdan/tui-runner/internal/race"
)

// careerKey is the fixed key the serialized career blob lives under.
const careerKey = "career"

// Store manages the SQLite database connection.
type Store struct {
	db *sqlx.DB
}

// ResultEntry is one archived race result.
type ResultEntry struct {
	ID        string  `db:"id"`
	RaceType  string  `db:"race_type"`
	Meet      string  `db:"meet"`
	Season    string  `db:"season"`
	Finished  bool    `db:"finished"`
	TimeSecs  float64 `db:"time_secs"`
	Position  int     `db:"position"`
	Score     int     `db:"score"`
	CreatedAt string  `db:"created_at"` // RFC 3339
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
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

	db, err := sqlx.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
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
		CREATE TABLE IF NOT EXISTS career (
			key TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS race_results (
			id TEXT PRIMARY KEY,
			race_type TEXT NOT NULL,
			meet TEXT NOT NULL,
			season TEXT NOT NULL,
			finished INTEGER NOT NULL,
			time_secs REAL NOT NULL,
			position INTEGER NOT NULL,
			score INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_results_type ON race_results(race_type);
		CREATE INDEX IF NOT EXISTS idx_results_created ON race_results(created_at DESC);
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

// SaveCareer serializes the full career state under the fixed key. It
// satisfies the career.Saver interface, so the ledger persists itself
// after every mutation.
func (s *Store) SaveCareer(stats career.PlayerStats) error {
	blob, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("storage: cannot encode career: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO career (key, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		careerKey, string(blob), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save career: %w", err)
	}
	return nil
}

// LoadCareer reads the career blob back. The second return is false when no
// save exists yet. A present but unparsable blob returns an error; callers
// log it and fall back to a fresh career.
func (s *Store) LoadCareer() (career.PlayerStats, bool, error) {
	var data string
	err := s.db.Get(&data, "SELECT data FROM career WHERE key = ?", careerKey)
	if errors.Is(err, sql.ErrNoRows) {
		return career.PlayerStats{}, false, nil
	}
	if err != nil {
		return career.PlayerStats{}, false, fmt.Errorf("storage: cannot load career: %w", err)
	}

	var stats career.PlayerStats
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return career.PlayerStats{}, false, fmt.Errorf("storage: corrupt career save: %w", err)
	}
	return stats, true, nil
}

// SaveResult archives one race result and returns its generated ID.
func (s *Store) SaveResult(res race.Result, meet, season string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO race_results
		 (id, race_type, meet, season, finished, time_secs, position, score, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, string(res.Type), meet, season, res.Finished,
		res.Time, res.Position, res.Score,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save result: %w", err)
	}
	return id, nil
}

// Results retrieves the most recent archived results, newest first.
func (s *Store) Results(limit int) ([]ResultEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	var entries []ResultEntry
	err := s.db.Select(&entries,
		`SELECT id, race_type, meet, season, finished, time_secs, position, score, created_at
		 FROM race_results
		 ORDER BY created_at DESC, id
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	return entries, nil
}

// BestResults retrieves the fastest finished result per race type.
func (s *Store) BestResults() ([]ResultEntry, error) {
	var entries []ResultEntry
	// SQLite resolves the bare columns from the row holding MIN(time_secs).
	err := s.db.Select(&entries,
		`SELECT id, race_type, meet, season, finished, MIN(time_secs) AS time_secs,
		        position, score, created_at
		 FROM race_results
		 WHERE finished = 1
		 GROUP BY race_type
		 ORDER BY race_type`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query best results: %w", err)
	}
	return entries, nil
}
