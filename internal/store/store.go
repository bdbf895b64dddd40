// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/tuilees/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for the progress slot and block history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS slots (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS block_runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			day INTEGER NOT NULL,
			block INTEGER NOT NULL,
			mode TEXT NOT NULL,
			elapsed_seconds INTEGER NOT NULL,
			words INTEGER NOT NULL,
			replay_count INTEGER NOT NULL,
			difficult_count INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_block_runs_ended_at ON block_runs(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_block_runs_day ON block_runs(day);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Put replaces the value stored under key.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().Format(time.RFC3339Nano))
	return err
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM slots WHERE key = ?`, key)
	return err
}

// InsertBlockRun stores a finished block.
func (s *Store) InsertBlockRun(ctx context.Context, run model.BlockRun) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO block_runs (id, started_at, ended_at, day, block, mode, elapsed_seconds, words, replay_count, difficult_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.Format(time.RFC3339Nano),
		run.EndedAt.Format(time.RFC3339Nano),
		run.Day,
		run.Block,
		run.Mode,
		run.ElapsedSeconds,
		run.Words,
		run.ReplayCount,
		run.DifficultCount,
	)
	return err
}

// ClearBlockRuns deletes the whole history.
func (s *Store) ClearBlockRuns(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM block_runs`)
	return err
}

// ListBlockRuns returns block runs filtered by stats config, oldest first.
func (s *Store) ListBlockRuns(ctx context.Context, cfg model.StatsConfig) ([]model.BlockRun, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Day > 0 {
		clauses = append(clauses, "day = ?")
		args = append(args, cfg.Day-1)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, started_at, ended_at, day, block, mode, elapsed_seconds, words, replay_count, difficult_count
		FROM block_runs
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.BlockRun
	for rows.Next() {
		var run model.BlockRun
		var startedAt, endedAt string
		if err := rows.Scan(&run.ID, &startedAt, &endedAt, &run.Day, &run.Block, &run.Mode,
			&run.ElapsedSeconds, &run.Words, &run.ReplayCount, &run.DifficultCount); err != nil {
			return nil, err
		}
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if run.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(runs) > cfg.Last {
		runs = runs[len(runs)-cfg.Last:]
	}
	return runs, nil
}
