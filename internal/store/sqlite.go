package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// tsLayout is fixed-width so finished_at sorts lexically.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLite stores results in the game_results table (see assets/sql).
type SQLite struct{ db *sql.DB }

// NewSQLiteStore wraps an opened, migrated database.
func NewSQLiteStore(db *sql.DB) *SQLite { return &SQLite{db: db} }

// Save inserts a result. Re-saving the same id is ignored.
func (s *SQLite) Save(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO game_results
            (id, session_id, game, outcome, turns, finished_at)
        VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.SessionID, r.Game, r.Outcome, r.Turns, r.FinishedAt.UTC().Format(tsLayout),
	)
	return err
}

// Get loads a single result.
func (s *SQLite) Get(ctx context.Context, id string) (Result, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, session_id, game, outcome, turns, finished_at
        FROM game_results WHERE id=?`, id)
	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, ErrNotFound
	}
	return r, err
}

// Recent returns the newest results first.
func (s *SQLite) Recent(ctx context.Context, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, session_id, game, outcome, turns, finished_at
        FROM game_results
        ORDER BY finished_at DESC, rowid DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Result, 0, limit)
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Totals counts results per game.
func (s *SQLite) Totals(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT game, COUNT(1) FROM game_results GROUP BY game`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{GameNumber: 0, GameWord: 0}
	for rows.Next() {
		var game string
		var n int
		if err := rows.Scan(&game, &n); err != nil {
			return nil, err
		}
		out[game] = n
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (Result, error) {
	var r Result
	var finished string
	if err := row.Scan(&r.ID, &r.SessionID, &r.Game, &r.Outcome, &r.Turns, &finished); err != nil {
		return Result{}, err
	}
	t, err := time.Parse(tsLayout, finished)
	if err != nil {
		return Result{}, fmt.Errorf("result %s finished_at: %w", r.ID, err)
	}
	r.FinishedAt = t
	return r, nil
}
