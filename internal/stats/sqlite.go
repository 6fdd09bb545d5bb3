// internal/stats/sqlite.go
//
// SQL-backed Ledger over the users table. Increments are single UPDATE
// statements, so the database serializes same-user updates and a reader
// never observes a partial increment.

package stats

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLLedger persists counters in the users table (see sql/001_init.sql).
type SQLLedger struct {
	db *sql.DB
}

// NewSQLLedger wraps an open database handle.
func NewSQLLedger(db *sql.DB) *SQLLedger {
	return &SQLLedger{db: db}
}

func (l *SQLLedger) RecordWin(ctx context.Context, userID string) error {
	return l.bump(ctx, `UPDATE users SET wins = wins + 1 WHERE id=?`, userID)
}

func (l *SQLLedger) RecordLoss(ctx context.Context, userID string) error {
	return l.bump(ctx, `UPDATE users SET losses = losses + 1 WHERE id=?`, userID)
}

func (l *SQLLedger) bump(ctx context.Context, query, userID string) error {
	res, err := l.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("bump stats: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUnknownUser
	}
	return nil
}

func (l *SQLLedger) Stats(ctx context.Context, userID string) (UserStats, error) {
	var u UserStats
	err := l.db.QueryRowContext(ctx,
		`SELECT id, username, wins, losses FROM users WHERE id=?`, userID,
	).Scan(&u.UserID, &u.Username, &u.Wins, &u.Losses)
	if err == sql.ErrNoRows {
		return UserStats{}, ErrUnknownUser
	}
	if err != nil {
		return UserStats{}, fmt.Errorf("read stats: %w", err)
	}
	return u, nil
}

func (l *SQLLedger) Snapshot(ctx context.Context) ([]UserStats, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, username, wins, losses FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("snapshot stats: %w", err)
	}
	defer rows.Close()

	var out []UserStats
	for rows.Next() {
		var u UserStats
		if err := rows.Scan(&u.UserID, &u.Username, &u.Wins, &u.Losses); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
