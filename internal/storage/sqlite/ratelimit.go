package sqlite

import (
	"context"
	"fmt"
)

// IncrementRateWindow bumps the fixed-window counter for subject and
// returns the new count. The counter is shared across server instances
// through the database, so per-process maps never drift. Windows older
// than windowStart for the subject are purged on the way through, which
// gives the counters an effective TTL of one window.
func (s *SQLiteStore) IncrementRateWindow(ctx context.Context, subject string, windowStart int64) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM rate_limits WHERE subject = ? AND window_start < ?`,
		subject, windowStart); err != nil {
		return 0, fmt.Errorf("failed to purge stale rate windows: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO rate_limits (subject, window_start, count) VALUES (?, ?, 1)
		 ON CONFLICT(subject, window_start) DO UPDATE SET count = count + 1`,
		subject, windowStart); err != nil {
		return 0, fmt.Errorf("failed to increment rate window: %w", err)
	}

	var count int64
	if err := tx.QueryRowContext(ctx,
		`SELECT count FROM rate_limits WHERE subject = ? AND window_start = ?`,
		subject, windowStart).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to read rate window: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit rate window: %w", err)
	}
	return count, nil
}
