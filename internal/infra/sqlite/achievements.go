package sqlite

import (
	"context"
	"time"

	"github.com/ai-buddy/buddy/internal/domain"
)

// ─── Achievements ───────────────────────────────────────────────────────────

// UnlockAchievement records an achievement as unlocked.
// Returns false if already unlocked (idempotent).
func (d *DB) UnlockAchievement(ctx context.Context, userID, id string, at time.Time) (bool, error) {
	result, err := d.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO achievements (user_id, id, unlocked_at) VALUES (?, ?, ?)`,
		userID, id, at.Unix(),
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil // true = newly unlocked
}

// ListUnlockedAchievements returns the user's unlocks, oldest first.
func (d *DB) ListUnlockedAchievements(ctx context.Context, userID string) ([]domain.UnlockedAchievement, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, unlocked_at FROM achievements WHERE user_id = ? ORDER BY unlocked_at, rowid`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var achievements []domain.UnlockedAchievement
	for rows.Next() {
		var a domain.UnlockedAchievement
		var ts int64
		if err := rows.Scan(&a.ID, &ts); err != nil {
			return nil, err
		}
		a.UnlockedAt = time.Unix(ts, 0)
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}
