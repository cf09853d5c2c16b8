package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/ai-buddy/buddy/internal/domain"
)

// ─── Leaderboard ────────────────────────────────────────────────────────────

// weeklyDays is the rolling window of the weekly board, including today.
const weeklyDays = 7

// GetLeaderboard ranks users by the requested metric, highest first.
// The weekly board sums points of activities dated within the last seven
// calendar days of now's location. Streaks are reported live: a stored
// streak whose last check-in is older than yesterday counts as zero, since
// current_streak itself only changes on the next check-in.
func (d *DB) GetLeaderboard(ctx context.Context, t domain.LeaderboardType, now time.Time) ([]domain.LeaderboardEntry, error) {
	var (
		query string
		args  []any
	)
	base := `SELECT u.id, u.name, %s AS points, u.level,
		CASE WHEN u.last_checkin_date >= ? THEN u.current_streak ELSE 0 END AS streak,
		json_array_length(u.unlocked) AS achievement_count
		FROM users u`
	yesterday := domain.FormatDate(now.AddDate(0, 0, -1))

	switch t {
	case domain.LeaderboardOverall:
		query = fmt.Sprintf(base, "u.total_points") + ` ORDER BY points DESC, u.created_at`
		args = append(args, yesterday)
	case domain.LeaderboardWeekly:
		since := domain.FormatDate(now.AddDate(0, 0, -(weeklyDays - 1)))
		query = fmt.Sprintf(base, `COALESCE((SELECT SUM(a.points_earned) FROM activities a
			WHERE a.user_id = u.id AND a.date >= ?), 0)`) + ` ORDER BY points DESC, u.created_at`
		args = append(args, since, yesterday)
	case domain.LeaderboardStreak:
		query = fmt.Sprintf(base, "u.total_points") + ` ORDER BY streak DESC, u.created_at`
		args = append(args, yesterday)
	case domain.LeaderboardAchievements:
		query = fmt.Sprintf(base, "u.total_points") + ` ORDER BY achievement_count DESC, u.created_at`
		args = append(args, yesterday)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidLeaderboard, t)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.UserName, &e.Points, &e.Level, &e.Streak, &e.AchievementCount); err != nil {
			return nil, err
		}
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
