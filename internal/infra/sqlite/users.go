package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ai-buddy/buddy/internal/domain"
)

// ─── Users ──────────────────────────────────────────────────────────────────

const userColumns = `id, name, email, created_at, total_points, level, level_progress,
	current_streak, longest_streak, last_checkin_date, total_activities, unlocked`

// GetUser returns the installation's user, or nil if onboarding has not run.
func (d *DB) GetUser(ctx context.Context) (*domain.User, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at LIMIT 1`)
	return scanUser(row)
}

// SaveUser inserts or overwrites a user record.
func (d *DB) SaveUser(ctx context.Context, u domain.User) error {
	unlocked := u.UnlockedAchievements
	if unlocked == nil {
		unlocked = []string{}
	}
	ids, err := json.Marshal(unlocked)
	if err != nil {
		return fmt.Errorf("encode unlocked achievements: %w", err)
	}
	_, err = d.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			email=excluded.email,
			total_points=excluded.total_points,
			level=excluded.level,
			level_progress=excluded.level_progress,
			current_streak=excluded.current_streak,
			longest_streak=excluded.longest_streak,
			last_checkin_date=excluded.last_checkin_date,
			total_activities=excluded.total_activities,
			unlocked=excluded.unlocked`,
		u.ID, u.Name, u.Email, formatTime(u.CreatedAt), u.TotalPoints, u.Level,
		u.CurrentLevelProgress, u.CurrentStreak, u.LongestStreak,
		u.LastCheckInDate, u.TotalActivities, string(ids),
	)
	return err
}

func scanUser(s scanner) (*domain.User, error) {
	var u domain.User
	var createdAt, unlocked string
	err := s.Scan(&u.ID, &u.Name, &u.Email, &createdAt, &u.TotalPoints, &u.Level,
		&u.CurrentLevelProgress, &u.CurrentStreak, &u.LongestStreak,
		&u.LastCheckInDate, &u.TotalActivities, &unlocked)
	if isNoRows(err) {
		return nil, nil // Not onboarded yet
	}
	if err != nil {
		return nil, err
	}
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(unlocked), &u.UnlockedAchievements); err != nil {
		return nil, fmt.Errorf("decode unlocked achievements: %w", err)
	}
	return &u, nil
}

// ─── Buddies ────────────────────────────────────────────────────────────────

const buddyColumns = `id, user_id, name, stage, level, experience, mood,
	happiness, health, energy, overall, last_fed_date, days_neglected,
	total_care_sessions, current_care_streak, longest_care_streak, created_at`

// GetBuddy returns the buddy owned by userID, or nil if none exists.
func (d *DB) GetBuddy(ctx context.Context, userID string) (*domain.Buddy, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT `+buddyColumns+` FROM buddies WHERE user_id = ?`, userID)
	return scanBuddy(row)
}

// SaveBuddy inserts or overwrites the buddy record.
func (d *DB) SaveBuddy(ctx context.Context, b domain.Buddy) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO buddies (`+buddyColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			stage=excluded.stage,
			level=excluded.level,
			experience=excluded.experience,
			mood=excluded.mood,
			happiness=excluded.happiness,
			health=excluded.health,
			energy=excluded.energy,
			overall=excluded.overall,
			last_fed_date=excluded.last_fed_date,
			days_neglected=excluded.days_neglected,
			total_care_sessions=excluded.total_care_sessions,
			current_care_streak=excluded.current_care_streak,
			longest_care_streak=excluded.longest_care_streak`,
		b.ID, b.UserID, b.Name, string(b.Stage), b.Level, b.Experience, string(b.Mood),
		b.Stats.Happiness, b.Stats.Health, b.Stats.Energy, b.Stats.Overall,
		b.LastFedDate, b.DaysNeglected, b.TotalCareSessions,
		b.CurrentCareStreak, b.LongestCareStreak, formatTime(b.CreatedAt),
	)
	return err
}

func scanBuddy(s scanner) (*domain.Buddy, error) {
	var b domain.Buddy
	var createdAt string
	err := s.Scan(&b.ID, &b.UserID, &b.Name, &b.Stage, &b.Level, &b.Experience, &b.Mood,
		&b.Stats.Happiness, &b.Stats.Health, &b.Stats.Energy, &b.Stats.Overall,
		&b.LastFedDate, &b.DaysNeglected, &b.TotalCareSessions,
		&b.CurrentCareStreak, &b.LongestCareStreak, &createdAt)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &b, nil
}
