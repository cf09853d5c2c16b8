package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ai-buddy/buddy/internal/domain"
)

// ─── Activities ─────────────────────────────────────────────────────────────

// SaveActivity appends an activity. Existing records are never overwritten;
// a duplicate id returns domain.ErrActivityExists.
func (d *DB) SaveActivity(ctx context.Context, a domain.Activity) error {
	tools, err := json.Marshal(a.Tools)
	if err != nil {
		return fmt.Errorf("encode tools: %w", err)
	}
	result, err := d.db.ExecContext(ctx,
		`INSERT INTO activities (id, user_id, date, timestamp, tools, notes, points_earned)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		a.ID, a.UserID, a.Date, formatTime(a.Timestamp), string(tools), a.Notes, a.PointsEarned,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrActivityExists, a.ID)
	}
	return nil
}

// GetActivities returns the user's activities in insertion order.
func (d *DB) GetActivities(ctx context.Context, userID string) ([]domain.Activity, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, user_id, date, timestamp, tools, notes, points_earned
		 FROM activities WHERE user_id = ? ORDER BY rowid`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []domain.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}
	return activities, rows.Err()
}

func scanActivity(s scanner) (*domain.Activity, error) {
	var a domain.Activity
	var ts, tools string
	if err := s.Scan(&a.ID, &a.UserID, &a.Date, &ts, &tools, &a.Notes, &a.PointsEarned); err != nil {
		return nil, err
	}
	var err error
	if a.Timestamp, err = parseTime(ts); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tools), &a.Tools); err != nil {
		return nil, fmt.Errorf("decode tools of %s: %w", a.ID, err)
	}
	return &a, nil
}
