package gamification

import (
	"context"
	"fmt"
	"time"

	"github.com/ai-buddy/buddy/internal/domain"
)

// ActivityStats aggregates a user's check-in history.
type ActivityStats struct {
	Total         int `json:"total"`
	ThisWeek      int `json:"this_week"`
	ThisMonth     int `json:"this_month"`
	TotalPoints   int `json:"total_points"`
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
	DistinctTools int `json:"distinct_tools"`
}

// Rolling windows, in calendar days including today.
const (
	weekWindow  = 7
	monthWindow = 30
)

// SummarizeActivities counts activities in the rolling week and month
// ending on today. Activities with malformed or future dates count toward
// the total only.
func SummarizeActivities(activities []domain.Activity, buddy domain.Buddy, today string) ActivityStats {
	st := ActivityStats{
		Total:         len(activities),
		CurrentStreak: buddy.CurrentCareStreak,
		LongestStreak: buddy.LongestCareStreak,
		DistinctTools: distinctTools(activities),
	}
	for _, a := range activities {
		st.TotalPoints += a.PointsEarned
		age, err := domain.DaysBetween(a.Date, today)
		if err != nil || age < 0 {
			continue
		}
		if age < weekWindow {
			st.ThisWeek++
		}
		if age < monthWindow {
			st.ThisMonth++
		}
	}
	return st
}

// ActivityStats summarizes the user's history as of now.
func (s *Service) ActivityStats(ctx context.Context, now time.Time) (ActivityStats, error) {
	user, buddy, err := s.load(ctx)
	if err != nil {
		return ActivityStats{}, err
	}
	activities, err := s.store.GetActivities(ctx, user.ID)
	if err != nil {
		return ActivityStats{}, fmt.Errorf("load activities: %w", err)
	}
	return SummarizeActivities(activities, *buddy, FormatLocalDate(now, s.loc)), nil
}

// History returns up to limit activities, newest first. A limit <= 0
// returns everything.
func (s *Service) History(ctx context.Context, limit int) ([]domain.Activity, error) {
	user, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	activities, err := s.store.GetActivities(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load activities: %w", err)
	}
	n := len(activities)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.Activity, 0, n)
	for i := len(activities) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, activities[i])
	}
	return out, nil
}
