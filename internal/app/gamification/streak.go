package gamification

import (
	"fmt"

	"github.com/ai-buddy/buddy/internal/domain"
)

// StreakResult is the outcome of advancing a streak to today.
type StreakResult struct {
	NewStreak     int  `json:"new_streak"`
	StreakBroken  bool `json:"streak_broken"`
	DaysNeglected int  `json:"days_neglected"`
}

// CalculateStreak advances a care streak from lastCheckIn to today.
// Both dates are YYYY-MM-DD calendar dates; an empty lastCheckIn means the
// buddy has never been fed.
//
//   - no prior date: streak starts at 1
//   - same day: unchanged (duplicate check-ins are rejected upstream)
//   - next day: streak + 1
//   - gap of 2+ days: reset to 1, broken, gap-1 days neglected
func CalculateStreak(lastCheckIn string, currentStreak int, today string) (StreakResult, error) {
	if lastCheckIn == "" {
		return StreakResult{NewStreak: 1}, nil
	}

	gap, err := domain.DaysBetween(lastCheckIn, today)
	if err != nil {
		return StreakResult{}, fmt.Errorf("streak gap: %w", err)
	}

	switch {
	case gap <= 0:
		// Same day, or a clock that moved backwards.
		return StreakResult{NewStreak: currentStreak}, nil
	case gap == 1:
		return StreakResult{NewStreak: currentStreak + 1}, nil
	default:
		return StreakResult{NewStreak: 1, StreakBroken: true, DaysNeglected: gap - 1}, nil
	}
}

// DaysNeglected returns the number of fully skipped days between the last
// check-in and today, without advancing anything.
func DaysNeglected(lastCheckIn, today string) (int, error) {
	if lastCheckIn == "" {
		return 0, nil
	}
	gap, err := domain.DaysBetween(lastCheckIn, today)
	if err != nil {
		return 0, err
	}
	if gap < 2 {
		return 0, nil
	}
	return gap - 1, nil
}

// GetStreakBonus returns the milestone bonus for exactly this streak length.
func GetStreakBonus(streak int) (StreakBonus, bool) {
	b, ok := streakBonuses[streak]
	return b, ok
}

// NextStreakMilestone returns the smallest milestone strictly above streak.
func NextStreakMilestone(streak int) (int, bool) {
	for _, m := range StreakMilestones {
		if m > streak {
			return m, true
		}
	}
	return 0, false
}

// HasCheckedInToday reports whether the last check-in date is today.
func HasCheckedInToday(lastCheckIn, today string) bool {
	return lastCheckIn != "" && lastCheckIn == today
}
