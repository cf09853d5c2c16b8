package gamification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ai-buddy/buddy/internal/domain"
	"github.com/ai-buddy/buddy/internal/infra/metrics"
)

// CheckInRequest is one day's submission.
type CheckInRequest struct {
	Tools []domain.ToolUsage `json:"tools" validate:"required,min=1,dive"`
	Notes string             `json:"notes,omitempty" validate:"max=2000"`
}

// Validate rejects empty submissions and values outside the enumerations.
func (r CheckInRequest) Validate() error {
	if len(r.Tools) == 0 {
		return domain.ErrNoTools
	}
	for _, u := range r.Tools {
		if err := u.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CheckInResult is everything a check-in changed. Callers apply it to their
// in-memory state instead of re-deriving anything.
type CheckInResult struct {
	Benefits        CareBenefits         `json:"benefits"`
	Streak          StreakResult         `json:"streak"`
	StreakBonus     *StreakBonus         `json:"streak_bonus,omitempty"`
	DecayApplied    bool                 `json:"decay_applied"`
	LevelUp         LevelUpResult        `json:"level_up"`
	NewAchievements []domain.Achievement `json:"new_achievements"`
	XPGained        int                  `json:"xp_gained"`
	Buddy           domain.Buddy         `json:"buddy"`
	User            domain.User          `json:"user"`
	Activity        domain.Activity      `json:"activity"`
}

// CheckIn records today's submission using the service clock.
func (s *Service) CheckIn(ctx context.Context, req CheckInRequest) (*CheckInResult, error) {
	return s.CheckInAt(ctx, req, s.now())
}

// CheckInAt records a submission made at now.
//
// Pipeline: neglect decay, care benefits, streak, streak bonus, overall and
// mood, level and stage, then writes Buddy, Activity and User in that order.
// Achievements are evaluated against the updated history before the User
// write. A write failure aborts the remaining steps without rollback.
//
// A second check-in on the same calendar day returns ErrAlreadyCheckedIn and
// changes nothing.
//
// The same-day guard reads and writes outside any store transaction. Callers
// sharing a store across goroutines or processes must serialize check-ins
// themselves; the API server holds a mutex, but a CLI check-in racing a
// running server is not guarded.
func (s *Service) CheckInAt(ctx context.Context, req CheckInRequest, now time.Time) (res *CheckInResult, err error) {
	start := time.Now()
	defer func() {
		metrics.CheckInDuration.Observe(time.Since(start).Seconds())
		metrics.CheckIns.WithLabelValues(checkInResultLabel(err)).Inc()
	}()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, buddy, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	history, err := s.store.GetActivities(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load activities: %w", err)
	}

	local := now.In(s.loc)
	today := domain.FormatDate(local)

	if HasCheckedInToday(buddy.LastFedDate, today) {
		return nil, domain.ErrAlreadyCheckedIn
	}
	if buddy.LastFedDate != "" {
		gap, err := domain.DaysBetween(buddy.LastFedDate, today)
		if err != nil {
			return nil, fmt.Errorf("last fed date: %w", err)
		}
		if gap < 0 {
			return nil, fmt.Errorf("%w: last check-in %s is after %s", domain.ErrAlreadyCheckedIn, buddy.LastFedDate, today)
		}
	}

	streak, err := CalculateStreak(buddy.LastFedDate, buddy.CurrentCareStreak, today)
	if err != nil {
		return nil, err
	}

	// ── Stats ──────────────────────────────────────────────────────────
	stats := CalculateStatDecay(buddy.Stats, streak.DaysNeglected)
	benefits := CalculateCareBenefits(req.Tools, local)
	stats = ApplyCareBenefits(stats, benefits)

	xpGained := benefits.Experience
	var bonus *StreakBonus
	if b, ok := GetStreakBonus(streak.NewStreak); ok {
		bonus = &b
		stats = ApplyStreakBonus(stats, b)
		xpGained += b.XP
	}
	stats = WithOverall(stats)

	// ── Buddy ──────────────────────────────────────────────────────────
	levelUp := CheckLevelUp(buddy.Experience, buddy.Experience+xpGained)

	updated := *buddy
	updated.Stats = stats
	updated.Experience += xpGained
	updated.LastFedDate = today
	updated.DaysNeglected = 0
	updated.TotalCareSessions++
	updated.CurrentCareStreak = streak.NewStreak
	updated.LongestCareStreak = max(buddy.LongestCareStreak, streak.NewStreak)
	Refresh(&updated)

	if err := s.store.SaveBuddy(ctx, updated); err != nil {
		return nil, fmt.Errorf("save buddy: %w", err)
	}

	// ── Activity ───────────────────────────────────────────────────────
	activity := domain.Activity{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		Date:         today,
		Timestamp:    now.UTC(),
		Tools:        req.Tools,
		Notes:        strings.TrimSpace(req.Notes),
		PointsEarned: xpGained,
	}
	if err := s.store.SaveActivity(ctx, activity); err != nil {
		return nil, fmt.Errorf("save activity: %w", err)
	}
	history = append(history, activity)

	// ── Achievements & User ────────────────────────────────────────────
	candidates := s.eval.CheckNewAchievements(snapshotOf(updated, history), user.UnlockedAchievements)

	u := *user
	u.UnlockedAchievements = append([]string(nil), user.UnlockedAchievements...)
	var unlocked []domain.Achievement
	for _, a := range candidates {
		if added := u.AddAchievements(a.ID); len(added) > 0 {
			unlocked = append(unlocked, a)
		}
	}

	points := 0
	for _, a := range history {
		points += a.PointsEarned
	}
	u.TotalPoints = points + s.rewardXP(u.UnlockedAchievements)
	u.Level = updated.Level
	u.CurrentLevelProgress = LevelProgress(updated.Experience, updated.Level)
	u.CurrentStreak = updated.CurrentCareStreak
	u.LongestStreak = max(u.LongestStreak, updated.LongestCareStreak)
	u.LastCheckInDate = today
	u.TotalActivities = len(history)

	if err := s.store.SaveUser(ctx, u); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	s.recordUnlocks(ctx, u.ID, unlocked, now.UTC())

	res = &CheckInResult{
		Benefits:        benefits,
		Streak:          streak,
		StreakBonus:     bonus,
		DecayApplied:    streak.DaysNeglected > 0,
		LevelUp:         levelUp,
		NewAchievements: unlocked,
		XPGained:        xpGained,
		Buddy:           updated,
		User:            u,
		Activity:        activity,
	}

	if s.notifier != nil {
		if _, err := s.notifier.Publish(ctx, checkInNotifications(u.ID, res, now.UTC())); err != nil {
			s.log.Warn("publish check-in notifications", zap.Error(err))
		}
	}

	s.observe(res)
	s.log.Info("check-in recorded",
		zap.String("date", today),
		zap.Int("tools", len(req.Tools)),
		zap.Int("xp", xpGained),
		zap.Int("streak", streak.NewStreak),
		zap.Bool("streak_broken", streak.StreakBroken),
		zap.Int("days_neglected", streak.DaysNeglected),
		zap.Int("level", updated.Level),
		zap.String("mood", string(updated.Mood)))
	if levelUp.LeveledUp {
		s.log.Info("level up",
			zap.Int("from", levelUp.OldLevel),
			zap.Int("to", levelUp.NewLevel),
			zap.String("stage", string(levelUp.NewStage)))
	}
	for _, a := range unlocked {
		s.log.Info("achievement unlocked", zap.String("id", a.ID), zap.Int("reward_xp", a.RewardXP))
	}

	return res, nil
}

func (s *Service) observe(r *CheckInResult) {
	metrics.XPAwarded.Add(float64(r.XPGained))
	if r.LevelUp.LeveledUp {
		metrics.LevelUps.Add(float64(r.LevelUp.NewLevel - r.LevelUp.OldLevel))
	}
	for _, a := range r.NewAchievements {
		metrics.AchievementsUnlocked.WithLabelValues(a.ID).Inc()
	}
	st := r.Buddy.Stats
	metrics.ObserveStats(st.Happiness, st.Health, st.Energy, st.Overall)
	metrics.StreakCurrent.Set(float64(r.Buddy.CurrentCareStreak))
}

func checkInResultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrAlreadyCheckedIn):
		return "duplicate"
	case errors.Is(err, domain.ErrNoTools),
		errors.Is(err, domain.ErrEmptyUsageTypes),
		errors.Is(err, domain.ErrDuplicateUsage),
		errors.Is(err, domain.ErrInvalidTool),
		errors.Is(err, domain.ErrInvalidUsageType),
		errors.Is(err, domain.ErrInvalidImpact):
		return "invalid"
	default:
		return "error"
	}
}
