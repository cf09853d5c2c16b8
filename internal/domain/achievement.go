package domain

import "time"

// ─── Achievement Types ──────────────────────────────────────────────────────

// Rarity grades how hard an achievement is to earn.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// AchievementCategory groups achievements by theme.
type AchievementCategory string

const (
	CatStreak    AchievementCategory = "streak"
	CatVariety   AchievementCategory = "variety"
	CatMilestone AchievementCategory = "milestone"
	CatSpecial   AchievementCategory = "special"
)

// CriteriaType selects how an achievement is evaluated.
type CriteriaType string

const (
	CriteriaActivityCount CriteriaType = "activity-count"
	CriteriaStreak        CriteriaType = "streak"
	CriteriaToolVariety   CriteriaType = "tool-variety"
	CriteriaImpact        CriteriaType = "impact"
	CriteriaWeekend       CriteriaType = "weekend"
	CriteriaSpecial       CriteriaType = "special"
)

// AchievementCriteria describes when an achievement unlocks.
// Impact is only meaningful for CriteriaImpact.
type AchievementCriteria struct {
	Type   CriteriaType `json:"type"`
	Target int          `json:"target,omitempty"`
	Impact Impact       `json:"impact,omitempty"`
}

// Achievement is a static catalog entry.
type Achievement struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Icon        string              `json:"icon"`
	Rarity      Rarity              `json:"rarity"`
	Category    AchievementCategory `json:"category"`
	Criteria    AchievementCriteria `json:"criteria"`
	RewardXP    int                 `json:"reward_xp"`
}

// UnlockedAchievement records when an achievement was earned.
type UnlockedAchievement struct {
	ID         string    `json:"id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// ─── Notification Types ─────────────────────────────────────────────────────

// NotificationType categorizes check-in events shown to the user.
type NotificationType string

const (
	NotifyLevelUp         NotificationType = "level_up"
	NotifyStageChange     NotificationType = "stage_change"
	NotifyAchievement     NotificationType = "achievement"
	NotifyStreakMilestone NotificationType = "streak_milestone"
)

// Notification is a user-facing message produced by a check-in.
type Notification struct {
	ID        int64            `json:"id"`
	UserID    string           `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	CreatedAt time.Time        `json:"created_at"`
	Shown     bool             `json:"shown"`
}
