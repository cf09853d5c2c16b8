package domain

import "time"

// Stage is the coarse evolutionary tier of a Buddy, derived from level.
type Stage string

const (
	StageSpark  Stage = "spark"
	StageScout  Stage = "scout"
	StageSage   Stage = "sage"
	StageGenius Stage = "genius"
	StageOracle Stage = "oracle"
)

// Mood is derived from stats and neglect; never set independently.
type Mood string

const (
	MoodHappy     Mood = "happy"
	MoodContent   Mood = "content"
	MoodHungry    Mood = "hungry"
	MoodSad       Mood = "sad"
	MoodNeglected Mood = "neglected"
	MoodSleeping  Mood = "sleeping" // presentation only
)

// MaxStat is the upper bound of every buddy stat.
const MaxStat = 100

// BuddyStats holds the three bounded stats plus the derived overall value.
type BuddyStats struct {
	Happiness int `json:"happiness"`
	Health    int `json:"health"`
	Energy    int `json:"energy"`
	Overall   int `json:"overall"`
}

// Buddy is the virtual pet grown through daily check-ins.
type Buddy struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	Name              string     `json:"name"`
	Stage             Stage      `json:"stage"`
	Level             int        `json:"level"`
	Experience        int        `json:"experience"`
	Mood              Mood       `json:"mood"`
	Stats             BuddyStats `json:"stats"`
	LastFedDate       string     `json:"last_fed_date"` // YYYY-MM-DD or ""
	DaysNeglected     int        `json:"days_neglected"`
	TotalCareSessions int        `json:"total_care_sessions"`
	CurrentCareStreak int        `json:"current_care_streak"`
	LongestCareStreak int        `json:"longest_care_streak"`
	CreatedAt         time.Time  `json:"created_at"`
}

// User mirrors the buddy's progression for ranking and achievements.
type User struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Email                string    `json:"email,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	TotalPoints          int       `json:"total_points"`
	Level                int       `json:"level"`
	CurrentLevelProgress float64   `json:"current_level_progress"`
	CurrentStreak        int       `json:"current_streak"`
	LongestStreak        int       `json:"longest_streak"`
	LastCheckInDate      string    `json:"last_check_in_date"`
	TotalActivities      int       `json:"total_activities"`
	UnlockedAchievements []string  `json:"unlocked_achievements"`
}

// HasAchievement reports whether id is in the unlocked set.
func (u *User) HasAchievement(id string) bool {
	for _, a := range u.UnlockedAchievements {
		if a == id {
			return true
		}
	}
	return false
}

// AddAchievements appends ids not already unlocked and returns the ones added.
// The unlocked set is append-only and never holds duplicates.
func (u *User) AddAchievements(ids ...string) []string {
	var added []string
	for _, id := range ids {
		if u.HasAchievement(id) {
			continue
		}
		u.UnlockedAchievements = append(u.UnlockedAchievements, id)
		added = append(added, id)
	}
	return added
}

// ─── Leaderboard ────────────────────────────────────────────────────────────

// LeaderboardType selects the ranking metric.
type LeaderboardType string

const (
	LeaderboardOverall      LeaderboardType = "overall"
	LeaderboardWeekly       LeaderboardType = "weekly"
	LeaderboardStreak       LeaderboardType = "streak"
	LeaderboardAchievements LeaderboardType = "achievements"
)

func (t LeaderboardType) IsValid() bool {
	switch t {
	case LeaderboardOverall, LeaderboardWeekly, LeaderboardStreak, LeaderboardAchievements:
		return true
	default:
		return false
	}
}

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	UserID           string `json:"user_id"`
	UserName         string `json:"user_name"`
	Points           int    `json:"points"`
	Level            int    `json:"level"`
	Streak           int    `json:"streak"`
	AchievementCount int    `json:"achievement_count"`
	Rank             int    `json:"rank"`
}
