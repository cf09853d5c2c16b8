package gamification

import (
	"strconv"
	"strings"

	"github.com/ai-buddy/buddy/internal/domain"
)

// Special achievement identifiers with hand-written rules.
const (
	AchievementFoundingMember = "founding-member"
	AchievementLevel5         = "level-5"
	AchievementLevel10        = "level-10"
	AchievementLevel15        = "level-15"
	AchievementMaxStats       = "max-stats"
)

// Snapshot is the state an achievement is evaluated against.
type Snapshot struct {
	Activities    []domain.Activity
	CurrentStreak int
	LongestStreak int
	Level         int
	Stats         domain.BuddyStats
}

// AchievementProgress is one catalog entry with the user's progress toward it.
type AchievementProgress struct {
	Achievement domain.Achievement `json:"achievement"`
	Unlocked    bool               `json:"unlocked"`
	Progress    int                `json:"progress"`
	Target      int                `json:"target"`
}

// Evaluator checks achievement criteria against a Snapshot.
// It holds no state besides the catalog and never records unlocks itself.
type Evaluator struct {
	catalog []domain.Achievement
}

// NewEvaluator creates an evaluator over the given catalog.
func NewEvaluator(catalog []domain.Achievement) *Evaluator {
	return &Evaluator{catalog: catalog}
}

// Catalog returns the evaluator's achievement definitions.
func (e *Evaluator) Catalog() []domain.Achievement {
	return e.catalog
}

// Find returns the catalog entry with the given id.
func (e *Evaluator) Find(id string) (domain.Achievement, bool) {
	for _, a := range e.catalog {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Achievement{}, false
}

// CheckNewAchievements returns every catalog entry not in unlocked whose
// criteria now hold. Calling it twice with the same unlocked set returns the
// same entries; the caller must record the returned ids before re-evaluating.
func (e *Evaluator) CheckNewAchievements(s Snapshot, unlocked []string) []domain.Achievement {
	have := make(map[string]bool, len(unlocked))
	for _, id := range unlocked {
		have[id] = true
	}

	var out []domain.Achievement
	for _, a := range e.catalog {
		if have[a.ID] {
			continue
		}
		if criteriaMet(a, s) {
			out = append(out, a)
		}
	}
	return out
}

// Progress reports progress toward one achievement, capped at its target.
func (e *Evaluator) Progress(a domain.Achievement, s Snapshot, unlocked bool) AchievementProgress {
	target := a.Criteria.Target
	if target <= 0 {
		target = 1
	}
	if a.Criteria.Type == domain.CriteriaSpecial {
		if lvl, ok := levelTarget(a.ID); ok {
			target = lvl
		}
	}
	if unlocked {
		return AchievementProgress{Achievement: a, Unlocked: true, Progress: target, Target: target}
	}

	progress := 0
	switch a.Criteria.Type {
	case domain.CriteriaActivityCount:
		progress = len(s.Activities)
	case domain.CriteriaStreak:
		progress = max(s.CurrentStreak, s.LongestStreak)
	case domain.CriteriaToolVariety:
		progress = distinctTools(s.Activities)
	case domain.CriteriaImpact:
		progress = countWithImpact(s.Activities, a.Criteria.Impact)
	case domain.CriteriaWeekend:
		progress = countWeekend(s.Activities)
	case domain.CriteriaSpecial:
		if _, ok := levelTarget(a.ID); ok {
			progress = s.Level
		}
	}

	return AchievementProgress{
		Achievement: a,
		Progress:    min(progress, target),
		Target:      target,
	}
}

// AllProgress reports progress for every catalog entry in catalog order.
func (e *Evaluator) AllProgress(s Snapshot, unlocked []string) []AchievementProgress {
	have := make(map[string]bool, len(unlocked))
	for _, id := range unlocked {
		have[id] = true
	}
	out := make([]AchievementProgress, 0, len(e.catalog))
	for _, a := range e.catalog {
		out = append(out, e.Progress(a, s, have[a.ID]))
	}
	return out
}

func criteriaMet(a domain.Achievement, s Snapshot) bool {
	c := a.Criteria
	switch c.Type {
	case domain.CriteriaActivityCount:
		return len(s.Activities) >= c.Target
	case domain.CriteriaStreak:
		return s.CurrentStreak >= c.Target || s.LongestStreak >= c.Target
	case domain.CriteriaToolVariety:
		return distinctTools(s.Activities) >= c.Target
	case domain.CriteriaImpact:
		return countWithImpact(s.Activities, c.Impact) >= c.Target
	case domain.CriteriaWeekend:
		return countWeekend(s.Activities) >= c.Target
	case domain.CriteriaSpecial:
		return specialMet(a.ID, s)
	default:
		return false
	}
}

func specialMet(id string, s Snapshot) bool {
	switch id {
	case AchievementFoundingMember:
		// Only granted during onboarding.
		return false
	case AchievementMaxStats:
		return s.Stats.Happiness == domain.MaxStat &&
			s.Stats.Health == domain.MaxStat &&
			s.Stats.Energy == domain.MaxStat
	}
	if lvl, ok := levelTarget(id); ok {
		return s.Level >= lvl
	}
	return false
}

// levelTarget parses the level named by a "level-N" identifier.
func levelTarget(id string) (int, bool) {
	suffix, ok := strings.CutPrefix(id, "level-")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func distinctTools(activities []domain.Activity) int {
	seen := make(map[domain.Tool]struct{})
	for _, a := range activities {
		for _, t := range a.Tools {
			seen[t.Tool] = struct{}{}
		}
	}
	return len(seen)
}

func countWithImpact(activities []domain.Activity, impact domain.Impact) int {
	n := 0
	for _, a := range activities {
		if a.HasImpact(impact) {
			n++
		}
	}
	return n
}

func countWeekend(activities []domain.Activity) int {
	n := 0
	for _, a := range activities {
		if domain.IsWeekendDate(a.Date) {
			n++
		}
	}
	return n
}

// ─── Achievement Catalog ────────────────────────────────────────────────────

// DefaultCatalog returns the built-in achievement catalog.
func DefaultCatalog() []domain.Achievement {
	return []domain.Achievement{
		// ── Milestones ─────────────────────────────────────────────────
		{
			ID: "first-checkin", Name: "Hello, Buddy", Description: "Complete your first check-in",
			Icon: "👋", Rarity: domain.RarityCommon, Category: domain.CatMilestone, RewardXP: 25,
			Criteria: domain.AchievementCriteria{Type: domain.CriteriaActivityCount, Target: 1},
		},
		{
			ID: "checkins-10", Name: "Regular", Description: "Complete 10 check-ins",
			Icon: "📅", Rarity: domain.RarityCommon, Category: domain.CatMilestone, RewardXP: 100,
			Criteria: domain.AchievementCriteria{Type: domain.CriteriaActivityCount, Target: 10},
		},
		{
			ID: "checkins-50", Name: "Dedicated", Description: "Complete 50 check-ins",
			Icon: "🗓️", Rarity: domain.RarityRare, Category: domain.CatMilestone, RewardXP: 500,
			Criteria: domain.AchievementCriteria{Type: domain.CriteriaActivityCount, Target: 50},
		},
		{
			ID: "checkins-100", Name: "Centurion", Description: "Complete 100 check-ins",
			Icon: "💯", Rarity: domain.RarityEpic, Category: domain.CatMilestone, RewardXP: 1000,
			Criteria: domain.AchievementCriteria{Type: domain.CriteriaActivityCount, Target: 100},
		},

		// ── Streaks ────────────────────────────────────────────────────
		{
			ID: "streak-3", Name: "Warming Up", Description: "Reach a 3-day care streak",
			Icon: "🔥", Rarity: domain.RarityCommon, Category: domain.CatStreak, RewardXP: 50,
			Criteria: domain.AchievementCriteria{Type: domain.CriteriaStreak, Target: 3},
		},
		{
			ID: "streak-7", Name: "Week Warrior", Description: "Reach a 7-day care streak",
			Icon: "⚡", Rarity: domain.RarityRare, Category: domain.CatStreak, RewardXP: 150,
			Criteria: domain.AchievementCriteria{Type: domain.CriteriaStreak, Target: 7},
		},
		{
			ID: "streak-30", Name: "Monthly Machine", Description: "Reach a 30-day care streak",
			Icon: "🌙", Rarity: domain.RarityEpic, Category: domain.CatStreak, RewardXP: 750,
			Criteria: domain.AchievementCriteria{Type: domain.CriteriaStreak, Target: 30},
		},
		{
			ID: "streak-100", Name: "Unstoppable", Description: "Reach a 100-day care streak",
			Icon: "🏛️", Rarity: domain.RarityLegendary, Category: domain.CatStreak, RewardXP: 3000,
			Criteria: domain.AchievementCriteria{Type: domain.CriteriaStreak, Target: 100},
		},

		// ── Variety ────────────────────────────────────────────────────
		{
			ID: "tool-explorer", Name: "Tool Explorer", Description: "Use 3 different AI tools",
			Icon: "🧭", Rarity: domain.RarityCommon, Category: domain.CatVariety, RewardXP: 75,
			Criteria: domain.AchievementCriteria{Type: domain.CriteriaToolVariety, Target: 3},
		},
		{
			ID: "tool-master", Name: "Tool Master", Description: "Use 5 different AI tools",
			Icon: "🧰", Rarity: domain.RarityRare, Category: domain.CatVariety, RewardXP: 200,
			Criteria: domain.AchievementCriteria{Type: domain.CriteriaToolVariety, Target: 5},
		},
		{
			ID: "critical-thinker", Name: "Critical Thinker", Description: "Log a critical-impact session",
			Icon: "🎯", Rarity: domain.RarityCommon, Category: domain.CatVariety, RewardXP: 50,
			Criteria: domain.AchievementCriteria{Type: domain.CriteriaImpact, Target: 1, Impact: domain.ImpactCritical},
		},
		{
			ID: "game-changer", Name: "Game Changer", Description: "Log 10 critical-impact sessions",
			Icon: "💥", Rarity: domain.RarityEpic, Category: domain.CatVariety, RewardXP: 500,
			Criteria: domain.AchievementCriteria{Type: domain.CriteriaImpact, Target: 10, Impact: domain.ImpactCritical},
		},
		{
			ID: "high-achiever", Name: "High Achiever", Description: "Log 10 high-impact sessions",
			Icon: "📈", Rarity: domain.RarityRare, Category: domain.CatVariety, RewardXP: 200,
			Criteria: domain.AchievementCriteria{Type: domain.CriteriaImpact, Target: 10, Impact: domain.ImpactHigh},
		},
		{
			ID: "weekend-warrior", Name: "Weekend Warrior", Description: "Check in on 5 weekend days",
			Icon: "🏖️", Rarity: domain.RarityRare, Category: domain.CatVariety, RewardXP: 150,
			Criteria: domain.AchievementCriteria{Type: domain.CriteriaWeekend, Target: 5},
		},

		// ── Special ────────────────────────────────────────────────────
		{
			ID: AchievementLevel5, Name: "Growing Up", Description: "Reach level 5",
			Icon: "🌱", Rarity: domain.RarityCommon, Category: domain.CatSpecial, RewardXP: 100,
			Criteria: domain.AchievementCriteria{Type: domain.CriteriaSpecial},
		},
		{
			ID: AchievementLevel10, Name: "Seasoned", Description: "Reach level 10",
			Icon: "🌳", Rarity: domain.RarityEpic, Category: domain.CatSpecial, RewardXP: 500,
			Criteria: domain.AchievementCriteria{Type: domain.CriteriaSpecial},
		},
		{
			ID: AchievementLevel15, Name: "Mecha Master", Description: "Reach level 15",
			Icon: "🚀", Rarity: domain.RarityLegendary, Category: domain.CatSpecial, RewardXP: 2000,
			Criteria: domain.AchievementCriteria{Type: domain.CriteriaSpecial},
		},
		{
			ID: AchievementMaxStats, Name: "Peak Condition", Description: "Max out happiness, health and energy",
			Icon: "💎", Rarity: domain.RarityEpic, Category: domain.CatSpecial, RewardXP: 300,
			Criteria: domain.AchievementCriteria{Type: domain.CriteriaSpecial},
		},
		{
			ID: AchievementFoundingMember, Name: "Founding Member", Description: "Joined during the first season",
			Icon: "🏅", Rarity: domain.RarityLegendary, Category: domain.CatSpecial, RewardXP: 100,
			Criteria: domain.AchievementCriteria{Type: domain.CriteriaSpecial},
		},
	}
}
