package gamification

import "github.com/ai-buddy/buddy/internal/domain"

// DefaultStats is the starting stat block of a freshly onboarded buddy.
func DefaultStats() domain.BuddyStats {
	return WithOverall(domain.BuddyStats{Happiness: 50, Health: 50, Energy: 50})
}

// Overall returns round(mean(happiness, health, energy)).
func Overall(s domain.BuddyStats) int {
	return roundHalfUp(float64(s.Happiness+s.Health+s.Energy) / 3)
}

// WithOverall returns s with Overall recomputed from the other three stats.
func WithOverall(s domain.BuddyStats) domain.BuddyStats {
	s.Overall = Overall(s)
	return s
}

// ApplyCareBenefits adds the care gains to the stats, capping each at MaxStat.
// Overall is left untouched; callers recompute it with WithOverall.
func ApplyCareBenefits(current domain.BuddyStats, b CareBenefits) domain.BuddyStats {
	out := current
	out.Happiness = capStat(current.Happiness + b.Happiness)
	out.Health = capStat(current.Health + b.Health)
	out.Energy = capStat(current.Energy + b.Energy)
	return out
}

// ApplyStreakBonus adds a milestone bonus the same way care benefits are applied.
func ApplyStreakBonus(current domain.BuddyStats, b StreakBonus) domain.BuddyStats {
	out := current
	out.Happiness = capStat(current.Happiness + b.Happiness)
	out.Health = capStat(current.Health + b.Health)
	return out
}

// CalculateStatDecay subtracts DailyDecay per neglected day, flooring at 0.
// Zero days is the identity.
func CalculateStatDecay(current domain.BuddyStats, daysNeglected int) domain.BuddyStats {
	if daysNeglected <= 0 {
		return current
	}
	out := current
	out.Happiness = floorStat(current.Happiness - DailyDecay.Happiness*daysNeglected)
	out.Health = floorStat(current.Health - DailyDecay.Health*daysNeglected)
	out.Energy = floorStat(current.Energy - DailyDecay.Energy*daysNeglected)
	return out
}

// CalculateMood derives the buddy's mood. Neglect dominates stats.
func CalculateMood(overall, daysNeglected int) domain.Mood {
	switch {
	case daysNeglected >= 2:
		return domain.MoodNeglected
	case daysNeglected == 1:
		return domain.MoodSad
	case overall >= 80:
		return domain.MoodHappy
	case overall >= 50:
		return domain.MoodContent
	default:
		return domain.MoodHungry
	}
}

// Refresh recomputes every derived buddy field (overall, level, stage, mood)
// from the stored stats, experience and neglect counter.
func Refresh(b *domain.Buddy) {
	b.Stats = WithOverall(b.Stats)
	b.Level = LevelForXP(b.Experience)
	b.Stage = StageForLevel(b.Level)
	b.Mood = CalculateMood(b.Stats.Overall, b.DaysNeglected)
}

func capStat(v int) int {
	if v > domain.MaxStat {
		return domain.MaxStat
	}
	return v
}

func floorStat(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
