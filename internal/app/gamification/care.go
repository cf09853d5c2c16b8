package gamification

import (
	"math"
	"time"

	"github.com/ai-buddy/buddy/internal/domain"
)

// CareBreakdown explains how a CareBenefits total was reached.
type CareBreakdown struct {
	Base             Benefit         `json:"base"`
	UsageBonus       Benefit         `json:"usage_bonus"`
	ImpactMultiplier float64         `json:"impact_multiplier"`
	MultiToolBonus   *MultiToolBonus `json:"multi_tool_bonus,omitempty"`
	WeekendBonus     *Benefit        `json:"weekend_bonus,omitempty"`
	Total            Benefit         `json:"total"`
}

// CareBenefits is the rounded stat/XP gain of one check-in.
type CareBenefits struct {
	Happiness  int           `json:"happiness"`
	Health     int           `json:"health"`
	Energy     int           `json:"energy"`
	Experience int           `json:"experience"`
	Breakdown  CareBreakdown `json:"breakdown"`
}

// CalculateCareBenefits converts one day's tool usages into stat and XP gains.
//
// The single highest impact multiplier of the day scales base + usage bonus.
// Multi-tool and weekend bonuses are added after scaling, then every
// component is rounded half-up. The caller must pass at least one usage with
// values drawn from the domain enumerations; weekend detection uses date's
// own location.
func CalculateCareBenefits(tools []domain.ToolUsage, date time.Time) CareBenefits {
	bd := CareBreakdown{ImpactMultiplier: 1}

	distinct := make(map[domain.Tool]struct{}, len(tools))
	for _, usage := range tools {
		bd.Base = bd.Base.add(toolBenefits[usage.Tool])
		for _, ut := range usage.UsageTypes {
			bd.UsageBonus = bd.UsageBonus.add(usageBonuses[ut])
		}
		bd.ImpactMultiplier = math.Max(bd.ImpactMultiplier, impactMultipliers[usage.Impact])
		distinct[usage.Tool] = struct{}{}
	}

	sum := bd.Base.add(bd.UsageBonus)
	happiness := float64(sum.Happiness) * bd.ImpactMultiplier
	health := float64(sum.Health) * bd.ImpactMultiplier
	energy := float64(sum.Energy) * bd.ImpactMultiplier
	xp := float64(sum.XP) * bd.ImpactMultiplier

	if n := len(distinct); n >= 2 {
		if bonus, ok := multiToolBonuses[n]; ok {
			bd.MultiToolBonus = &bonus
			happiness += float64(bonus.Happiness)
			energy += float64(bonus.Energy)
			xp += float64(bonus.XP)
		}
	}

	if domain.IsWeekend(date) {
		bonus := WeekendBonus
		bd.WeekendBonus = &bonus
		happiness += float64(bonus.Happiness)
		health += float64(bonus.Health)
		energy += float64(bonus.Energy)
		xp += float64(bonus.XP)
	}

	bd.Total = Benefit{
		Happiness: roundHalfUp(happiness),
		Health:    roundHalfUp(health),
		Energy:    roundHalfUp(energy),
		XP:        roundHalfUp(xp),
	}

	return CareBenefits{
		Happiness:  bd.Total.Happiness,
		Health:     bd.Total.Health,
		Energy:     bd.Total.Energy,
		Experience: bd.Total.XP,
		Breakdown:  bd,
	}
}

// roundHalfUp rounds x to the nearest integer, ties toward +Inf.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
