// Package gamification implements the Buddy scoring and progression engine.
// Care benefits, stat decay, streaks, levels, stages and achievements are
// pure functions; Service composes them into the daily check-in.
package gamification

import (
	"fmt"

	"github.com/ai-buddy/buddy/internal/domain"
)

// Benefit is a stat/XP effect from the tables below.
type Benefit struct {
	Happiness int `json:"happiness"`
	Health    int `json:"health"`
	Energy    int `json:"energy"`
	XP        int `json:"xp"`
}

func (b Benefit) add(o Benefit) Benefit {
	return Benefit{
		Happiness: b.Happiness + o.Happiness,
		Health:    b.Health + o.Health,
		Energy:    b.Energy + o.Energy,
		XP:        b.XP + o.XP,
	}
}

// MultiToolBonus never touches health.
type MultiToolBonus struct {
	Happiness int `json:"happiness"`
	Energy    int `json:"energy"`
	XP        int `json:"xp"`
}

// StreakBonus is granted once on the day a streak hits a milestone.
// Energy is unaffected.
type StreakBonus struct {
	Happiness int `json:"happiness"`
	Health    int `json:"health"`
	XP        int `json:"xp"`
}

// ─── Care tables ────────────────────────────────────────────────────────────

var toolBenefits = map[domain.Tool]Benefit{
	domain.ToolClaudeCode:    {Happiness: 15, Health: 20, Energy: 25, XP: 30},
	domain.ToolClaude:        {Happiness: 12, Health: 15, Energy: 20, XP: 25},
	domain.ToolGitHubCopilot: {Happiness: 12, Health: 15, Energy: 20, XP: 25},
	domain.ToolCopilot:       {Happiness: 12, Health: 15, Energy: 20, XP: 25},
	domain.ToolAgency:        {Happiness: 14, Health: 18, Energy: 22, XP: 28},
	domain.ToolAgencyADO:     {Happiness: 14, Health: 18, Energy: 22, XP: 28},
	domain.ToolChatGPT:       {Happiness: 10, Health: 12, Energy: 15, XP: 20},
	domain.ToolOther:         {Happiness: 8, Health: 10, Energy: 12, XP: 15},
}

var usageBonuses = map[domain.UsageType]Benefit{
	domain.UsageDebugging:      {Happiness: 3, Health: 5, Energy: 3, XP: 10},
	domain.UsageCodeReview:     {Happiness: 3, Health: 4, Energy: 3, XP: 8},
	domain.UsageCodeGeneration: {Happiness: 2, Health: 3, Energy: 4, XP: 5},
	domain.UsageDocumentation:  {Happiness: 2, Health: 2, Energy: 2, XP: 5},
	domain.UsageRefactoring:    {Happiness: 2, Health: 3, Energy: 3, XP: 7},
	domain.UsageLearning:       {Happiness: 4, Health: 2, Energy: 2, XP: 8},
	domain.UsageBrainstorming:  {Happiness: 5, Health: 2, Energy: 3, XP: 6},
	domain.UsageOther:          {Happiness: 1, Health: 1, Energy: 1, XP: 3},
}

var impactMultipliers = map[domain.Impact]float64{
	domain.ImpactLow:      1.0,
	domain.ImpactMedium:   1.5,
	domain.ImpactHigh:     2.0,
	domain.ImpactCritical: 3.0,
}

// Keyed by the exact number of distinct tools used in one day.
var multiToolBonuses = map[int]MultiToolBonus{
	2: {Happiness: 5, Energy: 10, XP: 20},
	3: {Happiness: 10, Energy: 20, XP: 50},
	4: {Happiness: 15, Energy: 30, XP: 100},
}

// WeekendBonus is added to check-ins dated Saturday or Sunday.
var WeekendBonus = Benefit{Happiness: 10, Health: 10, Energy: 15, XP: 50}

// DailyDecay is subtracted per fully skipped day. XP never decays.
var DailyDecay = Benefit{Happiness: 15, Health: 10, Energy: 20}

// ─── Streak milestones ──────────────────────────────────────────────────────

// StreakMilestones lists milestone lengths in ascending order.
var StreakMilestones = []int{3, 7, 14, 30, 100}

var streakBonuses = map[int]StreakBonus{
	3:   {Happiness: 10, Health: 10, XP: 50},
	7:   {Happiness: 20, Health: 20, XP: 150},
	14:  {Happiness: 30, Health: 30, XP: 300},
	30:  {Happiness: 50, Health: 50, XP: 750},
	100: {Happiness: 100, Health: 100, XP: 3000},
}

// ─── Levels & stages ────────────────────────────────────────────────────────

// LevelThresholds holds the cumulative XP at which each level begins.
// Level N begins at LevelThresholds[N-1].
var LevelThresholds = []int{
	0,     // Level 1
	100,   // Level 2
	250,   // Level 3
	500,   // Level 4
	1000,  // Level 5
	2000,  // Level 6
	3500,  // Level 7
	5500,  // Level 8
	8000,  // Level 9
	12000, // Level 10
	18000, // Level 11
	25000, // Level 12
	35000, // Level 13
	50000, // Level 14
	75000, // Level 15
}

// MaxLevel is the highest level defined by LevelThresholds.
var MaxLevel = len(LevelThresholds)

// StageInfo describes one evolutionary stage.
type StageInfo struct {
	Stage       domain.Stage `json:"stage"`
	Name        string       `json:"name"`
	MinLevel    int          `json:"min_level"`
	Emoji       string       `json:"emoji"`
	Description string       `json:"description"`
}

// Stages is ordered by ascending MinLevel.
var Stages = []StageInfo{
	{Stage: domain.StageSpark, Name: "Byte", MinLevel: 1, Emoji: "🔩", Description: "A tiny robot sprout"},
	{Stage: domain.StageScout, Name: "Chip", MinLevel: 3, Emoji: "🤖", Description: "A curious young bot"},
	{Stage: domain.StageSage, Name: "Cyborg", MinLevel: 6, Emoji: "🦾", Description: "A wise mechanized bot"},
	{Stage: domain.StageGenius, Name: "Android", MinLevel: 9, Emoji: "🦿", Description: "An advanced AI robot"},
	{Stage: domain.StageOracle, Name: "Mecha", MinLevel: 12, Emoji: "🚀", Description: "A legendary robot master"},
}

// ─── Display names ──────────────────────────────────────────────────────────

var toolNames = map[domain.Tool]string{
	domain.ToolClaudeCode:    "Claude Code",
	domain.ToolClaude:        "Claude",
	domain.ToolGitHubCopilot: "GitHub Copilot",
	domain.ToolCopilot:       "Copilot",
	domain.ToolAgency:        "Agency",
	domain.ToolAgencyADO:     "Agency ADO",
	domain.ToolChatGPT:       "ChatGPT",
	domain.ToolOther:         "Other AI Tool",
}

var usageNames = map[domain.UsageType]string{
	domain.UsageCodeGeneration: "Code Generation",
	domain.UsageDebugging:      "Debugging",
	domain.UsageCodeReview:     "Code Review",
	domain.UsageDocumentation:  "Documentation",
	domain.UsageRefactoring:    "Refactoring",
	domain.UsageLearning:       "Learning",
	domain.UsageBrainstorming:  "Brainstorming",
	domain.UsageOther:          "Other",
}

var impactNames = map[domain.Impact]string{
	domain.ImpactLow:      "Low Impact",
	domain.ImpactMedium:   "Medium Impact",
	domain.ImpactHigh:     "High Impact",
	domain.ImpactCritical: "Critical Impact",
}

// ToolName returns the display name of a tool.
func ToolName(t domain.Tool) string { return toolNames[t] }

// UsageName returns the display name of a usage type.
func UsageName(u domain.UsageType) string { return usageNames[u] }

// ImpactName returns the display name of an impact level.
func ImpactName(i domain.Impact) string { return impactNames[i] }

// ToolBenefit returns the base benefit of a tool.
func ToolBenefit(t domain.Tool) Benefit { return toolBenefits[t] }

// UsageBonus returns the bonus of a usage type.
func UsageBonus(u domain.UsageType) Benefit { return usageBonuses[u] }

// ImpactMultiplier returns the multiplier of an impact level.
func ImpactMultiplier(i domain.Impact) float64 { return impactMultipliers[i] }

// ValidateTables checks that every enum variant has a table entry and that
// the ordered tables are strictly ascending.
func ValidateTables() error {
	for _, t := range domain.AllTools {
		if _, ok := toolBenefits[t]; !ok {
			return fmt.Errorf("tool %q missing from benefit table", t)
		}
		if _, ok := toolNames[t]; !ok {
			return fmt.Errorf("tool %q missing display name", t)
		}
	}
	for _, u := range domain.AllUsageTypes {
		if _, ok := usageBonuses[u]; !ok {
			return fmt.Errorf("usage type %q missing from bonus table", u)
		}
		if _, ok := usageNames[u]; !ok {
			return fmt.Errorf("usage type %q missing display name", u)
		}
	}
	for _, i := range domain.AllImpacts {
		if _, ok := impactMultipliers[i]; !ok {
			return fmt.Errorf("impact %q missing from multiplier table", i)
		}
		if _, ok := impactNames[i]; !ok {
			return fmt.Errorf("impact %q missing display name", i)
		}
	}
	if len(StreakMilestones) != len(streakBonuses) {
		return fmt.Errorf("streak milestones (%d) and bonuses (%d) disagree", len(StreakMilestones), len(streakBonuses))
	}
	for i, m := range StreakMilestones {
		if _, ok := streakBonuses[m]; !ok {
			return fmt.Errorf("streak milestone %d has no bonus", m)
		}
		if i > 0 && m <= StreakMilestones[i-1] {
			return fmt.Errorf("streak milestones not ascending at %d", m)
		}
	}
	if len(LevelThresholds) == 0 || LevelThresholds[0] != 0 {
		return fmt.Errorf("level 1 must begin at 0 XP")
	}
	for i := 1; i < len(LevelThresholds); i++ {
		if LevelThresholds[i] <= LevelThresholds[i-1] {
			return fmt.Errorf("level thresholds not ascending at level %d", i+1)
		}
	}
	if len(Stages) == 0 || Stages[0].MinLevel != 1 {
		return fmt.Errorf("first stage must begin at level 1")
	}
	for i := 1; i < len(Stages); i++ {
		if Stages[i].MinLevel <= Stages[i-1].MinLevel {
			return fmt.Errorf("stage %q not ascending", Stages[i].Stage)
		}
	}
	return nil
}

func init() {
	if err := ValidateTables(); err != nil {
		panic("gamification: " + err.Error())
	}
}
