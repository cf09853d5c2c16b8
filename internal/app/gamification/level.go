package gamification

import "github.com/ai-buddy/buddy/internal/domain"

// LevelForXP returns the highest level whose threshold is <= xp.
// XP beyond the last threshold stays at MaxLevel.
func LevelForXP(xp int) int {
	for i := len(LevelThresholds) - 1; i >= 0; i-- {
		if xp >= LevelThresholds[i] {
			return i + 1
		}
	}
	return 1
}

// StageForLevel returns the highest stage whose minimum level is <= level.
func StageForLevel(level int) domain.Stage {
	for i := len(Stages) - 1; i >= 0; i-- {
		if level >= Stages[i].MinLevel {
			return Stages[i].Stage
		}
	}
	return Stages[0].Stage
}

// StageDetails returns the display info for a stage.
func StageDetails(s domain.Stage) StageInfo {
	for _, info := range Stages {
		if info.Stage == s {
			return info
		}
	}
	return Stages[0]
}

// XPAtLevel returns the cumulative XP at which level begins.
func XPAtLevel(level int) int {
	if level <= 1 {
		return 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return LevelThresholds[level-1]
}

// XPForNextLevel returns the cumulative XP at which level+1 begins.
// At MaxLevel it returns the last threshold.
func XPForNextLevel(level int) int {
	if level >= MaxLevel {
		return LevelThresholds[MaxLevel-1]
	}
	if level < 1 {
		level = 1
	}
	return LevelThresholds[level]
}

// LevelProgress returns the percentage (0–100) of the way from the start of
// level to the next one. MaxLevel is always 100.
func LevelProgress(xp, level int) float64 {
	start := XPAtLevel(level)
	next := XPForNextLevel(level)
	span := next - start
	if span <= 0 {
		return 100
	}
	pct := float64(xp-start) * 100 / float64(span)
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}

// LevelUpResult compares the level and stage before and after an XP gain.
type LevelUpResult struct {
	LeveledUp    bool         `json:"leveled_up"`
	OldLevel     int          `json:"old_level"`
	NewLevel     int          `json:"new_level"`
	StageChanged bool         `json:"stage_changed"`
	OldStage     domain.Stage `json:"old_stage"`
	NewStage     domain.Stage `json:"new_stage"`
}

// CheckLevelUp derives both levels and stages from cumulative XP.
func CheckLevelUp(oldXP, newXP int) LevelUpResult {
	oldLevel := LevelForXP(oldXP)
	newLevel := LevelForXP(newXP)
	oldStage := StageForLevel(oldLevel)
	newStage := StageForLevel(newLevel)
	return LevelUpResult{
		LeveledUp:    newLevel > oldLevel,
		OldLevel:     oldLevel,
		NewLevel:     newLevel,
		StageChanged: oldStage != newStage,
		OldStage:     oldStage,
		NewStage:     newStage,
	}
}
