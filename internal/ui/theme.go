// Package ui holds the terminal styles shared by the CLI commands.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ai-buddy/buddy/internal/domain"
)

const (
	IconBuddy   = "🐾"
	IconSparkle = "✨"
	IconFire    = "🔥"
	IconTrophy  = "🏆"
	IconBolt    = "⚡"
	IconBell    = "🔔"
	IconScroll  = "📜"
	IconChart   = "📊"
	IconLock    = "🔒"
	IconDone    = "✅"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Panel = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

const barWidth = 20

// StatBar renders a 0-100 value as a fixed-width bar, colored by how healthy
// the value is.
func StatBar(v int) string {
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	filled := v * barWidth / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	style := Good
	switch {
	case v < 30:
		style = Bad
	case v < 60:
		style = Warn
	}
	return fmt.Sprintf("%s %3d", style.Render(bar), v)
}

// MoodText colors a mood by how urgent it is.
func MoodText(m domain.Mood) string {
	switch m {
	case domain.MoodHappy:
		return Good.Render(string(m))
	case domain.MoodContent:
		return H2.Render(string(m))
	case domain.MoodHungry:
		return Warn.Render(string(m))
	case domain.MoodSleeping:
		return Muted.Render(string(m))
	default:
		return Bad.Render(string(m))
	}
}

// RarityText colors an achievement rarity.
func RarityText(r domain.Rarity) string {
	switch r {
	case domain.RarityLegendary:
		return Gold.Render(string(r))
	case domain.RarityEpic:
		return Title.Render(string(r))
	case domain.RarityRare:
		return H2.Render(string(r))
	default:
		return Muted.Render(string(r))
	}
}
