// Package domain holds the entity types shared by every layer of Buddy.
// Domain types are pure — no infrastructure dependency.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// ─── AI Tools ───────────────────────────────────────────────────────────────

// Tool identifies an AI tool a user can log.
type Tool string

const (
	ToolClaudeCode    Tool = "claude-code"
	ToolClaude        Tool = "claude"
	ToolGitHubCopilot Tool = "github-copilot"
	ToolCopilot       Tool = "copilot"
	ToolAgency        Tool = "agency"
	ToolAgencyADO     Tool = "agency-ado"
	ToolChatGPT       Tool = "chatgpt"
	ToolOther         Tool = "other"
)

// AllTools lists every tool in display order.
var AllTools = []Tool{
	ToolClaudeCode, ToolClaude, ToolGitHubCopilot, ToolCopilot,
	ToolAgency, ToolAgencyADO, ToolChatGPT, ToolOther,
}

func (t Tool) IsValid() bool {
	switch t {
	case ToolClaudeCode, ToolClaude, ToolGitHubCopilot, ToolCopilot,
		ToolAgency, ToolAgencyADO, ToolChatGPT, ToolOther:
		return true
	default:
		return false
	}
}

// ParseTool normalizes user input into a Tool.
func ParseTool(s string) (Tool, error) {
	t := Tool(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTool, s)
	}
	return t, nil
}

// ─── Usage Types ────────────────────────────────────────────────────────────

// UsageType tags what a tool was used for.
type UsageType string

const (
	UsageCodeGeneration UsageType = "code-generation"
	UsageDebugging      UsageType = "debugging"
	UsageCodeReview     UsageType = "code-review"
	UsageDocumentation  UsageType = "documentation"
	UsageRefactoring    UsageType = "refactoring"
	UsageLearning       UsageType = "learning"
	UsageBrainstorming  UsageType = "brainstorming"
	UsageOther          UsageType = "other"
)

// AllUsageTypes lists every usage type in display order.
var AllUsageTypes = []UsageType{
	UsageCodeGeneration, UsageDebugging, UsageCodeReview, UsageDocumentation,
	UsageRefactoring, UsageLearning, UsageBrainstorming, UsageOther,
}

func (u UsageType) IsValid() bool {
	switch u {
	case UsageCodeGeneration, UsageDebugging, UsageCodeReview, UsageDocumentation,
		UsageRefactoring, UsageLearning, UsageBrainstorming, UsageOther:
		return true
	default:
		return false
	}
}

func ParseUsageType(s string) (UsageType, error) {
	u := UsageType(strings.ToLower(strings.TrimSpace(s)))
	if !u.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidUsageType, s)
	}
	return u, nil
}

// ─── Impact ─────────────────────────────────────────────────────────────────

// Impact is the user-asserted significance of a tool usage.
// Ordered: low < medium < high < critical.
type Impact string

const (
	ImpactLow      Impact = "low"
	ImpactMedium   Impact = "medium"
	ImpactHigh     Impact = "high"
	ImpactCritical Impact = "critical"
)

// AllImpacts lists impact levels in ascending order.
var AllImpacts = []Impact{ImpactLow, ImpactMedium, ImpactHigh, ImpactCritical}

func (i Impact) IsValid() bool {
	return i.Rank() > 0
}

// Rank returns the 1-based position of the impact level, 0 if unknown.
func (i Impact) Rank() int {
	switch i {
	case ImpactLow:
		return 1
	case ImpactMedium:
		return 2
	case ImpactHigh:
		return 3
	case ImpactCritical:
		return 4
	default:
		return 0
	}
}

func ParseImpact(s string) (Impact, error) {
	i := Impact(strings.ToLower(strings.TrimSpace(s)))
	if !i.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidImpact, s)
	}
	return i, nil
}

// ─── Activity ───────────────────────────────────────────────────────────────

// ToolUsage is one tool logged in a check-in.
type ToolUsage struct {
	Tool       Tool        `json:"tool" validate:"required"`
	UsageTypes []UsageType `json:"usage_types" validate:"required,min=1,unique"`
	Impact     Impact      `json:"impact" validate:"required"`
}

// Validate checks that every enum in the usage is known and that usage
// types form a set.
func (u ToolUsage) Validate() error {
	if !u.Tool.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTool, u.Tool)
	}
	if len(u.UsageTypes) == 0 {
		return fmt.Errorf("%s: %w", u.Tool, ErrEmptyUsageTypes)
	}
	seen := make(map[UsageType]bool, len(u.UsageTypes))
	for _, t := range u.UsageTypes {
		if !t.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidUsageType, t)
		}
		if seen[t] {
			return fmt.Errorf("%s: %w: %q", u.Tool, ErrDuplicateUsage, t)
		}
		seen[t] = true
	}
	if !u.Impact.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidImpact, u.Impact)
	}
	return nil
}

// Activity is an immutable record of one daily check-in.
type Activity struct {
	ID           string      `json:"id"`
	UserID       string      `json:"user_id"`
	Date         string      `json:"date"` // YYYY-MM-DD
	Timestamp    time.Time   `json:"timestamp"`
	Tools        []ToolUsage `json:"tools"`
	Notes        string      `json:"notes,omitempty"`
	PointsEarned int         `json:"points_earned"`
}

// HasImpact reports whether any tool in the activity was logged at the given impact.
func (a Activity) HasImpact(i Impact) bool {
	for _, t := range a.Tools {
		if t.Impact == i {
			return true
		}
	}
	return false
}
