package cli

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/ai-buddy/buddy/internal/domain"
)

// ═══════════════════════════════════════════════════════════════════════════
// --use parsing
// ═══════════════════════════════════════════════════════════════════════════

func TestParseToolUsage(t *testing.T) {
	tests := []struct {
		in   string
		want domain.ToolUsage
	}{
		{"claude-code:debugging:high", domain.ToolUsage{
			Tool: domain.ToolClaudeCode, UsageTypes: []domain.UsageType{domain.UsageDebugging}, Impact: domain.ImpactHigh,
		}},
		{"ChatGPT:learning,brainstorming:critical", domain.ToolUsage{
			Tool:       domain.ToolChatGPT,
			UsageTypes: []domain.UsageType{domain.UsageLearning, domain.UsageBrainstorming},
			Impact:     domain.ImpactCritical,
		}},
		{"copilot:code-generation", domain.ToolUsage{
			Tool: domain.ToolCopilot, UsageTypes: []domain.UsageType{domain.UsageCodeGeneration}, Impact: domain.ImpactMedium,
		}},
		{"other:debugging,debugging,:low", domain.ToolUsage{
			Tool: domain.ToolOther, UsageTypes: []domain.UsageType{domain.UsageDebugging}, Impact: domain.ImpactLow,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseToolUsage(tt.in)
			if err != nil {
				t.Fatalf("parseToolUsage(%q) error: %v", tt.in, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseToolUsage(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseToolUsage_Errors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"gemini:debugging:high", domain.ErrInvalidTool},
		{"claude:dancing:high", domain.ErrInvalidUsageType},
		{"claude:debugging:enormous", domain.ErrInvalidImpact},
		{"claude::high", domain.ErrEmptyUsageTypes},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := parseToolUsage(tt.in)
			if !errors.Is(err, tt.want) {
				t.Errorf("parseToolUsage(%q) error = %v, want %v", tt.in, err, tt.want)
			}
		})
	}

	for _, bad := range []string{"claude", "a:b:c:d"} {
		if _, err := parseToolUsage(bad); err == nil {
			t.Errorf("parseToolUsage(%q) should fail", bad)
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Commands end to end
// ═══════════════════════════════════════════════════════════════════════════

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("buddy %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestCommands_BeforeInit(t *testing.T) {
	t.Setenv("BUDDY_HOME", t.TempDir())

	_, err := run(t, "status")
	if err == nil || !strings.Contains(err.Error(), "buddy init") {
		t.Errorf("status before init error = %v", err)
	}
}

func TestCommands_Flow(t *testing.T) {
	t.Setenv("BUDDY_HOME", t.TempDir())

	out := mustRun(t, "init", "--name", "Ada", "--buddy-name", "Pixel")
	if !strings.Contains(out, "Welcome, Ada") || !strings.Contains(out, "Pixel") {
		t.Errorf("init output:\n%s", out)
	}
	if _, err := run(t, "init"); err == nil || !strings.Contains(err.Error(), "already set up") {
		t.Errorf("second init error = %v", err)
	}

	if _, err := run(t, "checkin"); !errors.Is(err, domain.ErrNoTools) {
		t.Errorf("checkin without --use error = %v", err)
	}
	if _, err := run(t, "checkin", "--use", "gemini:debugging"); !errors.Is(err, domain.ErrInvalidTool) {
		t.Errorf("checkin with unknown tool error = %v", err)
	}

	out = mustRun(t, "checkin", "--use", "claude-code:debugging,refactoring:high", "-u", "chatgpt:learning", "--notes", "fixed the flaky test")
	if !strings.Contains(out, "Pixel was cared for!") {
		t.Errorf("checkin output:\n%s", out)
	}
	if !strings.Contains(out, "Hello, Buddy") {
		t.Errorf("first check-in should unlock the first achievement:\n%s", out)
	}

	if _, err := run(t, "checkin", "--use", "claude:learning"); !errors.Is(err, domain.ErrAlreadyCheckedIn) {
		t.Errorf("second check-in error = %v", err)
	}

	out = mustRun(t, "status")
	for _, want := range []string{"Pixel", "Happiness", "Checked in today", "1 day"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}

	out = mustRun(t, "history")
	if !strings.Contains(out, "fixed the flaky test") || !strings.Contains(out, "claude-code(high)") {
		t.Errorf("history output:\n%s", out)
	}

	out = mustRun(t, "achievements")
	if !strings.Contains(out, "Achievements 1/") {
		t.Errorf("achievements output:\n%s", out)
	}
	out = mustRun(t, "achievements", "--locked")
	if strings.Contains(out, "Hello, Buddy") {
		t.Errorf("--locked should hide unlocked achievements:\n%s", out)
	}

	out = mustRun(t, "leaderboard", "--type", "streak")
	if !strings.Contains(out, "Ada") {
		t.Errorf("leaderboard output:\n%s", out)
	}
	if _, err := run(t, "leaderboard", "--type", "monthly"); !errors.Is(err, domain.ErrInvalidLeaderboard) {
		t.Errorf("invalid leaderboard error = %v", err)
	}

	out = mustRun(t, "rename", "Sir", "Pixel")
	if !strings.Contains(out, "Sir Pixel") {
		t.Errorf("rename output:\n%s", out)
	}

	out = mustRun(t, "notifications", "--keep")
	if !strings.Contains(out, "Achievement unlocked: Hello, Buddy") {
		t.Errorf("notifications output:\n%s", out)
	}
	mustRun(t, "notifications")
	out = mustRun(t, "notifications")
	if !strings.Contains(out, "No new notifications") {
		t.Errorf("notifications should be marked shown:\n%s", out)
	}
}
