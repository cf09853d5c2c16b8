package gamification

import (
	"reflect"
	"testing"
	"time"

	"github.com/ai-buddy/buddy/internal/domain"
)

var (
	wednesday = time.Date(2025, 3, 5, 14, 0, 0, 0, time.UTC)
	saturday  = time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)
)

func usage(tool domain.Tool, impact domain.Impact, types ...domain.UsageType) domain.ToolUsage {
	return domain.ToolUsage{Tool: tool, UsageTypes: types, Impact: impact}
}

func assertBenefits(t *testing.T, got CareBenefits, h, he, e, xp int) {
	t.Helper()
	if got.Happiness != h || got.Health != he || got.Energy != e || got.Experience != xp {
		t.Errorf("benefits = (%d,%d,%d,%d), want (%d,%d,%d,%d)",
			got.Happiness, got.Health, got.Energy, got.Experience, h, he, e, xp)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Care Calculator
// ═══════════════════════════════════════════════════════════════════════════

func TestCareBenefits_SingleToolMediumImpact(t *testing.T) {
	// (12+3, 15+5, 20+3, 25+10) × 1.5 = (22.5, 30, 34.5, 52.5), rounded half-up.
	got := CalculateCareBenefits([]domain.ToolUsage{
		usage(domain.ToolClaude, domain.ImpactMedium, domain.UsageDebugging),
	}, wednesday)

	assertBenefits(t, got, 23, 30, 35, 53)
	if got.Breakdown.ImpactMultiplier != 1.5 {
		t.Errorf("multiplier = %v, want 1.5", got.Breakdown.ImpactMultiplier)
	}
	if got.Breakdown.Base != (Benefit{12, 15, 20, 25}) {
		t.Errorf("base = %+v", got.Breakdown.Base)
	}
	if got.Breakdown.UsageBonus != (Benefit{3, 5, 3, 10}) {
		t.Errorf("usage bonus = %+v", got.Breakdown.UsageBonus)
	}
	if got.Breakdown.MultiToolBonus != nil || got.Breakdown.WeekendBonus != nil {
		t.Error("weekday single-tool check-in must not carry bonuses")
	}
	if got.Breakdown.Total != (Benefit{23, 30, 35, 53}) {
		t.Errorf("total = %+v", got.Breakdown.Total)
	}
}

func TestCareBenefits_TwoToolsMultiToolBonus(t *testing.T) {
	// base (22,27,35,45) + usage (7,7,5,18) = (29,34,40,63), then +{5,_,10,20}.
	got := CalculateCareBenefits([]domain.ToolUsage{
		usage(domain.ToolClaude, domain.ImpactLow, domain.UsageDebugging),
		usage(domain.ToolChatGPT, domain.ImpactLow, domain.UsageLearning),
	}, wednesday)

	assertBenefits(t, got, 34, 34, 50, 83)
	if got.Breakdown.MultiToolBonus == nil {
		t.Fatal("expected multi-tool bonus")
	}
	if got.Breakdown.MultiToolBonus.XP != 20 {
		t.Errorf("multi-tool xp = %d, want 20", got.Breakdown.MultiToolBonus.XP)
	}
}

func TestCareBenefits_MultiToolBonusLeavesHealth(t *testing.T) {
	tools := []domain.ToolUsage{
		usage(domain.ToolClaude, domain.ImpactLow, domain.UsageOther),
		usage(domain.ToolChatGPT, domain.ImpactLow, domain.UsageOther),
		usage(domain.ToolCopilot, domain.ImpactLow, domain.UsageOther),
	}
	got := CalculateCareBenefits(tools, wednesday)

	wantHealth := 15 + 12 + 15 + 3
	if got.Health != wantHealth {
		t.Errorf("health = %d, want %d (no multi-tool health)", got.Health, wantHealth)
	}
	if got.Breakdown.MultiToolBonus == nil || got.Breakdown.MultiToolBonus.XP != 50 {
		t.Errorf("expected 3-tool bonus, got %+v", got.Breakdown.MultiToolBonus)
	}
}

func TestCareBenefits_DuplicateToolCountsOnce(t *testing.T) {
	got := CalculateCareBenefits([]domain.ToolUsage{
		usage(domain.ToolClaude, domain.ImpactLow, domain.UsageDebugging),
		usage(domain.ToolClaude, domain.ImpactLow, domain.UsageLearning),
	}, wednesday)
	if got.Breakdown.MultiToolBonus != nil {
		t.Error("same tool twice is one distinct tool")
	}
	// Both entries still contribute base benefit.
	if got.Breakdown.Base.XP != 50 {
		t.Errorf("base xp = %d, want 50", got.Breakdown.Base.XP)
	}
}

func TestCareBenefits_NoBonusBeyondFourTools(t *testing.T) {
	var tools []domain.ToolUsage
	for _, tool := range domain.AllTools[:5] {
		tools = append(tools, usage(tool, domain.ImpactLow, domain.UsageOther))
	}
	got := CalculateCareBenefits(tools, wednesday)
	if got.Breakdown.MultiToolBonus != nil {
		t.Errorf("5 distinct tools has no bonus entry, got %+v", got.Breakdown.MultiToolBonus)
	}
}

func TestCareBenefits_HighestMultiplierScalesEverything(t *testing.T) {
	got := CalculateCareBenefits([]domain.ToolUsage{
		usage(domain.ToolChatGPT, domain.ImpactLow, domain.UsageOther),
		usage(domain.ToolClaude, domain.ImpactCritical, domain.UsageOther),
	}, wednesday)
	if got.Breakdown.ImpactMultiplier != 3.0 {
		t.Fatalf("multiplier = %v, want 3.0", got.Breakdown.ImpactMultiplier)
	}
	// (10+12+1+1) × 3 + 5 = 77
	if got.Happiness != 77 {
		t.Errorf("happiness = %d, want 77", got.Happiness)
	}
}

func TestCareBenefits_WeekendBonus(t *testing.T) {
	// Same as the weekday case plus {10,10,15,50} before rounding.
	got := CalculateCareBenefits([]domain.ToolUsage{
		usage(domain.ToolClaude, domain.ImpactMedium, domain.UsageDebugging),
	}, saturday)

	assertBenefits(t, got, 33, 40, 50, 103)
	if got.Breakdown.WeekendBonus == nil {
		t.Error("expected weekend bonus on Saturday")
	}

	sunday := saturday.AddDate(0, 0, 1)
	if CalculateCareBenefits([]domain.ToolUsage{usage(domain.ToolOther, domain.ImpactLow, domain.UsageOther)}, sunday).Breakdown.WeekendBonus == nil {
		t.Error("expected weekend bonus on Sunday")
	}
}

func TestCareBenefits_WeekendUsesDateLocation(t *testing.T) {
	// Friday 23:30 in UTC-5 is already Saturday in UTC.
	ny := time.FixedZone("UTC-5", -5*3600)
	fridayNight := time.Date(2025, 2, 28, 23, 30, 0, 0, ny)
	got := CalculateCareBenefits([]domain.ToolUsage{usage(domain.ToolOther, domain.ImpactLow, domain.UsageOther)}, fridayNight)
	if got.Breakdown.WeekendBonus != nil {
		t.Error("local Friday must not get the weekend bonus")
	}
}

func TestCareBenefits_Deterministic(t *testing.T) {
	tools := []domain.ToolUsage{
		usage(domain.ToolAgency, domain.ImpactHigh, domain.UsageRefactoring, domain.UsageCodeReview),
		usage(domain.ToolGitHubCopilot, domain.ImpactMedium, domain.UsageCodeGeneration),
	}
	a := CalculateCareBenefits(tools, saturday)
	b := CalculateCareBenefits(tools, saturday)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("identical inputs gave different results:\n%+v\n%+v", a, b)
	}
}

func TestRoundHalfUp(t *testing.T) {
	cases := map[float64]int{0: 0, 0.49: 0, 0.5: 1, 1.5: 2, 2.5: 3, 22.5: 23, 52.5: 53, 30: 30}
	for in, want := range cases {
		if got := roundHalfUp(in); got != want {
			t.Errorf("roundHalfUp(%v) = %d, want %d", in, got, want)
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Tables
// ═══════════════════════════════════════════════════════════════════════════

func TestValidateTables(t *testing.T) {
	if err := ValidateTables(); err != nil {
		t.Fatalf("ValidateTables: %v", err)
	}
}

func TestTables_ExhaustiveOverEnums(t *testing.T) {
	for _, tool := range domain.AllTools {
		if ToolBenefit(tool) == (Benefit{}) {
			t.Errorf("tool %q has zero benefit", tool)
		}
		if ToolName(tool) == "" {
			t.Errorf("tool %q has no display name", tool)
		}
	}
	for _, u := range domain.AllUsageTypes {
		if UsageBonus(u) == (Benefit{}) {
			t.Errorf("usage %q has zero bonus", u)
		}
	}
	prev := 0.0
	for _, i := range domain.AllImpacts {
		m := ImpactMultiplier(i)
		if m <= prev {
			t.Errorf("impact %q multiplier %v not above %v", i, m, prev)
		}
		prev = m
	}
}
