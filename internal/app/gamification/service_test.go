package gamification_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ai-buddy/buddy/internal/app/gamification"
	"github.com/ai-buddy/buddy/internal/domain"
	"github.com/ai-buddy/buddy/internal/infra/sqlite"
)

var ctx = context.Background()

// testDB creates a temporary SQLite database for testing.
func testDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// onboarded returns a service over a fresh database with a user and buddy.
func onboarded(t *testing.T, opts ...gamification.Option) (*gamification.Service, *sqlite.DB) {
	t.Helper()
	db := testDB(t)
	opts = append([]gamification.Option{
		gamification.WithLocation(time.UTC),
		gamification.WithNotifications(db),
	}, opts...)
	svc := gamification.NewService(db, opts...)
	if _, err := svc.Onboard(ctx, gamification.OnboardRequest{}, day(2025, 3, 1)); err != nil {
		t.Fatalf("onboard: %v", err)
	}
	return svc, db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

// claudeDebugMedium is worth (23,30,35,53) on a weekday.
func claudeDebugMedium() gamification.CheckInRequest {
	return gamification.CheckInRequest{Tools: []domain.ToolUsage{{
		Tool:       domain.ToolClaude,
		UsageTypes: []domain.UsageType{domain.UsageDebugging},
		Impact:     domain.ImpactMedium,
	}}}
}

func mustCheckIn(t *testing.T, svc *gamification.Service, at time.Time) *gamification.CheckInResult {
	t.Helper()
	res, err := svc.CheckInAt(ctx, claudeDebugMedium(), at)
	if err != nil {
		t.Fatalf("check-in %s: %v", at.Format("2006-01-02"), err)
	}
	return res
}

func hasAchievement(as []domain.Achievement, id string) bool {
	for _, a := range as {
		if a.ID == id {
			return true
		}
	}
	return false
}

// ═══════════════════════════════════════════════════════════════════════════
// Onboarding
// ═══════════════════════════════════════════════════════════════════════════

func TestOnboard_Defaults(t *testing.T) {
	db := testDB(t)
	svc := gamification.NewService(db, gamification.WithLocation(time.UTC))

	res, err := svc.Onboard(ctx, gamification.OnboardRequest{}, day(2025, 3, 1))
	if err != nil {
		t.Fatalf("onboard: %v", err)
	}
	b := res.Buddy
	if b.Name != gamification.DefaultBuddyName || res.User.Name != gamification.DefaultUserName {
		t.Errorf("names = %q / %q", res.User.Name, b.Name)
	}
	if b.Level != 1 || b.Stage != domain.StageSpark || b.Mood != domain.MoodContent {
		t.Errorf("buddy = level %d stage %s mood %s", b.Level, b.Stage, b.Mood)
	}
	if b.Stats != (domain.BuddyStats{Happiness: 50, Health: 50, Energy: 50, Overall: 50}) {
		t.Errorf("stats = %+v", b.Stats)
	}
	if b.CurrentCareStreak != 0 || b.LongestCareStreak != 0 || b.LastFedDate != "" {
		t.Errorf("streak state = %+v", b)
	}
	if len(res.Achievements) != 0 {
		t.Errorf("no founding period configured, got %v", res.Achievements)
	}

	stored, err := db.GetBuddy(ctx, res.User.ID)
	if err != nil || stored == nil {
		t.Fatalf("stored buddy: %v %v", stored, err)
	}
	if stored.ID != b.ID {
		t.Errorf("stored buddy id = %s, want %s", stored.ID, b.ID)
	}
}

func TestOnboard_Twice(t *testing.T) {
	svc, _ := onboarded(t)
	_, err := svc.Onboard(ctx, gamification.OnboardRequest{UserName: "again"}, day(2025, 3, 2))
	if !errors.Is(err, domain.ErrAlreadyOnboarded) {
		t.Errorf("expected ErrAlreadyOnboarded, got %v", err)
	}
}

func TestOnboard_FoundingMember(t *testing.T) {
	db := testDB(t)
	svc := gamification.NewService(db,
		gamification.WithLocation(time.UTC),
		gamification.WithFoundingUntil("2025-03-31"))

	res, err := svc.Onboard(ctx, gamification.OnboardRequest{UserName: "Ada", BuddyName: "Bolt"}, day(2025, 3, 31))
	if err != nil {
		t.Fatalf("onboard: %v", err)
	}
	if !hasAchievement(res.Achievements, gamification.AchievementFoundingMember) {
		t.Fatalf("expected founding-member, got %v", res.Achievements)
	}
	if !res.User.HasAchievement(gamification.AchievementFoundingMember) {
		t.Error("user set missing founding-member")
	}
	if res.User.TotalPoints != 100 {
		t.Errorf("points = %d, want founding reward 100", res.User.TotalPoints)
	}

	// The reward is part of the total once; later check-ins keep it.
	r := mustCheckIn(t, svc, day(2025, 4, 2))
	if r.User.TotalPoints != 53+25+100 {
		t.Errorf("points after first check-in = %d, want 178", r.User.TotalPoints)
	}
}

func TestOnboard_AfterFoundingPeriod(t *testing.T) {
	db := testDB(t)
	svc := gamification.NewService(db,
		gamification.WithLocation(time.UTC),
		gamification.WithFoundingUntil("2025-03-31"))

	res, err := svc.Onboard(ctx, gamification.OnboardRequest{}, day(2025, 4, 1))
	if err != nil {
		t.Fatalf("onboard: %v", err)
	}
	if len(res.Achievements) != 0 || res.User.TotalPoints != 0 {
		t.Errorf("late user got %v / %d points", res.Achievements, res.User.TotalPoints)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Check-In
// ═══════════════════════════════════════════════════════════════════════════

func TestCheckIn_First(t *testing.T) {
	svc, db := onboarded(t)

	res := mustCheckIn(t, svc, day(2025, 3, 5)) // Wednesday

	if res.Benefits.Happiness != 23 || res.Benefits.Health != 30 || res.Benefits.Energy != 35 || res.Benefits.Experience != 53 {
		t.Errorf("benefits = %+v", res.Benefits)
	}
	b := res.Buddy
	if b.Stats != (domain.BuddyStats{Happiness: 73, Health: 80, Energy: 85, Overall: 79}) {
		t.Errorf("stats = %+v", b.Stats)
	}
	if b.Mood != domain.MoodContent || b.Level != 1 || b.Experience != 53 {
		t.Errorf("buddy = mood %s level %d xp %d", b.Mood, b.Level, b.Experience)
	}
	if b.LastFedDate != "2025-03-05" || b.CurrentCareStreak != 1 || b.LongestCareStreak != 1 || b.TotalCareSessions != 1 {
		t.Errorf("care state = %+v", b)
	}
	if res.LevelUp.LeveledUp || res.StreakBonus != nil || res.DecayApplied {
		t.Errorf("unexpected events: %+v", res)
	}
	if res.Activity.PointsEarned != 53 || res.Activity.Date != "2025-03-05" || res.Activity.ID == "" {
		t.Errorf("activity = %+v", res.Activity)
	}

	if !hasAchievement(res.NewAchievements, "first-checkin") || len(res.NewAchievements) != 1 {
		t.Errorf("new achievements = %v", res.NewAchievements)
	}
	u := res.User
	if u.TotalPoints != 53+25 || u.TotalActivities != 1 || u.LastCheckInDate != "2025-03-05" || u.CurrentStreak != 1 {
		t.Errorf("user = %+v", u)
	}
	if u.CurrentLevelProgress != 53 {
		t.Errorf("level progress = %v, want 53", u.CurrentLevelProgress)
	}

	// Persisted state matches the returned bundle.
	stored, _ := db.GetUser(ctx)
	if stored.TotalPoints != u.TotalPoints || !stored.HasAchievement("first-checkin") {
		t.Errorf("stored user = %+v", stored)
	}
	acts, _ := db.GetActivities(ctx, u.ID)
	if len(acts) != 1 || acts[0].ID != res.Activity.ID {
		t.Errorf("stored activities = %+v", acts)
	}
}

func TestCheckIn_SameDayRejected(t *testing.T) {
	svc, db := onboarded(t)
	first := mustCheckIn(t, svc, day(2025, 3, 5))

	_, err := svc.CheckInAt(ctx, claudeDebugMedium(), day(2025, 3, 5).Add(9*time.Hour))
	if !errors.Is(err, domain.ErrAlreadyCheckedIn) {
		t.Fatalf("expected ErrAlreadyCheckedIn, got %v", err)
	}

	b, _ := db.GetBuddy(ctx, first.User.ID)
	if b.Experience != first.Buddy.Experience || b.TotalCareSessions != 1 {
		t.Errorf("duplicate check-in changed state: %+v", b)
	}
	acts, _ := db.GetActivities(ctx, first.User.ID)
	if len(acts) != 1 {
		t.Errorf("activities = %d, want 1", len(acts))
	}
}

func TestCheckIn_LocalMidnightIsNewDay(t *testing.T) {
	ny := time.FixedZone("UTC-5", -5*3600)
	svc, _ := onboarded(t, gamification.WithLocation(ny))

	// 23:30 and 00:10 local are 40 minutes apart but on different days.
	late := time.Date(2025, 3, 5, 23, 30, 0, 0, ny)
	mustCheckIn(t, svc, late)
	res := mustCheckIn(t, svc, late.Add(40*time.Minute))
	if res.Streak.NewStreak != 2 || res.Activity.Date != "2025-03-06" {
		t.Errorf("streak %d on %s", res.Streak.NewStreak, res.Activity.Date)
	}
}

func TestCheckIn_LevelUp(t *testing.T) {
	svc, _ := onboarded(t)
	mustCheckIn(t, svc, day(2025, 3, 5))
	res := mustCheckIn(t, svc, day(2025, 3, 6))

	if !res.LevelUp.LeveledUp || res.LevelUp.OldLevel != 1 || res.LevelUp.NewLevel != 2 {
		t.Errorf("level up = %+v", res.LevelUp)
	}
	if res.Buddy.Experience != 106 || res.User.Level != 2 {
		t.Errorf("xp %d level %d", res.Buddy.Experience, res.User.Level)
	}
	// (96, 100, 100) after capping.
	if res.Buddy.Stats.Overall != 99 || res.Buddy.Mood != domain.MoodHappy {
		t.Errorf("stats %+v mood %s", res.Buddy.Stats, res.Buddy.Mood)
	}
	// first-checkin reward counted once.
	if res.User.TotalPoints != 53+53+25 {
		t.Errorf("points = %d, want 131", res.User.TotalPoints)
	}
}

func TestCheckIn_StreakMilestones(t *testing.T) {
	svc, _ := onboarded(t)
	start := day(2025, 3, 3) // Monday

	var results []*gamification.CheckInResult
	for i := 0; i < 8; i++ {
		results = append(results, mustCheckIn(t, svc, start.AddDate(0, 0, i)))
	}

	d3 := results[2]
	if d3.StreakBonus == nil || d3.StreakBonus.XP != 50 {
		t.Errorf("day 3 bonus = %+v", d3.StreakBonus)
	}
	if d3.XPGained != d3.Benefits.Experience+50 {
		t.Errorf("day 3 xp = %d, want care + 50", d3.XPGained)
	}
	if !hasAchievement(d3.NewAchievements, "streak-3") {
		t.Errorf("day 3 achievements = %v", d3.NewAchievements)
	}

	d7 := results[6]
	if d7.Streak.NewStreak != 7 || d7.StreakBonus == nil || *d7.StreakBonus != (gamification.StreakBonus{Happiness: 20, Health: 20, XP: 150}) {
		t.Errorf("day 7 streak %d bonus %+v", d7.Streak.NewStreak, d7.StreakBonus)
	}
	if d7.Activity.PointsEarned != d7.Benefits.Experience+150 {
		t.Errorf("day 7 points = %d", d7.Activity.PointsEarned)
	}
	if !hasAchievement(d7.NewAchievements, "streak-7") {
		t.Errorf("day 7 achievements = %v", d7.NewAchievements)
	}

	d8 := results[7]
	if d8.Streak.NewStreak != 8 || d8.StreakBonus != nil {
		t.Errorf("day 8 streak %d bonus %+v", d8.Streak.NewStreak, d8.StreakBonus)
	}
	if d8.Buddy.LongestCareStreak != 8 {
		t.Errorf("longest = %d", d8.Buddy.LongestCareStreak)
	}

	// Weekend days carried the weekend bonus.
	if results[5].Benefits.Breakdown.WeekendBonus == nil || results[4].Benefits.Breakdown.WeekendBonus != nil {
		t.Error("weekend bonus should apply on Saturday only among days 5-6")
	}
}

func TestCheckIn_NeglectDecay(t *testing.T) {
	svc, _ := onboarded(t)
	mustCheckIn(t, svc, day(2025, 3, 5))

	res := mustCheckIn(t, svc, day(2025, 3, 10)) // four skipped days

	if !res.Streak.StreakBroken || res.Streak.NewStreak != 1 || res.Streak.DaysNeglected != 4 {
		t.Errorf("streak = %+v", res.Streak)
	}
	if !res.DecayApplied {
		t.Error("expected decay")
	}
	// (73,80,85) - 4×(15,10,20) = (13,40,5), then + (23,30,35).
	want := domain.BuddyStats{Happiness: 36, Health: 70, Energy: 40, Overall: 49}
	if res.Buddy.Stats != want {
		t.Errorf("stats = %+v, want %+v", res.Buddy.Stats, want)
	}
	if res.Buddy.Mood != domain.MoodHungry || res.Buddy.DaysNeglected != 0 {
		t.Errorf("mood %s neglected %d", res.Buddy.Mood, res.Buddy.DaysNeglected)
	}
	if res.Buddy.LongestCareStreak != 1 || res.User.CurrentStreak != 1 {
		t.Errorf("streak mirrors = %d / %d", res.Buddy.LongestCareStreak, res.User.CurrentStreak)
	}
}

func TestCheckIn_ExperienceNeverDecreases(t *testing.T) {
	svc, _ := onboarded(t)
	prev := 0
	for _, d := range []int{3, 4, 9, 20, 21} {
		res := mustCheckIn(t, svc, day(2025, 3, d))
		if res.Buddy.Experience < prev {
			t.Fatalf("experience dropped from %d to %d", prev, res.Buddy.Experience)
		}
		prev = res.Buddy.Experience
	}
}

func TestCheckIn_Validation(t *testing.T) {
	svc, _ := onboarded(t)

	_, err := svc.CheckInAt(ctx, gamification.CheckInRequest{}, day(2025, 3, 5))
	if !errors.Is(err, domain.ErrNoTools) {
		t.Errorf("empty tools: %v", err)
	}

	bad := claudeDebugMedium()
	bad.Tools[0].Tool = "clippy"
	if _, err := svc.CheckInAt(ctx, bad, day(2025, 3, 5)); !errors.Is(err, domain.ErrInvalidTool) {
		t.Errorf("unknown tool: %v", err)
	}

	bad = claudeDebugMedium()
	bad.Tools[0].UsageTypes = nil
	if _, err := svc.CheckInAt(ctx, bad, day(2025, 3, 5)); !errors.Is(err, domain.ErrEmptyUsageTypes) {
		t.Errorf("no usage types: %v", err)
	}
}

func TestCheckIn_RepeatedUsageTypeRejected(t *testing.T) {
	svc, db := onboarded(t)

	dup := claudeDebugMedium()
	dup.Tools[0].UsageTypes = []domain.UsageType{
		domain.UsageDebugging, domain.UsageDebugging, domain.UsageDebugging, domain.UsageDebugging,
	}
	if _, err := svc.CheckInAt(ctx, dup, day(2025, 3, 5)); !errors.Is(err, domain.ErrDuplicateUsage) {
		t.Fatalf("repeated usage type: %v", err)
	}

	user, err := db.GetUser(ctx)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	buddy, err := db.GetBuddy(ctx, user.ID)
	if err != nil {
		t.Fatalf("get buddy: %v", err)
	}
	if buddy.Experience != 0 || buddy.LastFedDate != "" {
		t.Errorf("rejected check-in changed buddy: xp=%d last=%q", buddy.Experience, buddy.LastFedDate)
	}

	// The same day is still open and scores the tag once.
	res := mustCheckIn(t, svc, day(2025, 3, 5))
	if res.Benefits.Experience != 53 {
		t.Errorf("xp = %d, want 53", res.Benefits.Experience)
	}
}

func TestCheckIn_NotOnboarded(t *testing.T) {
	svc := gamification.NewService(testDB(t))
	_, err := svc.CheckInAt(ctx, claudeDebugMedium(), day(2025, 3, 5))
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

// failingStore fails activity writes to exercise partial persistence.
type failingStore struct {
	*sqlite.DB
	err error
}

func (f failingStore) SaveActivity(context.Context, domain.Activity) error { return f.err }

func TestCheckIn_PersistenceFailureAborts(t *testing.T) {
	db := testDB(t)
	diskFull := errors.New("disk full")
	svc := gamification.NewService(failingStore{DB: db, err: diskFull}, gamification.WithLocation(time.UTC))
	if _, err := svc.Onboard(ctx, gamification.OnboardRequest{}, day(2025, 3, 1)); err != nil {
		t.Fatalf("onboard: %v", err)
	}

	_, err := svc.CheckInAt(ctx, claudeDebugMedium(), day(2025, 3, 5))
	if !errors.Is(err, diskFull) || !strings.Contains(err.Error(), "save activity") {
		t.Fatalf("expected wrapped save activity error, got %v", err)
	}

	// Buddy was written before the failure and is not rolled back.
	user, _ := db.GetUser(ctx)
	b, _ := db.GetBuddy(ctx, user.ID)
	if b.LastFedDate != "2025-03-05" {
		t.Errorf("buddy last fed = %q", b.LastFedDate)
	}
	if user.TotalActivities != 0 {
		t.Errorf("user must not be written after a failed activity write")
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Views
// ═══════════════════════════════════════════════════════════════════════════

func TestStatus_DerivesNeglectWithoutPersisting(t *testing.T) {
	svc, db := onboarded(t)
	mustCheckIn(t, svc, day(2025, 3, 5))

	st, err := svc.Status(ctx, day(2025, 3, 5))
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !st.CheckedInToday || st.Buddy.Mood != domain.MoodContent || st.XPToNextLevel != 47 || st.NextMilestone != 3 {
		t.Errorf("same-day status = %+v", st)
	}

	st, err = svc.Status(ctx, day(2025, 3, 8))
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.CheckedInToday || st.Buddy.DaysNeglected != 2 || st.Buddy.Mood != domain.MoodNeglected {
		t.Errorf("neglected status = neglected %d mood %s", st.Buddy.DaysNeglected, st.Buddy.Mood)
	}
	if st.Buddy.Stats.Happiness != 73 {
		t.Errorf("status must not decay stats, got %+v", st.Buddy.Stats)
	}

	stored, _ := db.GetBuddy(ctx, st.User.ID)
	if stored.DaysNeglected != 0 || stored.Mood != domain.MoodContent {
		t.Errorf("status persisted derived fields: %+v", stored)
	}
}

func TestRenameBuddy(t *testing.T) {
	svc, _ := onboarded(t)

	b, err := svc.RenameBuddy(ctx, "  Sparky ")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if b.Name != "Sparky" {
		t.Errorf("name = %q", b.Name)
	}
	if _, err := svc.RenameBuddy(ctx, "   "); !errors.Is(err, domain.ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
}

func TestAchievements_Listing(t *testing.T) {
	svc, _ := onboarded(t)
	mustCheckIn(t, svc, day(2025, 3, 5))

	list, err := svc.Achievements(ctx)
	if err != nil {
		t.Fatalf("achievements: %v", err)
	}
	if len(list) != len(gamification.DefaultCatalog()) {
		t.Fatalf("listed %d, want full catalog", len(list))
	}
	for _, a := range list {
		switch a.Achievement.ID {
		case "first-checkin":
			if !a.Unlocked || a.UnlockedAt == nil {
				t.Errorf("first-checkin = %+v", a)
			}
		case "checkins-10":
			if a.Unlocked || a.Progress != 1 || a.Target != 10 || a.UnlockedAt != nil {
				t.Errorf("checkins-10 = %+v", a)
			}
		}
	}
}

func TestHistoryAndStats(t *testing.T) {
	svc, _ := onboarded(t)
	for _, d := range []int{3, 4, 5} {
		mustCheckIn(t, svc, day(2025, 3, d))
	}

	hist, err := svc.History(ctx, 2)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 2 || hist[0].Date != "2025-03-05" || hist[1].Date != "2025-03-04" {
		t.Errorf("history = %+v", hist)
	}

	st, err := svc.ActivityStats(ctx, day(2025, 3, 5))
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Total != 3 || st.ThisWeek != 3 || st.CurrentStreak != 3 || st.LongestStreak != 3 {
		t.Errorf("stats = %+v", st)
	}
}

func TestLeaderboard(t *testing.T) {
	svc, _ := onboarded(t)
	mustCheckIn(t, svc, day(2025, 3, 5))

	entries, err := svc.Leaderboard(ctx, domain.LeaderboardOverall, day(2025, 3, 5))
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 1 || entries[0].Rank != 1 || entries[0].Points != 78 {
		t.Errorf("entries = %+v", entries)
	}
	if _, err := svc.Leaderboard(ctx, "monthly", day(2025, 3, 5)); !errors.Is(err, domain.ErrInvalidLeaderboard) {
		t.Errorf("expected ErrInvalidLeaderboard, got %v", err)
	}
}

func TestNotifications(t *testing.T) {
	svc, _ := onboarded(t)
	mustCheckIn(t, svc, day(2025, 3, 5))
	mustCheckIn(t, svc, day(2025, 3, 6)) // level 2

	pending, err := svc.Notifications(ctx, 10)
	if err != nil {
		t.Fatalf("notifications: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %+v, want achievement + level up", pending)
	}
	if pending[0].Type != domain.NotifyAchievement || pending[1].Type != domain.NotifyLevelUp {
		t.Errorf("types = %s, %s", pending[0].Type, pending[1].Type)
	}

	if err := svc.MarkNotificationShown(ctx, pending[0].ID); err != nil {
		t.Fatalf("mark shown: %v", err)
	}
	pending, _ = svc.Notifications(ctx, 10)
	if len(pending) != 1 {
		t.Errorf("pending after mark = %d, want 1", len(pending))
	}
}
