package gamification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ai-buddy/buddy/internal/domain"
)

// Default names for a freshly onboarded installation.
const (
	DefaultUserName  = "AI Enthusiast"
	DefaultBuddyName = "Buddy"
)

// Service composes the scoring functions with persistence.
// It holds no mutable state; callers serialize check-ins themselves.
type Service struct {
	store    domain.Store
	notifier *Notifier
	eval     *Evaluator
	log      *zap.Logger
	loc      *time.Location
	now      func() time.Time

	foundingUntil    string // YYYY-MM-DD, empty disables founding-member
	defaultUserName  string
	defaultBuddyName string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithLocation sets the time zone that defines a calendar day.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithNotifications enables the check-in event inbox.
func WithNotifications(store domain.NotificationStore) Option {
	return func(s *Service) {
		if store != nil {
			s.notifier = NewNotifier(store)
		}
	}
}

// WithCatalog replaces the built-in achievement catalog.
func WithCatalog(catalog []domain.Achievement) Option {
	return func(s *Service) { s.eval = NewEvaluator(catalog) }
}

// WithFoundingUntil sets the last calendar date (YYYY-MM-DD) on which a new
// user is granted the founding-member achievement.
func WithFoundingUntil(date string) Option {
	return func(s *Service) { s.foundingUntil = date }
}

// WithDefaultNames sets the names used when onboarding omits them.
func WithDefaultNames(user, buddy string) Option {
	return func(s *Service) {
		if user != "" {
			s.defaultUserName = user
		}
		if buddy != "" {
			s.defaultBuddyName = buddy
		}
	}
}

// WithClock overrides the wall clock used by CheckIn and Status.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a gamification service over the given store.
func NewService(store domain.Store, opts ...Option) *Service {
	s := &Service{
		store:            store,
		eval:             NewEvaluator(DefaultCatalog()),
		log:              zap.NewNop(),
		loc:              time.Local,
		now:              time.Now,
		defaultUserName:  DefaultUserName,
		defaultBuddyName: DefaultBuddyName,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Evaluator returns the achievement evaluator in use.
func (s *Service) Evaluator() *Evaluator { return s.eval }

// Location returns the time zone that defines a calendar day.
func (s *Service) Location() *time.Location { return s.loc }

// Now reads the service clock.
func (s *Service) Now() time.Time { return s.now() }

// Today returns the current calendar date in the service's time zone.
func (s *Service) Today() string {
	return FormatLocalDate(s.now(), s.loc)
}

// FormatLocalDate renders t as a calendar date in loc.
func FormatLocalDate(t time.Time, loc *time.Location) string {
	return domain.FormatDate(t.In(loc))
}

// ─── Onboarding ─────────────────────────────────────────────────────────────

// OnboardRequest names the new user and buddy. Empty names use the defaults.
type OnboardRequest struct {
	UserName  string `json:"user_name" validate:"omitempty,max=64"`
	BuddyName string `json:"buddy_name" validate:"omitempty,max=32"`
	Email     string `json:"email" validate:"omitempty,email"`
}

// OnboardResult is the freshly created user and buddy.
type OnboardResult struct {
	User         domain.User          `json:"user"`
	Buddy        domain.Buddy         `json:"buddy"`
	Achievements []domain.Achievement `json:"achievements"`
}

// Onboard creates the installation's user and buddy with fixed defaults.
// The founding-member achievement is only ever granted here.
func (s *Service) Onboard(ctx context.Context, req OnboardRequest, now time.Time) (*OnboardResult, error) {
	existing, err := s.store.GetUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrAlreadyOnboarded
	}

	userName := strings.TrimSpace(req.UserName)
	if userName == "" {
		userName = s.defaultUserName
	}
	buddyName := strings.TrimSpace(req.BuddyName)
	if buddyName == "" {
		buddyName = s.defaultBuddyName
	}
	created := now.UTC()

	user := domain.User{
		ID:        uuid.NewString(),
		Name:      userName,
		Email:     strings.TrimSpace(req.Email),
		CreatedAt: created,
		Level:     1,
	}
	buddy := domain.Buddy{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Name:      buddyName,
		Stats:     DefaultStats(),
		CreatedAt: created,
	}
	Refresh(&buddy)

	var granted []domain.Achievement
	if s.isFoundingPeriod(now) {
		if a, ok := s.eval.Find(AchievementFoundingMember); ok {
			user.AddAchievements(a.ID)
			granted = append(granted, a)
		}
	}
	user.TotalPoints = s.rewardXP(user.UnlockedAchievements)

	if err := s.store.SaveBuddy(ctx, buddy); err != nil {
		return nil, fmt.Errorf("save buddy: %w", err)
	}
	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	s.recordUnlocks(ctx, user.ID, granted, created)

	if s.notifier != nil && len(granted) > 0 {
		notes := make([]domain.Notification, 0, len(granted))
		for _, a := range granted {
			notes = append(notes, domain.Notification{
				UserID: user.ID, Type: domain.NotifyAchievement,
				Title: achievementTitle(a), Body: a.Description, CreatedAt: created,
			})
		}
		if _, err := s.notifier.Publish(ctx, notes); err != nil {
			s.log.Warn("publish onboarding notifications", zap.Error(err))
		}
	}

	s.log.Info("onboarded",
		zap.String("user_id", user.ID),
		zap.String("buddy", buddy.Name),
		zap.Bool("founding_member", len(granted) > 0))

	return &OnboardResult{User: user, Buddy: buddy, Achievements: granted}, nil
}

func (s *Service) isFoundingPeriod(now time.Time) bool {
	if s.foundingUntil == "" {
		return false
	}
	gap, err := domain.DaysBetween(FormatLocalDate(now, s.loc), s.foundingUntil)
	if err != nil {
		s.log.Warn("invalid founding_until date", zap.String("value", s.foundingUntil), zap.Error(err))
		return false
	}
	return gap >= 0
}

// ─── Buddy ──────────────────────────────────────────────────────────────────

// RenameBuddy changes the buddy's display name.
func (s *Service) RenameBuddy(ctx context.Context, name string) (*domain.Buddy, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrEmptyName
	}
	_, buddy, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	buddy.Name = name
	if err := s.store.SaveBuddy(ctx, *buddy); err != nil {
		return nil, fmt.Errorf("save buddy: %w", err)
	}
	return buddy, nil
}

// Status is a read-only view of the buddy as of a given moment.
type Status struct {
	User           domain.User  `json:"user"`
	Buddy          domain.Buddy `json:"buddy"`
	StageInfo      StageInfo    `json:"stage_info"`
	Today          string       `json:"today"`
	CheckedInToday bool         `json:"checked_in_today"`
	LevelProgress  float64      `json:"level_progress"`
	XPToNextLevel  int          `json:"xp_to_next_level"`
	NextMilestone  int          `json:"next_milestone,omitempty"`
	AtMaxLevel     bool         `json:"at_max_level"`
}

// Status reports the buddy as of now. Neglect and mood are derived for
// display; nothing is persisted and stats are not decayed until the next
// check-in.
func (s *Service) Status(ctx context.Context, now time.Time) (*Status, error) {
	user, buddy, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	today := FormatLocalDate(now, s.loc)

	view := *buddy
	neglected, err := DaysNeglected(buddy.LastFedDate, today)
	if err != nil {
		return nil, fmt.Errorf("days neglected: %w", err)
	}
	view.DaysNeglected = neglected
	Refresh(&view)

	st := &Status{
		User:           *user,
		Buddy:          view,
		StageInfo:      StageDetails(view.Stage),
		Today:          today,
		CheckedInToday: HasCheckedInToday(buddy.LastFedDate, today),
		LevelProgress:  LevelProgress(view.Experience, view.Level),
		AtMaxLevel:     view.Level >= MaxLevel,
	}
	if !st.AtMaxLevel {
		st.XPToNextLevel = XPForNextLevel(view.Level) - view.Experience
	}
	if m, ok := NextStreakMilestone(view.CurrentCareStreak); ok {
		st.NextMilestone = m
	}
	return st, nil
}

// ─── Achievements ───────────────────────────────────────────────────────────

// AchievementStatus is catalog progress plus the unlock time, if any.
type AchievementStatus struct {
	AchievementProgress
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

// Achievements lists every catalog entry with the user's progress.
func (s *Service) Achievements(ctx context.Context) ([]AchievementStatus, error) {
	user, buddy, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	activities, err := s.store.GetActivities(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load activities: %w", err)
	}
	unlocked, err := s.store.ListUnlockedAchievements(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list unlocked: %w", err)
	}
	at := make(map[string]time.Time, len(unlocked))
	for _, u := range unlocked {
		at[u.ID] = u.UnlockedAt
	}

	progress := s.eval.AllProgress(snapshotOf(*buddy, activities), user.UnlockedAchievements)
	out := make([]AchievementStatus, 0, len(progress))
	for _, p := range progress {
		st := AchievementStatus{AchievementProgress: p}
		if t, ok := at[p.Achievement.ID]; ok && p.Unlocked {
			st.UnlockedAt = &t
		}
		out = append(out, st)
	}
	return out, nil
}

// ─── Leaderboard ────────────────────────────────────────────────────────────

// Leaderboard returns ranked entries for the given metric.
func (s *Service) Leaderboard(ctx context.Context, t domain.LeaderboardType, now time.Time) ([]domain.LeaderboardEntry, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidLeaderboard, t)
	}
	return s.store.GetLeaderboard(ctx, t, now.In(s.loc))
}

// ─── Notifications ──────────────────────────────────────────────────────────

// Notifications returns unshown inbox entries for the user.
func (s *Service) Notifications(ctx context.Context, limit int) ([]domain.Notification, error) {
	if s.notifier == nil {
		return nil, nil
	}
	user, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.notifier.Pending(ctx, user.ID, limit)
}

// MarkNotificationShown marks one inbox entry as shown.
func (s *Service) MarkNotificationShown(ctx context.Context, id int64) error {
	if s.notifier == nil {
		return domain.ErrNotificationNotFound
	}
	return s.notifier.MarkShown(ctx, id)
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func (s *Service) requireUser(ctx context.Context) (*domain.User, error) {
	user, err := s.store.GetUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *Service) load(ctx context.Context) (*domain.User, *domain.Buddy, error) {
	user, err := s.requireUser(ctx)
	if err != nil {
		return nil, nil, err
	}
	buddy, err := s.store.GetBuddy(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("load buddy: %w", err)
	}
	if buddy == nil {
		return nil, nil, domain.ErrBuddyNotFound
	}
	return user, buddy, nil
}

// rewardXP sums the one-time rewards of every unlocked achievement.
func (s *Service) rewardXP(unlocked []string) int {
	total := 0
	for _, id := range unlocked {
		if a, ok := s.eval.Find(id); ok {
			total += a.RewardXP
		}
	}
	return total
}

// recordUnlocks stores unlock timestamps. The user's unlocked set is
// authoritative, so failures here are logged and do not fail the caller.
func (s *Service) recordUnlocks(ctx context.Context, userID string, achievements []domain.Achievement, at time.Time) {
	for _, a := range achievements {
		if _, err := s.store.UnlockAchievement(ctx, userID, a.ID, at); err != nil {
			s.log.Warn("record achievement unlock", zap.String("id", a.ID), zap.Error(err))
		}
	}
}

func snapshotOf(b domain.Buddy, activities []domain.Activity) Snapshot {
	return Snapshot{
		Activities:    activities,
		CurrentStreak: b.CurrentCareStreak,
		LongestStreak: b.LongestCareStreak,
		Level:         b.Level,
		Stats:         b.Stats,
	}
}
