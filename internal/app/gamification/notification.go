package gamification

import (
	"context"
	"fmt"
	"time"

	"github.com/ai-buddy/buddy/internal/domain"
)

// Notifier manages the check-in event inbox.
// Only level-ups, stage changes, achievement unlocks and streak milestones
// are announced. Notifications are shown once and never deleted.
type Notifier struct {
	store domain.NotificationStore
}

// NewNotifier creates a notifier over the given store.
func NewNotifier(store domain.NotificationStore) *Notifier {
	return &Notifier{store: store}
}

// Publish stores every notification in order and returns their ids.
func (n *Notifier) Publish(ctx context.Context, notes []domain.Notification) ([]int64, error) {
	ids := make([]int64, 0, len(notes))
	for _, note := range notes {
		note.Shown = false
		id, err := n.store.InsertNotification(ctx, note)
		if err != nil {
			return ids, fmt.Errorf("insert notification: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Pending returns unshown notifications, oldest first.
func (n *Notifier) Pending(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	return n.store.ListPendingNotifications(ctx, userID, limit)
}

// MarkShown marks a notification as shown.
func (n *Notifier) MarkShown(ctx context.Context, id int64) error {
	return n.store.MarkNotificationShown(ctx, id)
}

// checkInNotifications builds the inbox entries announced by one check-in.
func checkInNotifications(userID string, r *CheckInResult, at time.Time) []domain.Notification {
	var out []domain.Notification
	add := func(t domain.NotificationType, title, body string) {
		out = append(out, domain.Notification{
			UserID: userID, Type: t, Title: title, Body: body, CreatedAt: at,
		})
	}

	if r.LevelUp.LeveledUp {
		add(domain.NotifyLevelUp,
			fmt.Sprintf("Level %d!", r.LevelUp.NewLevel),
			fmt.Sprintf("%s grew from level %d to level %d.", r.Buddy.Name, r.LevelUp.OldLevel, r.LevelUp.NewLevel))
	}
	if r.LevelUp.StageChanged {
		info := StageDetails(r.LevelUp.NewStage)
		add(domain.NotifyStageChange,
			fmt.Sprintf("%s %s evolved into a %s", info.Emoji, r.Buddy.Name, info.Name),
			info.Description)
	}
	if r.StreakBonus != nil {
		add(domain.NotifyStreakMilestone,
			fmt.Sprintf("🔥 %d-day streak!", r.Streak.NewStreak),
			fmt.Sprintf("+%d happiness, +%d health, +%d XP.", r.StreakBonus.Happiness, r.StreakBonus.Health, r.StreakBonus.XP))
	}
	for _, a := range r.NewAchievements {
		add(domain.NotifyAchievement, achievementTitle(a), a.Description)
	}
	return out
}

func achievementTitle(a domain.Achievement) string {
	return fmt.Sprintf("%s Achievement unlocked: %s", a.Icon, a.Name)
}
