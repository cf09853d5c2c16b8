package domain

import (
	"context"
	"time"
)

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.

// Store abstracts persistence of users, buddies and activities.
// Implemented by infra/sqlite.DB. Writes are last-write-wins; no
// transaction spans more than one call.
type Store interface {
	// GetUser returns the installation's user, or nil if none exists yet.
	GetUser(ctx context.Context) (*User, error)
	SaveUser(ctx context.Context, u User) error

	// GetBuddy returns the buddy owned by userID, or nil if none exists.
	GetBuddy(ctx context.Context, userID string) (*Buddy, error)
	SaveBuddy(ctx context.Context, b Buddy) error

	// GetActivities returns the user's activities in insertion order.
	GetActivities(ctx context.Context, userID string) ([]Activity, error)

	// SaveActivity appends an activity. Never overwrites an existing record.
	SaveActivity(ctx context.Context, a Activity) error

	GetLeaderboard(ctx context.Context, t LeaderboardType, now time.Time) ([]LeaderboardEntry, error)

	// UnlockAchievement records an unlock. Returns false if already unlocked.
	UnlockAchievement(ctx context.Context, userID, id string, at time.Time) (bool, error)
	ListUnlockedAchievements(ctx context.Context, userID string) ([]UnlockedAchievement, error)
}

// NotificationStore persists the check-in event inbox.
type NotificationStore interface {
	InsertNotification(ctx context.Context, n Notification) (int64, error)
	ListPendingNotifications(ctx context.Context, userID string, limit int) ([]Notification, error)
	MarkNotificationShown(ctx context.Context, id int64) error
}
