package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Check-in contract errors
	ErrAlreadyCheckedIn = errors.New("already checked in today")
	ErrNoTools          = errors.New("check-in must include at least one tool")
	ErrEmptyUsageTypes  = errors.New("tool usage must include at least one usage type")
	ErrDuplicateUsage   = errors.New("usage type listed more than once")

	// Enumeration errors (rejected at the parse boundary)
	ErrInvalidTool        = errors.New("unknown AI tool")
	ErrInvalidUsageType   = errors.New("unknown usage type")
	ErrInvalidImpact      = errors.New("unknown impact level")
	ErrInvalidLeaderboard = errors.New("unknown leaderboard type")
	ErrInvalidDate        = errors.New("invalid calendar date, want YYYY-MM-DD")

	// Entity errors
	ErrUserNotFound     = errors.New("user not found — run onboarding first")
	ErrBuddyNotFound    = errors.New("buddy not found for user")
	ErrAlreadyOnboarded = errors.New("user already exists")
	ErrActivityExists   = errors.New("activity already recorded")
	ErrEmptyName        = errors.New("name must not be empty")

	// Notification errors
	ErrNotificationNotFound = errors.New("notification not found")
)
