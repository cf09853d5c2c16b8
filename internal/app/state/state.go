// Package state holds the loaded user, buddy and activity history of a
// running process. It is mutated only by Load and by applying a check-in
// result, never field by field.
package state

import (
	"context"
	"fmt"
	"sync"

	"github.com/ai-buddy/buddy/internal/app/gamification"
	"github.com/ai-buddy/buddy/internal/domain"
)

// Snapshot is an immutable copy of the application state.
type Snapshot struct {
	User       *domain.User      `json:"user"`
	Buddy      *domain.Buddy     `json:"buddy"`
	Activities []domain.Activity `json:"activities"`
	Loaded     bool              `json:"loaded"`
}

// State is safe for concurrent use.
type State struct {
	mu   sync.RWMutex
	snap Snapshot
}

// New returns an empty, unloaded state.
func New() *State {
	return &State{}
}

// Load replaces the state with what the store holds. A missing user is not
// an error; the state is loaded but empty until onboarding.
func (s *State) Load(ctx context.Context, store domain.Store) error {
	user, err := store.GetUser(ctx)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	next := Snapshot{User: user, Loaded: true}
	if user != nil {
		if next.Buddy, err = store.GetBuddy(ctx, user.ID); err != nil {
			return fmt.Errorf("load buddy: %w", err)
		}
		if next.Activities, err = store.GetActivities(ctx, user.ID); err != nil {
			return fmt.Errorf("load activities: %w", err)
		}
	}

	s.mu.Lock()
	s.snap = next
	s.mu.Unlock()
	return nil
}

// Apply folds a successful check-in into the state.
func (s *State) Apply(r *gamification.CheckInResult) {
	if r == nil {
		return
	}
	user := r.User
	buddy := r.Buddy

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.User = &user
	s.snap.Buddy = &buddy
	acts := make([]domain.Activity, len(s.snap.Activities), len(s.snap.Activities)+1)
	copy(acts, s.snap.Activities)
	s.snap.Activities = append(acts, r.Activity)
	s.snap.Loaded = true
}

// Snapshot returns a copy safe to hand to readers.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := Snapshot{Loaded: s.snap.Loaded}
	if s.snap.User != nil {
		u := *s.snap.User
		u.UnlockedAchievements = append([]string(nil), s.snap.User.UnlockedAchievements...)
		out.User = &u
	}
	if s.snap.Buddy != nil {
		b := *s.snap.Buddy
		out.Buddy = &b
	}
	out.Activities = append([]domain.Activity(nil), s.snap.Activities...)
	return out
}
