package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ai-buddy/buddy/internal/app/gamification"
	"github.com/ai-buddy/buddy/internal/domain"
)

// ─── Health ─────────────────────────────────────────────────────────────────

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	status, code := "ok", http.StatusOK
	if !s.health.IsHealthy() {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]interface{}{
		"status": status,
		"checks": s.health.Statuses(),
	})
}

// ─── Buddy ──────────────────────────────────────────────────────────────────

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Status(r.Context(), s.svc.Now())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Snapshot())
}

func (s *Server) handleOnboard(w http.ResponseWriter, r *http.Request) {
	var req gamification.OnboardRequest
	if err := s.decode(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	res, err := s.svc.Onboard(r.Context(), req, s.svc.Now())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.reloadState(r)
	writeJSON(w, http.StatusCreated, res)
}

type renameRequest struct {
	Name string `json:"name" validate:"required,max=32"`
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := s.decode(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	buddy, err := s.svc.RenameBuddy(r.Context(), req.Name)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.reloadState(r)
	writeJSON(w, http.StatusOK, buddy)
}

// ─── Check-in ───────────────────────────────────────────────────────────────

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	var req gamification.CheckInRequest
	if err := s.decode(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.checkinMu.Lock()
	res, err := s.svc.CheckIn(r.Context(), req)
	if err == nil {
		s.state.Apply(res)
	}
	s.checkinMu.Unlock()

	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// ─── Activities ─────────────────────────────────────────────────────────────

func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	acts, err := s.svc.History(r.Context(), limit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if acts == nil {
		acts = []domain.Activity{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"activities": acts})
}

func (s *Server) handleActivityStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.ActivityStats(r.Context(), s.svc.Now())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ─── Achievements & Leaderboard ─────────────────────────────────────────────

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Achievements(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	unlocked := 0
	for _, a := range list {
		if a.Unlocked {
			unlocked++
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"achievements": list,
		"unlocked":     unlocked,
		"total":        len(list),
	})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	t := domain.LeaderboardType(r.URL.Query().Get("type"))
	if t == "" {
		t = domain.LeaderboardOverall
	}
	entries, err := s.svc.Leaderboard(r.Context(), t, s.svc.Now())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"type":    t,
		"entries": entries,
	})
}

// ─── Notifications ──────────────────────────────────────────────────────────

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	notes, err := s.svc.Notifications(r.Context(), limit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if notes == nil {
		notes = []domain.Notification{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"notifications": notes})
}

func (s *Server) handleNotificationShown(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	if err := s.svc.MarkNotificationShown(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "shown"})
}

// reloadState refreshes the in-memory state after a write that does not
// produce a check-in result. Failure leaves the previous snapshot in place.
func (s *Server) reloadState(r *http.Request) {
	if err := s.state.Load(r.Context(), s.store); err != nil {
		s.log.Warn("reload state", zap.Error(err))
	}
}
