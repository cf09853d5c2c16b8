// Package api provides the HTTP server for Buddy.
// It exposes the gamification engine as a small JSON API for local dashboards.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/ai-buddy/buddy/internal/app/gamification"
	"github.com/ai-buddy/buddy/internal/app/state"
	"github.com/ai-buddy/buddy/internal/domain"
	"github.com/ai-buddy/buddy/internal/health"
	"github.com/ai-buddy/buddy/internal/infra/metrics"
)

// Version is reported by /api/version.
const Version = "0.1.0"

// Server is the Buddy HTTP API server.
type Server struct {
	svc            *gamification.Service
	store          domain.Store
	state          *state.State
	health         *health.Checker // nil disables detailed /health
	log            *zap.Logger
	validate       *validator.Validate
	corsOrigins    []string
	metricsEnabled bool

	// checkinMu serializes check-ins so two requests cannot both pass the
	// same-day guard.
	checkinMu sync.Mutex
}

// NewServer creates a new API server. The state is reloaded from store
// after onboarding and renames, and updated in place after check-ins.
func NewServer(svc *gamification.Service, store domain.Store, st *state.State, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		svc:         svc,
		store:       store,
		state:       st,
		log:         log,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		corsOrigins: []string{"*"},
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHealth attaches the periodic health checker to /health.
func (s *Server) SetHealth(h *health.Checker) { s.health = h }

// SetCORSOrigins restricts which origins may call the API.
func (s *Server) SetCORSOrigins(origins []string) {
	if len(origins) > 0 {
		s.corsOrigins = origins
	}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(s.corsMiddleware())

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"version": Version})
		})
		r.Get("/status", s.handleStatus)
		r.Get("/state", s.handleState)
		r.Post("/onboard", s.handleOnboard)
		r.Post("/checkin", s.handleCheckIn)
		r.Get("/activities", s.handleActivities)
		r.Get("/activities/stats", s.handleActivityStats)
		r.Get("/achievements", s.handleAchievements)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Put("/buddy/name", s.handleRename)
		r.Get("/notifications", s.handleNotifications)
		r.Post("/notifications/{id}/shown", s.handleNotificationShown)
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    errorType(status),
		},
	})
}

func errorType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	default:
		return "server_error"
	}
}

// writeServiceError maps domain sentinels onto HTTP status codes.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	var verrs validator.ValidationErrors
	var br *badRequest
	switch {
	case errors.Is(err, domain.ErrAlreadyCheckedIn),
		errors.Is(err, domain.ErrAlreadyOnboarded):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrBuddyNotFound),
		errors.Is(err, domain.ErrNotificationNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoTools),
		errors.Is(err, domain.ErrEmptyUsageTypes),
		errors.Is(err, domain.ErrDuplicateUsage),
		errors.Is(err, domain.ErrInvalidTool),
		errors.Is(err, domain.ErrInvalidUsageType),
		errors.Is(err, domain.ErrInvalidImpact),
		errors.Is(err, domain.ErrInvalidLeaderboard),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrEmptyName),
		errors.As(err, &verrs),
		errors.As(err, &br):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON body into v and runs struct validation.
func (s *Server) decode(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &badRequest{msg: "invalid JSON body: " + err.Error()}
	}
	if err := s.validate.Struct(v); err != nil {
		return &badRequest{msg: validationMessage(err)}
	}
	return nil
}

type badRequest struct{ msg string }

func (e *badRequest) Error() string { return e.msg }

// validationMessage flattens validator errors into "field: rule" pairs.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, fe.Namespace()+": "+rule)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// queryLimit parses ?limit=, returning 0 (no limit) when absent.
func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &badRequest{msg: "limit must be a non-negative integer"}
	}
	return n, nil
}

// ─── Middleware ─────────────────────────────────────────────────────────────

// corsMiddleware adds CORS headers for local dashboards.
func (s *Server) corsMiddleware() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler
}

// requestLogger logs each request with zap and counts it by route pattern.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()

		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		}
		switch {
		case status >= http.StatusInternalServerError:
			s.log.Error("http request", fields...)
		case status >= http.StatusBadRequest:
			s.log.Warn("http request", fields...)
		default:
			s.log.Debug("http request", fields...)
		}
	})
}
