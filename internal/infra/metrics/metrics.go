// Package metrics provides Prometheus metrics for Buddy.
// Counters, gauges and histograms for check-ins, progression and HTTP traffic.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "buddy"

// ─── Check-ins ──────────────────────────────────────────────────────────────

// CheckIns counts check-in attempts by result (ok, duplicate, invalid, error).
var CheckIns = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "checkins_total",
	Help:      "Total check-in attempts by result.",
}, []string{"result"})

// CheckInDuration tracks end-to-end check-in latency including persistence.
var CheckInDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: namespace,
	Name:      "checkin_duration_seconds",
	Help:      "Check-in duration in seconds.",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
})

// ─── Progression ────────────────────────────────────────────────────────────

// XPAwarded counts experience granted by check-ins and streak bonuses.
var XPAwarded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "xp_awarded_total",
	Help:      "Total experience awarded.",
})

// LevelUps counts level transitions.
var LevelUps = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "level_ups_total",
	Help:      "Total level-ups.",
})

// AchievementsUnlocked counts unlocks by achievement id.
var AchievementsUnlocked = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "achievements_unlocked_total",
	Help:      "Total achievements unlocked.",
}, []string{"id"})

// ─── Buddy state ────────────────────────────────────────────────────────────

// BuddyStat reports the buddy's current stat values.
var BuddyStat = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "stat",
	Help:      "Current buddy stat value (0-100).",
}, []string{"stat"})

// StreakCurrent reports the current care streak in days.
var StreakCurrent = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "streak_current",
	Help:      "Current care streak in days.",
})

// ─── HTTP ───────────────────────────────────────────────────────────────────

// HTTPRequests counts API requests by route pattern and status code.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "http_requests_total",
	Help:      "Total HTTP requests.",
}, []string{"route", "code"})

// ─── Health ─────────────────────────────────────────────────────────────────

// HealthCheckStatus tracks health check results (1=healthy, 0=unhealthy).
var HealthCheckStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "health_check_status",
	Help:      "Health check status (1=healthy, 0=unhealthy).",
}, []string{"check"})

// ObserveStats publishes a stat block to the BuddyStat gauges.
func ObserveStats(happiness, health, energy, overall int) {
	BuddyStat.WithLabelValues("happiness").Set(float64(happiness))
	BuddyStat.WithLabelValues("health").Set(float64(health))
	BuddyStat.WithLabelValues("energy").Set(float64(energy))
	BuddyStat.WithLabelValues("overall").Set(float64(overall))
}
