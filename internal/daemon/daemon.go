package daemon

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ai-buddy/buddy/internal/api"
	"github.com/ai-buddy/buddy/internal/app/gamification"
	"github.com/ai-buddy/buddy/internal/app/state"
	"github.com/ai-buddy/buddy/internal/health"
	"github.com/ai-buddy/buddy/internal/infra/sqlite"
)

// Daemon is the core Buddy runtime. It wires together all services.
type Daemon struct {
	Config  Config
	Home    string
	Log     *zap.Logger
	DB      *sqlite.DB
	Service *gamification.Service
	State   *state.State
	Server  *api.Server
	Health  *health.Checker
	cancel  context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration, storing data
// under BuddyHome().
func NewWithConfig(cfg Config) (*Daemon, error) {
	return NewAt(buddyHome(), cfg)
}

// NewAt creates a Daemon whose database lives in home.
func NewAt(home string, cfg Config) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	logger, err := NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	// Open SQLite
	db, err := sqlite.Open(home)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	svc := gamification.NewService(db,
		gamification.WithLogger(logger.Named("gamification")),
		gamification.WithLocation(loc),
		gamification.WithNotifications(db),
		gamification.WithFoundingUntil(cfg.Buddy.FoundingUntil),
		gamification.WithDefaultNames(cfg.Buddy.DefaultUserName, cfg.Buddy.DefaultBuddyName),
	)

	st := state.New()
	if err := st.Load(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("load state: %w", err)
	}

	d := &Daemon{
		Config:  cfg,
		Home:    home,
		Log:     logger,
		DB:      db,
		Service: svc,
		State:   st,
		Health:  health.NewChecker(db, home, logger.Named("health")),
	}

	// Initialize API server
	d.Server = api.NewServer(svc, db, st, logger.Named("api"))
	d.Server.SetCORSOrigins(cfg.API.CORSOrigins)
	d.Server.SetHealth(d.Health)

	// Enable Prometheus /metrics if configured
	if cfg.Telemetry.Prometheus {
		d.Server.EnableMetrics()
	}

	return d, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	// Health checker (always runs)
	go d.Health.Run(ctx)

	addr := d.Config.Addr()

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			d.Log.Warn("http shutdown", zap.Error(err))
		}
	}()

	d.Log.Info("serving", zap.String("addr", addr), zap.Bool("metrics", d.Config.Telemetry.Prometheus))
	fmt.Printf("Buddy serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
	if d.Log != nil {
		_ = d.Log.Sync()
	}
}
