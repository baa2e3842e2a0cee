package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/heptiolabs/healthcheck"
	"golang.org/x/sync/errgroup"

	"workbench/internal/api"
	"workbench/internal/config"
	"workbench/internal/deps"
	"workbench/internal/i18n"
	"workbench/internal/logging"
	"workbench/internal/metrics"
	"workbench/internal/notifications"
	"workbench/internal/notify"
	"workbench/internal/preflight"
	"workbench/internal/store"
	"workbench/internal/workbench"
)

const (
	shutdownTimeout = 30 * time.Second
	ledgerDrain     = 10 * time.Second
)

// Drainer waits for background work to finish.
type Drainer interface {
	Wait(ctx context.Context) error
}

// Deps are the components the daemon runs. Store, Station, Bus, Translator,
// and Metrics are required.
type Deps struct {
	Store      *store.Store
	Station    *workbench.Workbench
	Bus        *notify.Bus
	Translator *i18n.Translator
	Metrics    *metrics.Registry
	// Ledger is drained on shutdown when set.
	Ledger Drainer
	// Notifier receives relayed bus messages when set.
	Notifier notifications.Service
	Logger   *slog.Logger
}

// Daemon owns the station lifecycle and enforces single-instance execution.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *store.Store
	station *workbench.Workbench
	bus     *notify.Bus
	ledger  Drainer
	notify  notifications.Service
	relay   *notifications.Relay

	lockPath string
	lock     *flock.Flock
	api      *apiServer
	monitor  *hidMonitor

	mu      sync.Mutex
	running atomic.Bool
	cancel  context.CancelFunc
	group   *errgroup.Group
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, d Deps) (*Daemon, error) {
	if cfg == nil || d.Store == nil || d.Station == nil || d.Bus == nil || d.Translator == nil || d.Metrics == nil {
		return nil, errors.New("daemon requires config, store, station, bus, translator, and metrics")
	}
	logger := logging.NewComponentLogger(d.Logger, "daemon")

	health := healthcheck.NewMetricsHandler(d.Metrics.Prometheus(), "workbench")
	health.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(1000))
	health.AddReadinessCheck("store", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return d.Store.Ping(ctx)
	})

	router, err := api.NewRouter(api.Deps{
		Station: d.Station,
		Catalog: d.Store,
		Bus:     d.Bus,
		Logger:  d.Logger,
		Token:   cfg.Paths.APIToken,
		Metrics: d.Metrics.Handler(),
		Health:  health,
	})
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	daemon := &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    d.Store,
		station:  d.Station,
		bus:      d.Bus,
		ledger:   d.Ledger,
		notify:   d.Notifier,
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
		api:      newAPIServer(cfg.Paths.APIBind, router, d.Logger),
		monitor:  newHIDMonitor(cfg, d.Bus, d.Translator, d.Logger),
	}
	if d.Notifier != nil {
		threshold, err := notify.ParseLevel(cfg.Notifications.MinLevel)
		if err != nil {
			threshold = notify.LevelWarning
		}
		daemon.relay = notifications.NewRelay(d.Bus, d.Notifier, threshold, d.Logger)
	}
	return daemon, nil
}

// Start acquires the daemon lock and launches the relay, the HID monitor,
// and the API server.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another workbench daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	group, groupCtx := errgroup.WithContext(runCtx)
	if d.relay != nil {
		group.Go(func() error { return d.relay.Run(groupCtx) })
	}
	if err := d.monitor.Start(groupCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return fmt.Errorf("start hid monitor: %w", err)
	}
	if err := d.api.start(groupCtx); err != nil {
		d.monitor.Stop()
		cancel()
		_ = group.Wait()
		_ = d.lock.Unlock()
		return fmt.Errorf("start api server: %w", err)
	}

	d.cancel = cancel
	d.group = group
	d.running.Store(true)
	d.logger.Info("workbench daemon started",
		logging.String("lock", d.lockPath),
		logging.String("api", d.api.address()))
	return nil
}

// Stop runs the station shutdown sequence, drains pending ledger posts,
// stops the servers, and releases the daemon lock.
func (d *Daemon) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running.Load() {
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := d.station.Shutdown(shutdownCtx); err != nil {
		logging.WarnWithContext(d.logger, "station shutdown incomplete", "station_shutdown_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "inspect the unit on the table before the next start"),
			logging.String(logging.FieldImpact, "an unfinished stage may not be recorded"))
	}
	if d.ledger != nil {
		drainCtx, drainCancel := context.WithTimeout(context.Background(), ledgerDrain)
		if err := d.ledger.Wait(drainCtx); err != nil {
			logging.WarnWithContext(d.logger, "ledger posts still pending at shutdown", "ledger_drain_timeout",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "re-run the datalog post for the affected passports"),
				logging.String(logging.FieldImpact, "some passports are not anchored"))
		}
		drainCancel()
	}

	d.monitor.Stop()
	d.api.stop()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.group != nil {
		if err := d.group.Wait(); err != nil {
			d.logger.Debug("background task ended with error", logging.Error(err))
		}
		d.group = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("workbench daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Station returns the workbench the daemon runs.
func (d *Daemon) Station() *workbench.Workbench {
	return d.station
}

// Store returns the daemon's store.
func (d *Daemon) Store() *store.Store {
	return d.store
}

// Notify emits a message on the station bus.
func (d *Daemon) Notify(level notify.Level, text string) int {
	return d.bus.Emit(notify.NewMessage(level, text))
}

// TestNotification sends a test push notification using the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if strings.TrimSpace(d.cfg.Notifications.NtfyTopic) == "" || d.notify == nil {
		return false, "ntfy topic not configured", nil
	}
	if err := d.notify.TestNotification(ctx); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}

// Preflight runs the startup checks against the daemon's configuration.
func (d *Daemon) Preflight(ctx context.Context) []preflight.Result {
	return preflight.RunAll(ctx, d.cfg)
}

// APIAddress returns the bound API address, empty when not listening.
func (d *Daemon) APIAddress() string {
	return d.api.address()
}

// Status returns the current daemon status.
func (d *Daemon) Status(context.Context) api.DaemonStatus {
	checked := deps.CheckBinaries(deps.Requirements(d.cfg))
	dependencies := make([]api.DependencyStatus, len(checked))
	for i, dep := range checked {
		dependencies[i] = api.DependencyStatus{
			Name:        dep.Name,
			Command:     dep.Command,
			Description: dep.Description,
			Optional:    dep.Optional,
			Available:   dep.Available,
			Detail:      dep.Detail,
		}
	}
	return api.DaemonStatus{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		DatabasePath: d.store.Path(),
		LockFilePath: d.lockPath,
		Workbench:    d.station.Status(),
		Dependencies: dependencies,
	}
}
