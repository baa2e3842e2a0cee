package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"workbench/internal/config"
	"workbench/internal/daemon"
	"workbench/internal/deps"
	"workbench/internal/ipc"
	"workbench/internal/logging"
	"workbench/internal/preflight"
	"workbench/internal/store"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel string
	Version  string
	// SkipPreflight starts without the startup checks.
	SkipPreflight bool
}

// Run starts the workbench daemon and blocks until SIGINT or SIGTERM.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runID := time.Now().UTC().Format("20060102T150405.000Z")
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("workbench-%s.log", runID))
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	logger, err := logging.NewFromConfig(cfg, logPath)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if err := ensureCurrentLogPointer(cfg.Paths.LogDir, logPath); err != nil {
		fmt.Fprintf(os.Stderr, "warn: unable to update workbench.log link: %v\n", err)
	}
	logDependencySnapshot(logger, cfg)

	if !opts.SkipPreflight {
		if err := runPreflight(signalCtx, cfg, logger); err != nil {
			return err
		}
	}

	pidPath := filepath.Join(cfg.Paths.LogDir, "workbench.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	st, err := store.Open(cfg)
	if err != nil {
		logging.ErrorWithContext(logger, "open store", "store_open_failed",
			logging.Error(err),
			logging.String("path", cfg.DatabasePath()),
			logging.String(logging.FieldErrorHint, "check data_dir permissions and disk space"),
			logging.String(logging.FieldImpact, "the station cannot start"))
		return err
	}

	components, err := Build(cfg, st, opts.Version, logger)
	if err != nil {
		_ = st.Close()
		return err
	}
	daemonDeps := daemon.Deps{
		Store:      st,
		Station:    components.Station,
		Bus:        components.Bus,
		Translator: components.Translator,
		Metrics:    components.Metrics,
		Notifier:   components.Notifier,
		Logger:     logger,
	}
	if components.Ledger != nil {
		daemonDeps.Ledger = components.Ledger
	}
	d, err := daemon.New(cfg, daemonDeps)
	if err != nil {
		_ = st.Close()
		return fmt.Errorf("create daemon: %w", err)
	}
	defer func() {
		if err := d.Close(); err != nil {
			logger.Warn("close store", logging.Error(err))
		}
	}()

	if err := d.Start(signalCtx); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	ipcServer, err := ipc.NewServer(signalCtx, cfg.SocketPath(), d, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	<-signalCtx.Done()
	logger.Info("workbench daemon shutting down", logging.String(logging.FieldEventType, "daemon_shutdown"))
	return nil
}

// runPreflight logs every failed check and returns an error when a fatal one failed.
func runPreflight(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	fatal, warnings := preflight.Failed(preflight.RunAll(ctx, cfg))
	for _, r := range warnings {
		logging.WarnWithContext(logger, "preflight check failed", "preflight_warning",
			logging.String("check", r.Name),
			logging.String("detail", r.Detail),
			logging.String(logging.FieldErrorHint, "run workbench preflight for details"),
			logging.String(logging.FieldImpact, "the related feature may fail during production"))
	}
	for _, r := range fatal {
		logging.ErrorWithContext(logger, "preflight check failed", "preflight_fatal",
			logging.String("check", r.Name),
			logging.String("detail", r.Detail),
			logging.String(logging.FieldErrorHint, "restore connectivity or disable the feature in config"),
			logging.String(logging.FieldImpact, "the daemon will not start"))
	}
	if len(fatal) > 0 {
		return fmt.Errorf("preflight: %s: %s", fatal[0].Name, fatal[0].Detail)
	}
	return nil
}

func ensureCurrentLogPointer(logDir, target string) error {
	if logDir == "" || target == "" {
		return nil
	}
	current := filepath.Join(logDir, "workbench.log")
	if err := os.Remove(current); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing log pointer: %w", err)
	}
	if err := os.Symlink(target, current); err == nil {
		return nil
	}
	if err := os.Link(target, current); err != nil {
		return fmt.Errorf("link log pointer: %w", err)
	}
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

func logDependencySnapshot(logger *slog.Logger, cfg *config.Config) {
	if logger == nil || cfg == nil {
		return
	}
	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "dependency_snapshot"),
		logging.Int("workbench_number", cfg.Workbench.Number),
		logging.Bool("camera_enabled", cfg.Camera.Enabled),
		logging.Bool("gateway_enabled", cfg.IPFSGateway.Enabled),
		logging.Bool("ledger_enabled", cfg.Ledger.Enabled),
		logging.Bool("printer_enabled", cfg.Printer.Enabled),
	}
	for _, status := range deps.CheckBinaries(deps.Requirements(cfg)) {
		attrs = append(attrs, logging.Bool(status.Command+"_available", status.Available))
	}
	logger.Info("dependency snapshot", logging.Args(attrs...)...)
}
