package daemonrun

import (
	"fmt"
	"log/slog"
	"time"

	"workbench/internal/config"
	"workbench/internal/i18n"
	"workbench/internal/ledger"
	"workbench/internal/metrics"
	"workbench/internal/notifications"
	"workbench/internal/notify"
	"workbench/internal/printer"
	"workbench/internal/publish"
	"workbench/internal/recording"
	"workbench/internal/statesignal"
	"workbench/internal/store"
	"workbench/internal/workbench"
)

const ledgerTimeout = 30 * time.Second

// Components are the wired collaborators of one daemon process.
type Components struct {
	Station    *workbench.Workbench
	Bus        *notify.Bus
	Translator *i18n.Translator
	Metrics    *metrics.Registry
	Notifier   notifications.Service
	// Ledger is nil when ledger anchoring is disabled.
	Ledger *ledger.Scheduler
}

// Build constructs the station and every enabled collaborator around s.
// Disabled features leave their collaborator unset.
func Build(cfg *config.Config, s *store.Store, version string, logger *slog.Logger) (*Components, error) {
	tr, err := i18n.New(cfg.Workbench.Language)
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}
	bus := notify.NewBus(logger)
	reg := metrics.New(version)
	deps := workbench.Deps{
		Store:      s,
		Bus:        bus,
		Signal:     statesignal.New(),
		Translator: tr,
		Logger:     logger,
		Metrics:    reg,
	}
	out := &Components{Bus: bus, Translator: tr, Metrics: reg, Notifier: notifications.NewService(cfg)}

	if cfg.Camera.Enabled {
		camera, err := recording.New(cfg.Camera.FFmpegCommand, cfg.Paths.VideoDir,
			time.Duration(cfg.Camera.MinRecordSeconds)*time.Second, logger)
		if err != nil {
			return nil, fmt.Errorf("configure camera: %w", err)
		}
		deps.Recorder = camera
	}
	if cfg.IPFSGateway.Enabled {
		gateway, err := publish.NewGateway(cfg.IPFSGateway.URI,
			time.Duration(cfg.IPFSGateway.TimeoutSeconds)*time.Second, logger)
		if err != nil {
			return nil, fmt.Errorf("configure gateway: %w", err)
		}
		deps.Publisher = gateway
	}
	if cfg.Ledger.Enabled {
		client, err := ledger.NewClient(cfg.Ledger.URI, cfg.Ledger.AccountSeed, ledgerTimeout)
		if err != nil {
			return nil, fmt.Errorf("configure ledger: %w", err)
		}
		out.Ledger = ledger.NewScheduler(client, s, bus, tr, cfg.Ledger.Attempts, logger)
		deps.Ledger = out.Ledger
	}
	if cfg.Printer.Enabled {
		w, h, err := cfg.Printer.AspectRatio()
		if err != nil {
			return nil, err
		}
		labels, err := printer.NewLabels(cfg.Paths.LabelDir, w, h)
		if err != nil {
			return nil, fmt.Errorf("configure labels: %w", err)
		}
		client, err := printer.New(cfg.PrinterBinary(), cfg.Printer.PrinterName, logger)
		if err != nil {
			return nil, fmt.Errorf("configure printer: %w", err)
		}
		deps.Labels = labels
		deps.Printer = client
	}

	station, err := workbench.New(deps, workbench.OptionsFromConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("build workbench: %w", err)
	}
	out.Station = station
	return out, nil
}
