package daemon

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"workbench/internal/config"
	"workbench/internal/i18n"
	"workbench/internal/logging"
)

// plugNotifier receives reader plug events.
type plugNotifier interface {
	Info(text string)
	Warning(text string)
}

// hidMonitor listens for udev netlink events and tells the operator when an
// input device such as an RFID or barcode reader is plugged or unplugged.
type hidMonitor struct {
	logger   *slog.Logger
	notifier plugNotifier
	tr       *i18n.Translator

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
}

// newHIDMonitor returns nil when udev monitoring is disabled.
func newHIDMonitor(cfg *config.Config, notifier plugNotifier, tr *i18n.Translator, logger *slog.Logger) *hidMonitor {
	if cfg == nil || !cfg.HIDDevices.MonitorUdev || notifier == nil || tr == nil {
		return nil
	}
	return &hidMonitor{
		logger:   logging.NewComponentLogger(logger, "hid-monitor"),
		notifier: notifier,
		tr:       tr,
	}
}

// Start begins listening for udev netlink events.
func (m *hidMonitor) Start(ctx context.Context) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		logging.WarnWithContext(m.logger, "failed to connect to netlink socket; reader plug events will not be reported",
			"netlink_connect_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "ensure the daemon has permission to access netlink sockets"),
			logging.String(logging.FieldImpact, "operators are not told when a reader is unplugged"))
		return nil
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.running = true

	quit := m.quit
	go m.monitorLoop(ctx, conn, quit)

	m.logger.Info("hid monitor started", logging.String(logging.FieldEventType, "hid_monitor_started"))
	return nil
}

// Stop shuts down the monitor.
func (m *hidMonitor) Stop() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	if m.quit != nil {
		close(m.quit)
		m.quit = nil
	}
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.running = false

	m.logger.Info("hid monitor stopped", logging.String(logging.FieldEventType, "hid_monitor_stopped"))
}

// Running reports whether the monitor is active.
func (m *hidMonitor) Running() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *hidMonitor) monitorLoop(ctx context.Context, conn *netlink.UEventConn, quit <-chan struct{}) {
	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	monitorQuit := conn.Monitor(queue, errs, inputMatcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			m.handleEvent(uevent)
		case err := <-errs:
			logging.WarnWithContext(m.logger, "netlink monitor error", "netlink_monitor_error",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check kernel netlink subsystem"),
				logging.String(logging.FieldImpact, "reader plug events may be missed"))
		}
	}
}

// inputMatcher matches SUBSYSTEM=input, ACTION=add|remove.
func inputMatcher() netlink.Matcher {
	action := "add|remove"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env:    map[string]string{"SUBSYSTEM": "input"},
	})
	return rules
}

// handleEvent reports one plug event. Only the inputN device carries NAME;
// its eventN and mouseN children are skipped so a reader is reported once.
func (m *hidMonitor) handleEvent(uevent netlink.UEvent) {
	name := deviceName(uevent)
	if name == "" {
		m.logger.Debug("ignoring input event without device name",
			logging.String("action", string(uevent.Action)),
			logging.String("kobj", uevent.KObj))
		return
	}

	switch uevent.Action {
	case netlink.ADD:
		m.logger.Info("input device connected",
			logging.String(logging.FieldEventType, "hid_connected"),
			logging.String("device", name))
		m.notifier.Info(m.tr.T(i18n.HIDConnected, name))
	case netlink.REMOVE:
		logging.WarnWithContext(m.logger, "input device disconnected", "hid_disconnected",
			logging.String("device", name),
			logging.String(logging.FieldErrorHint, "reconnect the reader"),
			logging.String(logging.FieldImpact, "readings from this device stop until it is reconnected"))
		m.notifier.Warning(m.tr.T(i18n.HIDDisconnected, name))
	}
}

func deviceName(uevent netlink.UEvent) string {
	return strings.Trim(strings.TrimSpace(uevent.Env["NAME"]), `"`)
}
