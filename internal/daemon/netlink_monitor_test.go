package daemon

import (
	"context"
	"testing"

	"github.com/pilebones/go-udev/netlink"

	"workbench/internal/config"
	"workbench/internal/i18n"
	"workbench/internal/logging"
)

type recordingNotifier struct {
	info    []string
	warning []string
}

func (r *recordingNotifier) Info(text string)    { r.info = append(r.info, text) }
func (r *recordingNotifier) Warning(text string) { r.warning = append(r.warning, text) }

func testMonitor(t *testing.T) (*hidMonitor, *recordingNotifier) {
	t.Helper()
	tr, err := i18n.New("en")
	if err != nil {
		t.Fatalf("i18n.New: %v", err)
	}
	cfg := &config.Config{}
	cfg.HIDDevices.MonitorUdev = true
	notifier := &recordingNotifier{}
	m := newHIDMonitor(cfg, notifier, tr, logging.NewNop())
	if m == nil {
		t.Fatal("expected monitor")
	}
	return m, notifier
}

func TestNewHIDMonitor(t *testing.T) {
	tr, err := i18n.New("en")
	if err != nil {
		t.Fatalf("i18n.New: %v", err)
	}
	if m := newHIDMonitor(nil, &recordingNotifier{}, tr, nil); m != nil {
		t.Error("expected nil monitor for nil config")
	}
	if m := newHIDMonitor(&config.Config{}, &recordingNotifier{}, tr, nil); m != nil {
		t.Error("expected nil monitor when udev monitoring is disabled")
	}
}

func TestHIDMonitorNilSafety(t *testing.T) {
	var m *hidMonitor
	if m.Running() {
		t.Error("nil monitor reports running")
	}
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start on nil monitor: %v", err)
	}
	m.Stop()
}

func TestHIDMonitorStopUnstarted(t *testing.T) {
	m, _ := testMonitor(t)
	m.Stop()
	if m.Running() {
		t.Error("unstarted monitor reports running after Stop")
	}
}

func TestHandleEventReportsPlugChanges(t *testing.T) {
	m, notifier := testMonitor(t)

	m.handleEvent(netlink.UEvent{
		Action: netlink.ADD,
		KObj:   "/devices/pci0000:00/usb1/1-1/input/input7",
		Env:    map[string]string{"SUBSYSTEM": "input", "NAME": `"Sycreader RFID"`},
	})
	m.handleEvent(netlink.UEvent{
		Action: netlink.REMOVE,
		KObj:   "/devices/pci0000:00/usb1/1-1/input/input7",
		Env:    map[string]string{"SUBSYSTEM": "input", "NAME": `"Sycreader RFID"`},
	})

	if len(notifier.info) != 1 || notifier.info[0] != "Input device Sycreader RFID connected" {
		t.Fatalf("info = %v", notifier.info)
	}
	if len(notifier.warning) != 1 || notifier.warning[0] != "Input device Sycreader RFID disconnected" {
		t.Fatalf("warning = %v", notifier.warning)
	}
}

func TestHandleEventSkipsUnnamedChildren(t *testing.T) {
	m, notifier := testMonitor(t)

	m.handleEvent(netlink.UEvent{
		Action: netlink.ADD,
		KObj:   "/devices/pci0000:00/usb1/1-1/input/input7/event3",
		Env:    map[string]string{"SUBSYSTEM": "input", "DEVNAME": "input/event3"},
	})
	if len(notifier.info)+len(notifier.warning) != 0 {
		t.Fatalf("unexpected notifications: %v %v", notifier.info, notifier.warning)
	}
}

func TestInputMatcher(t *testing.T) {
	matcher := inputMatcher()
	if err := matcher.Compile(); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	add := netlink.UEvent{Action: netlink.ADD, Env: map[string]string{"SUBSYSTEM": "input"}}
	if !matcher.Evaluate(add) {
		t.Error("expected input add to match")
	}
	block := netlink.UEvent{Action: netlink.ADD, Env: map[string]string{"SUBSYSTEM": "block"}}
	if matcher.Evaluate(block) {
		t.Error("expected block event not to match")
	}
}
