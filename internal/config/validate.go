package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	supportedLanguages = map[string]struct{}{"en": {}, "ru": {}}
	notificationLevels = map[string]struct{}{
		"default": {}, "info": {}, "warning": {}, "success": {}, "error": {},
	}
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWorkbench(); err != nil {
		return err
	}
	if err := c.validateCamera(); err != nil {
		return err
	}
	if err := c.validateGateway(); err != nil {
		return err
	}
	if err := c.validateLedger(); err != nil {
		return err
	}
	if err := c.validatePrinter(); err != nil {
		return err
	}
	if err := c.validateHIDDevices(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateWorkbench() error {
	if c.Workbench.Number <= 0 {
		return errors.New("workbench.number must be positive")
	}
	if _, ok := supportedLanguages[c.Workbench.Language]; !ok {
		return fmt.Errorf("workbench.language: unsupported value %q (expected en or ru)", c.Workbench.Language)
	}
	return nil
}

func (c *Config) validateCamera() error {
	if !c.Camera.Enabled {
		return nil
	}
	if c.Camera.FFmpegCommand == "" {
		return errors.New("camera.ffmpeg_command must be set when camera.enabled is true (or set CAMERA_FFMPEG_COMMAND)")
	}
	if !strings.Contains(c.Camera.FFmpegCommand, "FILENAME") {
		return errors.New("camera.ffmpeg_command must contain the FILENAME placeholder")
	}
	return nil
}

func (c *Config) validateGateway() error {
	if !c.IPFSGateway.Enabled {
		return nil
	}
	if c.IPFSGateway.URI == "" {
		return errors.New("ipfs_gateway.uri must be set when ipfs_gateway.enabled is true (or set IPFS_GATEWAY_URI)")
	}
	if !strings.HasPrefix(c.IPFSGateway.URI, "http://") && !strings.HasPrefix(c.IPFSGateway.URI, "https://") {
		return fmt.Errorf("ipfs_gateway.uri must be an http(s) URL, got %q", c.IPFSGateway.URI)
	}
	return nil
}

func (c *Config) validateLedger() error {
	if !c.Ledger.Enabled {
		return nil
	}
	if c.Ledger.URI == "" {
		return errors.New("ledger.uri must be set when ledger.enabled is true")
	}
	if c.Ledger.AccountSeed == "" {
		return errors.New("ledger.account_seed must be set when ledger.enabled is true (or set LEDGER_ACCOUNT_SEED)")
	}
	if !c.IPFSGateway.Enabled {
		return errors.New("ledger.enabled requires ipfs_gateway.enabled")
	}
	return nil
}

func (c *Config) validatePrinter() error {
	if _, _, err := c.Printer.AspectRatio(); err != nil {
		return err
	}
	return nil
}

// AspectRatio parses paper_aspect_ratio ("W:H") into its two positive terms.
func (p Printer) AspectRatio() (int, int, error) {
	parts := strings.Split(p.PaperAspectRatio, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("printer.paper_aspect_ratio must look like W:H, got %q", p.PaperAspectRatio)
	}
	width, errW := strconv.Atoi(parts[0])
	height, errH := strconv.Atoi(parts[1])
	if errW != nil || errH != nil || width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("printer.paper_aspect_ratio terms must be positive integers, got %q", p.PaperAspectRatio)
	}
	return width, height, nil
}

func (c *Config) validateHIDDevices() error {
	if c.HIDDevices.RFIDReader == "" {
		return errors.New("hid_devices.rfid_reader must be set")
	}
	if c.HIDDevices.BarcodeReader == "" {
		return errors.New("hid_devices.barcode_reader must be set")
	}
	if c.HIDDevices.RFIDReader == c.HIDDevices.BarcodeReader {
		return errors.New("hid_devices.rfid_reader and hid_devices.barcode_reader must differ")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if _, ok := notificationLevels[c.Notifications.MinLevel]; !ok {
		return fmt.Errorf("notifications.min_level: unsupported value %q", c.Notifications.MinLevel)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (expected console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
