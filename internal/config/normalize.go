package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeWorkbench(); err != nil {
		return err
	}
	c.normalizeCamera()
	c.normalizeGateway()
	c.normalizeLedger()
	c.normalizePrinter()
	c.normalizeHIDDevices()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		name  string
		value *string
		def   string
	}{
		{"paths.data_dir", &c.Paths.DataDir, defaultDataDir},
		{"paths.log_dir", &c.Paths.LogDir, defaultLogDir},
		{"paths.video_dir", &c.Paths.VideoDir, defaultVideoDir},
		{"paths.passport_dir", &c.Paths.PassportDir, defaultPassportDir},
		{"paths.label_dir", &c.Paths.LabelDir, defaultLabelDir},
	}
	for _, field := range fields {
		if strings.TrimSpace(*field.value) == "" {
			*field.value = field.def
		}
		expanded, err := expandPath(strings.TrimSpace(*field.value))
		if err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
		*field.value = expanded
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	if c.Paths.APIToken == "" {
		if value, ok := os.LookupEnv("WORKBENCH_API_TOKEN"); ok {
			c.Paths.APIToken = strings.TrimSpace(value)
		}
	}
	return nil
}

func (c *Config) normalizeWorkbench() error {
	if value, ok := os.LookupEnv("WORKBENCH_NUMBER"); ok && strings.TrimSpace(value) != "" {
		number, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("WORKBENCH_NUMBER: %w", err)
		}
		c.Workbench.Number = number
	}
	for _, key := range []string{"WORKBENCH_LANGUAGE", "LANGUAGE_MESSAGE"} {
		if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
			c.Workbench.Language = value
			break
		}
	}
	c.Workbench.Language = strings.ToLower(strings.TrimSpace(c.Workbench.Language))
	if c.Workbench.Language == "" {
		c.Workbench.Language = defaultLanguage
	}
	return nil
}

func (c *Config) normalizeCamera() {
	if value, ok := os.LookupEnv("CAMERA_FFMPEG_COMMAND"); ok && strings.TrimSpace(value) != "" {
		c.Camera.FFmpegCommand = value
	}
	c.Camera.FFmpegCommand = strings.TrimSpace(c.Camera.FFmpegCommand)
	if c.Camera.MinRecordSeconds < 0 {
		c.Camera.MinRecordSeconds = 0
	}
}

func (c *Config) normalizeGateway() {
	if value, ok := os.LookupEnv("IPFS_GATEWAY_URI"); ok && strings.TrimSpace(value) != "" {
		c.IPFSGateway.URI = value
	}
	c.IPFSGateway.URI = strings.TrimRight(strings.TrimSpace(c.IPFSGateway.URI), "/")
	if c.IPFSGateway.TimeoutSeconds <= 0 {
		c.IPFSGateway.TimeoutSeconds = defaultGatewayTimeoutSeconds
	}
}

func (c *Config) normalizeLedger() {
	if c.Ledger.AccountSeed == "" {
		if value, ok := os.LookupEnv("LEDGER_ACCOUNT_SEED"); ok {
			c.Ledger.AccountSeed = value
		} else if data, err := os.ReadFile(ledgerSeedSecretPath); err == nil {
			c.Ledger.AccountSeed = string(data)
		}
	}
	c.Ledger.AccountSeed = strings.TrimSpace(c.Ledger.AccountSeed)
	c.Ledger.URI = strings.TrimRight(strings.TrimSpace(c.Ledger.URI), "/")
	if c.Ledger.Attempts <= 0 {
		c.Ledger.Attempts = defaultLedgerAttempts
	}
}

func (c *Config) normalizePrinter() {
	c.Printer.PrinterName = strings.TrimSpace(c.Printer.PrinterName)
	c.Printer.PaperAspectRatio = strings.ReplaceAll(strings.TrimSpace(c.Printer.PaperAspectRatio), " ", "")
	if c.Printer.PaperAspectRatio == "" {
		c.Printer.PaperAspectRatio = defaultPaperAspectRatio
	}
	c.Printer.SecurityTagText = strings.TrimSpace(c.Printer.SecurityTagText)
	if c.Printer.SecurityTagText == "" {
		c.Printer.SecurityTagText = defaultSecurityTagText
	}
}

func (c *Config) normalizeHIDDevices() {
	c.HIDDevices.RFIDReader = strings.TrimSpace(c.HIDDevices.RFIDReader)
	c.HIDDevices.BarcodeReader = strings.TrimSpace(c.HIDDevices.BarcodeReader)
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
	c.Notifications.MinLevel = strings.ToLower(strings.TrimSpace(c.Notifications.MinLevel))
	if c.Notifications.MinLevel == "" {
		c.Notifications.MinLevel = defaultNotifyMinLevel
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
