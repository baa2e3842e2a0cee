package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir     string `toml:"data_dir"`
	LogDir      string `toml:"log_dir"`
	VideoDir    string `toml:"video_dir"`
	PassportDir string `toml:"passport_dir"`
	LabelDir    string `toml:"label_dir"`
	APIBind     string `toml:"api_bind"`
	APIToken    string `toml:"api_token"`
}

// Workbench identifies the physical station.
type Workbench struct {
	Number   int    `toml:"number"`
	Language string `toml:"language"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Camera contains the recording command. FILENAME inside FFmpegCommand is
// replaced with the output path of each recording.
type Camera struct {
	Enabled          bool   `toml:"enabled"`
	FFmpegCommand    string `toml:"ffmpeg_command"`
	MinRecordSeconds int    `toml:"min_record_seconds"`
}

// IPFSGateway points at the file publishing gateway.
type IPFSGateway struct {
	Enabled        bool   `toml:"enabled"`
	URI            string `toml:"uri"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Ledger configures the datalog bridge that anchors passport content ids.
type Ledger struct {
	Enabled     bool   `toml:"enabled"`
	URI         string `toml:"uri"`
	AccountSeed string `toml:"account_seed"`
	Attempts    int    `toml:"attempts"`
}

// Printer configures label printing.
type Printer struct {
	Enabled                 bool   `toml:"enabled"`
	PrinterName             string `toml:"printer_name"`
	PaperAspectRatio        string `toml:"paper_aspect_ratio"`
	PrintBarcode            bool   `toml:"print_barcode"`
	PrintQR                 bool   `toml:"print_qr"`
	PrintQROnlyForComposite bool   `toml:"print_qr_only_for_composite"`
	PrintSecurityTag        bool   `toml:"print_security_tag"`
	SecurityTagAddTimestamp bool   `toml:"security_tag_add_timestamp"`
	SecurityTagText         string `toml:"security_tag_text"`
}

// HIDDevices maps reader device names to their roles.
type HIDDevices struct {
	RFIDReader    string `toml:"rfid_reader"`
	BarcodeReader string `toml:"barcode_reader"`
	MonitorUdev   bool   `toml:"monitor_udev"`
}

// Notifications contains configuration for ntfy push alerts.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	MinLevel       string `toml:"min_level"`
}

// Config encapsulates all configuration values for the workbench daemon.
//
// Configuration sections by subsystem:
//   - Paths: storage directories and API bind address
//   - Workbench: station number and message language
//   - Camera: ffmpeg recording command
//   - IPFSGateway: passport and video publishing
//   - Ledger: datalog anchoring of published passports
//   - Printer: barcode, QR, and seal tag labels
//   - HIDDevices: RFID and barcode reader names
//   - Notifications: ntfy push alerts
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Workbench     Workbench     `toml:"workbench"`
	Camera        Camera        `toml:"camera"`
	IPFSGateway   IPFSGateway   `toml:"ipfs_gateway"`
	Ledger        Ledger        `toml:"ledger"`
	Printer       Printer       `toml:"printer"`
	HIDDevices    HIDDevices    `toml:"hid_devices"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("workbench.toml")
	if err != nil {
		return "", false, err
	}

	for _, candidate := range []string{defaultPath, projectPath} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true, nil
		}
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the daemon writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.DataDir, c.Paths.LogDir, c.Paths.PassportDir, c.Paths.LabelDir}
	if c.Camera.Enabled {
		dirs = append(dirs, c.Paths.VideoDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the SQLite file holding units, schemas, and employees.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "workbench.db")
}

// SocketPath returns the IPC socket location.
func (c *Config) SocketPath() string {
	return filepath.Join(c.Paths.LogDir, "workbench.sock")
}

// LockPath returns the single-instance lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.LogDir, "workbench.lock")
}

// FFmpegBinary returns the first word of the camera command, the binary the
// preflight dependency check looks for.
func (c *Config) FFmpegBinary() string {
	fields := strings.Fields(c.Camera.FFmpegCommand)
	if len(fields) == 0 {
		return "ffmpeg"
	}
	return fields[0]
}

// PrinterBinary returns the CUPS client used to submit print jobs.
func (c *Config) PrinterBinary() string {
	return "lp"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
