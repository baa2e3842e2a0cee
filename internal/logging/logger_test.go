package logging_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"workbench/internal/config"
	"workbench/internal/logging"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestNewFromConfigWritesRunLog(t *testing.T) {
	cfg := config.Default()
	logPath := filepath.Join(t.TempDir(), "logs", "workbench-run.log")

	logger, err := logging.NewFromConfig(&cfg, logPath)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("daemon starting")

	if !strings.Contains(readLog(t, logPath), "daemon starting") {
		t.Fatal("expected message in run log")
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")
	logger, err := logging.New(logging.Options{
		Format:           "console",
		Level:            "info",
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")

	if strings.Contains(readLog(t, logPath), ".go:") {
		t.Fatal("expected no caller information in info logs")
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")
	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "debug",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	if !strings.Contains(readLog(t, logPath), ".go:") {
		t.Fatal("expected caller information in debug logs")
	}
}

func TestConsoleLoggerPromotesComponentAndUnit(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	base, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger := logging.NewComponentLogger(base, "workbench")

	logger.Info("stage started", logging.String(logging.FieldUnitID, "4006381333931"), logging.String("stage", "soldering"))

	line := readLog(t, logPath)
	if !strings.Contains(line, "INFO workbench: [unit 4006381333931] stage started") {
		t.Fatalf("unexpected console line %q", line)
	}
	if !strings.Contains(line, "stage=soldering") {
		t.Fatalf("expected trailing key=value, got %q", line)
	}
}

func TestJSONLoggerRenamesKeys(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Warn("json message", logging.String("k", "v"))

	var record map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, logPath))), &record); err != nil {
		t.Fatalf("decode json line: %v", err)
	}
	if record["level"] != "warn" {
		t.Fatalf("expected lowercase level, got %v", record["level"])
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", record)
	}
	if record["k"] != "v" {
		t.Fatalf("expected attribute k=v, got %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.WarnWithContext(logger, "recording stop failed", "recording_stop_failed",
		logging.Error(errors.New("broken pipe")),
		logging.String(logging.FieldImpact, "stage closed without video"))

	line := readLog(t, logPath)
	for _, want := range []string{"event_type=recording_stop_failed", "error_hint=", `impact="stage closed without video"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
}

func TestWithContextAddsFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "ctx.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := logging.WithRequestID(context.Background(), "req-xyz")
	ctx = logging.WithUnitID(ctx, "4006381333931")
	logging.WithContext(ctx, logger).Info("contextual log")

	line := readLog(t, logPath)
	if !strings.Contains(line, "correlation_id=req-xyz") {
		t.Fatalf("expected correlation id in %q", line)
	}
	if !strings.Contains(line, "[unit 4006381333931]") {
		t.Fatalf("expected unit prefix in %q", line)
	}
}

func TestRequestIDFromContextEmpty(t *testing.T) {
	if _, ok := logging.RequestIDFromContext(context.Background()); ok {
		t.Fatal("expected no request id")
	}
	ctx := logging.WithRequestID(context.Background(), "  ")
	if _, ok := logging.RequestIDFromContext(ctx); ok {
		t.Fatal("blank id should not be stored")
	}
}
