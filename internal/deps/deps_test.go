package deps

import (
	"os"
	"path/filepath"
	"testing"

	"workbench/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unset", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Detail != "" {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}
}

func TestRequirementsFollowEnabledFeatures(t *testing.T) {
	cfg := config.Default()
	cfg.Camera.Enabled = true
	cfg.Camera.FFmpegCommand = "/opt/ffmpeg/bin/ffmpeg -i rtsp://cam FILENAME"

	reqs := Requirements(&cfg)
	if len(reqs) != 2 {
		t.Fatalf("expected two requirements, got %d", len(reqs))
	}
	if reqs[0].Command != "/opt/ffmpeg/bin/ffmpeg" || reqs[0].Optional {
		t.Fatalf("unexpected ffmpeg requirement %#v", reqs[0])
	}
	if reqs[1].Command != "lp" || !reqs[1].Optional {
		t.Fatalf("expected lp to be optional with printing disabled: %#v", reqs[1])
	}
}

func TestMissingSkipsOptional(t *testing.T) {
	t.Setenv("PATH", "")
	statuses := CheckBinaries([]Requirement{
		{Name: "FFmpeg", Command: "ffmpeg"},
		{Name: "CUPS lp", Command: "lp", Optional: true},
	})
	missing := Missing(statuses)
	if len(missing) != 1 || missing[0].Name != "FFmpeg" {
		t.Fatalf("unexpected missing list %#v", missing)
	}
}
