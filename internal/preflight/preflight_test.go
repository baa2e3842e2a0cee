package preflight

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"

	"workbench/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if result := CheckFreeSpace("space", dir, 1); !result.Passed {
		t.Fatalf("expected one byte to be available: %s", result.Detail)
	}
	if result := CheckFreeSpace("space", dir, 1<<62); result.Passed {
		t.Fatalf("expected an exabyte requirement to fail: %s", result.Detail)
	}
}

func listen(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()
	return ln.Addr().String()
}

func closedAddress(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()
	return addr
}

func TestCheckEndpoint(t *testing.T) {
	ctx := context.Background()
	if result := CheckEndpoint(ctx, "gateway", "http://"+listen(t)); !result.Passed {
		t.Fatalf("expected reachable gateway: %s", result.Detail)
	}
	if result := CheckEndpoint(ctx, "gateway", "http://"+closedAddress(t)); result.Passed {
		t.Fatal("expected closed port to fail")
	}
	if result := CheckEndpoint(ctx, "gateway", ""); result.Passed || result.Detail != "missing uri" {
		t.Fatalf("unexpected result for empty uri: %+v", result)
	}
}

func TestHostPortDefaultsFromScheme(t *testing.T) {
	cases := map[string]string{
		"http://gateway":        "gateway:80",
		"https://gateway":       "gateway:443",
		"http://10.0.0.2:8082/": "10.0.0.2:8082",
	}
	for uri, want := range cases {
		got, err := hostPort(uri)
		if err != nil || got != want {
			t.Errorf("hostPort(%q) = %q, %v; want %q", uri, got, err, want)
		}
	}
}

func TestCheckCamera(t *testing.T) {
	ctx := context.Background()
	if result := CheckCamera(ctx, "ffmpeg -f v4l2 -i /dev/video0 FILENAME"); !result.Passed {
		t.Fatalf("expected local device to pass: %s", result.Detail)
	}
	addr := listen(t)
	if result := CheckCamera(ctx, "ffmpeg -i rtsp://"+addr+"/stream FILENAME"); !result.Passed {
		t.Fatalf("expected reachable camera: %s", result.Detail)
	}
}

func TestRunAllMarksGatewayFatal(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.VideoDir = filepath.Join(base, "videos")
	cfg.Paths.PassportDir = filepath.Join(base, "passports")
	cfg.Paths.LabelDir = filepath.Join(base, "labels")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	cfg.IPFSGateway.Enabled = true
	cfg.IPFSGateway.URI = "http://" + closedAddress(t)

	fatal, _ := Failed(RunAll(context.Background(), &cfg))
	if len(fatal) != 1 || fatal[0].Name != "Publishing gateway" {
		t.Fatalf("expected only the gateway to be fatal, got %+v", fatal)
	}
}
