package daemon

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"workbench/internal/logging"
)

func TestNewAPIServerDisabled(t *testing.T) {
	if srv := newAPIServer("  ", http.NotFoundHandler(), nil); srv != nil {
		t.Fatal("expected nil server for empty bind")
	}
	var srv *apiServer
	if err := srv.start(context.Background()); err != nil {
		t.Fatalf("start on nil server: %v", err)
	}
	srv.stop()
	if srv.address() != "" {
		t.Fatal("nil server reports an address")
	}
}

func TestAPIServerServesAndStopsOnCancel(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	srv := newAPIServer("127.0.0.1:0", handler, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	if err := srv.start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	addr := srv.address()
	resp, err := http.Get("http://" + addr + "/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Fatalf("body = %q", body)
	}

	cancel()
	deadline := time.Now().Add(2 * time.Second)
	for srv.address() != "" {
		if time.Now().After(deadline) {
			t.Fatal("server still listening after cancel")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
