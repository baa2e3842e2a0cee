package notifications_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"workbench/internal/config"
	"workbench/internal/logging"
	"workbench/internal/notifications"
	"workbench/internal/notify"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.Publish(context.Background(), notify.NewMessage(notify.LevelError, "boom")); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

type captured struct {
	title, tags, priority, body string
}

func newNtfyServer(t *testing.T, status int) (*httptest.Server, <-chan captured) {
	t.Helper()
	ch := make(chan captured, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		ch <- captured{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, ch
}

func TestNtfyServiceFormatsMessages(t *testing.T) {
	srv, ch := newNtfyServer(t, http.StatusOK)
	cfg := config.Default()
	cfg.Workbench.Number = 3
	cfg.Notifications.NtfyTopic = srv.URL + "/workbench"
	svc := notifications.NewService(&cfg)

	if err := svc.Publish(context.Background(), notify.NewMessage(notify.LevelError, " Camera is not reachable ")); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	got := <-ch
	want := captured{title: "Workbench 3 - Error", tags: "workbench,error,alert", priority: "high", body: "Camera is not reachable"}
	if got != want {
		t.Fatalf("request = %+v, want %+v", got, want)
	}

	if err := svc.TestNotification(context.Background()); err != nil {
		t.Fatalf("TestNotification: %v", err)
	}
	if got := <-ch; got.priority != "low" || got.title != "Workbench 3 - Test" {
		t.Fatalf("test request = %+v", got)
	}
}

func TestNtfyServiceReportsHTTPErrors(t *testing.T) {
	srv, _ := newNtfyServer(t, http.StatusForbidden)
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = srv.URL
	svc := notifications.NewService(&cfg)
	if err := svc.Publish(context.Background(), notify.NewMessage(notify.LevelWarning, "x")); err == nil {
		t.Fatal("expected error for 403 response")
	}
}

type recordingService struct {
	mu   sync.Mutex
	seen []notify.Message
}

func (s *recordingService) Publish(_ context.Context, msg notify.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = append(s.seen, msg)
	return nil
}

func (s *recordingService) TestNotification(context.Context) error { return nil }

func (s *recordingService) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

func TestRelayForwardsAtOrAboveThreshold(t *testing.T) {
	bus := notify.NewBus(logging.NewNop())
	svc := &recordingService{}
	relay := notifications.NewRelay(bus, svc, notify.LevelWarning, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for bus.Subscribers() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	bus.Info("ignored")
	bus.Success("ignored too")
	bus.Warning("forwarded")
	bus.Error("forwarded as well")

	for svc.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if svc.count() != 2 || svc.seen[0].Text != "forwarded" || svc.seen[1].Level != notify.LevelError {
		t.Fatalf("forwarded = %+v", svc.seen)
	}
}
