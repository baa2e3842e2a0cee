package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"workbench/internal/notify"
)

func TestEmitReachesEverySubscriber(t *testing.T) {
	bus := notify.NewBus(nil)
	first := bus.Subscribe()
	second := bus.Subscribe()

	if got := bus.Emit(notify.NewMessage(notify.LevelInfo, "unit on the table")); got != 2 {
		t.Fatalf("expected 2 recipients, got %d", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for _, sub := range []*notify.Subscription{first, second} {
		msg, err := sub.Next(ctx)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if msg.Text != "unit on the table" || msg.Level != notify.LevelInfo {
			t.Fatalf("unexpected message %+v", msg)
		}
	}
}

func TestClosedSubscribersArePrunedOnEmit(t *testing.T) {
	bus := notify.NewBus(nil)
	live := bus.Subscribe()
	gone := bus.Subscribe()
	gone.Close()

	if bus.Subscribers() != 2 {
		t.Fatalf("closed subscriber is pruned lazily, got %d", bus.Subscribers())
	}
	if got := bus.Emit(notify.NewMessage(notify.LevelWarning, "w")); got != 1 {
		t.Fatalf("expected 1 recipient, got %d", got)
	}
	if bus.Subscribers() != 1 {
		t.Fatalf("expected pruned subscriber, got %d", bus.Subscribers())
	}
	if live.Pending() != 1 {
		t.Fatalf("expected live queue to hold 1 message, got %d", live.Pending())
	}
	if _, err := gone.Next(context.Background()); !errors.Is(err, notify.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestSlowSubscriberAccumulatesWithoutBlocking(t *testing.T) {
	bus := notify.NewBus(nil)
	slow := bus.Subscribe()
	fast := bus.Subscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			bus.Info("tick")
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("emission blocked on an undrained subscriber")
	}

	if slow.Pending() != 1000 || fast.Pending() != 1000 {
		t.Fatalf("expected 1000 queued messages, got slow=%d fast=%d", slow.Pending(), fast.Pending())
	}
}

func TestNextHonoursContext(t *testing.T) {
	bus := notify.NewBus(nil)
	sub := bus.Subscribe()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := sub.Next(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestNextWakesOnEmit(t *testing.T) {
	bus := notify.NewBus(nil)
	sub := bus.Subscribe()

	var wg sync.WaitGroup
	wg.Add(1)
	var got notify.Message
	var err error
	go func() {
		defer wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		got, err = sub.Next(ctx)
	}()
	time.Sleep(10 * time.Millisecond)
	bus.Error("printer offline")
	wg.Wait()

	if err != nil || got.Text != "printer offline" || got.Level != notify.LevelError {
		t.Fatalf("unexpected result %+v, %v", got, err)
	}
}

func TestViewCarriesPresentation(t *testing.T) {
	cases := []struct {
		level    notify.Level
		variant  string
		persist  bool
		prevent  bool
		autoHide int64
	}{
		{notify.LevelDefault, "default", false, true, 5000},
		{notify.LevelInfo, "info", false, true, 5000},
		{notify.LevelWarning, "warning", false, true, 10000},
		{notify.LevelSuccess, "success", false, true, 5000},
		{notify.LevelError, "error", true, false, 5000},
	}
	for _, tc := range cases {
		view := notify.NewMessage(tc.level, "text").View()
		if view.Variant != tc.variant || view.Persist != tc.persist ||
			view.PreventDuplicate != tc.prevent || view.AutoHideDuration != tc.autoHide {
			t.Errorf("%s: unexpected view %+v", tc.variant, view)
		}
		if view.AnchorOrigin.Vertical != "bottom" || view.AnchorOrigin.Horizontal != "left" {
			t.Errorf("%s: unexpected anchor %+v", tc.variant, view.AnchorOrigin)
		}
	}
}

func TestParseLevel(t *testing.T) {
	level, err := notify.ParseLevel(" Warning ")
	if err != nil || level != notify.LevelWarning {
		t.Fatalf("ParseLevel = %v, %v", level, err)
	}
	if _, err := notify.ParseLevel("critical"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
