package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"workbench/internal/logging"
)

// ErrClosed is returned by Next once the subscription has been closed.
var ErrClosed = errors.New("subscription closed")

// Bus fans messages out to every live subscriber.
type Bus struct {
	logger *slog.Logger

	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]*Subscription
}

// NewBus constructs an empty bus.
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		logger: logging.NewComponentLogger(logger, "notify"),
		subs:   make(map[uint64]*Subscription),
	}
}

// Subscribe registers a new queue that receives every message emitted from
// now on.
func (b *Bus) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	sub := &Subscription{id: b.nextID, ready: make(chan struct{}, 1), done: make(chan struct{})}
	b.subs[sub.id] = sub
	return sub
}

// Emit pushes msg to all live subscribers, pruning closed ones, and returns
// the number of recipients.
func (b *Bus) Emit(msg Message) int {
	b.mu.Lock()
	delivered := 0
	for id, sub := range b.subs {
		if !sub.push(msg) {
			delete(b.subs, id)
			continue
		}
		delivered++
	}
	b.mu.Unlock()

	if delivered == 0 {
		b.logger.Debug("notification has no recipients",
			logging.String("level", msg.Level.String()),
			logging.String("text", msg.Text))
		return 0
	}
	b.logger.Debug("notification emitted",
		logging.String("level", msg.Level.String()),
		logging.String("text", msg.Text),
		logging.Int("recipients", delivered))
	return delivered
}

// Subscribers reports the number of registered subscriptions, including
// closed ones not yet pruned.
func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Bus) Default(text string) { b.Emit(NewMessage(LevelDefault, text)) }

func (b *Bus) Info(text string) { b.Emit(NewMessage(LevelInfo, text)) }

func (b *Bus) Warning(text string) { b.Emit(NewMessage(LevelWarning, text)) }

func (b *Bus) Success(text string) { b.Emit(NewMessage(LevelSuccess, text)) }

func (b *Bus) Error(text string) { b.Emit(NewMessage(LevelError, text)) }

// Subscription is one observer's message queue.
type Subscription struct {
	id    uint64
	ready chan struct{}
	done  chan struct{}

	mu     sync.Mutex
	queue  []Message
	closed bool
}

func (s *Subscription) ID() uint64 { return s.id }

// push appends msg without blocking. It reports false once closed.
func (s *Subscription) push(msg Message) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.queue = append(s.queue, msg)
	s.mu.Unlock()

	select {
	case s.ready <- struct{}{}:
	default:
	}
	return true
}

// Next returns the oldest queued message, blocking until one arrives, the
// context ends, or the subscription is closed.
func (s *Subscription) Next(ctx context.Context) (Message, error) {
	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return Message{}, ErrClosed
		}
		if len(s.queue) > 0 {
			msg := s.queue[0]
			s.queue[0] = Message{}
			s.queue = s.queue[1:]
			s.mu.Unlock()
			return msg, nil
		}
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return Message{}, ctx.Err()
		case <-s.done:
			return Message{}, ErrClosed
		case <-s.ready:
		}
	}
}

// Pending reports the number of undelivered messages.
func (s *Subscription) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Close releases the queue. The bus drops the subscription on its next emit.
func (s *Subscription) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.queue = nil
	close(s.done)
}
