// Package statesignal provides the broadcast condition that wakes workbench
// status watchers.
//
// The signal is a monotonically increasing version counter. A watcher
// remembers the last version it observed and waits for a newer one, so a
// change that lands while the watcher is busy re-reading state is never
// missed. The signal carries no payload: watchers re-read the canonical
// state after waking.
package statesignal

import (
	"context"
	"sync"
)

// Signal is safe for any number of concurrent waiters.
type Signal struct {
	mu      sync.Mutex
	cond    *sync.Cond
	version uint64
}

// New constructs a signal at version zero.
func New() *Signal {
	s := &Signal{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Notify records a change and wakes every waiter.
func (s *Signal) Notify() uint64 {
	s.mu.Lock()
	s.version++
	v := s.version
	s.cond.Broadcast()
	s.mu.Unlock()
	return v
}

// Version returns the current version.
func (s *Signal) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Wait blocks until the version exceeds since or ctx ends, and returns the
// version observed.
func (s *Signal) Wait(ctx context.Context, since uint64) (uint64, error) {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			s.cond.Broadcast()
			s.mu.Unlock()
		case <-stop:
		}
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	for s.version <= since {
		if err := ctx.Err(); err != nil {
			return s.version, err
		}
		s.cond.Wait()
	}
	return s.version, nil
}
