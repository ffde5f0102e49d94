package session

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultGraceWindow is how long a disconnected member survives before its
// records are purged, allowing transient reconnects to resume state.
const DefaultGraceWindow = 5 * time.Minute

// Scheduler runs deferred cleanup tasks, one pending timer per disconnected
// connection. A rejoin cancels the pending timer; a firing timer invokes the
// purge callback. Cancellation races with firing are resolved by the store's
// locks: a late purge of an already-rejoined member is a no-op because the
// member no longer holds the stale connection ID.
type Scheduler struct {
	mu     sync.Mutex
	grace  time.Duration
	timers map[string]*time.Timer
	purge  func(connID string)
	logger *zap.Logger
	closed bool
}

// NewScheduler creates a scheduler firing purge after the grace window.
func NewScheduler(grace time.Duration, purge func(connID string), logger *zap.Logger) *Scheduler {
	if grace <= 0 {
		grace = DefaultGraceWindow
	}
	return &Scheduler{
		grace:  grace,
		timers: make(map[string]*time.Timer),
		purge:  purge,
		logger: logger,
	}
}

// Schedule arms the cleanup timer for a connection. Re-scheduling an already
// pending connection resets its timer.
func (s *Scheduler) Schedule(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	if t, ok := s.timers[connID]; ok {
		t.Stop()
	}

	s.timers[connID] = time.AfterFunc(s.grace, func() {
		s.fire(connID)
	})

	s.logger.Debug("cleanup scheduled",
		zap.String("conn_id", connID),
		zap.Duration("grace", s.grace))
}

// Cancel stops a pending cleanup for the connection. Returns whether a timer
// was pending.
func (s *Scheduler) Cancel(connID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.timers[connID]
	if !ok {
		return false
	}
	t.Stop()
	delete(s.timers, connID)

	s.logger.Debug("cleanup cancelled", zap.String("conn_id", connID))
	return true
}

// Pending returns the number of armed timers.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Close cancels all pending timers. Timers that already fired run to
// completion; their purge pass is idempotent.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for connID, t := range s.timers {
		t.Stop()
		delete(s.timers, connID)
	}
}

func (s *Scheduler) fire(connID string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	delete(s.timers, connID)
	s.mu.Unlock()

	s.purge(connID)
}
