package session

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrTargetNotFound means a swipe named a member (or session) that does
	// not exist. No state is mutated when it is returned.
	ErrTargetNotFound = errors.New("target user not found")

	// ErrMissingActor means the swipe event carried no usable actor info.
	ErrMissingActor = errors.New("user info not found")
)

// SwipeActor is the caller-supplied side of a swipe event: its identity,
// its profile and its locally tracked swipe set. The swipe set may lag the
// store's canonical copy; it is merged in, never substituted.
type SwipeActor struct {
	TelegramID string
	Profile    Profile
	Swipes     map[string]bool
}

// Store owns every session and member record in the process. All membership
// and swipe mutation goes through it; per-session locks serialize concurrent
// operations on the same session without contending across unrelated ones.
// Lock order is always registry before roster.
type Store struct {
	mu      sync.RWMutex
	rosters map[string]*roster

	scheduler *Scheduler
	logger    *zap.Logger
}

// StoreConfig contains configuration for the session store.
type StoreConfig struct {
	// GraceWindow is the delay between a disconnect and the purge of the
	// connection's member records. Defaults to DefaultGraceWindow.
	GraceWindow time.Duration
	Logger      *zap.Logger
}

// NewStore creates a session store with an armed cleanup scheduler.
func NewStore(cfg *StoreConfig) *Store {
	if cfg == nil {
		cfg = &StoreConfig{}
	}
	if cfg.Logger == nil {
		cfg.Logger, _ = zap.NewProduction()
	}

	s := &Store{
		rosters: make(map[string]*roster),
		logger:  cfg.Logger,
	}
	s.scheduler = NewScheduler(cfg.GraceWindow, s.Cleanup, cfg.Logger)
	return s
}

// Join adds the member to the session, creating the session on first use.
// If a member with the same identity already exists this is a rejoin: the
// record keeps its profile and swipe state, only the connection reference is
// replaced, and any cleanup pending for the previous connection is cancelled.
// Returns a snapshot of the full membership with connections stripped.
func (s *Store) Join(sessionID, telegramID string, profile Profile, connID string) []MemberView {
	for {
		r := s.getOrCreate(sessionID)

		r.mu.Lock()
		if r.removed {
			// Lost a race with a cleanup pass that deleted the session;
			// re-resolve against the registry.
			r.mu.Unlock()
			continue
		}

		if m := r.find(telegramID); m != nil {
			prevConn := m.ConnID
			m.ConnID = connID
			s.scheduler.Cancel(prevConn)

			s.logger.Info("user rejoining session",
				zap.String("session_id", sessionID),
				zap.String("telegram_id", telegramID),
				zap.String("conn_id", connID))
		} else {
			r.members = append(r.members, &Member{
				TelegramID: telegramID,
				Profile:    profile,
				Swipes:     make(map[string]bool),
				ConnID:     connID,
			})

			s.logger.Info("user joining session for the first time",
				zap.String("session_id", sessionID),
				zap.String("telegram_id", telegramID),
				zap.Int("members", len(r.members)))
		}

		snapshot := r.snapshot()
		r.mu.Unlock()
		return snapshot
	}
}

// RecordSwipe merges the actor's swipe set (plus the new entry for targetID)
// into its stored record and evaluates reciprocity against the target's
// stored swipes. Client-supplied entries are unioned in; entries already
// recorded server-side always survive. Sending the resulting notifications
// is the caller's job.
func (s *Store) RecordSwipe(sessionID string, actor SwipeActor, targetID string) (*MatchResult, error) {
	if actor.TelegramID == "" {
		return nil, ErrMissingActor
	}

	s.mu.RLock()
	r := s.rosters[sessionID]
	s.mu.RUnlock()
	if r == nil {
		return nil, ErrTargetNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.removed {
		return nil, ErrTargetNotFound
	}

	target := r.find(targetID)
	if target == nil {
		return nil, ErrTargetNotFound
	}
	if target.Swipes == nil {
		target.Swipes = make(map[string]bool)
	}

	// A swipe already recorded server-side carries no new information; a
	// repeat must not re-fire the match notification.
	firstSwipe := true

	var actorHandle MemberView
	if stored := r.find(actor.TelegramID); stored != nil {
		if stored.Swipes == nil {
			stored.Swipes = make(map[string]bool)
		}
		firstSwipe = !stored.Swipes[targetID]
		for id, swiped := range actor.Swipes {
			if swiped {
				stored.Swipes[id] = true
			}
		}
		stored.Swipes[targetID] = true
		actorHandle = stored.View()
	} else {
		// The actor never joined this session; the swipe is still recorded
		// against the target check using the caller-supplied state only.
		ephemeral := &Member{
			TelegramID: actor.TelegramID,
			Profile:    actor.Profile,
			Swipes:     make(map[string]bool, len(actor.Swipes)+1),
		}
		for id, swiped := range actor.Swipes {
			if swiped {
				ephemeral.Swipes[id] = true
			}
		}
		ephemeral.Swipes[targetID] = true
		actorHandle = ephemeral.View()
	}

	matched := firstSwipe && EvaluateMatch(target.Swipes, actor.TelegramID)

	s.logger.Info("swipe recorded",
		zap.String("session_id", sessionID),
		zap.String("telegram_id", actor.TelegramID),
		zap.String("swipe_target", targetID),
		zap.Bool("matched", matched))

	return &MatchResult{
		Matched:      matched,
		ActorHandle:  actorHandle,
		TargetHandle: target.View(),
		TargetConnID: target.ConnID,
	}, nil
}

// Disconnect notes that a connection closed and schedules the deferred purge
// of any member records still referencing it. The member is not removed
// immediately; a rejoin within the grace window cancels the purge.
// Returns the identity of the disconnected member when one was found.
func (s *Store) Disconnect(connID string) (string, bool) {
	s.mu.RLock()
	var telegramID string
	var found bool
	for _, r := range s.rosters {
		r.mu.Lock()
		if m := r.findByConn(connID); m != nil {
			telegramID = m.TelegramID
			found = true
		}
		r.mu.Unlock()
		if found {
			break
		}
	}
	s.mu.RUnlock()

	if found {
		s.logger.Info("user disconnected",
			zap.String("telegram_id", telegramID),
			zap.String("conn_id", connID))
	} else {
		s.logger.Info("client disconnected", zap.String("conn_id", connID))
	}

	s.scheduler.Schedule(connID)
	return telegramID, found
}

// Cleanup removes every member record still holding the given connection and
// deletes any session left empty. Safe to run repeatedly; a pass that
// matches nothing is a no-op.
func (s *Store) Cleanup(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for sessionID, r := range s.rosters {
		r.mu.Lock()

		kept := r.members[:0]
		for _, m := range r.members {
			if m.ConnID == connID {
				removed++
				continue
			}
			kept = append(kept, m)
		}
		r.members = kept

		if len(r.members) == 0 {
			r.removed = true
			delete(s.rosters, sessionID)
			s.logger.Info("deleting empty session",
				zap.String("session_id", sessionID))
		}
		r.mu.Unlock()
	}

	if removed > 0 {
		s.logger.Info("cleaned up disconnected client sessions",
			zap.String("conn_id", connID),
			zap.Int("members_removed", removed))
	}
}

// Exists reports whether any live session contains a member with the given
// identity. Read-only; tolerates brief staleness under concurrent mutation.
func (s *Store) Exists(telegramID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.rosters {
		r.mu.Lock()
		m := r.find(telegramID)
		r.mu.Unlock()
		if m != nil {
			return true
		}
	}
	return false
}

// Counts returns the number of live sessions and members.
func (s *Store) Counts() (sessions, members int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions = len(s.rosters)
	for _, r := range s.rosters {
		r.mu.Lock()
		members += len(r.members)
		r.mu.Unlock()
	}
	return sessions, members
}

// Stats returns store statistics for the stats endpoint.
func (s *Store) Stats() map[string]any {
	sessions, members := s.Counts()
	return map[string]any{
		"sessions":         sessions,
		"members":          members,
		"pending_cleanups": s.scheduler.Pending(),
	}
}

// Close stops the cleanup scheduler. Records are left in place; the store is
// process-lifetime only.
func (s *Store) Close() {
	s.scheduler.Close()
	s.logger.Info("session store closed")
}

// getOrCreate resolves the roster for a session, creating it lazily.
func (s *Store) getOrCreate(sessionID string) *roster {
	s.mu.RLock()
	r := s.rosters[sessionID]
	s.mu.RUnlock()
	if r != nil {
		return r
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if r = s.rosters[sessionID]; r == nil {
		r = &roster{id: sessionID}
		s.rosters[sessionID] = r
	}
	return r
}
