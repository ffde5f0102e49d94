// Package session implements the in-memory session registry, swipe
// bookkeeping and match detection for the pulse backend.
package session

import "sync"

// Profile is the opaque, caller-supplied user metadata. The backend never
// interprets it beyond the telegramId key; it is stored and echoed as-is.
type Profile map[string]any

// MemberView is the outward representation of a member. It carries the
// profile fields plus the swipe set and never includes the connection handle.
type MemberView map[string]any

// Member is one participant's record within a single session.
type Member struct {
	// TelegramID is the caller-supplied identity, unique within a session.
	TelegramID string

	// Profile holds the caller-supplied attributes, telegramId included.
	Profile Profile

	// Swipes maps target identity -> true for every swipe this member gave.
	Swipes map[string]bool

	// ConnID keys into the connection registry. It is a non-owning
	// reference; the transport layer manages the connection lifetime.
	ConnID string
}

// View returns the member's serializable representation with the connection
// reference stripped and defensive copies of the mutable maps.
func (m *Member) View() MemberView {
	view := make(MemberView, len(m.Profile)+2)
	for k, v := range m.Profile {
		view[k] = v
	}
	view["telegramId"] = m.TelegramID

	swipes := make(map[string]bool, len(m.Swipes))
	for k, v := range m.Swipes {
		swipes[k] = v
	}
	view["swipes"] = swipes

	return view
}

// roster is one session's member collection. Insertion order is preserved so
// membership listings are deterministic.
type roster struct {
	mu      sync.Mutex
	id      string
	members []*Member

	// removed is set when the roster has been deleted from the registry.
	// Callers holding a stale pointer must re-resolve instead of mutating.
	removed bool
}

// find returns the member with the given identity, or nil. Caller holds mu.
func (r *roster) find(telegramID string) *Member {
	for _, m := range r.members {
		if m.TelegramID == telegramID {
			return m
		}
	}
	return nil
}

// findByConn returns the member holding the given connection, or nil.
// Caller holds mu.
func (r *roster) findByConn(connID string) *Member {
	for _, m := range r.members {
		if m.ConnID == connID {
			return m
		}
	}
	return nil
}

// snapshot returns views of all members in insertion order. Caller holds mu.
func (r *roster) snapshot() []MemberView {
	views := make([]MemberView, 0, len(r.members))
	for _, m := range r.members {
		views = append(views, m.View())
	}
	return views
}
