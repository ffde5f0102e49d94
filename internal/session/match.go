package session

// EvaluateMatch reports whether the target has already swiped on the actor.
// Called right after the actor's swipe on the target is recorded, so a true
// result means the interest is mutual.
func EvaluateMatch(targetSwipes map[string]bool, actorID string) bool {
	return targetSwipes[actorID]
}

// MatchResult is what a recorded swipe produced. Handles are connection-free
// member views ready for serialization; TargetConnID lets the transport layer
// notify the other side.
type MatchResult struct {
	// Matched is true when this swipe completed a mutual pair for the
	// first time.
	Matched bool

	// ActorHandle is the actor's view, delivered to the target on a match.
	ActorHandle MemberView

	// TargetHandle is the target's view, delivered to the actor on a match.
	TargetHandle MemberView

	// TargetConnID is the target's current connection, possibly stale if the
	// target is inside its reconnect grace window.
	TargetConnID string
}
