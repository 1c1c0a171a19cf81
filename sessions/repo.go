package sessions

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrSessionNotFound is returned when a session id is unknown or expired.
	ErrSessionNotFound = errors.New("session not found")

	// ErrGrantNotFound is returned when a grant id does not exist on a session.
	ErrGrantNotFound = errors.New("grant not found")
)

// Repo defines the interface for session persistence. Implementations must be
// safe for concurrent use; serialization of writes to a single session is the
// Manager's responsibility.
type Repo interface {
	// Upsert stores a session under its ID
	Upsert(ctx context.Context, session *Session) error

	// Get retrieves a session, returning ErrSessionNotFound when absent
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Delete removes a session and, with it, all of its grants
	Delete(ctx context.Context, sessionID string) error

	// DeleteExpired removes sessions whose expiry precedes the given time
	DeleteExpired(ctx context.Context, before time.Time) error

	// LatestSequence returns the highest grant sequence stored for the
	// (user, client) pair, or -1 when the pair has no sessions
	LatestSequence(ctx context.Context, userID, clientID string) (int, error)
}
