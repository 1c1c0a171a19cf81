package users

import "context"

// AttributeStore is the external source of user claim values. This core
// treats the profile record as a black box: it filters values against a
// claims restriction but never interprets them.
//
// The lookup may be slow or fallible (it is typically a remote directory);
// callers must not hold session-store locks across it. A user without a
// profile yields an empty map, not an error — claims for unknown users are
// simply unavailable.
type AttributeStore interface {
	GetAttributes(ctx context.Context, userID string) (map[string]any, error)
}
