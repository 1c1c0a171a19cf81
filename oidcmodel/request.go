package oidcmodel

import "time"

// AuthRequest carries the subset of an OAuth2/OIDC authorization request that
// the session and claims core consumes. The endpoint layer decodes the wire
// request; this type is its normalized hand-off.
type AuthRequest struct {
	ClientID     string
	RedirectURI  string
	ResponseType string

	// Scopes as presented by the client, in request order. Use
	// NormalizedScopes for the deduplicated form.
	Scopes []string

	State string
	Nonce string

	// SectorIdentifierURI is the sector_identifier_uri request member, used
	// for pairwise subject derivation when present.
	SectorIdentifierURI string

	// Claims carries the OIDC "claims" request parameter: per-usage claim
	// restrictions requested by the client.
	Claims map[Usage]ClaimsRestriction
}

// NormalizedScopes returns the requested scopes with duplicates removed,
// preserving the first occurrence of each.
func (r *AuthRequest) NormalizedScopes() []string {
	return DedupeScopes(r.Scopes)
}

// DedupeScopes removes duplicate scope names preserving first-seen order.
func DedupeScopes(scopes []string) []string {
	seen := make(map[string]struct{}, len(scopes))
	out := make([]string, 0, len(scopes))
	for _, s := range scopes {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// AuthnEvent records a completed user authentication: who authenticated, when,
// how, and until when the event may be relied upon.
type AuthnEvent struct {
	UserID     string
	AuthnInfo  string // authentication method / class reference
	AuthnTime  time.Time
	ValidUntil time.Time
}

// AuthnEventOption mutates an AuthnEvent under construction.
type AuthnEventOption func(*AuthnEvent)

// WithAuthnInfo sets the authentication method reference.
func WithAuthnInfo(info string) AuthnEventOption {
	return func(ae *AuthnEvent) { ae.AuthnInfo = info }
}

// WithAuthnTime sets the authentication time (primarily for testing).
func WithAuthnTime(t time.Time) AuthnEventOption {
	return func(ae *AuthnEvent) { ae.AuthnTime = t }
}

// WithValidUntil sets how long the event remains usable.
func WithValidUntil(t time.Time) AuthnEventOption {
	return func(ae *AuthnEvent) { ae.ValidUntil = t }
}

// NewAuthnEvent builds an authentication event for userID. By default the
// event is timestamped now and valid for an hour.
func NewAuthnEvent(userID string, opts ...AuthnEventOption) AuthnEvent {
	now := time.Now()
	ae := AuthnEvent{
		UserID:     userID,
		AuthnTime:  now,
		ValidUntil: now.Add(time.Hour),
	}
	for _, opt := range opts {
		opt(&ae)
	}
	return ae
}
