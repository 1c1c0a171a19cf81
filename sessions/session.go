package sessions

import (
	"time"

	"github.com/jrsteele09/go-oidc-core/oidcmodel"
	"github.com/jrsteele09/go-oidc-core/subject"
)

// TokenRef records a token issued against a grant. The token itself lives with
// the signing layer; the session only tracks the reference.
type TokenRef struct {
	ID        string          `json:"id"`
	Usage     oidcmodel.Usage `json:"usage"`
	IssuedAt  time.Time       `json:"issuedAt"`
	ExpiresAt time.Time       `json:"expiresAt,omitempty"`
}

// Grant is one authorization outcome within a session: the scopes the client
// requested, any "claims" parameter restrictions, and the tokens issued for
// it. A grant is owned exclusively by its session.
type Grant struct {
	ID           string                                          `json:"id"`
	Scopes       []string                                        `json:"scopes"`
	Claims       map[oidcmodel.Usage]oidcmodel.ClaimsRestriction `json:"claims,omitempty"`
	AuthnEvent   oidcmodel.AuthnEvent                            `json:"authnEvent"`
	IssuedTokens []TokenRef                                      `json:"issuedTokens,omitempty"`
	CreatedAt    time.Time                                       `json:"createdAt"`
}

// Session is one authenticated relationship between a user and a client.
// Grants are kept in issuance order. Sessions are mutated only through the
// Manager.
type Session struct {
	ID               string          `json:"id"`
	UserID           string          `json:"userId"`
	ClientID         string          `json:"clientId"`
	SubjectID        string          `json:"subjectId"`
	SubType          subject.SubType `json:"subType"`
	SectorIdentifier string          `json:"sectorIdentifier,omitempty"`
	Grants           []Grant         `json:"grants"`
	CreatedAt        time.Time       `json:"createdAt"`
	ExpiresAt        time.Time       `json:"expiresAt,omitempty"`
}

// CurrentGrant returns the most recently added grant.
func (s *Session) CurrentGrant() *Grant {
	if len(s.Grants) == 0 {
		return nil
	}
	return &s.Grants[len(s.Grants)-1]
}

// GrantByID finds a grant on the session, or nil.
func (s *Session) GrantByID(grantID string) *Grant {
	for i := range s.Grants {
		if s.Grants[i].ID == grantID {
			return &s.Grants[i]
		}
	}
	return nil
}

// Expired reports whether the session has passed its expiry. Sessions with a
// zero ExpiresAt never expire.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Clone returns a deep copy. Readers holding a clone see stable state no
// matter what the Manager does to the stored session afterwards.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Grants = make([]Grant, len(s.Grants))
	for i := range s.Grants {
		out.Grants[i] = s.Grants[i].clone()
	}
	return &out
}

func (g Grant) clone() Grant {
	out := g
	out.Scopes = append([]string(nil), g.Scopes...)
	out.IssuedTokens = append([]TokenRef(nil), g.IssuedTokens...)
	if g.Claims != nil {
		out.Claims = make(map[oidcmodel.Usage]oidcmodel.ClaimsRestriction, len(g.Claims))
		for usage, cr := range g.Claims {
			out.Claims[usage] = cr.Clone()
		}
	}
	return out
}
