// Package claims implements the claims-release engine: given a session, the
// requested scopes and a usage kind, it combines the artifact's base claims,
// the client's claims policy and the scope-claims map into one deterministic
// release decision, and resolves actual values against the user-attribute
// store.
package claims

import (
	"context"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-oidc-core/clients"
	"github.com/jrsteele09/go-oidc-core/oidcmodel"
	"github.com/jrsteele09/go-oidc-core/scopes"
	"github.com/jrsteele09/go-oidc-core/sessions"
	"github.com/jrsteele09/go-oidc-core/tokens"
	"github.com/jrsteele09/go-oidc-core/users"
)

// Deps holds the Interface's collaborators.
type Deps struct {
	Sessions   *sessions.Manager       // Session lookup
	Clients    clients.Repo            // Client registry (claims policy source)
	Scopes     scopes.Map              // Scope-to-claims table
	Handlers   *tokens.HandlerRegistry // Per-artifact defaults
	Attributes users.AttributeStore    // User claim values
}

// Interface is the claims-release engine. It holds no mutable state of its
// own; everything it reads is either immutable configuration or fetched per
// call, so it is safe for concurrent and repeated use.
type Interface struct {
	deps Deps
}

// New initializes the claims Interface with its required dependencies.
func New(deps Deps) (*Interface, error) {
	if deps.Sessions == nil {
		return nil, errors.New("[claims.New] session manager is required")
	}
	if deps.Clients == nil {
		return nil, errors.New("[claims.New] client registry is required")
	}
	if deps.Scopes == nil {
		return nil, errors.New("[claims.New] scope map is required")
	}
	if deps.Handlers == nil {
		return nil, errors.New("[claims.New] handler registry is required")
	}
	if deps.Attributes == nil {
		return nil, errors.New("[claims.New] attribute store is required")
	}
	return &Interface{deps: deps}, nil
}

// GetClaims produces the claims-release policy for one usage of a session.
//
// Sources, lowest precedence first: scope-derived claims (only when the
// by-scope policy for the usage is on), the client's unconditional claims,
// and the artifact's base claims. Where the same claim arrives from several
// sources, the most explicitly configured source wins — except that a nil
// restriction never overrides a concrete one. Subject disclosure is mandatory
// for userinfo and introspection regardless of policy.
func (ci *Interface) GetClaims(ctx context.Context, sessionID string, requestedScopes []string, usage oidcmodel.Usage) (oidcmodel.ClaimsRestriction, error) {
	session, err := ci.deps.Sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "[GetClaims]")
	}

	defaults, _ := ci.deps.Handlers.Defaults(usage)

	client, err := ci.deps.Clients.Get(session.ClientID)
	if err != nil {
		return nil, errors.Wrapf(err, "[GetClaims] client %q", session.ClientID)
	}
	policy := clients.ResolveClaimsPolicy(client)

	byScope := defaults.DefaultByScope
	if v, ok := policy.ByScopeFor(usage); ok {
		byScope = v
	}

	result := make(oidcmodel.ClaimsRestriction)

	if byScope {
		scopeClaims := make(oidcmodel.ClaimsRestriction)
		for _, name := range ci.deps.Scopes.ClaimsForScopes(oidcmodel.DedupeScopes(requestedScopes)) {
			scopeClaims[name] = nil
		}
		mergeOver(result, scopeClaims)
	}

	alwaysClaims := make(oidcmodel.ClaimsRestriction)
	for _, name := range policy.AlwaysFor(usage) {
		alwaysClaims[name] = nil
	}
	mergeOver(result, alwaysClaims)

	mergeOver(result, defaults.BaseClaims)

	if usage == oidcmodel.UsageUserInfo || usage == oidcmodel.UsageIntrospection {
		mergeOver(result, oidcmodel.ClaimsRestriction{oidcmodel.ClaimSubject: nil})
	}

	return result, nil
}

// GetClaimsAllUsages produces the release policy for every claim-bearing
// usage kind at once.
func (ci *Interface) GetClaimsAllUsages(ctx context.Context, sessionID string, requestedScopes []string) (map[oidcmodel.Usage]oidcmodel.ClaimsRestriction, error) {
	out := make(map[oidcmodel.Usage]oidcmodel.ClaimsRestriction, len(oidcmodel.AllUsages()))
	for _, usage := range oidcmodel.AllUsages() {
		cr, err := ci.GetClaims(ctx, sessionID, requestedScopes, usage)
		if err != nil {
			return nil, errors.Wrapf(err, "[GetClaimsAllUsages] %s", usage)
		}
		out[usage] = cr
	}
	return out, nil
}

// AuthRequestClaims returns the restrictions the client requested for a usage
// through the authorization request's "claims" parameter, from the session's
// most recent grant. The result is empty when the client requested none.
func (ci *Interface) AuthRequestClaims(ctx context.Context, sessionID string, usage oidcmodel.Usage) (oidcmodel.ClaimsRestriction, error) {
	session, err := ci.deps.Sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "[AuthRequestClaims]")
	}

	grant := session.CurrentGrant()
	if grant == nil || grant.Claims == nil {
		return oidcmodel.ClaimsRestriction{}, nil
	}
	cr, ok := grant.Claims[usage]
	if !ok {
		return oidcmodel.ClaimsRestriction{}, nil
	}
	return cr.Clone(), nil
}

// GetUserClaims resolves claim values for a release policy against the
// attribute store. "sub" is never looked up — it is the session's derived
// subject identifier and is supplied by the caller. Claims without an
// available value, and values failing their restriction, are omitted, never
// an error. No session-store lock is held across the attribute fetch.
func (ci *Interface) GetUserClaims(ctx context.Context, userID string, restriction oidcmodel.ClaimsRestriction) (map[string]any, error) {
	out := make(map[string]any)
	if len(restriction) == 0 {
		return out, nil
	}

	attrs, err := ci.deps.Attributes.GetAttributes(ctx, userID)
	if err != nil {
		return nil, errors.Wrapf(err, "[GetUserClaims] attributes for %q", userID)
	}

	for name, r := range restriction {
		if name == oidcmodel.ClaimSubject {
			continue
		}
		value, ok := attrs[name]
		if !ok {
			continue
		}
		if !r.Satisfied(value) {
			continue
		}
		out[name] = value
	}
	return out, nil
}

// mergeOver merges src into dst with src taking precedence, except that a nil
// restriction never displaces a concrete one already present.
func mergeOver(dst, src oidcmodel.ClaimsRestriction) {
	for name, r := range src {
		if r == nil {
			if existing, ok := dst[name]; ok && existing != nil {
				continue
			}
			dst[name] = nil
			continue
		}
		dst[name] = r
	}
}
