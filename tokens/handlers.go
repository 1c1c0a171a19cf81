// Package tokens holds the per-artifact token-handler configuration: which
// claims an artifact always carries, whether scope-derived claims are added by
// default, and the artifact lifetime carried through to the signing layer.
package tokens

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-oidc-core/oidcmodel"
)

// ErrUnknownUsage is returned when configuring defaults for an unregistered
// usage kind.
var ErrUnknownUsage = errors.New("unknown usage kind")

// ArtifactDefaults is the token-handler configuration for one usage kind.
type ArtifactDefaults struct {
	// BaseClaims are always present for the artifact, independent of client
	// policy or requested scopes.
	BaseClaims oidcmodel.ClaimsRestriction

	// DefaultByScope is the fallback by-scope policy when a client does not
	// specify its own for this usage.
	DefaultByScope bool

	// Lifetime of the issued artifact. Irrelevant to claims release; carried
	// through for the signing layer.
	Lifetime time.Duration

	// Audience values for the artifact. Empty means audience is the client.
	Audience []string
}

// HandlerRegistry holds ArtifactDefaults per usage kind. Defaults are
// assembled once at startup; SetDefaults is the explicit administrative
// mutation point.
type HandlerRegistry struct {
	lock     sync.RWMutex
	handlers map[oidcmodel.Usage]ArtifactDefaults
}

// NewHandlerRegistry builds a registry with the standard minimal-disclosure
// table: userinfo and introspection release scope-derived claims by default,
// ID tokens and access tokens do not, because those artifacts are routinely
// logged and cached by relying parties.
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: map[oidcmodel.Usage]ArtifactDefaults{
			oidcmodel.UsageCode:          {Lifetime: 10 * time.Minute},
			oidcmodel.UsageAccessToken:   {Lifetime: time.Hour},
			oidcmodel.UsageRefreshToken:  {Lifetime: 24 * time.Hour},
			oidcmodel.UsageIDToken:       {Lifetime: 5 * time.Minute},
			oidcmodel.UsageUserInfo:      {DefaultByScope: true},
			oidcmodel.UsageIntrospection: {DefaultByScope: true},
		},
	}
}

// Defaults returns the configuration for a usage. Unregistered usages yield
// the zero value and false; the claims interface treats that as "no base
// claims, no scope release".
func (r *HandlerRegistry) Defaults(usage oidcmodel.Usage) (ArtifactDefaults, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	d, ok := r.handlers[usage]
	if !ok {
		return ArtifactDefaults{}, false
	}
	d.BaseClaims = d.BaseClaims.Clone()
	return d, true
}

// SetDefaults replaces the configuration for a known usage kind.
func (r *HandlerRegistry) SetDefaults(usage oidcmodel.Usage, defaults ArtifactDefaults) error {
	if !oidcmodel.KnownUsage(usage) {
		return errors.Wrapf(ErrUnknownUsage, "[SetDefaults] %q", string(usage))
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	defaults.BaseClaims = defaults.BaseClaims.Clone()
	r.handlers[usage] = defaults
	return nil
}

// Usages returns the registered usage kinds.
func (r *HandlerRegistry) Usages() []oidcmodel.Usage {
	r.lock.RLock()
	defer r.lock.RUnlock()

	out := make([]oidcmodel.Usage, 0, len(r.handlers))
	for usage := range r.handlers {
		out = append(out, usage)
	}
	return out
}
