package clients

import (
	"github.com/jrsteele09/go-oidc-core/oidcmodel"
	"github.com/rs/zerolog/log"
)

// ClaimsPolicy is the canonical per-client claims-release configuration, keyed
// by usage kind. A usage absent from ByScope means the client expressed no
// preference and the artifact default applies; a usage absent from Always
// contributes no unconditional claims.
type ClaimsPolicy struct {
	ByScope map[oidcmodel.Usage]bool
	Always  map[oidcmodel.Usage][]string
}

// AlwaysFor returns the unconditional claims for a usage, or nil.
func (p ClaimsPolicy) AlwaysFor(usage oidcmodel.Usage) []string {
	return p.Always[usage]
}

// ByScopeFor returns the client's by-scope preference for a usage and whether
// the client expressed one.
func (p ClaimsPolicy) ByScopeFor(usage oidcmodel.Usage) (bool, bool) {
	v, ok := p.ByScope[usage]
	return v, ok
}

// ResolveClaimsPolicy normalizes a client registration into a ClaimsPolicy.
//
// Two shapes are recognized in the registration metadata:
//
//	legacy:      "<usage>_add_claims_by_scope": bool
//	             "<usage>_claims":              ["claim", ...]
//	structured:  "add_claims": {
//	                 "by_scope": {"<usage>": bool},
//	                 "always":   {"<usage>": ["claim", ...]},
//	             }
//
// The structured shape takes precedence over the legacy shape where both set
// the same usage. Malformed entries are logged and ignored so that policy
// resolution degrades to minimal disclosure rather than blocking issuance.
// The registration is never mutated.
func ResolveClaimsPolicy(client *Client) ClaimsPolicy {
	policy := ClaimsPolicy{
		ByScope: make(map[oidcmodel.Usage]bool),
		Always:  make(map[oidcmodel.Usage][]string),
	}
	if client == nil || len(client.Metadata) == 0 {
		return policy
	}

	for _, usage := range oidcmodel.AllUsages() {
		if raw, ok := client.Metadata[string(usage)+"_add_claims_by_scope"]; ok {
			if v, ok := raw.(bool); ok {
				policy.ByScope[usage] = v
			} else {
				logMalformed(client.ID, string(usage)+"_add_claims_by_scope", raw)
			}
		}
		if raw, ok := client.Metadata[string(usage)+"_claims"]; ok {
			if names, ok := claimNameList(raw); ok {
				policy.Always[usage] = names
			} else {
				logMalformed(client.ID, string(usage)+"_claims", raw)
			}
		}
	}

	raw, ok := client.Metadata["add_claims"]
	if !ok {
		return policy
	}
	structured, ok := raw.(map[string]any)
	if !ok {
		logMalformed(client.ID, "add_claims", raw)
		return policy
	}

	if rawByScope, ok := structured["by_scope"]; ok {
		if byScope, ok := rawByScope.(map[string]any); ok {
			for usage, v := range byScope {
				if b, ok := v.(bool); ok {
					policy.ByScope[oidcmodel.Usage(usage)] = b
				} else {
					logMalformed(client.ID, "add_claims.by_scope."+usage, v)
				}
			}
		} else {
			logMalformed(client.ID, "add_claims.by_scope", rawByScope)
		}
	}
	if rawAlways, ok := structured["always"]; ok {
		if always, ok := rawAlways.(map[string]any); ok {
			for usage, v := range always {
				if names, ok := claimNameList(v); ok {
					policy.Always[oidcmodel.Usage(usage)] = names
				} else {
					logMalformed(client.ID, "add_claims.always."+usage, v)
				}
			}
		} else {
			logMalformed(client.ID, "add_claims.always", rawAlways)
		}
	}

	return policy
}

// claimNameList accepts []string or a decoded-JSON []any of strings.
func claimNameList(raw any) ([]string, bool) {
	switch v := raw.(type) {
	case []string:
		return append([]string(nil), v...), true
	case []any:
		names := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			names = append(names, s)
		}
		return names, true
	}
	return nil, false
}

func logMalformed(clientID, field string, value any) {
	log.Warn().
		Str("client_id", clientID).
		Str("field", field).
		Interface("value", value).
		Msg("malformed claims policy entry ignored, defaulting to minimal disclosure")
}
