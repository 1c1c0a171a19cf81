package scopes

// Map binds scope names to the claim names they license, as defined by
// OpenID Connect Core 5.4. "openid" licenses authentication, not attributes,
// so it maps to the empty set.
type Map map[string][]string

// Default returns the standard OIDC scope-to-claims table.
func Default() Map {
	return Map{
		"openid": {},
		"profile": {
			"name", "given_name", "family_name", "middle_name", "nickname",
			"profile", "picture", "website", "gender", "birthdate",
			"zoneinfo", "locale", "updated_at", "preferred_username",
		},
		"email":          {"email", "email_verified"},
		"address":        {"address"},
		"phone":          {"phone_number", "phone_number_verified"},
		"offline_access": {},
	}
}

// ClaimsFor returns the claims licensed by a single scope. Unknown scopes
// license nothing.
func (m Map) ClaimsFor(scope string) []string {
	return m[scope]
}

// ClaimsForScopes returns the union of claims licensed by the given scopes,
// preserving first-seen order. Unknown scope names contribute nothing and are
// not an error.
func (m Map) ClaimsForScopes(scopes []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, scope := range scopes {
		for _, claim := range m[scope] {
			if _, ok := seen[claim]; ok {
				continue
			}
			seen[claim] = struct{}{}
			out = append(out, claim)
		}
	}
	return out
}

// Allowed filters requested scopes down to those a client may use. An empty
// allow list permits everything.
func Allowed(requested, clientAllowed []string) []string {
	if len(clientAllowed) == 0 {
		return requested
	}
	allow := make(map[string]struct{}, len(clientAllowed))
	for _, s := range clientAllowed {
		allow[s] = struct{}{}
	}
	var out []string
	for _, s := range requested {
		if _, ok := allow[s]; ok {
			out = append(out, s)
		}
	}
	return out
}
