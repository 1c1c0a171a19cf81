package oidcmodel

import (
	"reflect"
	"sort"
)

// Restriction is an OIDC claims-request constraint on a single claim, matching
// the "claims" request parameter member shape (OpenID Connect Core 5.5.1).
// A nil *Restriction means "include the claim if a value is available" with no
// constraint on the value.
type Restriction struct {
	// Essential marks the claim as necessary for the requested task.
	// It does not change release behavior in this core; it is carried
	// through for the caller.
	Essential bool `json:"essential,omitempty"`

	// Value, when non-nil, requires the released value to equal it.
	Value any `json:"value,omitempty"`

	// Values, when non-empty, requires the released value to be one of them.
	Values []any `json:"values,omitempty"`
}

// Satisfied reports whether v passes the restriction's value predicate.
// A nil restriction is always satisfied.
func (r *Restriction) Satisfied(v any) bool {
	if r == nil {
		return true
	}
	if r.Value != nil {
		return reflect.DeepEqual(v, r.Value)
	}
	if len(r.Values) > 0 {
		for _, want := range r.Values {
			if reflect.DeepEqual(v, want) {
				return true
			}
		}
		return false
	}
	return true
}

// ClaimsRestriction is the result of a claims-policy merge: the set of claim
// names that may be released for one usage, each with an optional restriction.
type ClaimsRestriction map[string]*Restriction

// Keys returns the claim names in sorted order.
func (cr ClaimsRestriction) Keys() []string {
	keys := make([]string, 0, len(cr))
	for name := range cr {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy. Restrictions themselves are treated as
// immutable once built.
func (cr ClaimsRestriction) Clone() ClaimsRestriction {
	if cr == nil {
		return nil
	}
	out := make(ClaimsRestriction, len(cr))
	for name, r := range cr {
		out[name] = r
	}
	return out
}
