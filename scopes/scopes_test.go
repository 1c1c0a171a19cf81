package scopes_test

import (
	"testing"

	"github.com/jrsteele09/go-oidc-core/scopes"
	"github.com/stretchr/testify/require"
)

func TestDefaultMap(t *testing.T) {
	m := scopes.Default()

	require.Empty(t, m.ClaimsFor("openid"))
	require.Equal(t, []string{"email", "email_verified"}, m.ClaimsFor("email"))
	require.Equal(t, []string{"address"}, m.ClaimsFor("address"))
	require.Contains(t, m.ClaimsFor("profile"), "family_name")
	require.Empty(t, m.ClaimsFor("offline_access"))
}

func TestClaimsForScopesUnionsAndDedupes(t *testing.T) {
	m := scopes.Map{
		"a": {"one", "two"},
		"b": {"two", "three"},
	}

	claims := m.ClaimsForScopes([]string{"a", "b", "unknown"})
	require.Equal(t, []string{"one", "two", "three"}, claims)
}

func TestClaimsForScopesUnknownOnly(t *testing.T) {
	m := scopes.Default()
	require.Empty(t, m.ClaimsForScopes([]string{"api.read", "made-up"}))
}

func TestAllowed(t *testing.T) {
	requested := []string{"openid", "email", "api.write"}

	require.Equal(t, requested, scopes.Allowed(requested, nil))
	require.Equal(t, []string{"openid", "email"}, scopes.Allowed(requested, []string{"openid", "email", "profile"}))
}
