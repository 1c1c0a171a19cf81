package oidcmodel

// Usage identifies the artifact a claims-release policy applies to.
// Token handlers, client policy and the claims interface are all keyed
// by usage kind.
type Usage string

const (
	UsageCode          Usage = "code"
	UsageAccessToken   Usage = "access_token"
	UsageRefreshToken  Usage = "refresh_token"
	UsageIDToken       Usage = "id_token"
	UsageUserInfo      Usage = "userinfo"
	UsageIntrospection Usage = "introspection"
)

// AllUsages returns the claim-bearing usage kinds in a fixed order.
// Code and refresh tokens carry no released claims and are excluded.
func AllUsages() []Usage {
	return []Usage{UsageIDToken, UsageUserInfo, UsageIntrospection, UsageAccessToken}
}

// KnownUsage reports whether u is one of the registered usage kinds.
func KnownUsage(u Usage) bool {
	switch u {
	case UsageCode, UsageAccessToken, UsageRefreshToken, UsageIDToken, UsageUserInfo, UsageIntrospection:
		return true
	}
	return false
}
