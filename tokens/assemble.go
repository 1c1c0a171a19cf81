package tokens

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jrsteele09/go-oidc-core/oidcmodel"
)

// AssembleClaims builds the claim payload for an artifact: registered claims
// (iss/sub/aud/iat/exp/jti) from the registry's lifetime and audience, merged
// with the released user claims. The result is handed to the external signing
// layer; no signing happens here.
//
// Released user claims never override the registered claims.
func (r *HandlerRegistry) AssembleClaims(
	issuer string,
	subjectID string,
	clientID string,
	usage oidcmodel.Usage,
	userClaims map[string]any,
	now time.Time,
) jwtlib.MapClaims {
	defaults, _ := r.Defaults(usage)

	var aud any = clientID
	if len(defaults.Audience) > 0 {
		aud = defaults.Audience
	}

	claims := jwtlib.MapClaims{
		oidcmodel.ClaimIssuer:   issuer,
		oidcmodel.ClaimSubject:  subjectID,
		oidcmodel.ClaimAudience: aud,
		oidcmodel.ClaimClientID: clientID,
		oidcmodel.ClaimIssuedAt: now.Unix(),
		oidcmodel.ClaimJWTID:    uuid.New().String(),
	}
	if defaults.Lifetime > 0 {
		claims[oidcmodel.ClaimExpirationTime] = now.Add(defaults.Lifetime).Unix()
	}

	for name, value := range userClaims {
		if _, ok := claims[name]; ok {
			continue
		}
		claims[name] = value
	}
	return claims
}
