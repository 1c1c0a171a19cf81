package oidcmodel

// Registered claim names used by this core. See
// https://www.iana.org/assignments/jwt/jwt.xhtml for the full registry.
const (
	ClaimSubject           = "sub"
	ClaimIssuer            = "iss"
	ClaimAudience          = "aud"
	ClaimIssuedAt          = "iat"
	ClaimExpirationTime    = "exp"
	ClaimJWTID             = "jti"
	ClaimClientID          = "client_id"
	ClaimAuthTime          = "auth_time"
	ClaimNonce             = "nonce"
	ClaimName              = "name"
	ClaimGivenName         = "given_name"
	ClaimFamilyName        = "family_name"
	ClaimPreferredUsername = "preferred_username"
	ClaimEmail             = "email"
	ClaimEmailVerified     = "email_verified"
	ClaimAddress           = "address"
	ClaimPhoneNumber       = "phone_number"
)
