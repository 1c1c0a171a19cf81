// Package subject derives the "sub" value exposed for a session, under either
// public or pairwise disclosure mode. Derivation is deterministic, one-way
// (keyed hash over a server secret) and, for pairwise mode, scoped to the
// relying party's sector so unrelated clients cannot correlate a user.
package subject

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"net/url"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/crypto/hkdf"
)

var (
	// ErrSectorIdentifierMismatch is returned when pairwise derivation is
	// ambiguous: the client's redirect URIs span more than one host and no
	// explicit sector identifier was supplied.
	ErrSectorIdentifierMismatch = errors.New("sector identifier mismatch")

	// ErrInvalidSubType is returned for a subject type other than public or
	// pairwise.
	ErrInvalidSubType = errors.New("invalid subject type")
)

// SubType is the subject identifier disclosure mode.
type SubType string

const (
	SubTypePublic   SubType = "public"
	SubTypePairwise SubType = "pairwise"
)

// Validate checks the subject type is one of the supported modes.
func (s SubType) Validate() error {
	switch s {
	case SubTypePublic, SubTypePairwise:
		return nil
	}
	return pkgerrors.Wrapf(ErrInvalidSubType, "%q", string(s))
}

// Deriver computes subject identifiers. It is stateless after construction and
// safe for unbounded concurrent use.
type Deriver struct {
	publicKey   []byte
	pairwiseKey []byte
}

// NewDeriver builds a Deriver from the server-wide subject salt. Independent
// HMAC keys for the two modes are expanded from the salt with HKDF-SHA256 so
// public and pairwise identifier spaces never overlap.
func NewDeriver(rootSecret []byte) (*Deriver, error) {
	if len(rootSecret) == 0 {
		return nil, errors.New("[NewDeriver] root secret is required")
	}

	d := &Deriver{}
	for _, k := range []struct {
		info string
		dst  *[]byte
	}{
		{"oidc public subject", &d.publicKey},
		{"oidc pairwise subject", &d.pairwiseKey},
	} {
		key := make([]byte, sha256.Size)
		r := hkdf.New(sha256.New, rootSecret, nil, []byte(k.info))
		if _, err := io.ReadFull(r, key); err != nil {
			return nil, pkgerrors.Wrap(err, "[NewDeriver] hkdf expand")
		}
		*k.dst = key
	}
	return d, nil
}

// Derive computes the subject identifier for a user under the given mode.
//
// Public identifiers depend on the user alone and are identical across all
// clients. Pairwise identifiers additionally depend on the client's sector:
// the host of sectorIdentifier when supplied, otherwise the single host shared
// by all of the client's registered redirect URIs.
func (d *Deriver) Derive(userID string, subType SubType, sectorIdentifier string, redirectURIs []string) (string, error) {
	if err := subType.Validate(); err != nil {
		return "", pkgerrors.Wrap(err, "[Derive]")
	}

	if subType == SubTypePublic {
		return d.mac(d.publicKey, []byte(userID)), nil
	}

	host, err := sectorHost(sectorIdentifier, redirectURIs)
	if err != nil {
		return "", pkgerrors.Wrap(err, "[Derive]")
	}

	msg := make([]byte, 0, len(host)+1+len(userID))
	msg = append(msg, host...)
	msg = append(msg, 0x1f)
	msg = append(msg, userID...)
	return d.mac(d.pairwiseKey, msg), nil
}

func (d *Deriver) mac(key, msg []byte) string {
	h := hmac.New(sha256.New, key)
	h.Write(msg)
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// sectorHost resolves the sector for pairwise derivation.
func sectorHost(sectorIdentifier string, redirectURIs []string) (string, error) {
	if sectorIdentifier != "" {
		u, err := url.Parse(sectorIdentifier)
		if err != nil {
			return "", pkgerrors.Wrapf(err, "[sectorHost] parsing sector identifier %q", sectorIdentifier)
		}
		host := u.Hostname()
		if host == "" {
			// A scheme-less identifier parses as a path; keep only the
			// leading host component.
			host = u.Path
			if i := strings.IndexByte(host, '/'); i >= 0 {
				host = host[:i]
			}
		}
		if host == "" {
			return "", pkgerrors.Wrapf(ErrSectorIdentifierMismatch, "sector identifier %q has no host", sectorIdentifier)
		}
		return host, nil
	}

	var host string
	for _, raw := range redirectURIs {
		u, err := url.Parse(raw)
		if err != nil {
			return "", pkgerrors.Wrapf(err, "[sectorHost] parsing redirect uri %q", raw)
		}
		switch {
		case host == "":
			host = u.Hostname()
		case host != u.Hostname():
			return "", pkgerrors.Wrap(ErrSectorIdentifierMismatch, "redirect uris span multiple hosts")
		}
	}
	if host == "" {
		return "", pkgerrors.Wrap(ErrSectorIdentifierMismatch, "no sector derivable from redirect uris")
	}
	return host, nil
}
