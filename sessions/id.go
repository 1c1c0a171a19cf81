package sessions

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Session identifiers encode (user, client, grant sequence) so repeated
// session creation for the same pair yields distinguishable ids and lookup is
// a direct key access, never a scan.

const idSeparator = "\x1f"

// SessionID returns the identifier for the seq'th session of (userID, clientID).
func SessionID(userID, clientID string, seq int) string {
	raw := strings.Join([]string{userID, clientID, strconv.Itoa(seq)}, idSeparator)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeSessionID reverses SessionID.
func DecodeSessionID(sessionID string) (userID, clientID string, seq int, err error) {
	raw, err := base64.RawURLEncoding.DecodeString(sessionID)
	if err != nil {
		return "", "", 0, errors.Wrap(ErrSessionNotFound, "undecodable session id")
	}
	parts := strings.Split(string(raw), idSeparator)
	if len(parts) != 3 {
		return "", "", 0, errors.Wrap(ErrSessionNotFound, "malformed session id")
	}
	seq, convErr := strconv.Atoi(parts[2])
	if convErr != nil {
		return "", "", 0, errors.Wrap(ErrSessionNotFound, "malformed session sequence")
	}
	return parts[0], parts[1], seq, nil
}

// pairKey is the lock/lookup key for a (user, client) pair.
func pairKey(userID, clientID string) string {
	return fmt.Sprintf("%s%s%s", userID, idSeparator, clientID)
}
