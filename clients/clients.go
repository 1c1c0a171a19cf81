package clients

import "errors"

var (
	// ErrUnknownClient is returned when a client_id is not registered.
	ErrUnknownClient = errors.New("unknown client")
)

// Client is one relying party's registration record. The typed fields are the
// ones this core interprets directly; Metadata carries the rest of the
// registration document as registered (including the claims-release policy in
// whichever shape the client was registered with).
type Client struct {
	ID            string   `json:"id"`
	Secret        string   `json:"secret"`
	RedirectURIs  []string `json:"redirectURIs"`
	ResponseTypes []string `json:"responseTypes"`

	// Metadata holds the remaining registration members keyed by their wire
	// names, e.g. "userinfo_claims", "id_token_add_claims_by_scope" or the
	// structured "add_claims" object.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// HasResponseType checks whether the client registered the given response type.
func (c *Client) HasResponseType(rt string) bool {
	for _, t := range c.ResponseTypes {
		if t == rt {
			return true
		}
	}
	return false
}
