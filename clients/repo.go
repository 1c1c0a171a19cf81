package clients

// Repo defines the interface for the client registry.
type Repo interface {
	// Upsert creates or replaces a client registration
	Upsert(client *Client) error

	// Delete removes a client registration
	Delete(clientID string) error

	// Get retrieves a registration by client ID, returning ErrUnknownClient
	// when no such client is registered
	Get(clientID string) (*Client, error)

	// List returns registrations for administrative paging
	List(offset, limit int) ([]*Client, error)
}
