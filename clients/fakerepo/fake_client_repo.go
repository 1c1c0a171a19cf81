package fakerepo

import (
	"sort"
	"sync"

	"github.com/jrsteele09/go-oidc-core/clients"
)

var _ clients.Repo = (*FakeClientRepo)(nil)

// FakeClientRepo is an in-memory client registry for tests and examples.
type FakeClientRepo struct {
	clients map[string]*clients.Client
	lock    sync.RWMutex
}

func NewFakeClientRepo() *FakeClientRepo {
	return &FakeClientRepo{clients: make(map[string]*clients.Client)}
}

func (cr *FakeClientRepo) Upsert(client *clients.Client) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	cr.clients[client.ID] = client
	return nil
}

func (cr *FakeClientRepo) Delete(clientID string) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	if _, ok := cr.clients[clientID]; !ok {
		return clients.ErrUnknownClient
	}
	delete(cr.clients, clientID)
	return nil
}

func (cr *FakeClientRepo) Get(clientID string) (*clients.Client, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	client, ok := cr.clients[clientID]
	if !ok {
		return nil, clients.ErrUnknownClient
	}
	return client, nil
}

func (cr *FakeClientRepo) List(offset, limit int) ([]*clients.Client, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	ids := make([]string, 0, len(cr.clients))
	for id := range cr.clients {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if offset >= len(ids) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(ids) {
		end = len(ids)
	}

	out := make([]*clients.Client, 0, end-offset)
	for _, id := range ids[offset:end] {
		out = append(out, cr.clients[id])
	}
	return out, nil
}
