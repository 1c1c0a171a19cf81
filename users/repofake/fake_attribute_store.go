package fakeattributestore

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-oidc-core/users"
)

var _ users.AttributeStore = (*FakeAttributeStore)(nil)

// FakeAttributeStore is an in-memory user-attribute store, seedable directly
// or from a JSON fixture of the form {"user_id": {"claim": value, ...}}.
type FakeAttributeStore struct {
	attributes map[string]map[string]any
	lock       sync.RWMutex
}

func NewFakeAttributeStore() *FakeAttributeStore {
	return &FakeAttributeStore{attributes: make(map[string]map[string]any)}
}

// Seed sets the full attribute record for a user.
func (as *FakeAttributeStore) Seed(userID string, attrs map[string]any) {
	as.lock.Lock()
	defer as.lock.Unlock()

	as.attributes[userID] = attrs
}

// LoadFile seeds the store from a JSON fixture file.
func (as *FakeAttributeStore) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "[LoadFile] reading fixture")
	}

	var db map[string]map[string]any
	if err := json.Unmarshal(raw, &db); err != nil {
		return errors.Wrap(err, "[LoadFile] decoding fixture")
	}

	as.lock.Lock()
	defer as.lock.Unlock()
	for userID, attrs := range db {
		as.attributes[userID] = attrs
	}
	return nil
}

func (as *FakeAttributeStore) GetAttributes(_ context.Context, userID string) (map[string]any, error) {
	as.lock.RLock()
	defer as.lock.RUnlock()

	attrs := as.attributes[userID]
	out := make(map[string]any, len(attrs))
	for name, value := range attrs {
		out[name] = value
	}
	return out, nil
}
