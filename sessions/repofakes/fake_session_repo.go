package fakesessionrepo

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/go-oidc-core/sessions"
)

var _ sessions.Repo = (*FakeSessionRepo)(nil)

// FakeSessionRepo is an in-memory session store for tests and examples.
type FakeSessionRepo struct {
	sessions  map[string]*sessions.Session
	sequences map[string]int // pair key -> highest stored sequence
	lock      sync.RWMutex
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{
		sessions:  make(map[string]*sessions.Session),
		sequences: make(map[string]int),
	}
}

func (sr *FakeSessionRepo) Upsert(_ context.Context, session *sessions.Session) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	userID, clientID, seq, err := sessions.DecodeSessionID(session.ID)
	if err != nil {
		return err
	}

	sr.sessions[session.ID] = session.Clone()
	key := userID + "\x1f" + clientID
	if latest, ok := sr.sequences[key]; !ok || seq > latest {
		sr.sequences[key] = seq
	}
	return nil
}

func (sr *FakeSessionRepo) Get(_ context.Context, sessionID string) (*sessions.Session, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	session, ok := sr.sessions[sessionID]
	if !ok {
		return nil, sessions.ErrSessionNotFound
	}
	// Callers get their own copy; the stored session only changes through
	// Upsert.
	return session.Clone(), nil
}

func (sr *FakeSessionRepo) Delete(_ context.Context, sessionID string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	delete(sr.sessions, sessionID)
	return nil
}

func (sr *FakeSessionRepo) DeleteExpired(_ context.Context, before time.Time) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	for id, session := range sr.sessions {
		if !session.ExpiresAt.IsZero() && session.ExpiresAt.Before(before) {
			delete(sr.sessions, id)
		}
	}
	return nil
}

func (sr *FakeSessionRepo) LatestSequence(_ context.Context, userID, clientID string) (int, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	latest, ok := sr.sequences[userID+"\x1f"+clientID]
	if !ok {
		return -1, nil
	}
	return latest, nil
}

// Len reports the number of stored sessions.
func (sr *FakeSessionRepo) Len() int {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	return len(sr.sessions)
}
