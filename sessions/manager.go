package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-oidc-core/clients"
	"github.com/jrsteele09/go-oidc-core/oidcmodel"
	"github.com/jrsteele09/go-oidc-core/subject"
)

const defaultSessionLifetime = 24 * time.Hour

// Repos holds the external dependencies of the Manager.
type Repos struct {
	Clients  clients.Repo // Client registry
	Sessions Repo         // Session persistence
}

// Manager owns Session and Grant lifecycle. It is the only writer of session
// state: per-session mutation is serialized through a keyed mutex, reads go
// straight to the store.
type Manager struct {
	repos           Repos
	subjects        *subject.Deriver
	sessionLifetime time.Duration
	nowTime         func() time.Time
	locks           keyMutex
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// WithSessionLifetime overrides the default session lifetime. Zero disables
// expiry.
func WithSessionLifetime(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.sessionLifetime = d
	}
}

// NewManager initializes a Manager with its required dependencies.
func NewManager(repos Repos, subjects *subject.Deriver, options ...ManagerOption) (*Manager, error) {
	if repos.Clients == nil {
		return nil, errors.New("[NewManager] Clients repo is required")
	}
	if repos.Sessions == nil {
		return nil, errors.New("[NewManager] Sessions repo is required")
	}
	if subjects == nil {
		return nil, errors.New("[NewManager] subject deriver is required")
	}

	m := &Manager{
		repos:           repos,
		subjects:        subjects,
		sessionLifetime: defaultSessionLifetime,
		nowTime:         time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// CreateSession establishes a session for an authenticated (user, client)
// relationship and records the first grant from the authorization request.
//
// subType defaults to public when empty. For pairwise sessions the sector is
// taken from sectorIdentifier, falling back to the request's
// sector_identifier_uri, falling back to the common host of the client's
// registered redirect URIs.
func (m *Manager) CreateSession(
	ctx context.Context,
	authnEvent oidcmodel.AuthnEvent,
	authReq *oidcmodel.AuthRequest,
	userID string,
	clientID string,
	subType subject.SubType,
	sectorIdentifier string,
) (string, error) {
	if subType == "" {
		subType = subject.SubTypePublic
	}
	if err := subType.Validate(); err != nil {
		return "", errors.Wrap(err, "[CreateSession]")
	}

	client, err := m.repos.Clients.Get(clientID)
	if err != nil {
		return "", errors.Wrapf(err, "[CreateSession] client %q", clientID)
	}

	if sectorIdentifier == "" && authReq != nil {
		sectorIdentifier = authReq.SectorIdentifierURI
	}

	subjectID, err := m.subjects.Derive(userID, subType, sectorIdentifier, client.RedirectURIs)
	if err != nil {
		return "", errors.Wrap(err, "[CreateSession] deriving subject")
	}

	unlock := m.locks.lock(pairKey(userID, clientID))
	defer unlock()

	latest, err := m.repos.Sessions.LatestSequence(ctx, userID, clientID)
	if err != nil {
		return "", errors.Wrap(err, "[CreateSession] latest sequence")
	}

	now := m.nowTime()
	session := &Session{
		ID:               SessionID(userID, clientID, latest+1),
		UserID:           userID,
		ClientID:         clientID,
		SubjectID:        subjectID,
		SubType:          subType,
		SectorIdentifier: sectorIdentifier,
		Grants:           []Grant{m.newGrant(authnEvent, authReq, now)},
		CreatedAt:        now,
	}
	if m.sessionLifetime > 0 {
		session.ExpiresAt = now.Add(m.sessionLifetime)
	}

	if err := m.repos.Sessions.Upsert(ctx, session); err != nil {
		return "", errors.Wrap(err, "[CreateSession] storing session")
	}

	log.Debug().
		Str("client_id", clientID).
		Str("sub_type", string(subType)).
		Int("sequence", latest+1).
		Msg("session created")

	return session.ID, nil
}

// GetSession retrieves a session. Expired sessions are deleted on read and
// reported as not found, so the store remains the single point of truth for
// session liveness.
func (m *Manager) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	session, err := m.repos.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "[GetSession]")
	}
	if session.Expired(m.nowTime()) {
		if err := m.repos.Sessions.Delete(ctx, sessionID); err != nil {
			log.Warn().Err(err).Msg("failed deleting expired session")
		}
		return nil, errors.Wrap(ErrSessionNotFound, "[GetSession] session expired")
	}
	return session, nil
}

// AddGrant appends a grant to an existing session, e.g. on a refresh flow.
// Prior grants are preserved. Concurrent additions to the same session are
// serialized; different sessions do not contend.
func (m *Manager) AddGrant(ctx context.Context, sessionID string, authnEvent oidcmodel.AuthnEvent, authReq *oidcmodel.AuthRequest) (string, error) {
	unlock := m.locks.lock(sessionID)
	defer unlock()

	session, err := m.GetSession(ctx, sessionID)
	if err != nil {
		return "", errors.Wrap(err, "[AddGrant]")
	}

	grant := m.newGrant(authnEvent, authReq, m.nowTime())
	session.Grants = append(session.Grants, grant)

	if err := m.repos.Sessions.Upsert(ctx, session); err != nil {
		return "", errors.Wrap(err, "[AddGrant] storing session")
	}
	return grant.ID, nil
}

// AddTokenRef records a token issued against a grant.
func (m *Manager) AddTokenRef(ctx context.Context, sessionID, grantID string, ref TokenRef) error {
	unlock := m.locks.lock(sessionID)
	defer unlock()

	session, err := m.GetSession(ctx, sessionID)
	if err != nil {
		return errors.Wrap(err, "[AddTokenRef]")
	}

	grant := session.GrantByID(grantID)
	if grant == nil {
		return errors.Wrapf(ErrGrantNotFound, "[AddTokenRef] grant %q", grantID)
	}
	grant.IssuedTokens = append(grant.IssuedTokens, ref)

	return errors.Wrap(m.repos.Sessions.Upsert(ctx, session), "[AddTokenRef] storing session")
}

// RevokeSession removes a session and all of its grants.
func (m *Manager) RevokeSession(ctx context.Context, sessionID string) error {
	unlock := m.locks.lock(sessionID)
	defer unlock()

	return errors.Wrap(m.repos.Sessions.Delete(ctx, sessionID), "[RevokeSession]")
}

// CleanupExpiredSessions removes sessions past their expiry.
func (m *Manager) CleanupExpiredSessions(ctx context.Context) error {
	return errors.Wrap(m.repos.Sessions.DeleteExpired(ctx, m.nowTime()), "[CleanupExpiredSessions]")
}

func (m *Manager) newGrant(authnEvent oidcmodel.AuthnEvent, authReq *oidcmodel.AuthRequest, now time.Time) Grant {
	grant := Grant{
		ID:         uuid.New().String(),
		AuthnEvent: authnEvent,
		CreatedAt:  now,
	}
	if authReq != nil {
		grant.Scopes = authReq.NormalizedScopes()
		if len(authReq.Claims) > 0 {
			grant.Claims = make(map[oidcmodel.Usage]oidcmodel.ClaimsRestriction, len(authReq.Claims))
			for usage, cr := range authReq.Claims {
				grant.Claims[usage] = cr.Clone()
			}
		}
	}
	return grant
}
