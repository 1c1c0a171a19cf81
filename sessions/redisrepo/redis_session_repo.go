// Package redisrepo provides a Redis-backed session store. Session records
// are stored as JSON under "<prefix>:sess:<id>" with a TTL matching the
// session expiry; the highest grant sequence per (user, client) pair is kept
// under "<prefix>:seq:<pair>" so new sessions can be numbered without a scan.
package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jrsteele09/go-oidc-core/sessions"
)

const defaultPrefix = "oidcsess"

var errRedisUnavailable = errors.New("session redis unavailable")

var _ sessions.Repo = (*SessionRepo)(nil)

// SessionRepo stores sessions in Redis.
type SessionRepo struct {
	redis  *redis.Client
	prefix string
}

// New builds a SessionRepo on an existing Redis client.
func New(redisClient *redis.Client) *SessionRepo {
	return &SessionRepo{redis: redisClient, prefix: defaultPrefix}
}

func (sr *SessionRepo) sessKey(sessionID string) string {
	return sr.prefix + ":sess:" + sessionID
}

func (sr *SessionRepo) seqKey(userID, clientID string) string {
	return sr.prefix + ":seq:" + userID + "\x1f" + clientID
}

func (sr *SessionRepo) Upsert(ctx context.Context, session *sessions.Session) error {
	userID, clientID, seq, err := sessions.DecodeSessionID(session.ID)
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	var ttl time.Duration
	if !session.ExpiresAt.IsZero() {
		ttl = time.Until(session.ExpiresAt)
		if ttl <= 0 {
			ttl = time.Millisecond
		}
	}

	if err := sr.redis.Set(ctx, sr.sessKey(session.ID), encoded, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", errRedisUnavailable, err)
	}

	// The manager serializes writers per (user, client) pair, so a plain
	// read-compare-write on the sequence key is race-free here.
	latest, err := sr.LatestSequence(ctx, userID, clientID)
	if err != nil {
		return err
	}
	if seq > latest {
		if err := sr.redis.Set(ctx, sr.seqKey(userID, clientID), strconv.Itoa(seq), 0).Err(); err != nil {
			return fmt.Errorf("%w: %v", errRedisUnavailable, err)
		}
	}
	return nil
}

func (sr *SessionRepo) Get(ctx context.Context, sessionID string) (*sessions.Session, error) {
	raw, err := sr.redis.Get(ctx, sr.sessKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sessions.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errRedisUnavailable, err)
	}

	var session sessions.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return &session, nil
}

func (sr *SessionRepo) Delete(ctx context.Context, sessionID string) error {
	if err := sr.redis.Del(ctx, sr.sessKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", errRedisUnavailable, err)
	}
	return nil
}

// DeleteExpired is a no-op: Redis TTLs already reap expired sessions.
func (sr *SessionRepo) DeleteExpired(context.Context, time.Time) error {
	return nil
}

func (sr *SessionRepo) LatestSequence(ctx context.Context, userID, clientID string) (int, error) {
	raw, err := sr.redis.Get(ctx, sr.seqKey(userID, clientID)).Result()
	if errors.Is(err, redis.Nil) {
		return -1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errRedisUnavailable, err)
	}
	seq, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("decoding sequence counter: %w", err)
	}
	return seq, nil
}
