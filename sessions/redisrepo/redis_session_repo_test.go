package redisrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-oidc-core/sessions"
	"github.com/jrsteele09/go-oidc-core/sessions/redisrepo"
	"github.com/jrsteele09/go-oidc-core/subject"
)

func newRepo(t *testing.T) (*redisrepo.SessionRepo, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return redisrepo.New(rdb), mr
}

func testSession(seq int, expiresAt time.Time) *sessions.Session {
	return &sessions.Session{
		ID:        sessions.SessionID("diana", "client_1", seq),
		UserID:    "diana",
		ClientID:  "client_1",
		SubjectID: "opaque-sub",
		SubType:   subject.SubTypePublic,
		Grants: []sessions.Grant{{
			ID:     "grant-1",
			Scopes: []string{"openid", "email"},
		}},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		ExpiresAt: expiresAt,
	}
}

func TestUpsertAndGetRoundTrip(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	want := testSession(0, time.Time{})
	require.NoError(t, repo.Upsert(ctx, want))

	got, err := repo.Get(ctx, want.ID)
	require.NoError(t, err)
	require.Equal(t, want.ID, got.ID)
	require.Equal(t, want.SubjectID, got.SubjectID)
	require.Len(t, got.Grants, 1)
	require.Equal(t, []string{"openid", "email"}, got.Grants[0].Scopes)
}

func TestGetMissingSession(t *testing.T) {
	repo, _ := newRepo(t)

	_, err := repo.Get(context.Background(), sessions.SessionID("nobody", "nothing", 0))
	require.ErrorIs(t, err, sessions.ErrSessionNotFound)
}

func TestDelete(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	session := testSession(0, time.Time{})
	require.NoError(t, repo.Upsert(ctx, session))
	require.NoError(t, repo.Delete(ctx, session.ID))

	_, err := repo.Get(ctx, session.ID)
	require.ErrorIs(t, err, sessions.ErrSessionNotFound)
}

func TestSessionExpiresViaTTL(t *testing.T) {
	repo, mr := newRepo(t)
	ctx := context.Background()

	session := testSession(0, time.Now().Add(time.Hour))
	require.NoError(t, repo.Upsert(ctx, session))

	mr.FastForward(2 * time.Hour)

	_, err := repo.Get(ctx, session.ID)
	require.ErrorIs(t, err, sessions.ErrSessionNotFound)
}

func TestLatestSequence(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	latest, err := repo.LatestSequence(ctx, "diana", "client_1")
	require.NoError(t, err)
	require.Equal(t, -1, latest)

	require.NoError(t, repo.Upsert(ctx, testSession(0, time.Time{})))
	require.NoError(t, repo.Upsert(ctx, testSession(1, time.Time{})))

	latest, err = repo.LatestSequence(ctx, "diana", "client_1")
	require.NoError(t, err)
	require.Equal(t, 1, latest)

	// Re-storing an older sequence must not move the counter backwards.
	require.NoError(t, repo.Upsert(ctx, testSession(0, time.Time{})))
	latest, err = repo.LatestSequence(ctx, "diana", "client_1")
	require.NoError(t, err)
	require.Equal(t, 1, latest)
}
