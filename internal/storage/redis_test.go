package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nairacharge/topup-backend/internal/models"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisStore(client), mr
}

func TestRedisStorePutGetRoundTrip(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	session := models.NewSession("2348000000001")
	session.Step = models.StepPhoneNumber
	session.SelectedNetwork = models.NetworkAirtel
	require.NoError(t, store.Put(ctx, session.UserID, session))

	got, err := store.Get(ctx, session.UserID)
	require.NoError(t, err)
	assert.Equal(t, models.StepPhoneNumber, got.Step)
	assert.Equal(t, models.NetworkAirtel, got.SelectedNetwork)
}

func TestRedisStoreGetReturnsFreshSessionWhenAbsent(t *testing.T) {
	store, _ := newRedisStore(t)

	session, err := store.Get(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Equal(t, models.StepStart, session.Step)
	assert.Equal(t, "unknown", session.UserID)
}

func TestRedisStoreSessionExpiry(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	session := models.NewSession("u1")
	session.Step = models.StepConfirm
	session.Amount = 500
	require.NoError(t, store.Put(ctx, "u1", session))

	// An untouched session past the TTL reads as a fresh start.
	mr.FastForward(SessionTTL + time.Minute)

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.StepStart, got.Step)
	assert.Zero(t, got.Amount)
}

func TestRedisStorePutResetsTTL(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	session := models.NewSession("u1")
	session.Step = models.StepChooseAmount
	require.NoError(t, store.Put(ctx, "u1", session))

	// Another Put inside the window slides the expiry forward.
	mr.FastForward(20 * time.Minute)
	require.NoError(t, store.Put(ctx, "u1", session))
	mr.FastForward(20 * time.Minute)

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.StepChooseAmount, got.Step)
}

func TestRedisStoreDeleteIsIdempotent(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Delete(ctx, "nobody"))

	session := models.NewSession("u1")
	require.NoError(t, store.Put(ctx, "u1", session))
	require.NoError(t, store.Delete(ctx, "u1"))
	require.NoError(t, store.Delete(ctx, "u1"))
}

func TestRedisStoreSeen(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	seen, err := store.Seen(ctx, "wamid.1")
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = store.Seen(ctx, "wamid.1")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestRedisStoreCorruptRecordReadsAsFresh(t *testing.T) {
	store, mr := newRedisStore(t)

	require.NoError(t, mr.Set(sessionKeyPrefix+"u1", "{not json"))

	session, err := store.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, models.StepStart, session.Step)
}
