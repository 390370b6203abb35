package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nairacharge/topup-backend/internal/models"
)

func TestMemoryStoreGetReturnsFreshSessionWhenAbsent(t *testing.T) {
	store := NewMemoryStore()

	session, err := store.Get(context.Background(), "2348000000001")
	require.NoError(t, err)
	assert.Equal(t, models.StepStart, session.Step)
	assert.Equal(t, "2348000000001", session.UserID)
}

func TestMemoryStorePutGetRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	session := models.NewSession("u1")
	session.Step = models.StepConfirm
	session.SelectedNetwork = models.NetworkGlo
	session.PhoneNumber = "08012345678"
	session.Amount = 500
	require.NoError(t, store.Put(ctx, "u1", session))

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.StepConfirm, got.Step)
	assert.Equal(t, models.NetworkGlo, got.SelectedNetwork)
	assert.Equal(t, "08012345678", got.PhoneNumber)
	assert.Equal(t, 500, got.Amount)
}

func TestMemoryStoreGetHandsOutCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	session := models.NewSession("u1")
	session.Step = models.StepChooseNetwork
	require.NoError(t, store.Put(ctx, "u1", session))

	first, _ := store.Get(ctx, "u1")
	first.Step = models.StepConfirm
	first.Amount = 9999

	// Mutating the returned session must not leak into the store.
	second, _ := store.Get(ctx, "u1")
	assert.Equal(t, models.StepChooseNetwork, second.Step)
	assert.Zero(t, second.Amount)
}

func TestMemoryStoreSessionExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	session := models.NewSession("u1")
	session.Step = models.StepConfirm
	session.Amount = 500
	require.NoError(t, store.Put(ctx, "u1", session))

	// Rewind the expiry so the stored session reads as timed out.
	store.sessionMu.Lock()
	store.sessions["u1"].expiresAt = time.Now().Add(-time.Minute)
	store.sessionMu.Unlock()

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.StepStart, got.Step)
	assert.Zero(t, got.Amount)

	// The expired entry was evicted, not just masked.
	store.sessionMu.Lock()
	_, exists := store.sessions["u1"]
	store.sessionMu.Unlock()
	assert.False(t, exists)
}

func TestMemoryStorePutResetsTTL(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	session := models.NewSession("u1")
	session.Step = models.StepChooseAmount
	require.NoError(t, store.Put(ctx, "u1", session))

	// Age the entry close to expiry, then Put again: the rewrite must
	// slide the window forward.
	store.sessionMu.Lock()
	store.sessions["u1"].expiresAt = time.Now().Add(time.Minute)
	store.sessionMu.Unlock()

	require.NoError(t, store.Put(ctx, "u1", session))

	store.sessionMu.Lock()
	expiresAt := store.sessions["u1"].expiresAt
	store.sessionMu.Unlock()
	assert.Greater(t, time.Until(expiresAt), SessionTTL-time.Minute)
}

func TestMemoryStoreDeleteIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Delete(ctx, "nobody"))

	session := models.NewSession("u1")
	require.NoError(t, store.Put(ctx, "u1", session))
	require.NoError(t, store.Delete(ctx, "u1"))
	require.NoError(t, store.Delete(ctx, "u1"))

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.StepStart, got.Step)
}

func TestMemoryStoreSeen(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	seen, err := store.Seen(ctx, "wamid.1")
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = store.Seen(ctx, "wamid.1")
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = store.Seen(ctx, "wamid.2")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestMemoryStoreTransactions(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	txn := &models.TopupTransaction{
		Reference: "ref-1",
		UserID:    "u1",
		Network:   "mtn",
		Recipient: "08012345678",
		Amount:    500,
		Status:    models.TransactionStatusSuccess,
	}
	require.NoError(t, store.CreateTransaction(ctx, txn))

	got, err := store.GetTransactionByReference(ctx, "ref-1")
	require.NoError(t, err)
	assert.Equal(t, 500, got.Amount)

	// Duplicate references are rejected.
	assert.Error(t, store.CreateTransaction(ctx, txn))

	_, err = store.GetTransactionByReference(ctx, "ref-404")
	assert.Error(t, err)
}
