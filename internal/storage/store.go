package storage

import (
	"context"
	"time"

	"github.com/nairacharge/topup-backend/internal/models"
)

// SessionTTL is how long an untouched session survives. The TTL is
// sliding: every Put resets it.
const SessionTTL = 30 * time.Minute

// DedupTTL is how long provider message IDs are remembered for replay
// detection. WhatsApp redelivers within minutes, so a day is generous.
const DedupTTL = 24 * time.Hour

// SessionStore holds conversation state keyed by WhatsApp user ID.
//
// Get returns a fresh session at the start step when no live session
// exists; an expired session reads the same as an absent one.
// Delete is idempotent.
type SessionStore interface {
	Get(ctx context.Context, userID string) (*models.Session, error)
	Put(ctx context.Context, userID string, session *models.Session) error
	Delete(ctx context.Context, userID string) error
}

// EventDedup remembers provider message IDs so redelivered webhooks
// (at-least-once delivery) are dropped before they reach the flow engine.
// Seen returns true if the ID was already recorded.
type EventDedup interface {
	Seen(ctx context.Context, messageID string) (bool, error)
}

// TransactionStore persists top-up receipts.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, txn *models.TopupTransaction) error
	GetTransactionByReference(ctx context.Context, reference string) (*models.TopupTransaction, error)
}
