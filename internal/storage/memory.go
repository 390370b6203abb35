package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nairacharge/topup-backend/internal/models"
)

// MemoryStore keeps sessions, seen message IDs and transactions in memory.
// Used for local development and tests (USE_MEMORY_STORE=true).
type MemoryStore struct {
	sessions map[string]*sessionEntry
	seen     map[string]time.Time
	txns     map[string]*models.TopupTransaction

	sessionMu sync.RWMutex
	seenMu    sync.Mutex
	txnMu     sync.RWMutex
}

type sessionEntry struct {
	session   *models.Session
	expiresAt time.Time
}

// NewMemoryStore creates a new in-memory store. Expired entries are
// deleted passively when read.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*sessionEntry),
		seen:     make(map[string]time.Time),
		txns:     make(map[string]*models.TopupTransaction),
	}
}

// Get returns the live session for userID, or a fresh start-step session
// when none exists or the stored one has expired.
func (m *MemoryStore) Get(ctx context.Context, userID string) (*models.Session, error) {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	entry, exists := m.sessions[userID]
	if !exists {
		return models.NewSession(userID), nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(m.sessions, userID)
		return models.NewSession(userID), nil
	}

	// Hand out a copy so callers never mutate stored state before Put.
	copied := *entry.session
	return &copied, nil
}

// Put upserts the session and resets its TTL.
func (m *MemoryStore) Put(ctx context.Context, userID string, session *models.Session) error {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	copied := *session
	m.sessions[userID] = &sessionEntry{
		session:   &copied,
		expiresAt: time.Now().Add(SessionTTL),
	}
	return nil
}

// Delete removes the session. Deleting an absent session is not an error.
func (m *MemoryStore) Delete(ctx context.Context, userID string) error {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	delete(m.sessions, userID)
	return nil
}

// Seen records the message ID and reports whether it was already known.
func (m *MemoryStore) Seen(ctx context.Context, messageID string) (bool, error) {
	m.seenMu.Lock()
	defer m.seenMu.Unlock()

	now := time.Now()
	if at, exists := m.seen[messageID]; exists && now.Sub(at) < DedupTTL {
		return true, nil
	}
	m.seen[messageID] = now

	// Opportunistic prune so the map does not grow without bound.
	for id, at := range m.seen {
		if now.Sub(at) >= DedupTTL {
			delete(m.seen, id)
		}
	}
	return false, nil
}

// CreateTransaction stores a top-up receipt.
func (m *MemoryStore) CreateTransaction(ctx context.Context, txn *models.TopupTransaction) error {
	m.txnMu.Lock()
	defer m.txnMu.Unlock()

	if _, exists := m.txns[txn.Reference]; exists {
		return fmt.Errorf("transaction %s already exists", txn.Reference)
	}
	txn.CreatedAt = time.Now()
	m.txns[txn.Reference] = txn
	return nil
}

// GetTransactionByReference looks up a receipt by its reference.
func (m *MemoryStore) GetTransactionByReference(ctx context.Context, reference string) (*models.TopupTransaction, error) {
	m.txnMu.RLock()
	defer m.txnMu.RUnlock()

	txn, exists := m.txns[reference]
	if !exists {
		return nil, fmt.Errorf("transaction not found")
	}
	return txn, nil
}
