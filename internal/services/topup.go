package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/nairacharge/topup-backend/internal/models"
	"github.com/nairacharge/topup-backend/internal/storage"
)

// TopupService executes confirmed airtime purchases. The carrier charge
// is simulated (always succeeds); the receipt record is real so a
// reference can be echoed back and looked up later.
type TopupService struct {
	txns storage.TransactionStore
}

// NewTopupService creates a top-up service.
func NewTopupService(txns storage.TransactionStore) *TopupService {
	return &TopupService{txns: txns}
}

// Topup records a simulated successful purchase and returns its
// reference.
func (t *TopupService) Topup(ctx context.Context, userID string, network models.Network, recipient string, amount int) (string, error) {
	reference := uuid.NewString()

	txn := &models.TopupTransaction{
		Reference: reference,
		UserID:    userID,
		Network:   string(network),
		Recipient: recipient,
		Amount:    amount,
		Status:    models.TransactionStatusSuccess,
	}
	if err := t.txns.CreateTransaction(ctx, txn); err != nil {
		return "", fmt.Errorf("failed to record topup: %w", err)
	}

	log.Printf("💸 Top-up recorded: ₦%d %s airtime for %s (ref %s)", amount, network.DisplayName(), recipient, reference)
	return reference, nil
}
