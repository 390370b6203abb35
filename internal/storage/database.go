package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/nairacharge/topup-backend/internal/models"
)

// DatabaseStore persists top-up receipts in PostgreSQL via GORM.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a transaction store on top of an open DB.
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// CreateTransaction inserts a receipt row.
func (d *DatabaseStore) CreateTransaction(ctx context.Context, txn *models.TopupTransaction) error {
	if err := d.db.WithContext(ctx).Create(txn).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetTransactionByReference looks up a receipt by its reference.
func (d *DatabaseStore) GetTransactionByReference(ctx context.Context, reference string) (*models.TopupTransaction, error) {
	var txn models.TopupTransaction
	if err := d.db.WithContext(ctx).Where("reference = ?", reference).First(&txn).Error; err != nil {
		return nil, fmt.Errorf("transaction not found: %w", err)
	}
	return &txn, nil
}
