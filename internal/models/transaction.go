package models

import "gorm.io/gorm"

// Transaction statuses
const (
	TransactionStatusSuccess = "success"
)

// TopupTransaction is the receipt record written when a flow completes.
// The carrier charge itself is simulated; only the record is persisted.
type TopupTransaction struct {
	gorm.Model
	Reference string `json:"reference" gorm:"uniqueIndex"`
	UserID    string `json:"user_id" gorm:"index"`
	Network   string `json:"network"`
	Recipient string `json:"recipient"`
	Amount    int    `json:"amount"`
	Status    string `json:"status"`
}
