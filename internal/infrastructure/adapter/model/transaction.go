package model

import (
	"time"
)

// Transaction represents the database model for ledger entries
type Transaction struct {
	ID             string    `gorm:"primaryKey;size:64"`
	UserID         string    `gorm:"not null;index;size:64"`
	Kind           string    `gorm:"not null;size:20"`
	Amount         int64     `gorm:"not null"` // Signed; purchases stored negative
	Description    string    `gorm:"type:text"`
	Status         string    `gorm:"not null;size:20"`
	IdempotencyKey *string   `gorm:"uniqueIndex;size:255"` // NULL when the client sent none
	ResourceKind   string    `gorm:"size:20"`
	ResourceID     string    `gorm:"size:64"`
	RefundOf       string    `gorm:"size:64"`
	CreatedAt      time.Time `gorm:"not null;index"`
	ProcessedAt    *time.Time
	ResultBalance  int64 `gorm:"not null;default:0"`

	// Define relationships
	Account Account `gorm:"foreignKey:UserID;references:UserID"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}
