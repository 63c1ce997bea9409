package model

import (
	"time"
)

// Account represents the database model for wallet accounts
type Account struct {
	UserID           string    `gorm:"primaryKey;size:64"`
	Balance          int64     `gorm:"not null"` // Materialized over paid ledger entries
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
	TransactionCount uint64    `gorm:"default:0"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}
