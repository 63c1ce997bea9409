package model

import (
	"time"
)

// Entitlement represents the database model for access grants
type Entitlement struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	UserID       string    `gorm:"not null;size:64;uniqueIndex:idx_entitlement_grant,priority:1"`
	ResourceKind string    `gorm:"not null;size:20;uniqueIndex:idx_entitlement_grant,priority:2"`
	ResourceID   string    `gorm:"not null;size:64;uniqueIndex:idx_entitlement_grant,priority:3"`
	GrantedAt    time.Time `gorm:"not null"`
	Source       string    `gorm:"size:64"`
}

// TableName specifies the table name for Entitlement
func (Entitlement) TableName() string {
	return "entitlements"
}
