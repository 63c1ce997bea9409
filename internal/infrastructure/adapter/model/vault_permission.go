package model

import (
	"time"
)

// VaultPermission represents the database model for per-doctor file grants.
// The index on DoctorID is the reverse lookup path: listing a doctor's
// accessible files resolves through it instead of scanning every owner's
// collection.
type VaultPermission struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	FileID     string    `gorm:"not null;size:64;uniqueIndex:idx_vault_grant,priority:1"`
	DoctorID   string    `gorm:"not null;size:64;uniqueIndex:idx_vault_grant,priority:2;index:idx_vault_doctor"`
	DoctorName string    `gorm:"size:255"`
	GrantedAt  time.Time `gorm:"not null"`
	ExpiresAt  *time.Time
}

// TableName specifies the table name for VaultPermission
func (VaultPermission) TableName() string {
	return "vault_permissions"
}
