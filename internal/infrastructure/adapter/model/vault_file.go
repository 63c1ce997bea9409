package model

import (
	"time"
)

// VaultFile represents the database model for patient-owned documents
type VaultFile struct {
	ID          string    `gorm:"primaryKey;size:64"`
	OwnerID     string    `gorm:"not null;index;size:64"`
	Name        string    `gorm:"not null;size:255"`
	Type        string    `gorm:"not null;size:20"`
	Size        int64     `gorm:"not null;default:0"`
	Category    string    `gorm:"size:64"`
	Description string    `gorm:"type:text"`
	UploadedAt  time.Time `gorm:"not null;index"`

	// Define relationships
	Permissions []VaultPermission `gorm:"foreignKey:FileID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for VaultFile
func (VaultFile) TableName() string {
	return "vault_files"
}
