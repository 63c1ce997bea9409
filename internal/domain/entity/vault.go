package entity

import (
	"time"

	errs "github.com/drdoublecheck/wallet-ledger/internal/domain/error"
	coreport "github.com/drdoublecheck/wallet-ledger/internal/domain/port/core"
)

// VaultFileType classifies uploaded documents
type VaultFileType string

// Vault file types
const (
	FileTypePDF   VaultFileType = "pdf"
	FileTypeImage VaultFileType = "image"
	FileTypeStudy VaultFileType = "study"
)

// VaultPermission represents non-exclusive, revocable read access to a file
// for one doctor. Existence of a permission entry is the sole access
// predicate; an expired entry no longer grants access.
type VaultPermission struct {
	FileID     string
	DoctorID   string
	DoctorName string
	GrantedAt  time.Time
	ExpiresAt  *time.Time
}

// Active reports whether the permission still grants access at the given time
func (p VaultPermission) Active(now time.Time) bool {
	return p.ExpiresAt == nil || now.Before(*p.ExpiresAt)
}

// VaultFile is a patient-owned medical document. Only the owner may mutate it
// (grant, revoke, delete); ownership is enforced at the API boundary.
type VaultFile struct {
	ID          string
	OwnerID     string
	Name        string
	Type        VaultFileType
	Size        int64 // bytes
	Category    string
	Description string
	UploadedAt  time.Time
	Permissions []VaultPermission
}

// NewVaultFile creates a vault file record at upload time
func NewVaultFile(id, ownerID, name string, fileType VaultFileType, size int64, category, description string, timeProvider coreport.TimeProvider) (*VaultFile, error) {
	if ownerID == "" {
		return nil, errs.ErrInvalidUserID
	}
	if name == "" {
		return nil, errs.ErrInvalidRequest
	}

	return &VaultFile{
		ID:          id,
		OwnerID:     ownerID,
		Name:        name,
		Type:        fileType,
		Size:        size,
		Category:    category,
		Description: description,
		UploadedAt:  timeProvider.Now(),
		Permissions: []VaultPermission{},
	}, nil
}

// Grant appends a permission for the doctor. A duplicate grant is a no-op;
// the return value reports whether the set changed.
func (f *VaultFile) Grant(doctorID, doctorName string, timeProvider coreport.TimeProvider) bool {
	for _, p := range f.Permissions {
		if p.DoctorID == doctorID {
			return false
		}
	}

	f.Permissions = append(f.Permissions, VaultPermission{
		FileID:     f.ID,
		DoctorID:   doctorID,
		DoctorName: doctorName,
		GrantedAt:  timeProvider.Now(),
	})
	return true
}

// Revoke removes the doctor's permission. Revoking an absent permission is a
// no-op; the return value reports whether the set changed.
func (f *VaultFile) Revoke(doctorID string) bool {
	for i, p := range f.Permissions {
		if p.DoctorID == doctorID {
			f.Permissions = append(f.Permissions[:i], f.Permissions[i+1:]...)
			return true
		}
	}
	return false
}

// HasAccess reports whether the doctor holds a live permission for this file
func (f *VaultFile) HasAccess(doctorID string, now time.Time) bool {
	for _, p := range f.Permissions {
		if p.DoctorID == doctorID && p.Active(now) {
			return true
		}
	}
	return false
}
