package dto

import (
	"time"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
)

// UploadFileRequest represents the API request for registering an uploaded file
type UploadFileRequest struct {
	Name        string `json:"name" binding:"required"`
	Type        string `json:"type" binding:"required,oneof=pdf image study"`
	Size        int64  `json:"size" binding:"gte=0"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// GrantVaultAccessRequest represents the API request for sharing a file with a doctor
type GrantVaultAccessRequest struct {
	DoctorID   string `json:"doctorId" binding:"required"`
	DoctorName string `json:"doctorName"`
}

// VaultPermissionResponse represents one doctor grant in API responses
type VaultPermissionResponse struct {
	DoctorID   string     `json:"doctorId"`
	DoctorName string     `json:"doctorName,omitempty"`
	GrantedAt  time.Time  `json:"grantedAt"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
}

// VaultFileResponse represents one vault file in API responses
type VaultFileResponse struct {
	ID          string                    `json:"id"`
	OwnerID     string                    `json:"ownerId"`
	Name        string                    `json:"name"`
	Type        string                    `json:"type"`
	Size        int64                     `json:"size"`
	Category    string                    `json:"category,omitempty"`
	Description string                    `json:"description,omitempty"`
	UploadedAt  time.Time                 `json:"uploadedAt"`
	Permissions []VaultPermissionResponse `json:"permissions"`
}

// NewVaultFileResponse maps a vault file entity to its API representation
func NewVaultFileResponse(f *entity.VaultFile) VaultFileResponse {
	permissions := make([]VaultPermissionResponse, 0, len(f.Permissions))
	for _, p := range f.Permissions {
		permissions = append(permissions, VaultPermissionResponse{
			DoctorID:   p.DoctorID,
			DoctorName: p.DoctorName,
			GrantedAt:  p.GrantedAt,
			ExpiresAt:  p.ExpiresAt,
		})
	}

	return VaultFileResponse{
		ID:          f.ID,
		OwnerID:     f.OwnerID,
		Name:        f.Name,
		Type:        string(f.Type),
		Size:        f.Size,
		Category:    f.Category,
		Description: f.Description,
		UploadedAt:  f.UploadedAt,
		Permissions: permissions,
	}
}

// VaultFileListResponse represents the API response for a list of vault files
type VaultFileListResponse struct {
	Files []VaultFileResponse `json:"files"`
}
