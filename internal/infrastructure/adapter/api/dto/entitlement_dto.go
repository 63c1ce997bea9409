package dto

import (
	"time"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
)

// GrantEntitlementRequest represents the API request for an administrative grant
type GrantEntitlementRequest struct {
	UserID       string `json:"userId" binding:"required"`
	ResourceKind string `json:"resourceKind" binding:"required,oneof=recording chat"`
	ResourceID   string `json:"resourceId" binding:"required"`
}

// EntitlementResponse represents one access grant in API responses
type EntitlementResponse struct {
	UserID       string    `json:"userId"`
	ResourceKind string    `json:"resourceKind"`
	ResourceID   string    `json:"resourceId"`
	GrantedAt    time.Time `json:"grantedAt"`
	Source       string    `json:"source,omitempty"`
}

// NewEntitlementResponse maps an entitlement entity to its API representation
func NewEntitlementResponse(e *entity.Entitlement) EntitlementResponse {
	return EntitlementResponse{
		UserID:       e.UserID,
		ResourceKind: string(e.ResourceKind),
		ResourceID:   e.ResourceID,
		GrantedAt:    e.GrantedAt,
		Source:       e.Source,
	}
}

// AccessResponse represents the API response for an access check
type AccessResponse struct {
	ResourceKind string `json:"resourceKind"`
	ResourceID   string `json:"resourceId"`
	HasAccess    bool   `json:"hasAccess"`
}
