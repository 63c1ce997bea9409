package entitlement

import (
	"context"
	"fmt"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
	errs "github.com/drdoublecheck/wallet-ledger/internal/domain/error"
	coreport "github.com/drdoublecheck/wallet-ledger/internal/domain/port/core"
	"github.com/drdoublecheck/wallet-ledger/internal/domain/port/persistence"
)

// Service answers access-check queries and records administrative grants.
// Purchase-driven grants go through the wallet service's unit of work; this
// service covers the read side and the admin/seed paths.
type Service struct {
	entitlementRepo persistence.EntitlementRepository
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
}

// NewService creates a new entitlement service
func NewService(
	entitlementRepo persistence.EntitlementRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		entitlementRepo: entitlementRepo,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Grant records an entitlement. Granting twice with identical arguments
// leaves the set unchanged; it is a no-op, not an error.
func (s *Service) Grant(ctx context.Context, userID string, kind entity.ResourceKind, resourceID string) error {
	if userID == "" {
		return errs.ErrInvalidUserID
	}
	if resourceID == "" {
		return errs.ErrInvalidResource
	}

	entitlement := &entity.Entitlement{
		UserID:       userID,
		ResourceKind: kind,
		ResourceID:   resourceID,
		GrantedAt:    s.timeProvider.Now(),
		Source:       entity.EntitlementSourceAdmin,
	}

	if err := s.entitlementRepo.Grant(ctx, entitlement); err != nil {
		return fmt.Errorf("failed to grant entitlement: %w", err)
	}

	s.logger.Info("Entitlement granted", map[string]any{
		"user_id":       userID,
		"resource_kind": string(kind),
		"resource_id":   resourceID,
	})
	return nil
}

// Revoke removes an entitlement. Not exercised by the purchase flow; it
// exists for admin correction paths. Revoking an absent grant is a no-op.
func (s *Service) Revoke(ctx context.Context, userID string, kind entity.ResourceKind, resourceID string) error {
	if userID == "" {
		return errs.ErrInvalidUserID
	}

	if err := s.entitlementRepo.Revoke(ctx, userID, kind, resourceID); err != nil {
		return fmt.Errorf("failed to revoke entitlement: %w", err)
	}

	s.logger.Info("Entitlement revoked", map[string]any{
		"user_id":       userID,
		"resource_kind": string(kind),
		"resource_id":   resourceID,
	})
	return nil
}

// HasAccess reports whether the user may access the resource. The role-based
// override for recordings is evaluated before the stored entitlement set and
// is never persisted.
func (s *Service) HasAccess(ctx context.Context, userID string, role entity.Role, kind entity.ResourceKind, resourceID string) (bool, error) {
	if kind == entity.ResourceRecording && role.BypassesRecordingPaywall() {
		return true, nil
	}
	if userID == "" {
		return false, nil
	}

	return s.entitlementRepo.Exists(ctx, userID, kind, resourceID)
}

// List returns all grants held by the user
func (s *Service) List(ctx context.Context, userID string) ([]*entity.Entitlement, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	return s.entitlementRepo.ListByUser(ctx, userID)
}
