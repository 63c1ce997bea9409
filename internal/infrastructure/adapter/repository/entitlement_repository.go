package repository

import (
	"context"
	"fmt"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
	errs "github.com/drdoublecheck/wallet-ledger/internal/domain/error"
	coreport "github.com/drdoublecheck/wallet-ledger/internal/domain/port/core"
	"github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// EntitlementRepository implements EntitlementRepository interface using GORM
type EntitlementRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewEntitlementRepository creates a new EntitlementRepository instance
func NewEntitlementRepository(db *gorm.DB, logger coreport.Logger) *EntitlementRepository {
	return &EntitlementRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// Grant records an entitlement. A duplicate grant hits the unique index and
// is swallowed, so replaying a grant leaves the set unchanged.
func (r *EntitlementRepository) Grant(ctx context.Context, entitlement *entity.Entitlement) error {
	r.logger.Debug("Granting entitlement", map[string]any{
		"user_id":       entitlement.UserID,
		"resource_kind": entitlement.ResourceKind,
		"resource_id":   entitlement.ResourceID,
		"source":        entitlement.Source,
	})

	entitlementModel := model.Entitlement{
		UserID:       entitlement.UserID,
		ResourceKind: string(entitlement.ResourceKind),
		ResourceID:   entitlement.ResourceID,
		GrantedAt:    entitlement.GrantedAt,
		Source:       entitlement.Source,
	}

	result := r.db.WithContext(ctx).Create(&entitlementModel)

	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Debug("Entitlement already granted", map[string]any{
				"user_id":       entitlement.UserID,
				"resource_kind": entitlement.ResourceKind,
				"resource_id":   entitlement.ResourceID,
			})
			return nil
		}
		r.logger.Error("Failed to grant entitlement", map[string]any{
			"user_id":       entitlement.UserID,
			"resource_kind": entitlement.ResourceKind,
			"resource_id":   entitlement.ResourceID,
			"error":         result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	r.logger.Info("Entitlement granted", map[string]any{
		"user_id":       entitlement.UserID,
		"resource_kind": entitlement.ResourceKind,
		"resource_id":   entitlement.ResourceID,
		"source":        entitlement.Source,
	})
	return nil
}

// Revoke removes an entitlement. Revoking an absent entitlement is a no-op.
func (r *EntitlementRepository) Revoke(ctx context.Context, userID string, kind entity.ResourceKind, resourceID string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND resource_kind = ? AND resource_id = ?", userID, string(kind), resourceID).
		Delete(&model.Entitlement{})

	if result.Error != nil {
		r.logger.Error("Failed to revoke entitlement", map[string]any{
			"user_id":       userID,
			"resource_kind": kind,
			"resource_id":   resourceID,
			"error":         result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	r.logger.Info("Entitlement revoked", map[string]any{
		"user_id":       userID,
		"resource_kind": kind,
		"resource_id":   resourceID,
		"removed":       result.RowsAffected > 0,
	})
	return nil
}

// Exists checks for an explicit grant
func (r *EntitlementRepository) Exists(ctx context.Context, userID string, kind entity.ResourceKind, resourceID string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.Entitlement{}).
		Where("user_id = ? AND resource_kind = ? AND resource_id = ?", userID, string(kind), resourceID).
		Count(&count)

	if result.Error != nil {
		r.logger.Error("Failed to check entitlement existence", map[string]any{
			"user_id":       userID,
			"resource_kind": kind,
			"resource_id":   resourceID,
			"error":         result.Error.Error(),
		})
		return false, fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	return count > 0, nil
}

// ListByUser returns all grants held by the user
func (r *EntitlementRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Entitlement, error) {
	var entitlementModels []model.Entitlement
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("granted_at ASC").
		Find(&entitlementModels)

	if result.Error != nil {
		r.logger.Error("Failed to list entitlements", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	entitlements := make([]*entity.Entitlement, 0, len(entitlementModels))
	for i := range entitlementModels {
		m := &entitlementModels[i]
		entitlements = append(entitlements, &entity.Entitlement{
			UserID:       m.UserID,
			ResourceKind: entity.ResourceKind(m.ResourceKind),
			ResourceID:   m.ResourceID,
			GrantedAt:    m.GrantedAt,
			Source:       m.Source,
		})
	}

	return entitlements, nil
}
