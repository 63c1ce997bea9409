package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
	errs "github.com/drdoublecheck/wallet-ledger/internal/domain/error"
	coreport "github.com/drdoublecheck/wallet-ledger/internal/domain/port/core"
	"github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// VaultRepository implements VaultRepository interface using GORM. Doctor
// lookups resolve through the index on vault_permissions.doctor_id, which is
// maintained in the same statement as the grant itself.
type VaultRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewVaultRepository creates a new VaultRepository instance
func NewVaultRepository(db *gorm.DB, logger coreport.Logger) *VaultRepository {
	return &VaultRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// fileModelToEntity converts a vault file model with permissions to an entity
func (r *VaultRepository) fileModelToEntity(fileModel *model.VaultFile) *entity.VaultFile {
	permissions := make([]entity.VaultPermission, 0, len(fileModel.Permissions))
	for _, p := range fileModel.Permissions {
		permissions = append(permissions, entity.VaultPermission{
			FileID:     p.FileID,
			DoctorID:   p.DoctorID,
			DoctorName: p.DoctorName,
			GrantedAt:  p.GrantedAt,
			ExpiresAt:  p.ExpiresAt,
		})
	}

	return &entity.VaultFile{
		ID:          fileModel.ID,
		OwnerID:     fileModel.OwnerID,
		Name:        fileModel.Name,
		Type:        entity.VaultFileType(fileModel.Type),
		Size:        fileModel.Size,
		Category:    fileModel.Category,
		Description: fileModel.Description,
		UploadedAt:  fileModel.UploadedAt,
		Permissions: permissions,
	}
}

// CreateFile stores a newly uploaded file record
func (r *VaultRepository) CreateFile(ctx context.Context, file *entity.VaultFile) error {
	r.logger.Debug("Creating vault file", map[string]any{
		"file_id":  file.ID,
		"owner_id": file.OwnerID,
		"name":     file.Name,
	})

	fileModel := model.VaultFile{
		ID:          file.ID,
		OwnerID:     file.OwnerID,
		Name:        file.Name,
		Type:        string(file.Type),
		Size:        file.Size,
		Category:    file.Category,
		Description: file.Description,
		UploadedAt:  file.UploadedAt,
	}

	result := r.db.WithContext(ctx).Create(&fileModel)

	if result.Error != nil {
		r.logger.Error("Failed to create vault file", map[string]any{
			"file_id":  file.ID,
			"owner_id": file.OwnerID,
			"error":    result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	r.logger.Info("Vault file created", map[string]any{
		"file_id":  file.ID,
		"owner_id": file.OwnerID,
		"name":     file.Name,
	})
	return nil
}

// GetFile retrieves a file with its permissions
func (r *VaultRepository) GetFile(ctx context.Context, fileID string) (*entity.VaultFile, error) {
	var fileModel model.VaultFile
	result := r.db.WithContext(ctx).
		Preload("Permissions").
		Where("id = ?", fileID).
		First(&fileModel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			r.logger.Warn("Vault file not found", map[string]any{
				"file_id": fileID,
			})
			return nil, errs.ErrFileNotFound
		}
		r.logger.Error("Failed to get vault file", map[string]any{
			"file_id": fileID,
			"error":   result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	return r.fileModelToEntity(&fileModel), nil
}

// DeleteFile removes a file and all of its permissions in one transaction
func (r *VaultRepository) DeleteFile(ctx context.Context, fileID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("file_id = ?", fileID).Delete(&model.VaultPermission{})
		if result.Error != nil {
			return result.Error
		}

		result = tx.Where("id = ?", fileID).Delete(&model.VaultFile{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errs.ErrFileNotFound
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, errs.ErrFileNotFound) {
			r.logger.Warn("Vault file not found during delete", map[string]any{
				"file_id": fileID,
			})
			return err
		}
		r.logger.Error("Failed to delete vault file", map[string]any{
			"file_id": fileID,
			"error":   err.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrStorage, err.Error())
	}

	r.logger.Info("Vault file deleted", map[string]any{
		"file_id": fileID,
	})
	return nil
}

// ListFilesByOwner returns all files owned by a patient, newest first
func (r *VaultRepository) ListFilesByOwner(ctx context.Context, ownerID string) ([]*entity.VaultFile, error) {
	var fileModels []model.VaultFile
	result := r.db.WithContext(ctx).
		Preload("Permissions").
		Where("owner_id = ?", ownerID).
		Order("uploaded_at DESC").
		Find(&fileModels)

	if result.Error != nil {
		r.logger.Error("Failed to list vault files by owner", map[string]any{
			"owner_id": ownerID,
			"error":    result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	files := make([]*entity.VaultFile, 0, len(fileModels))
	for i := range fileModels {
		files = append(files, r.fileModelToEntity(&fileModels[i]))
	}

	return files, nil
}

// AddPermission records a grant. A duplicate grant hits the unique index on
// (file_id, doctor_id) and is swallowed.
func (r *VaultRepository) AddPermission(ctx context.Context, permission *entity.VaultPermission) error {
	// Verify the file exists first so a grant on a missing file surfaces as
	// not-found rather than a dangling permission row
	var count int64
	result := r.db.WithContext(ctx).Model(&model.VaultFile{}).
		Where("id = ?", permission.FileID).
		Count(&count)
	if result.Error != nil {
		return fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}
	if count == 0 {
		r.logger.Warn("Vault file not found during permission grant", map[string]any{
			"file_id":   permission.FileID,
			"doctor_id": permission.DoctorID,
		})
		return errs.ErrFileNotFound
	}

	permissionModel := model.VaultPermission{
		FileID:     permission.FileID,
		DoctorID:   permission.DoctorID,
		DoctorName: permission.DoctorName,
		GrantedAt:  permission.GrantedAt,
		ExpiresAt:  permission.ExpiresAt,
	}

	result = r.db.WithContext(ctx).Create(&permissionModel)

	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Debug("Vault permission already granted", map[string]any{
				"file_id":   permission.FileID,
				"doctor_id": permission.DoctorID,
			})
			return nil
		}
		r.logger.Error("Failed to add vault permission", map[string]any{
			"file_id":   permission.FileID,
			"doctor_id": permission.DoctorID,
			"error":     result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	r.logger.Info("Vault permission granted", map[string]any{
		"file_id":     permission.FileID,
		"doctor_id":   permission.DoctorID,
		"doctor_name": permission.DoctorName,
	})
	return nil
}

// RemovePermission removes a grant. Removing an absent permission is a no-op.
func (r *VaultRepository) RemovePermission(ctx context.Context, fileID, doctorID string) error {
	result := r.db.WithContext(ctx).
		Where("file_id = ? AND doctor_id = ?", fileID, doctorID).
		Delete(&model.VaultPermission{})

	if result.Error != nil {
		r.logger.Error("Failed to remove vault permission", map[string]any{
			"file_id":   fileID,
			"doctor_id": doctorID,
			"error":     result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	r.logger.Info("Vault permission revoked", map[string]any{
		"file_id":   fileID,
		"doctor_id": doctorID,
		"removed":   result.RowsAffected > 0,
	})
	return nil
}

// ListFilesByDoctor returns all files the doctor holds a permission for
func (r *VaultRepository) ListFilesByDoctor(ctx context.Context, doctorID string) ([]*entity.VaultFile, error) {
	var permissionModels []model.VaultPermission
	result := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Find(&permissionModels)

	if result.Error != nil {
		r.logger.Error("Failed to resolve doctor permissions", map[string]any{
			"doctor_id": doctorID,
			"error":     result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	if len(permissionModels) == 0 {
		return []*entity.VaultFile{}, nil
	}

	fileIDs := make([]string, 0, len(permissionModels))
	for _, p := range permissionModels {
		fileIDs = append(fileIDs, p.FileID)
	}

	var fileModels []model.VaultFile
	result = r.db.WithContext(ctx).
		Preload("Permissions").
		Where("id IN ?", fileIDs).
		Order("uploaded_at DESC").
		Find(&fileModels)

	if result.Error != nil {
		r.logger.Error("Failed to list vault files by doctor", map[string]any{
			"doctor_id": doctorID,
			"error":     result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	files := make([]*entity.VaultFile, 0, len(fileModels))
	for i := range fileModels {
		files = append(files, r.fileModelToEntity(&fileModels[i]))
	}

	return files, nil
}
