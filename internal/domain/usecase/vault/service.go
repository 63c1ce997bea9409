package vault

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
	errs "github.com/drdoublecheck/wallet-ledger/internal/domain/error"
	coreport "github.com/drdoublecheck/wallet-ledger/internal/domain/port/core"
	"github.com/drdoublecheck/wallet-ledger/internal/domain/port/persistence"
)

// UploadRequest carries the metadata of a newly uploaded file
type UploadRequest struct {
	Name        string
	Type        entity.VaultFileType
	Size        int64
	Category    string
	Description string
}

// Service manages patient-owned files and their per-doctor read permissions.
// Same consent-ledger pattern as entitlements, but independent of money:
// grants are revocable and the permission entry is the sole access predicate.
type Service struct {
	vaultRepo    persistence.VaultRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a new vault permission service
func NewService(
	vaultRepo persistence.VaultRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		vaultRepo:    vaultRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// UploadFile stores the metadata record for an uploaded file
func (s *Service) UploadFile(ctx context.Context, ownerID string, req UploadRequest) (*entity.VaultFile, error) {
	if ownerID == "" {
		return nil, errs.ErrNotAuthenticated
	}

	file, err := entity.NewVaultFile(uuid.NewString(), ownerID, req.Name, req.Type, req.Size, req.Category, req.Description, s.timeProvider)
	if err != nil {
		return nil, err
	}

	if err := s.vaultRepo.CreateFile(ctx, file); err != nil {
		return nil, fmt.Errorf("failed to store vault file: %w", err)
	}

	s.logger.Info("Vault file uploaded", map[string]any{
		"file_id":  file.ID,
		"owner_id": ownerID,
		"name":     file.Name,
		"size":     file.Size,
	})
	return file, nil
}

// DeleteFile removes a file. The caller must be the owner; the check lives
// here because deletion destroys the permission ledger with the file.
func (s *Service) DeleteFile(ctx context.Context, callerID, fileID string) error {
	file, err := s.vaultRepo.GetFile(ctx, fileID)
	if err != nil {
		return err
	}
	if file.OwnerID != callerID {
		return errs.ErrNotOwner
	}

	if err := s.vaultRepo.DeleteFile(ctx, fileID); err != nil {
		return fmt.Errorf("failed to delete vault file: %w", err)
	}

	s.logger.Info("Vault file deleted", map[string]any{
		"file_id":  fileID,
		"owner_id": callerID,
	})
	return nil
}

// ListOwnerFiles returns all files owned by the patient, newest first
func (s *Service) ListOwnerFiles(ctx context.Context, ownerID string) ([]*entity.VaultFile, error) {
	if ownerID == "" {
		return nil, errs.ErrNotAuthenticated
	}
	return s.vaultRepo.ListFilesByOwner(ctx, ownerID)
}

// GrantAccess gives a doctor read access to a file. Only the owner may
// grant; a duplicate grant is a no-op, matching entitlement idempotence.
func (s *Service) GrantAccess(ctx context.Context, callerID, fileID, doctorID, doctorName string) error {
	if doctorID == "" {
		return errs.ErrInvalidUserID
	}

	file, err := s.vaultRepo.GetFile(ctx, fileID)
	if err != nil {
		return err
	}
	if file.OwnerID != callerID {
		return errs.ErrNotOwner
	}

	permission := &entity.VaultPermission{
		FileID:     fileID,
		DoctorID:   doctorID,
		DoctorName: doctorName,
		GrantedAt:  s.timeProvider.Now(),
	}

	if err := s.vaultRepo.AddPermission(ctx, permission); err != nil {
		return fmt.Errorf("failed to grant vault access: %w", err)
	}

	s.logger.Info("Vault access granted", map[string]any{
		"file_id":   fileID,
		"doctor_id": doctorID,
	})
	return nil
}

// RevokeAccess removes a doctor's permission. Only the owner may revoke;
// revoking an absent permission is a no-op.
func (s *Service) RevokeAccess(ctx context.Context, callerID, fileID, doctorID string) error {
	if doctorID == "" {
		return errs.ErrInvalidUserID
	}

	file, err := s.vaultRepo.GetFile(ctx, fileID)
	if err != nil {
		return err
	}
	if file.OwnerID != callerID {
		return errs.ErrNotOwner
	}

	if err := s.vaultRepo.RemovePermission(ctx, fileID, doctorID); err != nil {
		return fmt.Errorf("failed to revoke vault access: %w", err)
	}

	s.logger.Info("Vault access revoked", map[string]any{
		"file_id":   fileID,
		"doctor_id": doctorID,
	})
	return nil
}

// ListAccessibleFiles returns every file the doctor holds a live permission
// for, across all owners, resolved through the doctorID reverse index rather
// than a scan of every patient's collection.
func (s *Service) ListAccessibleFiles(ctx context.Context, doctorID string) ([]*entity.VaultFile, error) {
	if doctorID == "" {
		return nil, errs.ErrInvalidUserID
	}

	files, err := s.vaultRepo.ListFilesByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	// Filter out expired permissions; the index doesn't know about expiry
	now := s.timeProvider.Now()
	accessible := make([]*entity.VaultFile, 0, len(files))
	for _, f := range files {
		if f.HasAccess(doctorID, now) {
			accessible = append(accessible, f)
		}
	}
	return accessible, nil
}

// HasAccess reports whether the doctor holds a live permission for the file
func (s *Service) HasAccess(ctx context.Context, fileID, doctorID string) (bool, error) {
	file, err := s.vaultRepo.GetFile(ctx, fileID)
	if err != nil {
		if errs.IsNotFoundError(err) {
			return false, nil
		}
		return false, err
	}
	return file.HasAccess(doctorID, s.timeProvider.Now()), nil
}
