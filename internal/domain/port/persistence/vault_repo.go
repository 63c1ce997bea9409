package persistence

import (
	"context"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
)

// VaultRepository defines methods for patient-owned files and their
// per-doctor permissions. Implementations must maintain a doctorID to fileIDs
// reverse index updated transactionally with grant/revoke/delete, so that
// ListFilesByDoctor never scans every owner's collection.
type VaultRepository interface {
	// CreateFile stores a newly uploaded file record
	//
	// Possible errors:
	// - ErrStorage: If the underlying store fails
	CreateFile(ctx context.Context, file *entity.VaultFile) error

	// GetFile retrieves a file with its permissions
	//
	// Possible errors:
	// - ErrFileNotFound: If no file with the given ID exists
	// - ErrStorage: If the underlying store fails
	GetFile(ctx context.Context, fileID string) (*entity.VaultFile, error)

	// DeleteFile removes a file and all of its permissions, including the
	// reverse-index entries
	//
	// Possible errors:
	// - ErrFileNotFound: If no file with the given ID exists
	// - ErrStorage: If the underlying store fails
	DeleteFile(ctx context.Context, fileID string) error

	// ListFilesByOwner returns all files owned by a patient, newest first
	//
	// Possible errors:
	// - ErrStorage: If the underlying store fails
	ListFilesByOwner(ctx context.Context, ownerID string) ([]*entity.VaultFile, error)

	// AddPermission records a grant and updates the reverse index in the same
	// storage transaction. Adding an existing permission is a no-op.
	//
	// Possible errors:
	// - ErrFileNotFound: If no file with the given ID exists
	// - ErrStorage: If the underlying store fails
	AddPermission(ctx context.Context, permission *entity.VaultPermission) error

	// RemovePermission removes a grant and its reverse-index entry in the same
	// storage transaction. Removing an absent permission is a no-op.
	//
	// Possible errors:
	// - ErrStorage: If the underlying store fails
	RemovePermission(ctx context.Context, fileID, doctorID string) error

	// ListFilesByDoctor returns all files the doctor holds a permission for,
	// resolved through the reverse index
	//
	// Possible errors:
	// - ErrStorage: If the underlying store fails
	ListFilesByDoctor(ctx context.Context, doctorID string) ([]*entity.VaultFile, error)
}
