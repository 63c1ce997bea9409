package vault

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
	errs "github.com/drdoublecheck/wallet-ledger/internal/domain/error"
	"github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/logger"
	timeadapter "github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/time"
	mockpersistence "github.com/drdoublecheck/wallet-ledger/mocks/port/persistence"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo *mockpersistence.MockVaultRepository) *Service {
	return NewService(repo, timeadapter.NewFixedTimeProvider(testNow), logger.NewNoopLogger())
}

func ownedFile(ownerID string) *entity.VaultFile {
	return &entity.VaultFile{
		ID:         "file-001",
		OwnerID:    ownerID,
		Name:       "Electrocardiograma_2024.pdf",
		Type:       entity.FileTypePDF,
		Size:       2456000,
		Category:   "Estudios Cardíacos",
		UploadedAt: testNow,
	}
}

func TestService_UploadFile(t *testing.T) {
	mockRepo := new(mockpersistence.MockVaultRepository)
	mockRepo.On("CreateFile", mock.Anything, mock.MatchedBy(func(f *entity.VaultFile) bool {
		return f.OwnerID == "patient-001" && f.Name == "Radiografia_Torax.jpg" && f.ID != ""
	})).Return(nil)

	service := newTestService(mockRepo)
	file, err := service.UploadFile(context.Background(), "patient-001", UploadRequest{
		Name:     "Radiografia_Torax.jpg",
		Type:     entity.FileTypeImage,
		Size:     1890000,
		Category: "Imagenología",
	})

	require.NoError(t, err)
	assert.Equal(t, "patient-001", file.OwnerID)
	assert.Equal(t, testNow, file.UploadedAt)
	mockRepo.AssertExpectations(t)
}

func TestService_UploadFile_NotAuthenticated(t *testing.T) {
	service := newTestService(new(mockpersistence.MockVaultRepository))

	_, err := service.UploadFile(context.Background(), "", UploadRequest{Name: "x.pdf"})
	assert.ErrorIs(t, err, errs.ErrNotAuthenticated)
}

func TestService_GrantAccess(t *testing.T) {
	t.Run("owner grants", func(t *testing.T) {
		mockRepo := new(mockpersistence.MockVaultRepository)
		mockRepo.On("GetFile", mock.Anything, "file-001").Return(ownedFile("patient-001"), nil)
		mockRepo.On("AddPermission", mock.Anything, mock.MatchedBy(func(p *entity.VaultPermission) bool {
			return p.FileID == "file-001" && p.DoctorID == "doctor-001" && p.DoctorName == "Dr. Carlos Mendoza"
		})).Return(nil)

		service := newTestService(mockRepo)
		err := service.GrantAccess(context.Background(), "patient-001", "file-001", "doctor-001", "Dr. Carlos Mendoza")

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("non-owner cannot grant", func(t *testing.T) {
		mockRepo := new(mockpersistence.MockVaultRepository)
		mockRepo.On("GetFile", mock.Anything, "file-001").Return(ownedFile("patient-002"), nil)

		service := newTestService(mockRepo)
		err := service.GrantAccess(context.Background(), "patient-001", "file-001", "doctor-001", "Dr. Carlos Mendoza")

		assert.ErrorIs(t, err, errs.ErrNotOwner)
		mockRepo.AssertNotCalled(t, "AddPermission", mock.Anything, mock.Anything)
	})

	t.Run("missing file", func(t *testing.T) {
		mockRepo := new(mockpersistence.MockVaultRepository)
		mockRepo.On("GetFile", mock.Anything, "file-404").Return(nil, errs.ErrFileNotFound)

		service := newTestService(mockRepo)
		err := service.GrantAccess(context.Background(), "patient-001", "file-404", "doctor-001", "Dr. Carlos Mendoza")

		assert.ErrorIs(t, err, errs.ErrFileNotFound)
	})

	t.Run("empty doctor ID", func(t *testing.T) {
		service := newTestService(new(mockpersistence.MockVaultRepository))
		err := service.GrantAccess(context.Background(), "patient-001", "file-001", "", "")
		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
	})
}

func TestService_RevokeAccess(t *testing.T) {
	t.Run("owner revokes", func(t *testing.T) {
		mockRepo := new(mockpersistence.MockVaultRepository)
		mockRepo.On("GetFile", mock.Anything, "file-001").Return(ownedFile("patient-001"), nil)
		mockRepo.On("RemovePermission", mock.Anything, "file-001", "doctor-001").Return(nil)

		service := newTestService(mockRepo)
		err := service.RevokeAccess(context.Background(), "patient-001", "file-001", "doctor-001")

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("non-owner cannot revoke", func(t *testing.T) {
		mockRepo := new(mockpersistence.MockVaultRepository)
		mockRepo.On("GetFile", mock.Anything, "file-001").Return(ownedFile("patient-002"), nil)

		service := newTestService(mockRepo)
		err := service.RevokeAccess(context.Background(), "patient-001", "file-001", "doctor-001")

		assert.ErrorIs(t, err, errs.ErrNotOwner)
		mockRepo.AssertNotCalled(t, "RemovePermission", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_DeleteFile(t *testing.T) {
	t.Run("owner deletes", func(t *testing.T) {
		mockRepo := new(mockpersistence.MockVaultRepository)
		mockRepo.On("GetFile", mock.Anything, "file-001").Return(ownedFile("patient-001"), nil)
		mockRepo.On("DeleteFile", mock.Anything, "file-001").Return(nil)

		service := newTestService(mockRepo)
		require.NoError(t, service.DeleteFile(context.Background(), "patient-001", "file-001"))
		mockRepo.AssertExpectations(t)
	})

	t.Run("doctor with permission still cannot delete", func(t *testing.T) {
		file := ownedFile("patient-001")
		file.Permissions = []entity.VaultPermission{{FileID: "file-001", DoctorID: "doctor-001", GrantedAt: testNow}}

		mockRepo := new(mockpersistence.MockVaultRepository)
		mockRepo.On("GetFile", mock.Anything, "file-001").Return(file, nil)

		service := newTestService(mockRepo)
		err := service.DeleteFile(context.Background(), "doctor-001", "file-001")

		assert.ErrorIs(t, err, errs.ErrNotOwner, "read access never implies mutation rights")
	})
}

func TestService_ListAccessibleFiles(t *testing.T) {
	live := ownedFile("patient-001")
	live.Permissions = []entity.VaultPermission{{FileID: live.ID, DoctorID: "doctor-001", GrantedAt: testNow}}

	expired := &entity.VaultFile{ID: "file-003", OwnerID: "patient-002", Name: "Laboratorios_Marzo_2024.pdf", Type: entity.FileTypePDF}
	pastExpiry := testNow.Add(-time.Hour)
	expired.Permissions = []entity.VaultPermission{{FileID: expired.ID, DoctorID: "doctor-001", GrantedAt: testNow.Add(-48 * time.Hour), ExpiresAt: &pastExpiry}}

	mockRepo := new(mockpersistence.MockVaultRepository)
	mockRepo.On("ListFilesByDoctor", mock.Anything, "doctor-001").Return([]*entity.VaultFile{live, expired}, nil)

	service := newTestService(mockRepo)
	files, err := service.ListAccessibleFiles(context.Background(), "doctor-001")

	require.NoError(t, err)
	require.Len(t, files, 1, "expired permissions must be filtered out")
	assert.Equal(t, live.ID, files[0].ID)
}

func TestService_HasAccess(t *testing.T) {
	t.Run("live permission", func(t *testing.T) {
		file := ownedFile("patient-001")
		file.Permissions = []entity.VaultPermission{{FileID: file.ID, DoctorID: "doctor-001", GrantedAt: testNow}}

		mockRepo := new(mockpersistence.MockVaultRepository)
		mockRepo.On("GetFile", mock.Anything, "file-001").Return(file, nil)

		service := newTestService(mockRepo)
		hasAccess, err := service.HasAccess(context.Background(), "file-001", "doctor-001")

		require.NoError(t, err)
		assert.True(t, hasAccess)
	})

	t.Run("no permission", func(t *testing.T) {
		mockRepo := new(mockpersistence.MockVaultRepository)
		mockRepo.On("GetFile", mock.Anything, "file-001").Return(ownedFile("patient-001"), nil)

		service := newTestService(mockRepo)
		hasAccess, err := service.HasAccess(context.Background(), "file-001", "doctor-002")

		require.NoError(t, err)
		assert.False(t, hasAccess)
	})

	t.Run("missing file reports no access without error", func(t *testing.T) {
		mockRepo := new(mockpersistence.MockVaultRepository)
		mockRepo.On("GetFile", mock.Anything, "file-404").Return(nil, errs.ErrFileNotFound)

		service := newTestService(mockRepo)
		hasAccess, err := service.HasAccess(context.Background(), "file-404", "doctor-001")

		require.NoError(t, err)
		assert.False(t, hasAccess)
	})
}

func TestService_ListOwnerFiles(t *testing.T) {
	files := []*entity.VaultFile{ownedFile("patient-001")}

	mockRepo := new(mockpersistence.MockVaultRepository)
	mockRepo.On("ListFilesByOwner", mock.Anything, "patient-001").Return(files, nil)

	service := newTestService(mockRepo)
	result, err := service.ListOwnerFiles(context.Background(), "patient-001")

	require.NoError(t, err)
	assert.Equal(t, files, result)

	_, err = service.ListOwnerFiles(context.Background(), "")
	assert.ErrorIs(t, err, errs.ErrNotAuthenticated)
}
