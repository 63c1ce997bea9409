package entitlement

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

func newTestService(repo *mockpersistence.MockEntitlementRepository) *Service {
	tp := timeadapter.NewFixedTimeProvider(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	return NewService(repo, tp, logger.NewNoopLogger())
}

func TestService_Grant(t *testing.T) {
	mockRepo := new(mockpersistence.MockEntitlementRepository)
	mockRepo.On("Grant", mock.Anything, mock.MatchedBy(func(e *entity.Entitlement) bool {
		return e.UserID == "patient-001" &&
			e.ResourceKind == entity.ResourceRecording &&
			e.ResourceID == "rec-001" &&
			e.Source == entity.EntitlementSourceAdmin
	})).Return(nil)

	service := newTestService(mockRepo)
	err := service.Grant(context.Background(), "patient-001", entity.ResourceRecording, "rec-001")

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestService_Grant_Validation(t *testing.T) {
	service := newTestService(new(mockpersistence.MockEntitlementRepository))

	err := service.Grant(context.Background(), "", entity.ResourceRecording, "rec-001")
	assert.ErrorIs(t, err, errs.ErrInvalidUserID)

	err = service.Grant(context.Background(), "patient-001", entity.ResourceRecording, "")
	assert.ErrorIs(t, err, errs.ErrInvalidResource)
}

func TestService_HasAccess(t *testing.T) {
	testCases := []struct {
		name       string
		userID     string
		role       entity.Role
		kind       entity.ResourceKind
		granted    bool // what the repository reports
		consulted  bool // whether the repository is consulted at all
		hasAccess  bool
	}{
		{
			name:      "patient with entitlement",
			userID:    "patient-001",
			role:      entity.RolePatient,
			kind:      entity.ResourceRecording,
			granted:   true,
			consulted: true,
			hasAccess: true,
		},
		{
			name:      "patient without entitlement",
			userID:    "patient-001",
			role:      entity.RolePatient,
			kind:      entity.ResourceRecording,
			granted:   false,
			consulted: true,
			hasAccess: false,
		},
		{
			name:      "doctor bypasses recording paywall",
			userID:    "doctor-001",
			role:      entity.RoleDoctor,
			kind:      entity.ResourceRecording,
			consulted: false,
			hasAccess: true,
		},
		{
			name:      "admin bypasses recording paywall",
			userID:    "admin-001",
			role:      entity.RoleAdmin,
			kind:      entity.ResourceRecording,
			consulted: false,
			hasAccess: true,
		},
		{
			name:      "doctor does not bypass chat paywall",
			userID:    "doctor-001",
			role:      entity.RoleDoctor,
			kind:      entity.ResourceChat,
			granted:   false,
			consulted: true,
			hasAccess: false,
		},
		{
			name:      "resident does not bypass recordings",
			userID:    "resident-001",
			role:      entity.RoleResident,
			kind:      entity.ResourceRecording,
			granted:   false,
			consulted: true,
			hasAccess: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := new(mockpersistence.MockEntitlementRepository)
			if tc.consulted {
				mockRepo.On("Exists", mock.Anything, tc.userID, tc.kind, "res-001").Return(tc.granted, nil)
			}

			service := newTestService(mockRepo)
			hasAccess, err := service.HasAccess(context.Background(), tc.userID, tc.role, tc.kind, "res-001")

			require.NoError(t, err)
			assert.Equal(t, tc.hasAccess, hasAccess)
			if !tc.consulted {
				mockRepo.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestService_HasAccess_AnonymousUser(t *testing.T) {
	service := newTestService(new(mockpersistence.MockEntitlementRepository))

	hasAccess, err := service.HasAccess(context.Background(), "", entity.RoleVisitor, entity.ResourceChat, "chat-001")

	require.NoError(t, err)
	assert.False(t, hasAccess, "no user context means no access, not an error")
}

func TestService_Revoke(t *testing.T) {
	mockRepo := new(mockpersistence.MockEntitlementRepository)
	mockRepo.On("Revoke", mock.Anything, "patient-001", entity.ResourceChat, "chat-001").Return(nil)

	service := newTestService(mockRepo)
	err := service.Revoke(context.Background(), "patient-001", entity.ResourceChat, "chat-001")

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestService_List(t *testing.T) {
	grants := []*entity.Entitlement{
		{UserID: "patient-001", ResourceKind: entity.ResourceRecording, ResourceID: "rec-001"},
		{UserID: "patient-001", ResourceKind: entity.ResourceChat, ResourceID: "chat-001"},
	}

	mockRepo := new(mockpersistence.MockEntitlementRepository)
	mockRepo.On("ListByUser", mock.Anything, "patient-001").Return(grants, nil)

	service := newTestService(mockRepo)
	result, err := service.List(context.Background(), "patient-001")

	require.NoError(t, err)
	assert.Equal(t, grants, result)

	_, err = service.List(context.Background(), "")
	assert.ErrorIs(t, err, errs.ErrInvalidUserID)
}
