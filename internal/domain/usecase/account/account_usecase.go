package account

import (
	"context"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
	errs "github.com/drdoublecheck/wallet-ledger/internal/domain/error"
	coreport "github.com/drdoublecheck/wallet-ledger/internal/domain/port/core"
	"github.com/drdoublecheck/wallet-ledger/internal/domain/port/persistence"
	"github.com/drdoublecheck/wallet-ledger/internal/domain/port/usecase"
)

// UseCase implements account lifecycle operations
type UseCase struct {
	accountRepo  persistence.AccountRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewUseCase creates a new account use case
func NewUseCase(
	accountRepo persistence.AccountRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *UseCase {
	return &UseCase{
		accountRepo:  accountRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Compile-time check that UseCase satisfies the port interface
var _ usecase.AccountUseCase = (*UseCase)(nil)

// GetAccount retrieves an account by user ID
func (u *UseCase) GetAccount(ctx context.Context, userID string) (*entity.Account, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	return u.accountRepo.GetByID(ctx, userID)
}

// AccountExists checks whether an account exists for the user
func (u *UseCase) AccountExists(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, errs.ErrInvalidUserID
	}

	_, err := u.accountRepo.GetByID(ctx, userID)
	if err != nil {
		if errs.IsAccountNotFoundError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
