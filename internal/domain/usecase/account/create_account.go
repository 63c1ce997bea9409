package account

import (
	"context"
	"errors"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
	errs "github.com/drdoublecheck/wallet-ledger/internal/domain/error"
)

// CreateAccount opens a wallet account with the given starting balance.
// Demo seed accounts start non-zero; real accounts start at 0.
func (u *UseCase) CreateAccount(ctx context.Context, userID string, initialBalance int64) (*entity.Account, error) {
	account, err := entity.NewAccount(userID, initialBalance, u.timeProvider)
	if err != nil {
		return nil, err
	}

	if err := u.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, errs.ErrDuplicateAccount) {
			return nil, err
		}
		u.logger.Error("Failed to create account", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}

	u.logger.Info("Account created", map[string]any{
		"user_id": userID,
		"balance": account.Balance(),
	})
	return account, nil
}

// EnsureAccount opens the account at first authenticated session if it does
// not exist yet, and returns the existing one otherwise
func (u *UseCase) EnsureAccount(ctx context.Context, userID string) (*entity.Account, error) {
	if userID == "" {
		return nil, errs.ErrNotAuthenticated
	}

	account, err := u.accountRepo.GetByID(ctx, userID)
	if err == nil {
		return account, nil
	}
	if !errs.IsAccountNotFoundError(err) {
		return nil, err
	}

	account, err = u.CreateAccount(ctx, userID, 0)
	if err != nil {
		// A concurrent first session may have created it between the lookup
		// and the insert
		if errors.Is(err, errs.ErrDuplicateAccount) {
			return u.accountRepo.GetByID(ctx, userID)
		}
		return nil, err
	}
	return account, nil
}
