package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fintrack/fintrack_backend/internal/apperrors"
	"github.com/fintrack/fintrack_backend/internal/core/domain"
	portsrepo "github.com/fintrack/fintrack_backend/internal/core/ports/repositories"
	portssvc "github.com/fintrack/fintrack_backend/internal/core/ports/services"
	"github.com/fintrack/fintrack_backend/internal/dto"
	"github.com/fintrack/fintrack_backend/internal/middleware"
)

// accountService provides account management operations. It never touches
// current_balance beyond reading it: balance writes belong to the ledger
// engine exclusively.
type accountService struct {
	accountRepo portsrepo.AccountRepository
	ledgerRepo  portsrepo.LedgerRepository
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepository, ledgerRepo portsrepo.LedgerRepository) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount creates an account whose current balance starts at the
// immutable initial balance.
func (s *accountService) CreateAccount(ctx context.Context, ownerID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:      uuid.NewString(),
		OwnerID:        ownerID,
		Name:           req.Name,
		AccountType:    req.AccountType,
		Description:    req.Description,
		InitialBalance: req.InitialBalance,
		CurrentBalance: req.InitialBalance,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("account_type", string(account.AccountType)))
	return &account, nil
}

// GetAccountByID retrieves an account scoped to its owner.
func (s *accountService) GetAccountByID(ctx context.Context, ownerID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, ownerID, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

// ListAccounts retrieves the owner's active accounts.
func (s *accountService) ListAccounts(ctx context.Context, ownerID string, params dto.ListAccountsParams) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, ownerID, params.Limit, params.Offset)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list accounts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccount changes name and description only. Balances and type are not
// editable through this path.
func (s *accountService) UpdateAccount(ctx context.Context, ownerID string, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, ownerID, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}
	if !updated {
		return account, nil
	}

	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = ownerID

	if err := s.accountRepo.UpdateAccountDetails(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	logger.Info("Account updated", slog.String("account_id", accountID))
	return account, nil
}

// DeactivateAccount soft-deletes an account. Historical ledger entries remain;
// accounts are never hard-deleted while referenced by transactions.
func (s *accountService) DeactivateAccount(ctx context.Context, ownerID string, accountID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.accountRepo.DeactivateAccount(ctx, ownerID, accountID, ownerID, time.Now().UTC()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return err
	}

	logger.Info("Account deactivated", slog.String("account_id", accountID))
	return nil
}

// VerifyAccountBalance checks the ledger invariant for one account:
// current_balance must equal initial_balance plus the sum of all ledger entry
// changes. A mismatch means drift that needs reconciliation.
func (s *accountService) VerifyAccountBalance(ctx context.Context, ownerID string, accountID string) (*dto.BalanceVerificationResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, ownerID, accountID)
	if err != nil {
		return nil, err
	}

	ledgerSum, err := s.ledgerRepo.SumChangesForAccount(ctx, accountID)
	if err != nil {
		logger.Error("Failed to sum ledger changes", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to sum ledger changes: %w", err)
	}

	expected := account.InitialBalance.Add(ledgerSum)
	consistent := expected.Equal(account.CurrentBalance)
	if !consistent {
		logger.Error("Account balance does not match ledger",
			slog.String("account_id", accountID),
			slog.String("current_balance", account.CurrentBalance.String()),
			slog.String("expected_balance", expected.String()),
		)
	}

	return &dto.BalanceVerificationResponse{
		AccountID:       accountID,
		InitialBalance:  account.InitialBalance,
		LedgerSum:       ledgerSum,
		ExpectedBalance: expected,
		CurrentBalance:  account.CurrentBalance,
		Consistent:      consistent,
	}, nil
}
