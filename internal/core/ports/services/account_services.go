package services

import (
	"context"

	"github.com/fintrack/fintrack_backend/internal/core/domain"
	"github.com/fintrack/fintrack_backend/internal/dto"
)

// AccountSvcFacade exposes account management operations. All operations are
// scoped to the owner extracted from the authenticated request; ownership
// misses surface as NotFound to obscure existence.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, ownerID string, req dto.CreateAccountRequest) (*domain.Account, error)
	GetAccountByID(ctx context.Context, ownerID string, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, ownerID string, params dto.ListAccountsParams) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, ownerID string, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, ownerID string, accountID string) error
	VerifyAccountBalance(ctx context.Context, ownerID string, accountID string) (*dto.BalanceVerificationResponse, error)
}
