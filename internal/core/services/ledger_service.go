package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fintrack/fintrack_backend/internal/core/ports/repositories"
	portssvc "github.com/fintrack/fintrack_backend/internal/core/ports/services"
	"github.com/fintrack/fintrack_backend/internal/dto"
	"github.com/fintrack/fintrack_backend/internal/middleware"
)

// ledgerService exposes read access to the audit ledger. The ownership check
// goes through the account repository so entries of other users' accounts
// surface as NotFound.
type ledgerService struct {
	accountRepo repositories.AccountRepository
	ledgerRepo  repositories.LedgerRepository
}

// NewLedgerService creates a new ledger read service.
func NewLedgerService(accountRepo repositories.AccountRepository, ledgerRepo repositories.LedgerRepository) portssvc.LedgerSvcFacade {
	return &ledgerService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// ListEntriesForAccount retrieves a page of ledger entries for the account,
// ordered by creation time ascending so consecutive entries form the balance
// chain.
func (s *ledgerService) ListEntriesForAccount(ctx context.Context, ownerID string, accountID string, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountRepo.FindAccountByID(ctx, ownerID, accountID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	entries, nextToken, err := s.ledgerRepo.ListEntriesForAccount(ctx, accountID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list ledger entries", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to retrieve ledger entries: %w", err)
	}

	return &dto.ListLedgerEntriesResponse{
		Entries:   dto.ToLedgerEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}
