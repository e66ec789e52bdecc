package services

import (
	"context"

	"github.com/fintrack/fintrack_backend/internal/core/domain"
	"github.com/fintrack/fintrack_backend/internal/dto"
	"github.com/jackc/pgx/v5"
)

// LedgerEngineFacade translates a transaction into signed balance deltas and
// applies them to accounts plus the append-only ledger, inside the caller's
// database transaction. Reverse applies the exact negation of Apply for the
// same transaction values; both produce new forward-dated ledger entries.
type LedgerEngineFacade interface {
	Apply(ctx context.Context, tx pgx.Tx, txn domain.Transaction) ([]domain.LedgerEntry, error)
	Reverse(ctx context.Context, tx pgx.Tx, txn domain.Transaction) ([]domain.LedgerEntry, error)
}

// LedgerSvcFacade exposes read access to the audit ledger.
type LedgerSvcFacade interface {
	ListEntriesForAccount(ctx context.Context, ownerID string, accountID string, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error)
}
