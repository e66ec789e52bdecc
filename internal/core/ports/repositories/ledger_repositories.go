package repositories

import (
	"context"

	"github.com/fintrack/fintrack_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// LedgerRepository defines persistence for the append-only balance ledger.
//
// AppendEntry is the only way rows are created. Rows are never updated;
// DetachEntriesForTransaction and DeleteEntriesForTransaction exist solely for
// the transaction-delete cascade, and which one runs is a retention policy
// choice made by configuration.
type LedgerRepository interface {
	AppendEntry(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error
	ListEntriesForAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
	SumChangesForAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
	DetachEntriesForTransaction(ctx context.Context, tx pgx.Tx, transactionID string) error
	DeleteEntriesForTransaction(ctx context.Context, tx pgx.Tx, transactionID string) error
}
