package repositories

import (
	"context"

	"github.com/fintrack/fintrack_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// TransactionRepository defines persistence operations for transactions.
// Writes take a pgx.Tx so the lifecycle coordinator can bundle the row
// mutation with the corresponding ledger effects in one database transaction.
type TransactionRepository interface {
	SaveTransaction(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error
	FindTransactionByID(ctx context.Context, ownerID string, transactionID string) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error
	DeleteTransaction(ctx context.Context, tx pgx.Tx, transactionID string) error
	ListTransactionsByOwner(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// TransactionRepositoryWithTx couples transaction persistence with database
// transaction control for the coordinator.
type TransactionRepositoryWithTx interface {
	TransactionRepository
	TxManager
}
