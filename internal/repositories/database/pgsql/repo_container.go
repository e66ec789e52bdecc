package pgsql

import (
	portsrepo "github.com/fintrack/fintrack_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the pgx repositories against a shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     newPgxAccountRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
		LedgerRepo:      newPgxLedgerRepository(dbPool),
		CategoryRepo:    newPgxCategoryRepository(dbPool),
	}
}
