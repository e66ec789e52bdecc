package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fintrack/fintrack_backend/internal/apperrors"
	"github.com/fintrack/fintrack_backend/internal/core/domain"
	portsrepo "github.com/fintrack/fintrack_backend/internal/core/ports/repositories"
	"github.com/fintrack/fintrack_backend/internal/models"
	"github.com/fintrack/fintrack_backend/internal/utils/mapping"
	"github.com/fintrack/fintrack_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const ledgerColumns = `entry_id, account_id, transaction_id, balance_before, balance_after, change_amount, created_at`

type PgxLedgerRepository struct {
	pool *pgxpool.Pool
}

// newPgxLedgerRepository creates a new repository for the append-only ledger.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepository {
	return &PgxLedgerRepository{pool: pool}
}

var _ portsrepo.LedgerRepository = (*PgxLedgerRepository)(nil)

// AppendEntry inserts one audit row within tx. There is no update statement
// anywhere in this repository: the ledger is append-only.
func (r *PgxLedgerRepository) AppendEntry(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	modelEntry := mapping.ToModelLedgerEntry(entry)

	query := `
		INSERT INTO balance_ledger (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := tx.Exec(ctx, query,
		modelEntry.EntryID,
		modelEntry.AccountID,
		modelEntry.TransactionID,
		modelEntry.BalanceBefore,
		modelEntry.BalanceAfter,
		modelEntry.ChangeAmount,
		modelEntry.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: ledger entry with ID %s already exists", apperrors.ErrDuplicate, modelEntry.EntryID)
		}
		return fmt.Errorf("failed to append ledger entry %s: %w", modelEntry.EntryID, err)
	}
	return nil
}

func scanLedgerEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var modelEntry models.LedgerEntry
	err := row.Scan(
		&modelEntry.EntryID,
		&modelEntry.AccountID,
		&modelEntry.TransactionID,
		&modelEntry.BalanceBefore,
		&modelEntry.BalanceAfter,
		&modelEntry.ChangeAmount,
		&modelEntry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	domainEntry := mapping.ToDomainLedgerEntry(modelEntry)
	return &domainEntry, nil
}

// ListEntriesForAccount retrieves a token-paginated page of the account's
// ledger entries, oldest first, so consecutive rows form the balance chain.
func (r *PgxLedgerRepository) ListEntriesForAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 50
	}

	args := []interface{}{accountID}
	query := `
		SELECT ` + ledgerColumns + `
		FROM balance_ledger
		WHERE account_id = $1
	`
	if nextToken != nil && *nextToken != "" {
		createdAt, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (created_at, entry_id) > ($2, $3)`
		args = append(args, createdAt, id)
	}
	query += fmt.Sprintf(` ORDER BY created_at ASC, entry_id ASC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query ledger entries for account %s: %w", accountID, err)
	}
	defer rows.Close()

	entries := []domain.LedgerEntry{}
	for rows.Next() {
		entry, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}
		entries = append(entries, *entry)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating ledger entry rows: %w", rows.Err())
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.EntryID)
		token = &t
	}

	return entries, token, nil
}

// SumChangesForAccount returns the sum of change_amount over all entries for
// the account, used to verify the balance invariant.
func (r *PgxLedgerRepository) SumChangesForAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(change_amount), 0)
		FROM balance_ledger
		WHERE account_id = $1;
	`
	var sum decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, accountID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum ledger changes for account %s: %w", accountID, err)
	}
	return sum, nil
}

// DetachEntriesForTransaction nulls out the transaction reference on the
// transaction's entries within tx, keeping the audit rows after the owning
// transaction is deleted (retain-on-delete policy).
func (r *PgxLedgerRepository) DetachEntriesForTransaction(ctx context.Context, tx pgx.Tx, transactionID string) error {
	query := `UPDATE balance_ledger SET transaction_id = NULL WHERE transaction_id = $1;`
	if _, err := tx.Exec(ctx, query, transactionID); err != nil {
		return fmt.Errorf("failed to detach ledger entries for transaction %s: %w", transactionID, err)
	}
	return nil
}

// DeleteEntriesForTransaction removes the transaction's entries within tx
// (cascade-on-delete policy). Callers reverse the transaction first, so the
// removed originals and reversals net to zero and the balance invariant holds.
func (r *PgxLedgerRepository) DeleteEntriesForTransaction(ctx context.Context, tx pgx.Tx, transactionID string) error {
	query := `DELETE FROM balance_ledger WHERE transaction_id = $1;`
	if _, err := tx.Exec(ctx, query, transactionID); err != nil {
		return fmt.Errorf("failed to delete ledger entries for transaction %s: %w", transactionID, err)
	}
	return nil
}
