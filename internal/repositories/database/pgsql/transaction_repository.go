package pgsql

import (
	"context"
	"database/sql"
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
)

const transactionColumns = `transaction_id, owner_id, transaction_type, amount, transaction_date, description, account_id, category_id, from_account_id, to_account_id, investment_category_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryWithTx {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

// nullable turns empty strings into SQL NULLs for optional reference columns.
func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// SaveTransaction inserts a new transaction row within tx.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	modelTxn := mapping.ToModelTransaction(txn)

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := tx.Exec(ctx, query,
		modelTxn.TransactionID,
		modelTxn.OwnerID,
		modelTxn.TransactionType,
		modelTxn.Amount,
		modelTxn.TransactionDate,
		modelTxn.Description,
		nullable(modelTxn.AccountID),
		nullable(modelTxn.CategoryID),
		nullable(modelTxn.FromAccountID),
		nullable(modelTxn.ToAccountID),
		nullable(modelTxn.InvestmentCategoryID),
		modelTxn.CreatedAt,
		modelTxn.CreatedBy,
		modelTxn.LastUpdatedAt,
		modelTxn.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: transaction with ID %s already exists", apperrors.ErrDuplicate, modelTxn.TransactionID)
		}
		return fmt.Errorf("failed to save transaction %s: %w", modelTxn.TransactionID, err)
	}
	return nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var modelTxn models.Transaction
	var accountID, categoryID, fromAccountID, toAccountID, investmentCategoryID sql.NullString

	err := row.Scan(
		&modelTxn.TransactionID,
		&modelTxn.OwnerID,
		&modelTxn.TransactionType,
		&modelTxn.Amount,
		&modelTxn.TransactionDate,
		&modelTxn.Description,
		&accountID,
		&categoryID,
		&fromAccountID,
		&toAccountID,
		&investmentCategoryID,
		&modelTxn.CreatedAt,
		&modelTxn.CreatedBy,
		&modelTxn.LastUpdatedAt,
		&modelTxn.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	modelTxn.AccountID = accountID.String
	modelTxn.CategoryID = categoryID.String
	modelTxn.FromAccountID = fromAccountID.String
	modelTxn.ToAccountID = toAccountID.String
	modelTxn.InvestmentCategoryID = investmentCategoryID.String

	domainTxn := mapping.ToDomainTransaction(modelTxn)
	return &domainTxn, nil
}

// FindTransactionByID retrieves a transaction by its ID, scoped to the owner.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, ownerID string, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE transaction_id = $1 AND owner_id = $2;
	`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}
	return txn, nil
}

// UpdateTransaction overwrites the mutable transaction fields within tx.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	modelTxn := mapping.ToModelTransaction(txn)

	query := `
		UPDATE transactions
		SET transaction_type = $1, amount = $2, transaction_date = $3, description = $4,
		    account_id = $5, category_id = $6, from_account_id = $7, to_account_id = $8,
		    investment_category_id = $9, last_updated_at = $10, last_updated_by = $11
		WHERE transaction_id = $12 AND owner_id = $13;
	`
	tag, err := tx.Exec(ctx, query,
		modelTxn.TransactionType,
		modelTxn.Amount,
		modelTxn.TransactionDate,
		modelTxn.Description,
		nullable(modelTxn.AccountID),
		nullable(modelTxn.CategoryID),
		nullable(modelTxn.FromAccountID),
		nullable(modelTxn.ToAccountID),
		nullable(modelTxn.InvestmentCategoryID),
		modelTxn.LastUpdatedAt,
		modelTxn.LastUpdatedBy,
		modelTxn.TransactionID,
		modelTxn.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", modelTxn.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteTransaction removes the transaction row within tx.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, tx pgx.Tx, transactionID string) error {
	query := `DELETE FROM transactions WHERE transaction_id = $1;`
	tag, err := tx.Exec(ctx, query, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListTransactionsByOwner retrieves a token-paginated page of the owner's
// transactions, newest first.
func (r *PgxTransactionRepository) ListTransactionsByOwner(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	args := []interface{}{ownerID}
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE owner_id = $1
	`
	if nextToken != nil && *nextToken != "" {
		createdAt, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (created_at, transaction_id) < ($2, $3)`
		args = append(args, createdAt, id)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, transaction_id DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1) // Fetch one extra to know if another page exists

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		transactions = append(transactions, *txn)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", rows.Err())
	}

	var token *string
	if len(transactions) > limit {
		transactions = transactions[:limit]
		last := transactions[len(transactions)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		token = &t
	}

	return transactions, token, nil
}
