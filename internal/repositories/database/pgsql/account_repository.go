package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fintrack/fintrack_backend/internal/apperrors"
	"github.com/fintrack/fintrack_backend/internal/core/domain"
	portsrepo "github.com/fintrack/fintrack_backend/internal/core/ports/repositories"
	"github.com/fintrack/fintrack_backend/internal/models"
	"github.com/fintrack/fintrack_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const accountColumns = `account_id, owner_id, name, account_type, description, initial_balance, current_balance, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{pool: pool}
}

var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	modelAcc := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.pool.Exec(ctx, query,
		modelAcc.AccountID,
		modelAcc.OwnerID,
		modelAcc.Name,
		modelAcc.AccountType,
		modelAcc.Description,
		modelAcc.InitialBalance,
		modelAcc.CurrentBalance,
		modelAcc.IsActive,
		modelAcc.CreatedAt,
		modelAcc.CreatedBy,
		modelAcc.LastUpdatedAt,
		modelAcc.LastUpdatedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, modelAcc.AccountID)
		}
		return fmt.Errorf("failed to save account %s: %w", modelAcc.AccountID, err)
	}
	return nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var modelAcc models.Account
	err := row.Scan(
		&modelAcc.AccountID,
		&modelAcc.OwnerID,
		&modelAcc.Name,
		&modelAcc.AccountType,
		&modelAcc.Description,
		&modelAcc.InitialBalance,
		&modelAcc.CurrentBalance,
		&modelAcc.IsActive,
		&modelAcc.CreatedAt,
		&modelAcc.CreatedBy,
		&modelAcc.LastUpdatedAt,
		&modelAcc.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	domainAcc := mapping.ToDomainAccount(modelAcc)
	return &domainAcc, nil
}

// FindAccountByID retrieves an account by its ID, scoped to the owner.
// A hit on someone else's account surfaces as NotFound.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, ownerID string, accountID string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = $1 AND owner_id = $2;
	`
	account, err := scanAccount(r.pool.QueryRow(ctx, query, accountID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return account, nil
}

// ListAccounts retrieves a paginated list of the owner's active accounts.
// Inactive accounts are excluded from balance displays but their ledger
// history remains.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, ownerID string, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE is_active = TRUE AND owner_id = $1
		ORDER BY name
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.pool.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, *account)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", rows.Err())
	}

	return accounts, nil
}

// UpdateAccountDetails updates the editable account fields. Balances are
// intentionally not part of this statement.
func (r *PgxAccountRepository) UpdateAccountDetails(ctx context.Context, account domain.Account) error {
	modelAcc := mapping.ToModelAccount(account)

	query := `
		UPDATE accounts
		SET name = $1, description = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $5 AND owner_id = $6;
	`
	tag, err := r.pool.Exec(ctx, query,
		modelAcc.Name,
		modelAcc.Description,
		modelAcc.LastUpdatedAt,
		modelAcc.LastUpdatedBy,
		modelAcc.AccountID,
		modelAcc.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", modelAcc.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateAccount soft-deletes an account.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, ownerID string, accountID string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $1, last_updated_by = $2
		WHERE account_id = $3 AND owner_id = $4 AND is_active = TRUE;
	`
	tag, err := r.pool.Exec(ctx, query, now, userID, accountID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to deactivate account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ApplyBalanceDelta adds delta to the account balance with a single
// server-side arithmetic update and returns the resulting balance. The
// arithmetic runs in the database, never as a read-then-write-back from
// application memory, so concurrent deltas to the same account serialize on
// the row instead of losing updates.
func (r *PgxAccountRepository) ApplyBalanceDelta(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE accounts
		SET current_balance = current_balance + $1
		WHERE account_id = $2
		RETURNING current_balance;
	`
	var newBalance decimal.Decimal
	err := tx.QueryRow(ctx, query, delta, accountID).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, apperrors.ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to apply balance delta to account %s: %w", accountID, err)
	}
	return newBalance, nil
}
