package repositories

import (
	"context"
	"time"

	"github.com/fintrack/fintrack_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountRepository defines persistence operations for accounts.
//
// ApplyBalanceDelta is the only write path for current_balance. It must be a
// single server-side arithmetic update (current_balance = current_balance + delta)
// executed within the given transaction, never a read-then-write-back from
// application memory, so concurrent deltas to the same account cannot lose
// updates.
type AccountRepository interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	FindAccountByID(ctx context.Context, ownerID string, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, ownerID string, limit int, offset int) ([]domain.Account, error)
	UpdateAccountDetails(ctx context.Context, account domain.Account) error
	DeactivateAccount(ctx context.Context, ownerID string, accountID string, userID string, now time.Time) error
	ApplyBalanceDelta(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal) (decimal.Decimal, error)
}
