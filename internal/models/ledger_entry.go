package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is the DB representation of one balance mutation.
// Rows are append-only; transaction_id goes NULL when the owning transaction
// is deleted under the retain-on-delete policy.
type LedgerEntry struct {
	EntryID       string          `db:"entry_id"`
	AccountID     string          `db:"account_id"`
	TransactionID *string         `db:"transaction_id"`
	BalanceBefore decimal.Decimal `db:"balance_before"`
	BalanceAfter  decimal.Decimal `db:"balance_after"`
	ChangeAmount  decimal.Decimal `db:"change_amount"`
	CreatedAt     time.Time       `db:"created_at"`
}
