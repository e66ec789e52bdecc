package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is an immutable audit record of one signed balance change to one
// account, caused by one transaction. Entries are append-only: a reversal is a
// new forward-dated entry, never an edit of history.
//
// Invariants:
//   - BalanceAfter == BalanceBefore + ChangeAmount for every entry.
//   - Ordered by creation time, each entry's BalanceBefore equals the previous
//     entry's BalanceAfter for the same account.
type LedgerEntry struct {
	EntryID       string          `json:"entryID"`   // Primary Key (UUID)
	AccountID     string          `json:"accountID"` // FK -> Account
	TransactionID *string         `json:"transactionID"`
	BalanceBefore decimal.Decimal `json:"balanceBefore"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`
	ChangeAmount  decimal.Decimal `json:"changeAmount"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// BalanceEffect is the signed delta a transaction contributes to one account.
// An income/expense yields one effect; a transfer yields two.
type BalanceEffect struct {
	AccountID string
	Delta     decimal.Decimal
}
