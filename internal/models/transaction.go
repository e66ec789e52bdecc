package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a transaction at the storage layer.
type TransactionType string

const (
	Income   TransactionType = "INCOME"
	Expense  TransactionType = "EXPENSE"
	Transfer TransactionType = "TRANSFER"
)

// Transaction is the DB representation of a money movement.
// Single-account fields and transfer fields are mutually exclusive; the
// service layer enforces the shape before anything reaches the database.
type Transaction struct {
	TransactionID        string          `db:"transaction_id"`
	OwnerID              string          `db:"owner_id"`
	TransactionType      TransactionType `db:"transaction_type"`
	Amount               decimal.Decimal `db:"amount"`
	TransactionDate      time.Time       `db:"transaction_date"`
	Description          string          `db:"description"`
	AccountID            string          `db:"account_id"`      // Nullable
	CategoryID           string          `db:"category_id"`     // Nullable
	FromAccountID        string          `db:"from_account_id"` // Nullable
	ToAccountID          string          `db:"to_account_id"`   // Nullable
	InvestmentCategoryID string          `db:"investment_category_id"`
	AuditFields
}
