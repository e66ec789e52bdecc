package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates the kind of money movement a transaction records.
type TransactionType string

const (
	Income   TransactionType = "INCOME"
	Expense  TransactionType = "EXPENSE"
	Transfer TransactionType = "TRANSFER"
)

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case Income, Expense, Transfer:
		return true
	}
	return false
}

var (
	ErrUnknownTransactionType = errors.New("unknown transaction type")
	ErrInvalidShape           = errors.New("transaction shape is invalid")
)

// Transaction represents a single money movement recorded by a user.
//
// Exactly one of two shapes must be populated:
//   - single-account shape (Income/Expense): AccountID + CategoryID set,
//     transfer fields empty;
//   - transfer shape (Transfer): FromAccountID + ToAccountID set (distinct),
//     single-account fields empty. InvestmentCategoryID is optional and only
//     meaningful when the destination is an investment account.
//
// Amount is stored as given. Negative amounts (e.g. refunds expressed as a
// negative expense) are accepted at face value by the ledger arithmetic.
type Transaction struct {
	TransactionID        string          `json:"transactionID"` // Primary Key (UUID)
	OwnerID              string          `json:"ownerID"`
	TransactionType      TransactionType `json:"transactionType"`
	Amount               decimal.Decimal `json:"amount"`
	TransactionDate      time.Time       `json:"transactionDate"`
	Description          string          `json:"description"` // Nullable
	AccountID            string          `json:"accountID"`   // Income/Expense only
	CategoryID           string          `json:"categoryID"`  // Income/Expense only
	FromAccountID        string          `json:"fromAccountID"`
	ToAccountID          string          `json:"toAccountID"`
	InvestmentCategoryID string          `json:"investmentCategoryID"` // Optional, transfer to investment account
	AuditFields
}

// ValidateShape enforces the single-account vs transfer shape invariant.
// It must pass before any ledger effect is computed.
func (t Transaction) ValidateShape() error {
	switch t.TransactionType {
	case Income, Expense:
		if t.AccountID == "" {
			return fmt.Errorf("%w: %s requires an account", ErrInvalidShape, t.TransactionType)
		}
		if t.CategoryID == "" {
			return fmt.Errorf("%w: %s requires a category", ErrInvalidShape, t.TransactionType)
		}
		if t.FromAccountID != "" || t.ToAccountID != "" {
			return fmt.Errorf("%w: %s must not carry transfer accounts", ErrInvalidShape, t.TransactionType)
		}
	case Transfer:
		if t.FromAccountID == "" || t.ToAccountID == "" {
			return fmt.Errorf("%w: transfer requires both source and destination accounts", ErrInvalidShape)
		}
		if t.FromAccountID == t.ToAccountID {
			return fmt.Errorf("%w: transfer accounts must be distinct", ErrInvalidShape)
		}
		if t.AccountID != "" || t.CategoryID != "" {
			return fmt.Errorf("%w: transfer must not carry a single-account reference", ErrInvalidShape)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTransactionType, t.TransactionType)
	}
	return nil
}

// LedgerFieldsChanged reports whether editing from t to updated requires the
// old ledger effects to be reversed and the new effects applied. Pure metadata
// edits (description, date, categories) skip ledger work entirely.
func (t Transaction) LedgerFieldsChanged(updated Transaction) bool {
	return t.TransactionType != updated.TransactionType ||
		!t.Amount.Equal(updated.Amount) ||
		t.AccountID != updated.AccountID ||
		t.FromAccountID != updated.FromAccountID ||
		t.ToAccountID != updated.ToAccountID
}
