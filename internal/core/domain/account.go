package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType classifies an account. The type determines how the balance is
// presented to the user; it does NOT change the sign convention the ledger
// engine applies (see the polarity rules in the ledger engine).
type AccountType string

const (
	BankAccount       AccountType = "BANK_ACCOUNT"
	CreditCard        AccountType = "CREDIT_CARD"
	InvestmentAccount AccountType = "INVESTMENT_ACCOUNT"
)

// IsValid reports whether t is one of the known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case BankAccount, CreditCard, InvestmentAccount:
		return true
	}
	return false
}

// Account represents a financial account within the core domain.
// CurrentBalance is exclusively owned by the ledger engine: the invariant
// CurrentBalance == InitialBalance + sum of all ledger entry changes must hold
// at all times.
type Account struct {
	AccountID      string          `json:"accountID"` // Primary Key (UUID)
	OwnerID        string          `json:"ownerID"`   // Owning user (or family) ID
	Name           string          `json:"name"`      // User-defined name
	AccountType    AccountType     `json:"accountType"`
	Description    string          `json:"description"`    // Nullable user description
	InitialBalance decimal.Decimal `json:"initialBalance"` // Immutable after creation
	CurrentBalance decimal.Decimal `json:"currentBalance"` // Written only by the ledger engine
	IsActive       bool            `json:"isActive"`       // Soft delete flag
	AuditFields
}
