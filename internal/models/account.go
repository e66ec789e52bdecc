package models

import (
	"github.com/shopspring/decimal"
)

// AccountType classifies an account at the storage layer.
type AccountType string

const (
	BankAccount       AccountType = "BANK_ACCOUNT"
	CreditCard        AccountType = "CREDIT_CARD"
	InvestmentAccount AccountType = "INVESTMENT_ACCOUNT"
)

// Account is the DB representation of a financial account.
type Account struct {
	AccountID      string          `db:"account_id"`
	OwnerID        string          `db:"owner_id"`
	Name           string          `db:"name"`
	AccountType    AccountType     `db:"account_type"`
	Description    string          `db:"description"`
	InitialBalance decimal.Decimal `db:"initial_balance"`
	CurrentBalance decimal.Decimal `db:"current_balance"`
	IsActive       bool            `db:"is_active"`
	AuditFields
}
