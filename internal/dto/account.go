package dto

import (
	"time"

	"github.com/fintrack/fintrack_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
// InitialBalance is immutable after creation; the account opens with
// current_balance == initial_balance.
type CreateAccountRequest struct {
	Name           string             `json:"name" binding:"required"`
	AccountType    domain.AccountType `json:"accountType" binding:"required,oneof=BANK_ACCOUNT CREDIT_CARD INVESTMENT_ACCOUNT"`
	Description    string             `json:"description"`
	InitialBalance decimal.Decimal    `json:"initialBalance"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Balances are never updatable through this path; only the ledger engine
// writes current_balance.
type UpdateAccountRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID      string             `json:"accountID"`
	Name           string             `json:"name"`
	AccountType    domain.AccountType `json:"accountType"`
	Description    string             `json:"description"`
	InitialBalance decimal.Decimal    `json:"initialBalance"`
	CurrentBalance decimal.Decimal    `json:"currentBalance"`
	IsActive       bool               `json:"isActive"`
	CreatedAt      time.Time          `json:"createdAt"`
	LastUpdatedAt  time.Time          `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      acc.AccountID,
		Name:           acc.Name,
		AccountType:    acc.AccountType,
		Description:    acc.Description,
		InitialBalance: acc.InitialBalance,
		CurrentBalance: acc.CurrentBalance,
		IsActive:       acc.IsActive,
		CreatedAt:      acc.CreatedAt,
		LastUpdatedAt:  acc.LastUpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to response DTOs.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// BalanceVerificationResponse reports the outcome of the ledger invariant
// check for one account: current_balance must equal initial_balance plus the
// sum of all ledger entry changes.
type BalanceVerificationResponse struct {
	AccountID       string          `json:"accountID"`
	InitialBalance  decimal.Decimal `json:"initialBalance"`
	LedgerSum       decimal.Decimal `json:"ledgerSum"`
	ExpectedBalance decimal.Decimal `json:"expectedBalance"`
	CurrentBalance  decimal.Decimal `json:"currentBalance"`
	Consistent      bool            `json:"consistent"`
}
