package dto

import (
	"time"

	"github.com/fintrack/fintrack_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to record a transaction.
// Amount deliberately has no positivity constraint: zero amounts produce a
// zero-effect ledger entry and negative amounts are taken at face value.
type CreateTransactionRequest struct {
	TransactionType      domain.TransactionType `json:"transactionType" binding:"required,oneof=INCOME EXPENSE TRANSFER"`
	Amount               decimal.Decimal        `json:"amount"`
	TransactionDate      time.Time              `json:"transactionDate" binding:"required"`
	Description          string                 `json:"description"`
	AccountID            string                 `json:"accountID"`
	CategoryID           string                 `json:"categoryID"`
	FromAccountID        string                 `json:"fromAccountID"`
	ToAccountID          string                 `json:"toAccountID"`
	InvestmentCategoryID string                 `json:"investmentCategoryID"`
}

// UpdateTransactionRequest defines the data allowed for updating a
// transaction. Pointers distinguish "not provided" from zero values. When the
// update touches amount, type, or account references, the old ledger effects
// are reversed and the new effects applied; metadata-only updates leave the
// ledger untouched.
type UpdateTransactionRequest struct {
	TransactionType      *domain.TransactionType `json:"transactionType" binding:"omitempty,oneof=INCOME EXPENSE TRANSFER"`
	Amount               *decimal.Decimal        `json:"amount"`
	TransactionDate      *time.Time              `json:"transactionDate"`
	Description          *string                 `json:"description"`
	AccountID            *string                 `json:"accountID"`
	CategoryID           *string                 `json:"categoryID"`
	FromAccountID        *string                 `json:"fromAccountID"`
	ToAccountID          *string                 `json:"toAccountID"`
	InvestmentCategoryID *string                 `json:"investmentCategoryID"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID        string                 `json:"transactionID"`
	TransactionType      domain.TransactionType `json:"transactionType"`
	Amount               decimal.Decimal        `json:"amount"`
	TransactionDate      time.Time              `json:"transactionDate"`
	Description          string                 `json:"description,omitempty"`
	AccountID            string                 `json:"accountID,omitempty"`
	CategoryID           string                 `json:"categoryID,omitempty"`
	FromAccountID        string                 `json:"fromAccountID,omitempty"`
	ToAccountID          string                 `json:"toAccountID,omitempty"`
	InvestmentCategoryID string                 `json:"investmentCategoryID,omitempty"`
	CreatedAt            time.Time              `json:"createdAt"`
	LastUpdatedAt        time.Time              `json:"lastUpdatedAt"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:        txn.TransactionID,
		TransactionType:      txn.TransactionType,
		Amount:               txn.Amount,
		TransactionDate:      txn.TransactionDate,
		Description:          txn.Description,
		AccountID:            txn.AccountID,
		CategoryID:           txn.CategoryID,
		FromAccountID:        txn.FromAccountID,
		ToAccountID:          txn.ToAccountID,
		InvestmentCategoryID: txn.InvestmentCategoryID,
		CreatedAt:            txn.CreatedAt,
		LastUpdatedAt:        txn.LastUpdatedAt,
	}
}

// ToTransactionResponses converts a slice of domain transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
