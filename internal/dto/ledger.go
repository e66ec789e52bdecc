package dto

import (
	"time"

	"github.com/fintrack/fintrack_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerEntryResponse defines the data returned for one audit entry.
type LedgerEntryResponse struct {
	EntryID       string          `json:"entryID"`
	AccountID     string          `json:"accountID"`
	TransactionID *string         `json:"transactionID"`
	BalanceBefore decimal.Decimal `json:"balanceBefore"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`
	ChangeAmount  decimal.Decimal `json:"changeAmount"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to its response DTO.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:       e.EntryID,
		AccountID:     e.AccountID,
		TransactionID: e.TransactionID,
		BalanceBefore: e.BalanceBefore,
		BalanceAfter:  e.BalanceAfter,
		ChangeAmount:  e.ChangeAmount,
		CreatedAt:     e.CreatedAt,
	}
}

// ToLedgerEntryResponses converts a slice of domain ledger entries.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	res := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		res[i] = ToLedgerEntryResponse(&entries[i])
	}
	return res
}

// ListLedgerEntriesParams defines query parameters for listing ledger entries.
type ListLedgerEntriesParams struct {
	Limit     int     `form:"limit,default=50"`
	NextToken *string `form:"nextToken"`
}

// ListLedgerEntriesResponse wraps a page of ledger entries, ordered by
// creation time ascending so consecutive entries form the balance chain.
type ListLedgerEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}
