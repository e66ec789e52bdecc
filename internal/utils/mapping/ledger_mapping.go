package mapping

import (
	"github.com/fintrack/fintrack_backend/internal/core/domain"
	"github.com/fintrack/fintrack_backend/internal/models"
)

// ToModelLedgerEntry converts a domain.LedgerEntry to its DB model.
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:       d.EntryID,
		AccountID:     d.AccountID,
		TransactionID: d.TransactionID,
		BalanceBefore: d.BalanceBefore,
		BalanceAfter:  d.BalanceAfter,
		ChangeAmount:  d.ChangeAmount,
		CreatedAt:     d.CreatedAt,
	}
}

// ToDomainLedgerEntry converts a DB model ledger entry to its domain form.
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:       m.EntryID,
		AccountID:     m.AccountID,
		TransactionID: m.TransactionID,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		ChangeAmount:  m.ChangeAmount,
		CreatedAt:     m.CreatedAt,
	}
}
