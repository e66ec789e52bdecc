package domain_test

import (
	"testing"

	"github.com/fintrack/fintrack_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransaction_ValidateShape(t *testing.T) {
	tests := []struct {
		name        string
		transaction domain.Transaction
		wantErr     error
	}{
		{
			name: "valid expense",
			transaction: domain.Transaction{
				TransactionType: domain.Expense,
				Amount:          decimal.NewFromInt(10),
				AccountID:       "acc-1",
				CategoryID:      "cat-1",
			},
			wantErr: nil,
		},
		{
			name: "valid income",
			transaction: domain.Transaction{
				TransactionType: domain.Income,
				Amount:          decimal.NewFromInt(10),
				AccountID:       "acc-1",
				CategoryID:      "cat-1",
			},
			wantErr: nil,
		},
		{
			name: "valid transfer",
			transaction: domain.Transaction{
				TransactionType: domain.Transfer,
				Amount:          decimal.NewFromInt(10),
				FromAccountID:   "acc-1",
				ToAccountID:     "acc-2",
			},
			wantErr: nil,
		},
		{
			name: "expense missing account",
			transaction: domain.Transaction{
				TransactionType: domain.Expense,
				CategoryID:      "cat-1",
			},
			wantErr: domain.ErrInvalidShape,
		},
		{
			name: "income missing category",
			transaction: domain.Transaction{
				TransactionType: domain.Income,
				AccountID:       "acc-1",
			},
			wantErr: domain.ErrInvalidShape,
		},
		{
			name: "expense carrying transfer accounts",
			transaction: domain.Transaction{
				TransactionType: domain.Expense,
				AccountID:       "acc-1",
				CategoryID:      "cat-1",
				FromAccountID:   "acc-2",
			},
			wantErr: domain.ErrInvalidShape,
		},
		{
			name: "transfer missing destination",
			transaction: domain.Transaction{
				TransactionType: domain.Transfer,
				FromAccountID:   "acc-1",
			},
			wantErr: domain.ErrInvalidShape,
		},
		{
			name: "transfer to same account",
			transaction: domain.Transaction{
				TransactionType: domain.Transfer,
				FromAccountID:   "acc-1",
				ToAccountID:     "acc-1",
			},
			wantErr: domain.ErrInvalidShape,
		},
		{
			name: "transfer carrying single-account reference",
			transaction: domain.Transaction{
				TransactionType: domain.Transfer,
				FromAccountID:   "acc-1",
				ToAccountID:     "acc-2",
				CategoryID:      "cat-1",
			},
			wantErr: domain.ErrInvalidShape,
		},
		{
			name: "unknown type",
			transaction: domain.Transaction{
				TransactionType: "LOAN",
			},
			wantErr: domain.ErrUnknownTransactionType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.transaction.ValidateShape()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestTransaction_LedgerFieldsChanged(t *testing.T) {
	base := domain.Transaction{
		TransactionType: domain.Expense,
		Amount:          decimal.NewFromInt(40),
		AccountID:       "acc-1",
		CategoryID:      "cat-1",
		Description:     "groceries",
	}

	t.Run("metadata edits do not require ledger rework", func(t *testing.T) {
		updated := base
		updated.Description = "weekly groceries"
		updated.CategoryID = "cat-2"
		assert.False(t, base.LedgerFieldsChanged(updated))
	})

	t.Run("amount change requires rework", func(t *testing.T) {
		updated := base
		updated.Amount = decimal.NewFromInt(45)
		assert.True(t, base.LedgerFieldsChanged(updated))
	})

	t.Run("equal amount with different scale does not", func(t *testing.T) {
		updated := base
		updated.Amount = decimal.RequireFromString("40.00")
		assert.False(t, base.LedgerFieldsChanged(updated))
	})

	t.Run("account re-pointing requires rework", func(t *testing.T) {
		updated := base
		updated.AccountID = "acc-2"
		assert.True(t, base.LedgerFieldsChanged(updated))
	})

	t.Run("type change requires rework", func(t *testing.T) {
		updated := base
		updated.TransactionType = domain.Income
		assert.True(t, base.LedgerFieldsChanged(updated))
	})
}
