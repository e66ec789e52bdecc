package mapping

import (
	"github.com/fintrack/fintrack_backend/internal/core/domain"
	"github.com/fintrack/fintrack_backend/internal/models"
)

// ToModelTransaction converts a domain.Transaction to its DB model.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:        d.TransactionID,
		OwnerID:              d.OwnerID,
		TransactionType:      models.TransactionType(d.TransactionType),
		Amount:               d.Amount,
		TransactionDate:      d.TransactionDate,
		Description:          d.Description,
		AccountID:            d.AccountID,
		CategoryID:           d.CategoryID,
		FromAccountID:        d.FromAccountID,
		ToAccountID:          d.ToAccountID,
		InvestmentCategoryID: d.InvestmentCategoryID,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a DB model transaction to its domain form.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:        m.TransactionID,
		OwnerID:              m.OwnerID,
		TransactionType:      domain.TransactionType(m.TransactionType),
		Amount:               m.Amount,
		TransactionDate:      m.TransactionDate,
		Description:          m.Description,
		AccountID:            m.AccountID,
		CategoryID:           m.CategoryID,
		FromAccountID:        m.FromAccountID,
		ToAccountID:          m.ToAccountID,
		InvestmentCategoryID: m.InvestmentCategoryID,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}
