package mapping

import (
	"github.com/fintrack/fintrack_backend/internal/core/domain"
	"github.com/fintrack/fintrack_backend/internal/models"
)

// ToModelAccount converts a domain.Account to its DB model.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		OwnerID:        d.OwnerID,
		Name:           d.Name,
		AccountType:    models.AccountType(d.AccountType),
		Description:    d.Description,
		InitialBalance: d.InitialBalance,
		CurrentBalance: d.CurrentBalance,
		IsActive:       d.IsActive,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a DB model account to its domain form.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:      m.AccountID,
		OwnerID:        m.OwnerID,
		Name:           m.Name,
		AccountType:    domain.AccountType(m.AccountType),
		Description:    m.Description,
		InitialBalance: m.InitialBalance,
		CurrentBalance: m.CurrentBalance,
		IsActive:       m.IsActive,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
