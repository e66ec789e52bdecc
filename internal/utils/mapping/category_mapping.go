package mapping

import (
	"github.com/fintrack/fintrack_backend/internal/core/domain"
	"github.com/fintrack/fintrack_backend/internal/models"
)

// ToModelCategory converts a domain.Category to its DB model.
func ToModelCategory(d domain.Category) models.Category {
	return models.Category{
		CategoryID:  d.CategoryID,
		OwnerID:     d.OwnerID,
		Name:        d.Name,
		Kind:        models.CategoryKind(d.Kind),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCategory converts a DB model category to its domain form.
func ToDomainCategory(m models.Category) domain.Category {
	return domain.Category{
		CategoryID:  m.CategoryID,
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		Kind:        domain.CategoryKind(m.Kind),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
