package domain

// CategoryKind tells what sort of transactions a category classifies.
type CategoryKind string

const (
	IncomeCategory     CategoryKind = "INCOME"
	ExpenseCategory    CategoryKind = "EXPENSE"
	InvestmentCategory CategoryKind = "INVESTMENT"
)

// IsValid reports whether k is one of the known category kinds.
func (k CategoryKind) IsValid() bool {
	switch k {
	case IncomeCategory, ExpenseCategory, InvestmentCategory:
		return true
	}
	return false
}

// Category labels transactions for budgeting and investment tracking.
type Category struct {
	CategoryID string       `json:"categoryID"` // Primary Key (UUID)
	OwnerID    string       `json:"ownerID"`
	Name       string       `json:"name"`
	Kind       CategoryKind `json:"kind"`
	AuditFields
}
