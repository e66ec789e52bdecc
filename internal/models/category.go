package models

// CategoryKind classifies a category at the storage layer.
type CategoryKind string

const (
	IncomeCategory     CategoryKind = "INCOME"
	ExpenseCategory    CategoryKind = "EXPENSE"
	InvestmentCategory CategoryKind = "INVESTMENT"
)

// Category is the DB representation of a transaction category.
type Category struct {
	CategoryID string       `db:"category_id"`
	OwnerID    string       `db:"owner_id"`
	Name       string       `db:"name"`
	Kind       CategoryKind `db:"kind"`
	AuditFields
}
