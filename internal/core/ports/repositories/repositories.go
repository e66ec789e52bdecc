package repositories

// RepositoryProvider bundles all repository implementations for injection
// into the service layer.
type RepositoryProvider struct {
	AccountRepo     AccountRepository
	TransactionRepo TransactionRepositoryWithTx
	LedgerRepo      LedgerRepository
	CategoryRepo    CategoryRepository
}
