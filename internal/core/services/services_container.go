package services

import (
	portsrepo "github.com/fintrack/fintrack_backend/internal/core/ports/repositories"
	portssvc "github.com/fintrack/fintrack_backend/internal/core/ports/services"
	"github.com/fintrack/fintrack_backend/pkg/config"
)

// NewServiceContainer creates a new service container with properly wired
// dependencies. The ledger engine is constructed once and shared by the
// lifecycle coordinator; nothing else writes balances.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	engine := NewLedgerEngine(repos.AccountRepo, repos.LedgerRepo)

	container.Account = NewAccountService(repos.AccountRepo, repos.LedgerRepo)
	container.Category = NewCategoryService(repos.CategoryRepo)
	container.Ledger = NewLedgerService(repos.AccountRepo, repos.LedgerRepo)
	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.LedgerRepo, engine, cfg.LedgerRetainOnDelete)

	return container
}
