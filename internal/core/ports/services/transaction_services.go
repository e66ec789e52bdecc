package services

import (
	"context"

	"github.com/fintrack/fintrack_backend/internal/core/domain"
	"github.com/fintrack/fintrack_backend/internal/dto"
)

// TransactionSvcFacade is the lifecycle coordinator for money-moving state:
// the only supported entry point for creating, editing, and deleting
// transactions, guaranteeing transaction rows and ledger state never diverge.
type TransactionSvcFacade interface {
	CreateTransaction(ctx context.Context, ownerID string, req dto.CreateTransactionRequest) (*domain.Transaction, error)
	GetTransactionByID(ctx context.Context, ownerID string, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, ownerID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
	UpdateTransaction(ctx context.Context, ownerID string, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, ownerID string, transactionID string) error
}
