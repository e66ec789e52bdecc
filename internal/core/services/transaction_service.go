package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fintrack/fintrack_backend/internal/apperrors"
	"github.com/fintrack/fintrack_backend/internal/core/domain"
	portsrepo "github.com/fintrack/fintrack_backend/internal/core/ports/repositories"
	portssvc "github.com/fintrack/fintrack_backend/internal/core/ports/services"
	"github.com/fintrack/fintrack_backend/internal/dto"
	"github.com/fintrack/fintrack_backend/internal/middleware"
)

// transactionService is the lifecycle coordinator: the sole orchestration
// point for create/update/delete of money-moving transactions. Every
// multi-write unit (row mutation plus ledger effects) runs inside a single
// database transaction so balances and ledger rows never diverge.
type transactionService struct {
	txnRepo    portsrepo.TransactionRepositoryWithTx
	ledgerRepo portsrepo.LedgerRepository
	engine     portssvc.LedgerEngineFacade

	// retainLedgerOnDelete selects the retention policy for audit rows when
	// their owning transaction is deleted: true detaches them (transaction_id
	// set NULL, rows kept), false cascade-deletes them.
	retainLedgerOnDelete bool
}

// NewTransactionService creates the lifecycle coordinator.
func NewTransactionService(txnRepo portsrepo.TransactionRepositoryWithTx, ledgerRepo portsrepo.LedgerRepository, engine portssvc.LedgerEngineFacade, retainLedgerOnDelete bool) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo:              txnRepo,
		ledgerRepo:           ledgerRepo,
		engine:               engine,
		retainLedgerOnDelete: retainLedgerOnDelete,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// CreateTransaction validates the payload shape, persists the transaction row
// and applies its ledger effects atomically. Zero amounts go through the same
// apply path and produce zero-effect ledger entries for audit completeness.
func (s *transactionService) CreateTransaction(ctx context.Context, ownerID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID:        uuid.NewString(),
		OwnerID:              ownerID,
		TransactionType:      req.TransactionType,
		Amount:               req.Amount,
		TransactionDate:      req.TransactionDate,
		Description:          req.Description,
		AccountID:            req.AccountID,
		CategoryID:           req.CategoryID,
		FromAccountID:        req.FromAccountID,
		ToAccountID:          req.ToAccountID,
		InvestmentCategoryID: req.InvestmentCategoryID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}

	if err := txn.ValidateShape(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	err := s.withTx(ctx, func(tx pgx.Tx) error {
		if err := s.txnRepo.SaveTransaction(ctx, tx, txn); err != nil {
			return fmt.Errorf("failed to save transaction: %w", err)
		}
		if _, err := s.engine.Apply(ctx, tx, txn); err != nil {
			return fmt.Errorf("failed to apply ledger effects: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to create transaction", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Transaction created", slog.String("transaction_id", txn.TransactionID), slog.String("type", string(txn.TransactionType)))
	return &txn, nil
}

// GetTransactionByID retrieves a transaction scoped to its owner.
func (s *transactionService) GetTransactionByID(ctx context.Context, ownerID string, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, ownerID, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

// ListTransactions retrieves a token-paginated list of the owner's transactions.
func (s *transactionService) ListTransactions(ctx context.Context, ownerID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	txns, nextToken, err := s.txnRepo.ListTransactionsByOwner(ctx, ownerID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list transactions", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

// UpdateTransaction edits a transaction. Edits that change amount, type, or
// account references are always full reverse-then-reapply — never deltas
// against deltas, since the account identity (and thus polarity target) may
// itself change. Metadata-only edits skip ledger work entirely.
func (s *transactionService) UpdateTransaction(ctx context.Context, ownerID string, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.txnRepo.FindTransactionByID(ctx, ownerID, transactionID)
	if err != nil {
		return nil, err
	}

	updated := overlayUpdate(*existing, req)
	updated.LastUpdatedAt = time.Now().UTC()
	updated.LastUpdatedBy = ownerID

	if err := updated.ValidateShape(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	needsLedgerRework := existing.LedgerFieldsChanged(updated)

	err = s.withTx(ctx, func(tx pgx.Tx) error {
		if needsLedgerRework {
			// Strict order: reverse old effects, persist new values, apply new
			// effects. Reversal uses the OLD transaction values.
			if _, err := s.engine.Reverse(ctx, tx, *existing); err != nil {
				return fmt.Errorf("failed to reverse prior ledger effects: %w", err)
			}
		}
		if err := s.txnRepo.UpdateTransaction(ctx, tx, updated); err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}
		if needsLedgerRework {
			if _, err := s.engine.Apply(ctx, tx, updated); err != nil {
				return fmt.Errorf("failed to apply new ledger effects: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to update transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, err
	}

	logger.Info("Transaction updated", slog.String("transaction_id", transactionID), slog.Bool("ledger_rework", needsLedgerRework))
	return &updated, nil
}

// DeleteTransaction reverses the transaction's ledger effects and removes the
// row. Account balances return to their pre-transaction values; audit entries
// are detached or cascade-deleted per the configured retention policy.
func (s *transactionService) DeleteTransaction(ctx context.Context, ownerID string, transactionID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.txnRepo.FindTransactionByID(ctx, ownerID, transactionID)
	if err != nil {
		return err
	}

	err = s.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := s.engine.Reverse(ctx, tx, *existing); err != nil {
			return fmt.Errorf("failed to reverse ledger effects: %w", err)
		}
		// The reversal entries net out the originals, so either policy leaves
		// the balance invariant intact.
		if s.retainLedgerOnDelete {
			if err := s.ledgerRepo.DetachEntriesForTransaction(ctx, tx, transactionID); err != nil {
				return fmt.Errorf("failed to detach ledger entries: %w", err)
			}
		} else {
			if err := s.ledgerRepo.DeleteEntriesForTransaction(ctx, tx, transactionID); err != nil {
				return fmt.Errorf("failed to delete ledger entries: %w", err)
			}
		}
		if err := s.txnRepo.DeleteTransaction(ctx, tx, transactionID); err != nil {
			return fmt.Errorf("failed to delete transaction row: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to delete transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return err
	}

	logger.Info("Transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}

// withTx runs fn inside a database transaction with guaranteed
// commit-or-rollback on all exit paths. A partial-application error from fn is
// propagated as-is so it stays distinguishable after the rollback.
func (s *transactionService) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.txnRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.txnRepo.Rollback(ctx, tx) //nolint:errcheck // no-op after successful commit

	if err := fn(tx); err != nil {
		if rbErr := s.txnRepo.Rollback(ctx, tx); rbErr != nil && errors.Is(err, apperrors.ErrPartialApplication) {
			// Rollback failed after a partial application: balances may now
			// genuinely disagree with the ledger until reconciled.
			middleware.GetLoggerFromCtx(ctx).Error("Rollback failed after partial application; manual reconciliation required",
				slog.String("rollback_error", rbErr.Error()),
				slog.String("error", err.Error()),
			)
		}
		return err
	}

	return s.txnRepo.Commit(ctx, tx)
}

// overlayUpdate builds the updated transaction from the existing values and
// the provided fields. When the resulting type is a transfer, single-account
// references are cleared, and vice versa, so a shape switch cannot leave stale
// references from the old shape behind.
func overlayUpdate(existing domain.Transaction, req dto.UpdateTransactionRequest) domain.Transaction {
	updated := existing

	if req.TransactionType != nil {
		updated.TransactionType = *req.TransactionType
	}
	if req.Amount != nil {
		updated.Amount = *req.Amount
	}
	if req.TransactionDate != nil {
		updated.TransactionDate = *req.TransactionDate
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.AccountID != nil {
		updated.AccountID = *req.AccountID
	}
	if req.CategoryID != nil {
		updated.CategoryID = *req.CategoryID
	}
	if req.FromAccountID != nil {
		updated.FromAccountID = *req.FromAccountID
	}
	if req.ToAccountID != nil {
		updated.ToAccountID = *req.ToAccountID
	}
	if req.InvestmentCategoryID != nil {
		updated.InvestmentCategoryID = *req.InvestmentCategoryID
	}

	switch updated.TransactionType {
	case domain.Transfer:
		updated.AccountID = ""
		updated.CategoryID = ""
	case domain.Income, domain.Expense:
		updated.FromAccountID = ""
		updated.ToAccountID = ""
		updated.InvestmentCategoryID = ""
	}

	return updated
}
