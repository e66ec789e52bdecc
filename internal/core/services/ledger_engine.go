package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fintrack/fintrack_backend/internal/apperrors"
	"github.com/fintrack/fintrack_backend/internal/core/domain"
	portsrepo "github.com/fintrack/fintrack_backend/internal/core/ports/repositories"
	portssvc "github.com/fintrack/fintrack_backend/internal/core/ports/services"
	"github.com/fintrack/fintrack_backend/internal/middleware"
)

// ledgerEngine applies signed balance deltas to accounts and appends the
// matching audit entries. It is stateless; all persistence goes through the
// injected repositories and the caller's database transaction.
type ledgerEngine struct {
	accountRepo portsrepo.AccountRepository
	ledgerRepo  portsrepo.LedgerRepository
}

// NewLedgerEngine creates a new ledger engine.
func NewLedgerEngine(accountRepo portsrepo.AccountRepository, ledgerRepo portsrepo.LedgerRepository) portssvc.LedgerEngineFacade {
	return &ledgerEngine{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
	}
}

var _ portssvc.LedgerEngineFacade = (*ledgerEngine)(nil)

// ComputeEffects translates a transaction into its signed balance deltas.
//
// The sign convention is deliberate and uniform across every account type:
// an expense ADDS its amount to the referenced account's balance and an income
// SUBTRACTS it. Credit cards are the clearest reading (expense grows the debt,
// a payment shrinks it); bank and investment accounts follow the very same
// convention so that stored history keeps its meaning. Do not "correct" this.
//
// Transfers subtract from the source and add to the destination, so a transfer
// from a credit card is a cash advance (debt up) and a transfer to it is a
// payment (debt down).
//
// Amounts are taken at face value: a zero amount yields a zero delta and a
// negative expense (refund) decreases the balance.
func ComputeEffects(txn domain.Transaction) ([]domain.BalanceEffect, error) {
	switch txn.TransactionType {
	case domain.Expense:
		return []domain.BalanceEffect{
			{AccountID: txn.AccountID, Delta: txn.Amount},
		}, nil
	case domain.Income:
		return []domain.BalanceEffect{
			{AccountID: txn.AccountID, Delta: txn.Amount.Neg()},
		}, nil
	case domain.Transfer:
		return []domain.BalanceEffect{
			{AccountID: txn.FromAccountID, Delta: txn.Amount.Neg()},
			{AccountID: txn.ToAccountID, Delta: txn.Amount},
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTransactionType, txn.TransactionType)
	}
}

// NegateEffects returns the exact inverse of the given effects, preserving
// their order.
func NegateEffects(effects []domain.BalanceEffect) []domain.BalanceEffect {
	negated := make([]domain.BalanceEffect, len(effects))
	for i, eff := range effects {
		negated[i] = domain.BalanceEffect{AccountID: eff.AccountID, Delta: eff.Delta.Neg()}
	}
	return negated
}

// Apply computes the transaction's balance deltas and applies them within tx.
// Each effect is one in-place arithmetic balance update plus one ledger entry
// append; zero-amount transactions still produce a zero-change entry so the
// audit trail shows the event occurred.
func (e *ledgerEngine) Apply(ctx context.Context, tx pgx.Tx, txn domain.Transaction) ([]domain.LedgerEntry, error) {
	effects, err := ComputeEffects(txn)
	if err != nil {
		return nil, err
	}
	return e.applyEffects(ctx, tx, txn.TransactionID, effects)
}

// Reverse applies the exact negation of what Apply computed for the same
// transaction values. Reversal is a forward-dated ledger event: it appends new
// entries rather than editing history.
func (e *ledgerEngine) Reverse(ctx context.Context, tx pgx.Tx, txn domain.Transaction) ([]domain.LedgerEntry, error) {
	effects, err := ComputeEffects(txn)
	if err != nil {
		return nil, err
	}
	return e.applyEffects(ctx, tx, txn.TransactionID, NegateEffects(effects))
}

// applyEffects runs the effects in their fixed order. Once the first balance
// write has gone through, any later failure is reported as a partial
// application carrying every applied delta, so the coordinator can roll back
// and operators can reconcile if the rollback itself fails.
func (e *ledgerEngine) applyEffects(ctx context.Context, tx pgx.Tx, transactionID string, effects []domain.BalanceEffect) ([]domain.LedgerEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entries := make([]domain.LedgerEntry, 0, len(effects))
	applied := make([]apperrors.EffectDetail, 0, len(effects))

	for _, eff := range effects {
		newBalance, err := e.accountRepo.ApplyBalanceDelta(ctx, tx, eff.AccountID, eff.Delta)
		if err != nil {
			return nil, e.wrapEffectFailure(logger, transactionID, applied, eff,
				fmt.Errorf("failed to apply balance delta to account %s: %w", eff.AccountID, err))
		}

		entry := domain.LedgerEntry{
			EntryID:       uuid.NewString(),
			AccountID:     eff.AccountID,
			TransactionID: &transactionID,
			BalanceBefore: newBalance.Sub(eff.Delta),
			BalanceAfter:  newBalance,
			ChangeAmount:  eff.Delta,
			CreatedAt:     time.Now().UTC(),
		}
		if err := e.ledgerRepo.AppendEntry(ctx, tx, entry); err != nil {
			// The balance write for this effect already happened, so this is
			// partial even when it is the first effect.
			applied = append(applied, apperrors.EffectDetail{AccountID: eff.AccountID, Delta: eff.Delta.String()})
			return nil, e.wrapEffectFailure(logger, transactionID, applied, eff,
				fmt.Errorf("failed to append ledger entry for account %s: %w", eff.AccountID, err))
		}

		applied = append(applied, apperrors.EffectDetail{AccountID: eff.AccountID, Delta: eff.Delta.String()})
		entries = append(entries, entry)
	}

	return entries, nil
}

func (e *ledgerEngine) wrapEffectFailure(logger *slog.Logger, transactionID string, applied []apperrors.EffectDetail, failed domain.BalanceEffect, cause error) error {
	if len(applied) == 0 {
		// Nothing was written yet; an ordinary error suffices.
		return cause
	}
	partial := &apperrors.PartialApplicationError{
		TransactionID: transactionID,
		Applied:       applied,
		Failed:        apperrors.EffectDetail{AccountID: failed.AccountID, Delta: failed.Delta.String()},
		Err:           cause,
	}
	logger.Error("Partial application of balance changes",
		slog.String("transaction_id", transactionID),
		slog.Int("applied_effects", len(applied)),
		slog.String("failed_account_id", failed.AccountID),
		slog.String("error", cause.Error()),
	)
	return partial
}
