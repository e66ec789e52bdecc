package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TxManager exposes database transaction control. Multi-row units of work
// (transfer effects, reverse+reapply sequences) must run inside a single
// transaction so balances and ledger rows never diverge.
type TxManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, tx pgx.Tx) error
	Rollback(ctx context.Context, tx pgx.Tx) error
}
