package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/phrazzld/estate-api/internal/platform/logger"
)

// TxBeginner starts transactions. *sql.DB satisfies it.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// TxFn is a function that executes within a database transaction.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTransaction runs fn inside a transaction, committing when fn returns
// nil and rolling back otherwise. A panic in fn rolls back and re-panics.
// Begin, rollback and commit failures wrap ErrTransactionFailed.
func RunInTransaction(ctx context.Context, db TxBeginner, fn TxFn) (err error) {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.ErrorContext(ctx, "failed to begin transaction", "error", err)
		return fmt.Errorf("%w: begin: %w", ErrTransactionFailed, err)
	}

	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			log.ErrorContext(ctx, "failed to roll back transaction after panic",
				"error", rbErr, "panic", p)
		} else {
			log.ErrorContext(ctx, "rolled back transaction after panic", "panic", p)
		}
		// ALLOW-PANIC: propagating a panic raised inside fn
		panic(p)
	}()

	if err = fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.ErrorContext(ctx, "failed to roll back transaction",
				"rollback_error", rbErr, "original_error", err)
			return errors.Join(err, fmt.Errorf("%w: rollback: %w", ErrTransactionFailed, rbErr))
		}
		log.DebugContext(ctx, "rolled back transaction", "error", err)
		return err
	}

	if err = tx.Commit(); err != nil {
		log.ErrorContext(ctx, "failed to commit transaction", "error", err)
		return fmt.Errorf("%w: commit: %w", ErrTransactionFailed, err)
	}
	return nil
}
