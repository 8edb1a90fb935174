package postgresql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/employee-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// WithTransaction runs fn in a transaction that commits only if fn returns
// nil. Rollback ignores cancellation of ctx so a cancelled request never
// leaves the connection mid-transaction. A panic in fn rolls back and is
// re-raised.
func WithTransaction(ctx context.Context, db *database.DB, fn func(tx pgx.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	rollback := func() error {
		rbErr := tx.Rollback(context.WithoutCancel(ctx))
		if errors.Is(rbErr, pgx.ErrTxClosed) {
			return nil
		}
		return rbErr
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := rollback(); rbErr != nil {
				slog.Error("rollback failed after panic", "error", rbErr)
			}
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
