package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"appointly/shared/failure"
)

type TransactionFunc func(ctx context.Context, tx *sqlx.Tx) error

// ExecuteTransaction runs fn inside a write transaction. It commits when fn returns nil and
// rolls back otherwise. Failures raised by fn are returned unwrapped so their kind survives.
func (c *Connection) ExecuteTransaction(ctx context.Context, fn TransactionFunc) (err error) {
	tx, err := c.Write.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()

			panic(p)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("failed to rollback transaction")
		}

		var fail *failure.Failure
		if errors.As(err, &fail) {
			return err
		}

		return fmt.Errorf("transaction failed: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
