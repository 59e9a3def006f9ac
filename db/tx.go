package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrConcurrentModification reports a commit-time conflict detected by the
// storage layer. The caller decides whether to retry.
var ErrConcurrentModification = errors.New("concurrent modification detected")

// WithinTx runs fn inside a transaction: commit on nil error, rollback
// otherwise. Serialization failures and deadlocks surface as
// ErrConcurrentModification.
func WithinTx(ctx context.Context, database *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction processing error: %w (rollback also failed: %v)", err, rbErr)
		}
		return mapConflict(err)
	}

	if err := tx.Commit(); err != nil {
		return mapConflict(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

func mapConflict(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// serialization_failure, deadlock_detected
		if pqErr.Code == "40001" || pqErr.Code == "40P01" {
			return fmt.Errorf("%w: %v", ErrConcurrentModification, err)
		}
	}
	return err
}
