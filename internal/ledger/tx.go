package ledger

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// inTx runs fn in a single transaction. Any error from fn rolls the whole
// transaction back. Serialization failures and deadlocks are replayed up to
// maxRetries times and then reported as ErrConflict; every other failure is
// returned as it is.
func (l *Ledger) inTx(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	for attempt := 0; ; attempt++ {
		err := l.db.WithContext(ctx).Transaction(fn)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return storageErr(op, err)
		}
		if attempt >= l.maxRetries {
			l.log.Warn("transaction gave up after concurrent updates",
				zap.String("op", op), zap.Int("attempts", attempt+1), zap.Error(err))
			return fmt.Errorf("%w: %s: concurrent update, try again", ErrConflict, op)
		}
		l.log.Debug("retrying transaction",
			zap.String("op", op), zap.Int("attempt", attempt+1), zap.Error(err))
	}
}

// forUpdate locks the selected rows until the transaction ends.
func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
