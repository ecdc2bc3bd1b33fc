// Package ledger keeps route customers, their delivery orders and the
// running balance each customer owes.
//
// Every operation takes an explicit context and runs against the *gorm.DB
// handle given to New. A customer's balance is written in exactly one
// place, UpdateOrder, inside the same transaction that writes the order.
package ledger

import (
	"time"

	"route-ledger/internal/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultMaxRetries = 3

type Ledger struct {
	db         *gorm.DB
	log        *zap.Logger
	now        func() time.Time
	loc        *time.Location
	maxRetries int
}

type Option func(*Ledger)

// WithClock replaces time.Now; tests pin "today" with it.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithLocation sets the zone in which the current date is computed.
func WithLocation(loc *time.Location) Option {
	return func(l *Ledger) {
		if loc != nil {
			l.loc = loc
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(l *Ledger) {
		if log != nil {
			l.log = log
		}
	}
}

// WithMaxRetries bounds how often a transaction that lost a serialization
// race is replayed before the caller gets ErrConflict.
func WithMaxRetries(n int) Option {
	return func(l *Ledger) {
		if n >= 0 {
			l.maxRetries = n
		}
	}
}

func New(db *gorm.DB, opts ...Option) *Ledger {
	l := &Ledger{
		db:         db,
		log:        zap.NewNop(),
		now:        time.Now,
		loc:        time.Local,
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Today is the current calendar day in the ledger's zone. Only orders
// delivered today may be created or changed.
func (l *Ledger) Today() types.Date {
	return types.DateOf(l.now().In(l.loc))
}
