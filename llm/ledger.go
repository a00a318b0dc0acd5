package llm

import (
	"context"
	"log/slog"
	"sync"

	"github.com/poiesic/relevit/core"
	"github.com/poiesic/relevit/storage"
)

// Ledger gates language model calls against the monthly budget.
//
// The check-then-spend race is closed by reservations: Authorize
// reserves a call's estimated maximum cost under the ledger lock, and
// Commit/Release settle the reservation when the call finishes. Two
// concurrent calls can therefore never both pass the check against
// the same remaining budget.
type Ledger struct {
	store  storage.UsageStore
	logger *slog.Logger

	mu      sync.Mutex
	pending float64
}

// Reservation holds one in-flight call's share of the budget.
type Reservation struct {
	estimated float64
	settled   bool
}

// LedgerOption configures a Ledger.
type LedgerOption func(*Ledger) error

// WithLedgerLogger sets a custom logger.
// Default is slog.Default().
func WithLedgerLogger(logger *slog.Logger) LedgerOption {
	return func(l *Ledger) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger.With("component", "budget-ledger")
		return nil
	}
}

// NewLedger creates a ledger over a usage store.
func NewLedger(store storage.UsageStore, opts ...LedgerOption) (*Ledger, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	l := &Ledger{
		store:  store,
		logger: slog.Default().With("component", "budget-ledger"),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Authorize reserves estimated dollars of budget for one call.
// Returns BudgetExceededError when spend plus in-flight reservations
// plus the estimate would pass the monthly limit.
func (l *Ledger) Authorize(ctx context.Context, estimated float64) (*Reservation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	state, err := l.store.GetBudgetState(ctx)
	if err != nil {
		return nil, err
	}

	if state.SpentToDate+l.pending+estimated > state.MonthlyLimit {
		l.logger.Warn("budget check failed",
			"spent", state.SpentToDate, "pending", l.pending,
			"estimated", estimated, "limit", state.MonthlyLimit)
		return nil, &BudgetExceededError{
			Limit:     state.MonthlyLimit,
			Spent:     state.SpentToDate,
			Estimated: estimated,
		}
	}

	l.pending += estimated
	return &Reservation{estimated: estimated}, nil
}

// Commit settles a reservation with the call's actual cost: appends
// the usage record and atomically adds the cost to the period spend.
// Storage failures are logged, not returned; the provider call
// already succeeded and its result belongs to the caller.
func (l *Ledger) Commit(ctx context.Context, res *Reservation, record *core.UsageRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if res.settled {
		return
	}
	res.settled = true
	l.pending -= res.estimated

	if _, err := l.store.RecordUsage(ctx, record); err != nil {
		l.logger.Error("failed to record usage", "provider", record.Provider, "err", err)
	}
	if _, err := l.store.UpdateBudgetState(ctx, record.Cost); err != nil {
		l.logger.Error("failed to update budget state", "cost", record.Cost, "err", err)
	}
}

// Release abandons a reservation without charging the budget. Used
// when a call failed or was cancelled before returning usage data.
func (l *Ledger) Release(res *Reservation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if res.settled {
		return
	}
	res.settled = true
	l.pending -= res.estimated
}

// State returns the current period's budget state.
func (l *Ledger) State(ctx context.Context) (*core.BudgetState, error) {
	return l.store.GetBudgetState(ctx)
}
