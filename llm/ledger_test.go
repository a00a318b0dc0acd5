package llm_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/relevit/core"
	"github.com/poiesic/relevit/llm"
	storagemock "github.com/poiesic/relevit/storage/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T, monthlyLimit float64) (*llm.Ledger, *storagemock.MockUsageStore) {
	t.Helper()
	store := storagemock.NewMockUsageStore(monthlyLimit)
	ledger, err := llm.NewLedger(store)
	require.NoError(t, err)
	return ledger, store
}

func TestNewLedgerRequiresStore(t *testing.T) {
	_, err := llm.NewLedger(nil)
	assert.ErrorIs(t, err, llm.ErrStoreRequired)
}

func TestLedgerAuthorizeWithinBudget(t *testing.T) {
	ledger, _ := newTestLedger(t, 10.0)

	res, err := ledger.Authorize(context.Background(), 1.0)
	require.NoError(t, err)
	assert.NotNil(t, res)
}

func TestLedgerRejectsAtLimit(t *testing.T) {
	ledger, store := newTestLedger(t, 10.0)
	store.SetSpent(10.0)

	_, err := ledger.Authorize(context.Background(), 0.01)
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrBudgetExceeded)

	var budgetErr *llm.BudgetExceededError
	require.ErrorAs(t, err, &budgetErr)
	assert.Equal(t, 10.0, budgetErr.Limit)
	assert.Equal(t, 10.0, budgetErr.Spent)
}

func TestLedgerCountsPendingReservations(t *testing.T) {
	ledger, _ := newTestLedger(t, 1.0)

	res, err := ledger.Authorize(context.Background(), 0.8)
	require.NoError(t, err)

	// Spend is still zero, but the reservation holds most of the budget.
	_, err = ledger.Authorize(context.Background(), 0.5)
	assert.ErrorIs(t, err, llm.ErrBudgetExceeded)

	ledger.Release(res)

	_, err = ledger.Authorize(context.Background(), 0.5)
	assert.NoError(t, err)
}

func TestLedgerCommitSettlesSpend(t *testing.T) {
	ledger, store := newTestLedger(t, 10.0)
	ctx := context.Background()

	res, err := ledger.Authorize(ctx, 0.5)
	require.NoError(t, err)

	ledger.Commit(ctx, res, &core.UsageRecord{
		Provider: "openai", Model: "gpt-4o-mini", TaskType: llm.TaskChat,
		TokensIn: 100, TokensOut: 50, Cost: 0.25,
		Timestamp: time.Now().UTC(),
	})

	records := store.Records()
	require.Len(t, records, 1)
	assert.Equal(t, 0.25, records[0].Cost)

	state, err := ledger.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.25, state.SpentToDate)
}

func TestLedgerDoubleSettleIsIdempotent(t *testing.T) {
	ledger, store := newTestLedger(t, 10.0)
	ctx := context.Background()

	res, err := ledger.Authorize(ctx, 0.5)
	require.NoError(t, err)

	ledger.Commit(ctx, res, &core.UsageRecord{
		Provider: "openai", Model: "gpt-4o-mini", TaskType: llm.TaskChat,
		TokensIn: 10, TokensOut: 5, Cost: 0.1,
		Timestamp: time.Now().UTC(),
	})
	ledger.Release(res)
	ledger.Commit(ctx, res, &core.UsageRecord{
		Provider: "openai", Model: "gpt-4o-mini", TaskType: llm.TaskChat,
		TokensIn: 10, TokensOut: 5, Cost: 0.1,
		Timestamp: time.Now().UTC(),
	})

	assert.Len(t, store.Records(), 1)

	// The settled reservation no longer holds budget.
	_, err = ledger.Authorize(ctx, 9.0)
	assert.NoError(t, err)
}

// Concurrent calls must never overspend: with a 1.00 limit and calls
// reserving 0.10 each, at most ten can be admitted no matter the
// interleaving.
func TestLedgerConcurrentCallsNeverOverspend(t *testing.T) {
	ledger, store := newTestLedger(t, 1.0)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := ledger.Authorize(ctx, 0.1)
			if err != nil {
				var budgetErr *llm.BudgetExceededError
				if !errors.As(err, &budgetErr) {
					t.Errorf("unexpected authorize error: %v", err)
				}
				return
			}
			ledger.Commit(ctx, res, &core.UsageRecord{
				Provider: "openai", Model: "gpt-4o-mini", TaskType: llm.TaskChat,
				TokensIn: 10, TokensOut: 5, Cost: 0.1,
				Timestamp: time.Now().UTC(),
			})
			mu.Lock()
			admitted++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, admitted, 10)
	state, err := ledger.State(ctx)
	require.NoError(t, err)
	assert.LessOrEqual(t, state.SpentToDate, 1.0+1e-9)
	assert.Len(t, store.Records(), admitted)
}
