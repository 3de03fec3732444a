package mocks

import (
	"context"
	"database/sql"

	"github.com/lpfarias/essay-api/internal/store"
)

// MockTxRunner implements store.TxRunner for testing.
// The default behavior invokes the function with a nil transaction, which
// works because the mock stores ignore WithTx.
type MockTxRunner struct {
	RunInTransactionFn func(ctx context.Context, fn store.TxFn) error

	// BeginErr, when set, fails the transaction before fn runs.
	BeginErr error

	// Calls counts how many transactions were started.
	Calls int
}

var _ store.TxRunner = (*MockTxRunner)(nil)

// RunInTransaction implements the store.TxRunner interface.
func (m *MockTxRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	m.Calls++

	if m.RunInTransactionFn != nil {
		return m.RunInTransactionFn(ctx, fn)
	}

	if m.BeginErr != nil {
		return m.BeginErr
	}

	var tx *sql.Tx
	return fn(ctx, tx)
}
