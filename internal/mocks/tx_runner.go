package mocks

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/stadsbieb/bibliotheek-api/internal/store"
)

// MockTxRunner implements store.TxRunner for testing.
//
// RunInSerializableTransaction holds a mutex for the duration of the
// callback, which is the in-memory equivalent of SERIALIZABLE isolation:
// concurrent transactions execute one at a time, so a check made inside
// one cannot be invalidated by another before its writes land.
type MockTxRunner struct {
	// Function fields for customizable behavior
	RunInTransactionFn             func(ctx context.Context, fn store.TxFn) error
	RunInSerializableTransactionFn func(ctx context.Context, fn store.TxFn) error

	// SerializationFailures makes the next N serializable transactions
	// fail with store.ErrSerialization before the callback runs, to
	// exercise retry handling.
	SerializationFailures int32

	// Calls counts serializable transaction attempts, including injected
	// failures.
	Calls int32

	mu sync.Mutex
}

// Compile-time check that MockTxRunner satisfies store.TxRunner.
var _ store.TxRunner = (*MockTxRunner)(nil)

// NewMockTxRunner creates a new mock transaction runner
func NewMockTxRunner() *MockTxRunner {
	return &MockTxRunner{}
}

// RunInTransaction implements the TxRunner interface
func (m *MockTxRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	if m.RunInTransactionFn != nil {
		return m.RunInTransactionFn(ctx, fn)
	}
	return fn(ctx, nil)
}

// RunInSerializableTransaction implements the TxRunner interface
func (m *MockTxRunner) RunInSerializableTransaction(ctx context.Context, fn store.TxFn) error {
	if m.RunInSerializableTransactionFn != nil {
		return m.RunInSerializableTransactionFn(ctx, fn)
	}

	atomic.AddInt32(&m.Calls, 1)
	if atomic.AddInt32(&m.SerializationFailures, -1) >= 0 {
		return store.ErrSerialization
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, nil)
}
