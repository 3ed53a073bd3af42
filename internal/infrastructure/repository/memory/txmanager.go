package memory

import (
	"context"
	"sync"
)

// TxManager serializes lock-toggle work when running without a database.
// It provides mutual exclusion but no rollback, so a partial failure
// inside fn can leave memory repositories half-applied. A lock toggle
// that loses the ledger supersede race keeps the invite cancellations
// it already performed, where the Postgres path would roll them back.
// Acceptable for local development and tests, which assert on the
// visible outcome.
type TxManager struct {
	mu sync.Mutex
}

func NewTxManager() *TxManager {
	return &TxManager{}
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}
