package db

import "context"

// NoOpTransactionManager calls fn directly. It backs standalone deployments
// and the in-memory store, where partial writes are tolerated.
type NoOpTransactionManager struct{}

func NewNoOpTransactionManager() *NoOpTransactionManager {
	return &NoOpTransactionManager{}
}

func (NoOpTransactionManager) WithTransaction(ctx context.Context, fn func(txCtx context.Context) (interface{}, error)) (interface{}, error) {
	return fn(ctx)
}

var _ TransactionManager = NoOpTransactionManager{}
