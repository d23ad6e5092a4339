package db

import "context"

// TransactionManager runs fn so that every write made through txCtx commits
// or aborts together.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(txCtx context.Context) (interface{}, error)) (interface{}, error)
}
