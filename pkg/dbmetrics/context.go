package dbmetrics

import "context"

type ctxKey int

const executorKey ctxKey = iota

// WithExecutor кладёт активную транзакцию в контекст.
// Репозитории достают её через GetExecutor и выполняют запросы внутри транзакции.
func WithExecutor(ctx context.Context, tx TxExecutor) context.Context {
	return context.WithValue(ctx, executorKey, tx)
}

// GetExecutor возвращает транзакцию из контекста, если она есть, иначе fallback
func GetExecutor(ctx context.Context, fallback DBExecutor) DBExecutor {
	if tx, ok := ctx.Value(executorKey).(TxExecutor); ok {
		return tx
	}
	return fallback
}

// IsInTransaction возвращает true, если в контексте есть активная транзакция
func IsInTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(executorKey).(TxExecutor)
	return ok
}
