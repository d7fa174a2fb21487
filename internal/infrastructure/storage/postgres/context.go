package postgres

import (
	"context"
)

// txManagerKey is the context key for the application TxManager.
type txManagerKey struct{}

// WithTxManager stores the TxManager in context. The HTTP layer installs it
// once per request so repositories can resolve their querier lazily.
func WithTxManager(ctx context.Context, txm *TxManager) context.Context {
	return context.WithValue(ctx, txManagerKey{}, txm)
}

// GetTxManager returns *postgres.TxManager from context, or nil.
func GetTxManager(ctx context.Context) *TxManager {
	if txm, ok := ctx.Value(txManagerKey{}).(*TxManager); ok {
		return txm
	}
	return nil
}

// MustGetTxManager returns *postgres.TxManager from context.
// It is meant for infrastructure code that needs access to GetQuerier()/GetTx().
//
// Domain code should depend only on internal/core/tx.Manager.
func MustGetTxManager(ctx context.Context) *TxManager {
	txm := GetTxManager(ctx)
	if txm == nil {
		panic("TxManager missing from context")
	}
	return txm
}
