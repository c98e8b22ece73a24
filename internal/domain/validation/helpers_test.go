package validation_test

import (
	"context"
	"testing"

	"antaracc/internal/domain/chain"
	"antaracc/internal/domain/ledger"
	"antaracc/internal/domain/ledger/ledgertest"
	"antaracc/internal/domain/validation"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func newValidator(b *ledgertest.Builder) *validation.Validator {
	w := chain.NewWalker(b.Store, b.Codec, b.Addr, 0, slog.Default())
	return validation.NewValidator(b.Store, b.Codec, b.Addr, w, slog.Default())
}

// accept проверяет транзакцию, ожидает состояние want и индексирует ее.
func accept(t *testing.T, b *ledgertest.Builder, v *validation.Validator, tx *ledger.Tx, want validation.State) *ledger.Tx {
	t.Helper()
	state, err := v.Validate(context.Background(), tx)
	require.NoError(t, err)
	require.Equal(t, want, state)
	return b.Commit(tx)
}
