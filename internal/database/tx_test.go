package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

// fakeTx records how the transaction ended. Unused pgx.Tx methods panic via
// the nil embedded interface.
type fakeTx struct {
	pgx.Tx
	committed, rolledBack bool
}

func (t *fakeTx) Commit(context.Context) error   { t.committed = true; return nil }
func (t *fakeTx) Rollback(context.Context) error { t.rolledBack = true; return nil }

type fakeBeginner struct {
	tx  *fakeTx
	err error
}

func (b *fakeBeginner) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commits when fn succeeds", func(t *testing.T) {
		b := &fakeBeginner{tx: &fakeTx{}}
		err := WithTx(ctx, b, func(pgx.Tx) error { return nil })
		assert.NoError(t, err)
		assert.True(t, b.tx.committed)
		assert.False(t, b.tx.rolledBack)
	})

	t.Run("rolls back and returns fn error", func(t *testing.T) {
		b := &fakeBeginner{tx: &fakeTx{}}
		detailErr := errors.New("insert role detail failed")
		err := WithTx(ctx, b, func(pgx.Tx) error { return detailErr })
		assert.ErrorIs(t, err, detailErr)
		assert.True(t, b.tx.rolledBack)
		assert.False(t, b.tx.committed)
	})

	t.Run("begin failure skips fn", func(t *testing.T) {
		beginErr := errors.New("pool closed")
		called := false
		err := WithTx(ctx, &fakeBeginner{err: beginErr}, func(pgx.Tx) error { called = true; return nil })
		assert.ErrorIs(t, err, beginErr)
		assert.False(t, called)
	})
}
