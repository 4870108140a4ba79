package pgviews

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTransaction(t *testing.T) {
	ctx := context.Background()
	db := NewTestDB(t)
	require.False(t, db.IsInTransaction())

	t.Run("transaction local settings do not leak", func(t *testing.T) {
		err := db.WithTransaction(ctx, func(tx DB) error {
			assert.True(t, tx.IsInTransaction())

			if err := tx.Exec(ctx, RawQuery(`SET LOCAL search_path TO pg_temp`)); err != nil {
				return err
			}

			schemas, err := CurrentSchemas(ctx, tx)
			require.NoError(t, err)
			assert.Empty(t, schemas)
			return nil
		})
		require.NoError(t, err)

		schemas, err := CurrentSchemas(ctx, db)
		require.NoError(t, err)
		assert.Equal(t, []string{"public"}, schemas)
	})

	t.Run("read only", func(t *testing.T) {
		err := db.WithTransaction(ctx, func(tx DB) error {
			return tx.Exec(ctx, RawQuery(`CREATE TABLE t (id int)`))
		})
		assert.ErrorContains(t, err, "read-only transaction")
	})

	t.Run("error is returned", func(t *testing.T) {
		expectedErr := errors.New("boom")

		err := db.WithTransaction(ctx, func(tx DB) error { return expectedErr })
		assert.ErrorIs(t, err, expectedErr)
	})

	t.Run("nested", func(t *testing.T) {
		err := db.WithTransaction(ctx, func(tx DB) error {
			return tx.WithTransaction(ctx, func(DB) error { return nil })
		})
		assert.ErrorIs(t, err, ErrNestedTransaction)
	})

	t.Run("panic", func(t *testing.T) {
		assert.Panics(t, func() {
			_ = db.WithTransaction(ctx, func(tx DB) error { panic("oops") })
		})
	})
}
