// Package storetest holds the behaviour every domain.SlotStore must share.
package storetest

import (
	"context"
	"testing"

	"github.com/Rrens/legal-assistant/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises store against the SlotStore contract. The store must start empty
// for the keys used here.
func Run(t *testing.T, store domain.SlotStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, store.Ping(ctx))
	})

	t.Run("missing slot", func(t *testing.T) {
		_, err := store.Get(ctx, "storetest-missing")
		assert.ErrorIs(t, err, domain.ErrSlotNotFound)
	})

	t.Run("write then read", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "storetest-docs", []byte(`[{"id":"a"}]`)))

		got, err := store.Get(ctx, "storetest-docs")
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":"a"}]`, string(got))
	})

	t.Run("overwrite replaces the whole value", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "storetest-docs", []byte(`[{"id":"a"},{"id":"b"}]`)))
		require.NoError(t, store.Set(ctx, "storetest-docs", []byte(`[]`)))

		got, err := store.Get(ctx, "storetest-docs")
		require.NoError(t, err)
		assert.Equal(t, "[]", string(got))
	})

	t.Run("keys are independent", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "storetest-other", []byte("x")))

		got, err := store.Get(ctx, "storetest-docs")
		require.NoError(t, err)
		assert.Equal(t, "[]", string(got))
	})
}
