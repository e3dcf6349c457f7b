package pebble_test

import (
	"context"
	"testing"

	"github.com/Rrens/legal-assistant/internal/repository/pebble"
	"github.com/Rrens/legal-assistant/internal/repository/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Contract(t *testing.T) {
	store, err := pebble.NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	storetest.Run(t, store)
}

func TestStore_PingAfterClose(t *testing.T) {
	store, err := pebble.NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Close())
	assert.Error(t, store.Ping(context.Background()))
	assert.NoError(t, store.Close())
}
