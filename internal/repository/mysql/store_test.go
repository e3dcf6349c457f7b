package mysql_test

import (
	"context"
	"os"
	"testing"

	"github.com/Rrens/legal-assistant/internal/repository/mysql"
	"github.com/Rrens/legal-assistant/internal/repository/storetest"
	"github.com/stretchr/testify/require"
)

func TestStore_Contract(t *testing.T) {
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set")
	}

	store, err := mysql.NewStore(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	storetest.Run(t, store)
}
