package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/linkvault/internal/storage/storagetest"
)

func TestStoreContract(t *testing.T) {
	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	s, err := New(ctx, connString)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = s.Pool.Exec(ctx, `DELETE FROM kv WHERE key LIKE 'TestStoreContract%'`)
		_ = s.Close()
	})

	storagetest.Run(t, s)
}
