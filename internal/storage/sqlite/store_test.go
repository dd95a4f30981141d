package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/linkvault/internal/storage/storagetest"
)

func TestStoreContract(t *testing.T) {
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "vault.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	assert.Equal(t, "sqlite", s.Driver())
	storagetest.Run(t, s)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vault.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "linkvault_items", `[{"id":"a"}]`))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	v, err := s.Get(ctx, "linkvault_items")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, v)
}

func TestDriverFor(t *testing.T) {
	tests := []struct {
		dsn      string
		expected string
	}{
		{dsn: "data/vault.db", expected: "sqlite"},
		{dsn: "file:vault.db?cache=shared", expected: "sqlite"},
		{dsn: "libsql://vault-me.turso.io?authToken=x", expected: "libsql"},
		{dsn: "wss://vault-me.turso.io", expected: "libsql"},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			assert.Equal(t, tt.expected, DriverFor(tt.dsn))
		})
	}
}

func TestOpenEmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.Error(t, err)
}
