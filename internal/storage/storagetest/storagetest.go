// Package storagetest holds the behavior every storage backend must share.
package storagetest

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/linkvault/internal/storage"
)

// Run exercises s against the storage.Storage contract.
// Keys are prefixed with t.Name() so shared databases stay usable.
func Run(t *testing.T, s storage.Storage) {
	t.Helper()
	ctx := context.Background()
	key := func(k string) string {
		return strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "_" + k
	}

	t.Run("missing key", func(t *testing.T) {
		_, err := s.Get(ctx, key("missing"))
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, key("a"), `[{"id":"1"}]`))
		v, err := s.Get(ctx, key("a"))
		require.NoError(t, err)
		assert.Equal(t, `[{"id":"1"}]`, v)
	})

	t.Run("set replaces", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, key("b"), "first"))
		require.NoError(t, s.Set(ctx, key("b"), "second"))
		v, err := s.Get(ctx, key("b"))
		require.NoError(t, err)
		assert.Equal(t, "second", v)
	})

	t.Run("empty value is a value", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, key("empty"), ""))
		v, err := s.Get(ctx, key("empty"))
		require.NoError(t, err)
		assert.Equal(t, "", v)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, key("c"), "x"))
		require.NoError(t, s.Delete(ctx, key("c")))
		require.NoError(t, s.Delete(ctx, key("c")))
		_, err := s.Get(ctx, key("c"))
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("concurrent writes leave a whole value", func(t *testing.T) {
		values := []string{strings.Repeat("a", 4096), strings.Repeat("b", 8192)}
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(v string) {
				defer wg.Done()
				assert.NoError(t, s.Set(ctx, key("race"), v))
			}(values[i%2])
		}
		wg.Wait()

		v, err := s.Get(ctx, key("race"))
		require.NoError(t, err)
		assert.Contains(t, values, v)
	})
}
