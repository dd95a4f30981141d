package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/linkvault/internal/logger"
	redisconn "github.com/MrSnakeDoc/linkvault/internal/redis"
	"github.com/MrSnakeDoc/linkvault/internal/storage/storagetest"
)

func TestStoreContract(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	client, err := redisconn.Connect(context.Background(), redisconn.ConnectOptions{
		Addr:           addr,
		DialTimeout:    time.Second,
		ReadTimeout:    time.Second,
		WriteTimeout:   time.Second,
		ConnectTimeout: 5 * time.Second,
		RetryInterval:  100 * time.Millisecond,
		MaxWait:        time.Second,
		PingTimeout:    time.Second,
	}, logger.NewNop())
	require.NoError(t, err)

	s := NewStore(client)
	t.Cleanup(func() { _ = s.Close() })

	storagetest.Run(t, s)
}

func TestKey(t *testing.T) {
	s := &Store{prefix: KeyPrefix}
	require.Equal(t, "linkvault:linkvault_items", s.Key("linkvault_items"))
}
