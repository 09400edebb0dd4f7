package store

import (
	"context"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/kotrzina/meteoam/pkg/config"
)

func setupTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()

	_ = godotenv.Load("../../.env")

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx := context.Background()
	s := NewRedisStore(ctx, &config.Config{RedisAddr: addr, RedisDB: 15})
	if err := s.Client.Ping(ctx).Err(); err != nil {
		t.Skipf("Skipping test: could not connect to test redis: %v", err)
	}

	if err := s.Client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("could not flush test redis: %v", err)
	}
	t.Cleanup(func() { _ = s.Client.Close() })

	return s
}

func TestRedisStore(t *testing.T) {
	testStorage(t, setupTestRedisStore(t))
}
