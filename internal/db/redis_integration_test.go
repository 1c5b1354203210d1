//go:build integration

package db

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestIntegration_RedisStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set, skipping integration test")
	}

	store, err := NewRedisStore(context.Background(), url, time.Hour)
	if err != nil {
		t.Fatalf("Failed to connect to test redis: %v", err)
	}
	defer func() { _ = store.Close() }()

	exerciseStore(t, store)
}
