package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

var (
	redisOnce   sync.Once
	redisClient *redis.Client
	redisErr    error
)

func testClient(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping Redis integration test in -short mode")
	}
	redisOnce.Do(func() {
		ctx := context.Background()
		container, err := tcredis.Run(ctx, "redis:7-alpine")
		if err != nil {
			redisErr = err
			return
		}
		uri, err := container.ConnectionString(ctx)
		if err != nil {
			redisErr = err
			return
		}
		opts, err := redis.ParseURL(uri)
		if err != nil {
			redisErr = err
			return
		}
		redisClient, redisErr = Connect(ctx, Config{Addr: opts.Addr})
	})
	if redisErr != nil {
		t.Fatalf("redis unavailable: %v", redisErr)
	}
	return redisClient
}

func TestReplayGuard_Claim(t *testing.T) {
	client := testClient(t)
	guard := NewReplayGuard(client, "test:"+t.Name()+":")
	ctx := context.Background()

	ok, err := guard.Claim(ctx, "mfa:used:u1:123456", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first claim = %v, %v", ok, err)
	}
	ok, err = guard.Claim(ctx, "mfa:used:u1:123456", time.Minute)
	if err != nil || ok {
		t.Fatalf("second claim must be refused, got %v, %v", ok, err)
	}
	ok, _ = guard.Claim(ctx, "mfa:used:u2:123456", time.Minute)
	if !ok {
		t.Fatalf("a different key must be claimable")
	}
}

func TestTryLock_ExclusiveAndRelease(t *testing.T) {
	client := testClient(t)
	ctx := context.Background()
	key := "test:lock:" + t.Name()

	first, err := TryLock(ctx, client, key, "a", time.Minute)
	if err != nil || first == nil {
		t.Fatalf("first lock = %v, %v", first, err)
	}
	second, err := TryLock(ctx, client, key, "b", time.Minute)
	if err != nil || second != nil {
		t.Fatalf("lock must be exclusive, got %v, %v", second, err)
	}
	if err := first.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	third, err := TryLock(ctx, client, key, "c", time.Minute)
	if err != nil || third == nil {
		t.Fatalf("lock must be free after release, got %v, %v", third, err)
	}
}
