package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReplayGuard records single-use keys with SET NX. It implements
// ports.ReplayGuard.
type ReplayGuard struct {
	client *redis.Client
	prefix string
}

// NewReplayGuard creates a ReplayGuard wrapping the given Redis client. Keys
// are namespaced under prefix.
func NewReplayGuard(client *redis.Client, prefix string) *ReplayGuard {
	return &ReplayGuard{client: client, prefix: prefix}
}

// Claim reports whether key was unused. The first caller within ttl wins.
func (g *ReplayGuard) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.prefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("replay guard: %w", err)
	}
	return ok, nil
}

// Lock is a best-effort mutual exclusion lease across instances.
type Lock struct {
	client *redis.Client
	key    string
	token  string
}

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// TryLock acquires key for ttl. It returns nil and no error when another
// holder owns the lease.
func TryLock(ctx context.Context, client *redis.Client, key, token string, ttl time.Duration) (*Lock, error) {
	ok, err := client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, nil
	}
	return &Lock{client: client, key: key, token: token}, nil
}

// Release frees the lease if it has not expired and been taken over.
func (l *Lock) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("release lock %s: %w", l.key, err)
	}
	return nil
}
