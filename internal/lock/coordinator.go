package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/stayhub/config"
	"github.com/redis/go-redis/v9"
)

// Coordinator is the advisory lock service. Leases are ephemeral
// (key -> owner) pairs with a TTL; ownership is advisory and must be
// re-verified before deletion, which ReleaseIfOwned does atomically.
type Coordinator interface {
	// TryAcquire sets key to owner only if the key is absent. Any
	// transport error is reported alongside ok=false: acquisition fails
	// closed, never open.
	TryAcquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)

	// CurrentOwner returns the holder of key, or "" if the lease is
	// absent or expired.
	CurrentOwner(ctx context.Context, key string) (string, error)

	// ReleaseIfOwned deletes key only if it is currently held by owner.
	ReleaseIfOwned(ctx context.Context, key, owner string) error
}

// NightKey maps (accommodation, night) to its lease key. The mapping is
// a pure function so the coordinator stays stateless; everything that
// touches this namespace must go through it.
func NightKey(accommodationID int64, night time.Time) string {
	return fmt.Sprintf("lock:%d:%s", accommodationID, night.UTC().Format("2006-01-02"))
}

// releaseScript deletes the key only when its value matches the caller's
// owner id, in a single round trip. A plain GET+DEL pair would race with
// expiry followed by another requester's acquisition.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

type RedisCoordinator struct {
	client *redis.Client
}

func NewRedisCoordinator(cfg config.RedisConfig) *RedisCoordinator {
	return &RedisCoordinator{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
	}
}

func (c *RedisCoordinator) TryAcquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	ok, err := c.client.SetNX(ctx, key, owner, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lease %s: %w", key, err)
	}
	return ok, nil
}

func (c *RedisCoordinator) CurrentOwner(ctx context.Context, key string) (string, error) {
	owner, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("read lease %s: %w", key, err)
	}
	return owner, nil
}

func (c *RedisCoordinator) ReleaseIfOwned(ctx context.Context, key, owner string) error {
	if err := releaseScript.Run(ctx, c.client, []string{key}, owner).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("release lease %s: %w", key, err)
	}
	return nil
}

func (c *RedisCoordinator) Close() error {
	return c.client.Close()
}

var _ Coordinator = (*RedisCoordinator)(nil)
