package lock

import (
	"context"
	"sync"
	"time"
)

type lease struct {
	owner     string
	expiresAt time.Time
}

// MemoryCoordinator keeps leases in process memory. It implements the
// same TTL semantics as the Redis coordinator and backs the concurrency
// tests; single-node deployments can run on it directly.
type MemoryCoordinator struct {
	mu     sync.Mutex
	leases map[string]lease
	now    func() time.Time
}

func NewMemoryCoordinator() *MemoryCoordinator {
	return &MemoryCoordinator{
		leases: make(map[string]lease),
		now:    time.Now,
	}
}

// WithClock replaces the time source, letting tests advance expiry
// without sleeping.
func (c *MemoryCoordinator) WithClock(now func() time.Time) *MemoryCoordinator {
	c.now = now
	return c
}

func (c *MemoryCoordinator) TryAcquire(_ context.Context, key, owner string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if l, ok := c.leases[key]; ok && c.now().Before(l.expiresAt) {
		return false, nil
	}
	c.leases[key] = lease{owner: owner, expiresAt: c.now().Add(ttl)}
	return true, nil
}

func (c *MemoryCoordinator) CurrentOwner(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.leases[key]
	if !ok || !c.now().Before(l.expiresAt) {
		return "", nil
	}
	return l.owner, nil
}

func (c *MemoryCoordinator) ReleaseIfOwned(_ context.Context, key, owner string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if l, ok := c.leases[key]; ok && l.owner == owner && c.now().Before(l.expiresAt) {
		delete(c.leases, key)
	}
	return nil
}

var _ Coordinator = (*MemoryCoordinator)(nil)
