package lock

import (
	"context"
	"time"

	"github.com/Domenick1991/stayhub/internal/domain"
	"github.com/Domenick1991/stayhub/internal/metrics"
	"github.com/google/uuid"
)

// RangeLock holds one lease per occupied night of a reservation range,
// all under a single owner id. A RangeLock is either fully held or not
// held at all.
type RangeLock struct {
	coordinator Coordinator
	owner       string
	held        []string
}

// AcquireRange attempts to lease every night of [checkIn, checkOut) for
// the accommodation, in ascending date order. Ascending order across all
// callers is the deadlock-avoidance invariant: two requesters contending
// for overlapping ranges always meet on the earliest shared night, so no
// cyclic wait can form.
//
// On the first night that cannot be leased, every lease acquired so far
// is released and (nil, false) is returned. Acquisition is sequential so
// the rollback point is deterministic.
func AcquireRange(ctx context.Context, c Coordinator, accommodationID int64, checkIn, checkOut time.Time, ttl time.Duration) (*RangeLock, bool, error) {
	rl := &RangeLock{
		coordinator: c,
		owner:       uuid.NewString(),
	}

	for _, night := range domain.NightsIn(checkIn, checkOut) {
		key := NightKey(accommodationID, night)
		ok, err := c.TryAcquire(ctx, key, rl.owner, ttl)
		if err != nil || !ok {
			// Fail closed on transport errors: treat as contention and
			// give back whatever we hold.
			rl.Release(ctx)
			return nil, false, err
		}
		rl.held = append(rl.held, key)
	}
	return rl, true, nil
}

// Release gives back every held lease via owner-checked delete. Safe to
// call more than once; leases the owner has already lost are left alone.
// A failed release is counted and left to TTL expiry.
func (rl *RangeLock) Release(ctx context.Context) {
	for _, key := range rl.held {
		if err := rl.coordinator.ReleaseIfOwned(ctx, key, rl.owner); err != nil {
			metrics.LeaseReleaseFailuresTotal.Inc()
		}
	}
	rl.held = nil
}

// Owner exposes the lease owner id for observability.
func (rl *RangeLock) Owner() string {
	return rl.owner
}
