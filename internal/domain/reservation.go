package domain

import "time"

type ReservedDateStatus string

const (
	ReservedDateStatusPending   ReservedDateStatus = "PENDING"
	ReservedDateStatusConfirmed ReservedDateStatus = "CONFIRMED"
)

// ReservedDate blocks a single night of an accommodation. One row exists
// per (accommodation, date); the schema enforces that with a unique
// constraint in addition to the admission protocol.
type ReservedDate struct {
	ID              int64
	AccommodationID int64
	ReservedAt      time.Time
	Status          ReservedDateStatus
	CreatedAt       time.Time
}

type Reservation struct {
	ID              int64
	AccommodationID int64
	MemberID        int64
	CheckIn         time.Time
	CheckOut        time.Time
	TotalPrice      int64
	Message         string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Nights returns the number of occupied nights in [checkIn, checkOut),
// one per calendar day. Both bounds are truncated to day granularity.
func Nights(checkIn, checkOut time.Time) int {
	in := DayOf(checkIn)
	out := DayOf(checkOut)
	return int(out.Sub(in).Hours() / 24)
}

// NightsIn enumerates the occupied nights of [checkIn, checkOut) in
// ascending order. Ascending order is load-bearing: every lock-set
// caller must attempt leases in this order.
func NightsIn(checkIn, checkOut time.Time) []time.Time {
	n := Nights(checkIn, checkOut)
	if n <= 0 {
		return nil
	}
	nights := make([]time.Time, 0, n)
	day := DayOf(checkIn)
	for i := 0; i < n; i++ {
		nights = append(nights, day.AddDate(0, 0, i))
	}
	return nights
}

func DayOf(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}
