package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNights(t *testing.T) {
	checkIn := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 2, Nights(checkIn, checkIn.AddDate(0, 0, 2)), "two-day stay occupies two nights")
	assert.Equal(t, 1, Nights(checkIn, checkIn.AddDate(0, 0, 1)))
	assert.Equal(t, 0, Nights(checkIn, checkIn))
	assert.Equal(t, -1, Nights(checkIn, checkIn.AddDate(0, 0, -1)))
}

func TestNights_IgnoresTimeOfDay(t *testing.T) {
	checkIn := time.Date(2025, 6, 20, 15, 30, 0, 0, time.UTC)
	checkOut := time.Date(2025, 6, 22, 11, 0, 0, 0, time.UTC)

	assert.Equal(t, 2, Nights(checkIn, checkOut))
}

func TestNightsIn(t *testing.T) {
	checkIn := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2025, 6, 23, 0, 0, 0, 0, time.UTC)

	nights := NightsIn(checkIn, checkOut)

	assert.Len(t, nights, 3)
	assert.Equal(t, checkIn, nights[0])
	assert.Equal(t, checkIn.AddDate(0, 0, 2), nights[2], "check-out day is excluded")

	for i := 1; i < len(nights); i++ {
		assert.True(t, nights[i-1].Before(nights[i]), "nights must be ascending")
	}
}

func TestNightsIn_EmptyAndInvertedRanges(t *testing.T) {
	day := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)

	assert.Nil(t, NightsIn(day, day))
	assert.Nil(t, NightsIn(day.AddDate(0, 0, 1), day))
}
