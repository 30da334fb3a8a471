package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateRangeNights(t *testing.T) {
	assert.Equal(t, 4, NewDateRange(2024, time.June, 1, 2024, time.June, 5).Nights())
	assert.Equal(t, 1, NewDateRange(2024, time.June, 1, 2024, time.June, 2).Nights())
	// Crosses a month boundary.
	assert.Equal(t, 3, NewDateRange(2024, time.June, 29, 2024, time.July, 2).Nights())
}

func TestDateRangeIsValid(t *testing.T) {
	assert.True(t, NewDateRange(2024, time.June, 1, 2024, time.June, 2).IsValid())
	assert.False(t, NewDateRange(2024, time.June, 1, 2024, time.June, 1).IsValid())
	assert.False(t, NewDateRange(2024, time.June, 5, 2024, time.June, 1).IsValid())
	assert.False(t, DateRange{}.IsValid())
}

func TestDateRangeString(t *testing.T) {
	rng := NewDateRange(2024, time.June, 1, 2024, time.June, 5)
	assert.Equal(t, "2024-06-01 to 2024-06-05", rng.String())
}
