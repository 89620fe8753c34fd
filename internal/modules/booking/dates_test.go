package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2027, 6, 15, 10, 30, 0, 0, time.UTC)

func TestValidateDateRange(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2027, 6, d, 0, 0, 0, 0, time.UTC)
	}

	// Starting today is allowed; yesterday is not.
	assert.NoError(t, ValidateDateRange(day(15), day(16), testNow))
	assert.ErrorIs(t, ValidateDateRange(day(14), day(16), testNow), ErrValidation)

	// End must be strictly after start.
	assert.ErrorIs(t, ValidateDateRange(day(16), day(16), testNow), ErrValidation)
	assert.ErrorIs(t, ValidateDateRange(day(16), day(15), testNow), ErrValidation)

	// Time-of-day does not matter: a start later today still counts as today.
	late := time.Date(2027, 6, 15, 23, 59, 0, 0, time.UTC)
	assert.NoError(t, ValidateDateRange(late, day(16), testNow))
}

func TestTotalDays(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2027, 6, d, 0, 0, 0, 0, time.UTC)
	}

	assert.Equal(t, 1, TotalDays(day(15), day(16)))
	assert.Equal(t, 5, TotalDays(day(1), day(6)))
	assert.Equal(t, 0, TotalDays(day(16), day(15)))

	// Time-of-day is ignored; only calendar days count.
	start := time.Date(2027, 6, 1, 14, 0, 0, 0, time.UTC)
	end := time.Date(2027, 6, 3, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, TotalDays(start, end))
}

func TestQuoteTotal(t *testing.T) {
	assert.Equal(t, int64(7500), QuoteTotal(5, 1500, 0))
	assert.Equal(t, int64(8000), QuoteTotal(5, 1500, 500))
}
