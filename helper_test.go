package tracker

import (
	"time"

	"github.com/matias9477/btc-investment-tracker/date"
)

// purchase is a helper for tests to create a valid purchase from constants.
func purchase(on date.Date, price, amount, spent float64) Purchase {
	return NewPurchase(on, M(price), Q(amount), M(spent))
}

// at is a helper for tests that returns a fixed UTC instant on a day.
func at(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

// ptr returns a pointer to v.
func ptr[T any](v T) *T { return &v }
