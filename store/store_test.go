package store

import (
	"context"
	"io"
	"testing"
	"time"

	tracker "github.com/matias9477/btc-investment-tracker"
	"github.com/matias9477/btc-investment-tracker/date"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func mustPurchase(t *testing.T, rawDate, price, amount, spent string) tracker.Purchase {
	t.Helper()
	p, err := tracker.ParsePurchaseAsOf(rawDate, price, amount, spent, date.New(2024, time.June, 1))
	require.NoError(t, err)
	return p
}

// testStore checks the behaviour every Store must have. s must be empty.
func testStore(t *testing.T, s Store) {
	ctx := context.Background()

	// settings are created on first use.
	settings, err := s.Settings(ctx)
	require.NoError(t, err)
	assert.False(t, settings.InterestEnabled)
	assert.Nil(t, settings.ManualBalance)
	assert.Nil(t, settings.AnnualInterestRate)

	list, err := s.Purchases(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	first, err := s.AddPurchase(ctx, mustPurchase(t, "10/01/2023", "40,000", "0,2", "8000"))
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	second, err := s.AddPurchase(ctx, mustPurchase(t, "01/06/2023", "40000", "0.00645778", "258,31"))
	require.NoError(t, err)

	_, err = s.AddPurchase(ctx, tracker.Purchase{Date: date.New(2023, 1, 1)})
	assert.ErrorIs(t, err, tracker.ErrInvalidPrice)

	list, err = s.Purchases(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "most recent first")
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, "0.00645778", list[0].Amount.String(), "satoshis are kept")
	assert.Equal(t, date.New(2023, time.June, 1), list[0].Date)

	got, err := s.Purchase(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, tracker.M(40000).Equal(got.Price))
	assert.True(t, tracker.M(8000).Equal(got.Spent))
	assert.True(t, first.CreatedAt.Sub(got.CreatedAt).Abs() < time.Millisecond)

	changed := mustPurchase(t, "11/01/2023", "41000", "0.2", "8200")
	changed.ID = first.ID
	require.NoError(t, s.UpdatePurchase(ctx, changed))
	got, err = s.Purchase(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, date.New(2023, time.January, 11), got.Date)
	assert.True(t, tracker.M(8200).Equal(got.Spent))

	missing := "5f0c7a52-43b1-4b6c-9a43-0a6cbe7c3a11"
	changed.ID = missing
	assert.ErrorIs(t, s.UpdatePurchase(ctx, changed), ErrNotFound)
	assert.ErrorIs(t, s.DeletePurchase(ctx, missing), ErrNotFound)
	_, err = s.Purchase(ctx, missing)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Purchase(ctx, "not-an-id")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.DeletePurchase(ctx, second.ID))
	list, err = s.Purchases(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	now := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)
	rate := tracker.Percent(7)
	balance := tracker.Q(decimal.RequireFromString("0.12345678"))
	settings = settings.WithInterest(true, now).WithInterestRate(&rate, now).WithManualBalance(&balance, now)
	require.NoError(t, s.UpdateSettings(ctx, settings))

	got2, err := s.Settings(ctx)
	require.NoError(t, err)
	assert.True(t, got2.InterestEnabled)
	require.NotNil(t, got2.AnnualInterestRate)
	assert.Equal(t, rate, *got2.AnnualInterestRate)
	require.NotNil(t, got2.ManualBalance)
	assert.Equal(t, "0.12345678", got2.ManualBalance.String())
	require.NotNil(t, got2.ManualBalanceUpdatedAt)
	assert.True(t, now.Equal(*got2.ManualBalanceUpdatedAt))

	negative := tracker.Q(-1)
	assert.Error(t, s.UpdateSettings(ctx, settings.WithManualBalance(&negative, now)))

	cleared := got2.WithManualBalance(nil, now)
	require.NoError(t, s.UpdateSettings(ctx, cleared))
	got2, err = s.Settings(ctx)
	require.NoError(t, err)
	assert.Nil(t, got2.ManualBalance)
	assert.Nil(t, got2.ManualBalanceUpdatedAt)
}
