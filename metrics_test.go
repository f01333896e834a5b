package tracker

import (
	"testing"
	"time"

	"github.com/matias9477/btc-investment-tracker/date"
	"github.com/stretchr/testify/assert"
)

func assertMoney(t *testing.T, want float64, got Money, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, M(want).Equal(got), "got %v, want %v %v", got.Decimal(), want, msgAndArgs)
}

func TestComputeMetrics_Empty(t *testing.T) {
	m := ComputeMetrics(nil, nil, M(50000))

	assertMoney(t, 50000, m.CurrentPrice)
	assertMoney(t, 0, m.TotalInvestment)
	assert.True(t, m.TotalBought.IsZero())
	assert.Nil(t, m.ManualTotal)
	assert.Nil(t, m.ManualBalanceUpdatedAt)
	assertMoney(t, 0, m.FinalValuePurchased)
	assertMoney(t, 0, m.FinalValueReal)
	assertMoney(t, 0, m.ProfitPurchased)
	assert.Equal(t, Percent(0), m.ROIPurchased)
	assert.Equal(t, Percent(0), m.ROIReal)
	assertMoney(t, 0, m.EquilibriumPrice)
	assert.True(t, m.InterestBTC.IsZero())
	assertMoney(t, 0, m.InterestUSD)
}

func testPurchases() []Purchase {
	return []Purchase{
		purchase(date.New(2023, time.January, 10), 40000, 0.2, 8000),
		purchase(date.New(2023, time.June, 1), 40000, 0.3, 12000),
	}
}

func TestComputeMetrics_Purchased(t *testing.T) {
	m := ComputeMetrics(testPurchases(), nil, M(50000))

	assertMoney(t, 20000, m.TotalInvestment)
	assert.True(t, Q(0.5).Equal(m.TotalBought), "total bought %v", m.TotalBought)
	assertMoney(t, 25000, m.FinalValuePurchased)
	assertMoney(t, 5000, m.ProfitPurchased)
	assert.Equal(t, Percent(25), m.ROIPurchased)
	assertMoney(t, 40000, m.EquilibriumPrice)

	// without manual balance, real figures are the purchased ones.
	assertMoney(t, 25000, m.FinalValueReal)
	assertMoney(t, 5000, m.ProfitReal)
	assert.Equal(t, Percent(25), m.ROIReal)
	assert.True(t, m.InterestBTC.IsZero())
}

func TestComputeMetrics_ManualBalance(t *testing.T) {
	updated := at(2024, time.March, 1, 12)
	s := DefaultSettings().WithManualBalance(ptr(Q(0.55)), updated)

	m := ComputeMetrics(testPurchases(), &s, M(50000))

	if assert.NotNil(t, m.ManualTotal) {
		assert.True(t, Q(0.55).Equal(*m.ManualTotal))
	}
	if assert.NotNil(t, m.ManualBalanceUpdatedAt) {
		assert.Equal(t, updated, *m.ManualBalanceUpdatedAt)
	}
	assert.True(t, Q(0.05).Equal(m.InterestBTC), "interest %v", m.InterestBTC)
	assertMoney(t, 2500, m.InterestUSD)
	assertMoney(t, 27500, m.FinalValueReal)
	assertMoney(t, 7500, m.ProfitReal)
	assert.Equal(t, Percent(37.5), m.ROIReal)

	// purchased figures are unchanged.
	assertMoney(t, 25000, m.FinalValuePurchased)
	assert.Equal(t, Percent(25), m.ROIPurchased)
}

func TestComputeMetrics_NegativeInterest(t *testing.T) {
	s := DefaultSettings().WithManualBalance(ptr(Q(0.45)), at(2024, time.March, 1, 12))
	m := ComputeMetrics(testPurchases(), &s, M(50000))

	assert.True(t, Q(-0.05).Equal(m.InterestBTC), "interest %v", m.InterestBTC)
	assertMoney(t, -2500, m.InterestUSD)
	assertMoney(t, 2500, m.ProfitReal)
	assert.Equal(t, Percent(12.5), m.ROIReal)
}

func TestComputeMetrics_ZeroManualBalance(t *testing.T) {
	s := DefaultSettings().WithManualBalance(ptr(Q(0)), at(2024, time.March, 1, 12))
	m := ComputeMetrics(testPurchases(), &s, M(50000))

	// a zero balance is recorded, it is not a missing one.
	assertMoney(t, 0, m.FinalValueReal)
	assertMoney(t, -20000, m.ProfitReal)
	assert.Equal(t, Percent(-100), m.ROIReal)
}

func TestComputeMetrics_ManualBalanceWithoutPurchases(t *testing.T) {
	s := DefaultSettings().WithManualBalance(ptr(Q(1)), at(2024, time.March, 1, 12))
	m := ComputeMetrics(nil, &s, M(30000))

	assertMoney(t, 30000, m.FinalValueReal)
	assertMoney(t, 30000, m.ProfitReal)
	assert.Equal(t, Percent(0), m.ROIReal, "no investment saturates ROI to 0")
	assertMoney(t, 0, m.EquilibriumPrice)
}

func TestComputeMetrics_OrderIndependentAndIdempotent(t *testing.T) {
	ps := testPurchases()
	reversed := []Purchase{ps[1], ps[0]}
	s := DefaultSettings().WithManualBalance(ptr(Q(0.55)), at(2024, time.March, 1, 12))

	a := ComputeMetrics(ps, &s, M(43210.5))
	b := ComputeMetrics(reversed, &s, M(43210.5))
	c := ComputeMetrics(ps, &s, M(43210.5))

	for _, other := range []Metrics{b, c} {
		assert.True(t, a.TotalInvestment.Equal(other.TotalInvestment))
		assert.True(t, a.TotalBought.Equal(other.TotalBought))
		assert.True(t, a.FinalValueReal.Equal(other.FinalValueReal))
		assert.True(t, a.EquilibriumPrice.Equal(other.EquilibriumPrice))
		assert.Equal(t, a.ROIPurchased, other.ROIPurchased)
		assert.Equal(t, a.ROIReal, other.ROIReal)
	}
}

func TestComputeMetrics_Display(t *testing.T) {
	s := DefaultSettings().WithManualBalance(ptr(Q(0.55)), at(2024, time.March, 1, 12))
	m := ComputeMetrics(testPurchases(), &s, M(50000))

	assert.Equal(t, "$20,000.00", m.TotalInvestment.String())
	assert.Equal(t, "0.50000000 BTC", m.TotalBought.BTC())
	assert.Equal(t, "0.05000000 BTC", m.InterestBTC.BTC())
	assert.Equal(t, "+37.50%", m.ROIReal.SignedString())
	assert.Equal(t, "$40,000.00", m.EquilibriumPrice.String())
}

func TestMetrics_MarshalJSON(t *testing.T) {
	m := ComputeMetrics([]Purchase{purchase(date.New(2023, 1, 1), 30000, 0.003, 100)}, nil, M(50000))
	b, err := m.MarshalJSON()
	assert.NoError(t, err)
	assert.Contains(t, string(b), `"totalInvestment":100`)
	assert.Contains(t, string(b), `"equilibriumPrice":33333.33`)
	assert.NotContains(t, string(b), "manualTotal")
}
