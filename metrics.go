package tracker

import (
	"time"

	"github.com/shopspring/decimal"
)

// Metrics is the dashboard of a ledger at a given bitcoin price.
//
// "Purchased" figures use the bitcoins recorded in purchases, "Real" figures
// use the manual balance and fall back to the purchased ones when there is none.
type Metrics struct {
	CurrentPrice           Money
	TotalInvestment        Money
	TotalBought            Quantity
	ManualTotal            *Quantity
	ManualBalanceUpdatedAt *time.Time
	FinalValuePurchased    Money
	FinalValueReal         Money
	ProfitPurchased        Money
	ProfitReal             Money
	ROIPurchased           Percent
	ROIReal                Percent
	InterestBTC            Quantity // manual balance minus bought, negative for losses and fees
	InterestUSD            Money
	EquilibriumPrice       Money // break-even price
}

// ComputeMetrics computes the dashboard of purchases at currentPrice.
//
// It never fails: without investment ROIs are 0, without bitcoin the
// equilibrium price is 0, and nil settings mean no manual balance.
func ComputeMetrics(purchases []Purchase, settings *Settings, currentPrice Money) Metrics {
	m := Metrics{CurrentPrice: currentPrice}
	for _, p := range purchases {
		m.TotalInvestment = m.TotalInvestment.Add(p.Spent)
		m.TotalBought = m.TotalBought.Add(p.Amount)
	}

	if settings != nil && settings.ManualBalance != nil {
		total := *settings.ManualBalance
		m.ManualTotal = &total
		if at := settings.ManualBalanceUpdatedAt; at != nil {
			stamp := *at
			m.ManualBalanceUpdatedAt = &stamp
		}
	}

	m.FinalValuePurchased = currentPrice.Mul(m.TotalBought)
	m.FinalValueReal = m.FinalValuePurchased
	if m.ManualTotal != nil {
		m.FinalValueReal = currentPrice.Mul(*m.ManualTotal)
		m.InterestBTC = m.ManualTotal.Sub(m.TotalBought)
	}
	m.ProfitPurchased = m.FinalValuePurchased.Sub(m.TotalInvestment)
	m.ProfitReal = m.FinalValueReal.Sub(m.TotalInvestment)
	m.ROIPurchased = roi(m.ProfitPurchased, m.TotalInvestment)
	m.ROIReal = roi(m.ProfitReal, m.TotalInvestment)
	m.InterestUSD = currentPrice.Mul(m.InterestBTC)
	m.EquilibriumPrice = m.TotalInvestment.Div(m.TotalBought)
	return m
}

var hundred = decimal.NewFromInt(100)

// roi returns profit over investment in percent, 0 when nothing is invested.
func roi(profit, investment Money) Percent {
	if !investment.IsPositive() {
		return 0
	}
	return Percent(profit.value.Div(investment.value).Mul(hundred).InexactFloat64())
}

func (m Metrics) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("currentPrice", m.CurrentPrice)
	w.Append("totalInvestment", m.TotalInvestment.Round())
	w.Append("totalBought", m.TotalBought)
	w.Optional("manualTotal", m.ManualTotal)
	w.Optional("manualBalanceUpdatedAt", m.ManualBalanceUpdatedAt)
	w.Append("finalValuePurchased", m.FinalValuePurchased.Round())
	w.Append("finalValueReal", m.FinalValueReal.Round())
	w.Append("profitPurchased", m.ProfitPurchased.Round())
	w.Append("profitReal", m.ProfitReal.Round())
	w.Append("roiPurchased", m.ROIPurchased)
	w.Append("roiReal", m.ROIReal)
	w.Append("interestBTC", m.InterestBTC)
	w.Append("interestUSD", m.InterestUSD.Round())
	w.Append("equilibriumPrice", m.EquilibriumPrice.Round())
	return w.MarshalJSON()
}
