package renderer

import (
	tracker "github.com/matias9477/btc-investment-tracker"
	"github.com/matias9477/btc-investment-tracker/date"
)

// Dashboard is the view of tracker.Metrics, every figure formatted for display.
type Dashboard struct {
	Price     string
	Change24h string // signed percentage, empty when unknown
	Trend     string // "up" or "down"
	PricedAt  string

	Purchases           int
	TotalInvestment     string
	TotalBought         string
	EquilibriumPrice    string
	FinalValuePurchased string
	ProfitPurchased     string
	ROIPurchased        string

	HasManualBalance bool
	FinalValueReal   string
	ProfitReal       string
	ROIReal          string

	InterestEnabled bool
	AnnualRate      string
	ManualTotal     string // empty when not set
	ManualUpdatedOn string
	InterestBTC     string
	InterestUSD     string
}

// NewDashboard formats the metrics of count purchases, the settings and the quote the metrics were computed at.
func NewDashboard(m tracker.Metrics, count int, settings tracker.Settings, quote tracker.Quote) *Dashboard {
	d := &Dashboard{
		Price:               m.CurrentPrice.String(),
		Trend:               "up",
		Purchases:           count,
		TotalInvestment:     m.TotalInvestment.String(),
		TotalBought:         m.TotalBought.BTC(),
		EquilibriumPrice:    m.EquilibriumPrice.String(),
		FinalValuePurchased: m.FinalValuePurchased.String(),
		ProfitPurchased:     m.ProfitPurchased.SignedString(),
		ROIPurchased:        m.ROIPurchased.SignedString(),
		HasManualBalance:    m.ManualTotal != nil,
		FinalValueReal:      m.FinalValueReal.String(),
		ProfitReal:          m.ProfitReal.SignedString(),
		ROIReal:             m.ROIReal.SignedString(),
		InterestEnabled:     settings.InterestEnabled,
		InterestBTC:         m.InterestBTC.BTC(),
		InterestUSD:         m.InterestUSD.SignedString(),
	}
	if quote.Change24h != nil {
		d.Change24h = quote.Change24h.SignedString()
		if *quote.Change24h < 0 {
			d.Trend = "down"
		}
	}
	if !quote.FetchedAt.IsZero() {
		d.PricedAt = quote.FetchedAt.Format("Jan 2, 2006 15:04 MST")
	}
	if settings.InterestEnabled {
		d.AnnualRate = settings.InterestRate().String()
	}
	if m.ManualTotal != nil {
		d.ManualTotal = m.ManualTotal.BTC()
	}
	if m.ManualBalanceUpdatedAt != nil {
		d.ManualUpdatedOn = date.Of(*m.ManualBalanceUpdatedAt).Long()
	}
	return d
}
