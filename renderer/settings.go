package renderer

import (
	tracker "github.com/matias9477/btc-investment-tracker"
	"github.com/matias9477/btc-investment-tracker/date"
)

// Settings is the view of tracker.Settings.
type Settings struct {
	InterestEnabled bool
	AnnualRate      string
	ManualBalance   string // empty when not set
	ManualUpdatedOn string
}

func NewSettings(s tracker.Settings) *Settings {
	v := &Settings{
		InterestEnabled: s.InterestEnabled,
		AnnualRate:      s.InterestRate().String(),
	}
	if s.ManualBalance != nil {
		v.ManualBalance = s.ManualBalance.BTC()
	}
	if s.ManualBalanceUpdatedAt != nil {
		v.ManualUpdatedOn = date.Of(*s.ManualBalanceUpdatedAt).Long()
	}
	return v
}

// RenderSettings renders the settings to a markdown string.
func RenderSettings(s *Settings) string {
	return renderTemplate("settings", "settings.md", nil, s)
}
