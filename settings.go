package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

// DefaultInterestRate is the annual rate proposed when the user enables interest tracking.
const DefaultInterestRate Percent = 7

// ErrInvalidSettings is wrapped by every settings validation error.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings holds the user's single settings record.
type Settings struct {
	// InterestEnabled shows the interest block on the dashboard.
	InterestEnabled bool
	// AnnualInterestRate is informational, it does not enter any computation.
	AnnualInterestRate *Percent
	// ManualBalance is the bitcoin balance the user actually holds, when known.
	ManualBalance          *Quantity
	ManualBalanceUpdatedAt *time.Time
	UpdatedAt              time.Time
}

// DefaultSettings returns the settings of a new user: interest tracking off and nothing recorded.
func DefaultSettings() Settings { return Settings{} }

// WithInterest returns a copy of s with interest tracking turned on or off.
func (s Settings) WithInterest(enabled bool, now time.Time) Settings {
	s.InterestEnabled = enabled
	s.UpdatedAt = now
	return s
}

// WithInterestRate returns a copy of s with the annual rate set, or cleared when rate is nil.
func (s Settings) WithInterestRate(rate *Percent, now time.Time) Settings {
	if rate != nil {
		r := *rate
		rate = &r
	}
	s.AnnualInterestRate = rate
	s.UpdatedAt = now
	return s
}

// InterestRate returns the annual rate, DefaultInterestRate when not set.
func (s Settings) InterestRate() Percent {
	if s.AnnualInterestRate == nil {
		return DefaultInterestRate
	}
	return *s.AnnualInterestRate
}

// WithManualBalance returns a copy of s with the manual balance set and stamped
// with now. A nil balance clears both.
func (s Settings) WithManualBalance(balance *Quantity, now time.Time) Settings {
	s.UpdatedAt = now
	if balance == nil {
		s.ManualBalance = nil
		s.ManualBalanceUpdatedAt = nil
		return s
	}
	b := *balance
	s.ManualBalance = &b
	s.ManualBalanceUpdatedAt = &now
	return s
}

// Validate checks that the rate and the balance, when set, are not negative.
func (s Settings) Validate() error {
	var errs error
	if r := s.AnnualInterestRate; r != nil && (*r < 0 || math.IsNaN(float64(*r)) || math.IsInf(float64(*r), 0)) {
		errs = errors.Join(errs, fmt.Errorf("%w: annual interest rate %v must be 0 or more", ErrInvalidSettings, *r))
	}
	if b := s.ManualBalance; b != nil && b.IsNegative() {
		errs = errors.Join(errs, fmt.Errorf("%w: manual balance %v must be 0 or more", ErrInvalidSettings, *b))
	}
	return errs
}

func (s Settings) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("interestEnabled", s.InterestEnabled)
	w.Optional("annualInterestRate", s.AnnualInterestRate)
	w.Optional("manualBalance", s.ManualBalance)
	w.Optional("manualBalanceUpdatedAt", s.ManualBalanceUpdatedAt)
	w.Optional("updatedAt", s.UpdatedAt)
	return w.MarshalJSON()
}

func (s *Settings) UnmarshalJSON(b []byte) error {
	var temp struct {
		InterestEnabled        bool       `json:"interestEnabled"`
		AnnualInterestRate     *Percent   `json:"annualInterestRate"`
		ManualBalance          *Quantity  `json:"manualBalance"`
		ManualBalanceUpdatedAt *time.Time `json:"manualBalanceUpdatedAt"`
		UpdatedAt              time.Time  `json:"updatedAt"`
	}
	if err := json.Unmarshal(b, &temp); err != nil {
		return err
	}
	*s = Settings(temp)
	return nil
}
