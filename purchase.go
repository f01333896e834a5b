package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/matias9477/btc-investment-tracker/date"
	"github.com/matias9477/btc-investment-tracker/numeric"
	"github.com/shopspring/decimal"
)

// Errors reported by purchase validation, one per field.
var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidPrice  = errors.New("invalid price")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidSpent  = errors.New("invalid amount spent")
)

// Purchase is one recorded bitcoin buy.
type Purchase struct {
	ID        string    // assigned by the ledger or the store
	Date      date.Date // day of the purchase
	Price     Money     // dollars per bitcoin
	Amount    Quantity  // bitcoins bought
	Spent     Money     // dollars paid
	CreatedAt time.Time // when the purchase was recorded
}

// NewPurchase returns a purchase without identity, ready to be added to a ledger.
func NewPurchase(on date.Date, price Money, amount Quantity, spent Money) Purchase {
	return Purchase{Date: on, Price: price, Amount: amount, Spent: spent}
}

// Validate checks that the purchase has a date and that every amount is positive.
func (p Purchase) Validate() error {
	var errs error
	if p.Date.IsZero() {
		errs = errors.Join(errs, fmt.Errorf("%w: missing", ErrInvalidDate))
	}
	if !p.Price.IsPositive() {
		errs = errors.Join(errs, fmt.Errorf("%w: %v must be greater than 0", ErrInvalidPrice, p.Price.Decimal()))
	}
	if !p.Amount.IsPositive() {
		errs = errors.Join(errs, fmt.Errorf("%w: %v must be greater than 0", ErrInvalidAmount, p.Amount))
	}
	if !p.Spent.IsPositive() {
		errs = errors.Join(errs, fmt.Errorf("%w: %v must be greater than 0", ErrInvalidSpent, p.Spent.Decimal()))
	}
	return errs
}

// ParsePurchase builds a purchase from text as the user typed it: a DD/MM/YYYY
// date and three numbers in either the "1,234.56" or the "1.234,56" convention.
//
// Every field is checked and the errors are joined, each one wrapping the
// matching ErrInvalid sentinel.
func ParsePurchase(rawDate, rawPrice, rawAmount, rawSpent string) (Purchase, error) {
	return ParsePurchaseAsOf(rawDate, rawPrice, rawAmount, rawSpent, date.Today())
}

// ParsePurchaseAsOf is like ParsePurchase with an explicit current day.
func ParsePurchaseAsOf(rawDate, rawPrice, rawAmount, rawSpent string, today date.Date) (Purchase, error) {
	var errs error

	on, ok := date.ParseInputAsOf(rawDate, today)
	if !ok {
		errs = errors.Join(errs, fmt.Errorf("%w: %q is not a DD/MM/YYYY day between 1900 and today", ErrInvalidDate, rawDate))
	}
	price, err := parsePositive(rawPrice, ErrInvalidPrice)
	errs = errors.Join(errs, err)
	amount, err := parsePositive(rawAmount, ErrInvalidAmount)
	errs = errors.Join(errs, err)
	spent, err := parsePositive(rawSpent, ErrInvalidSpent)
	errs = errors.Join(errs, err)

	if errs != nil {
		return Purchase{}, errs
	}
	return NewPurchase(on, M(price), Q(amount), M(spent)), nil
}

// parsePositive parses raw and requires a number greater than 0.
func parsePositive(raw string, sentinel error) (decimal.Decimal, error) {
	d, err := numeric.ParseDecimal(raw)
	if err != nil {
		return d, fmt.Errorf("%w: %w", sentinel, err)
	}
	if !d.IsPositive() {
		return d, fmt.Errorf("%w: %q must be greater than 0", sentinel, raw)
	}
	return d, nil
}

// ParseMoney parses a dollar amount typed in either convention.
func ParseMoney(raw string) (Money, error) {
	d, err := numeric.ParseDecimal(raw)
	return M(d), err
}

// ParseQuantity parses a bitcoin amount typed in either convention.
func ParseQuantity(raw string) (Quantity, error) {
	d, err := numeric.ParseDecimal(raw)
	return Q(d), err
}

// ParsePercent parses a percentage typed in either convention, without the % sign.
func ParsePercent(raw string) (Percent, error) {
	v := numeric.ParseToNumber(raw)
	if math.IsNaN(v) {
		return 0, fmt.Errorf("%q: %w", raw, numeric.ErrNotANumber)
	}
	return Percent(v), nil
}

// MarshalJSON writes the purchase fields in a stable order.
func (p Purchase) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("id", p.ID)
	w.Append("date", p.Date)
	w.Append("price", p.Price)
	w.Append("amount", p.Amount)
	w.Append("spent", p.Spent)
	w.Optional("createdAt", p.CreatedAt)
	return w.MarshalJSON()
}

func (p *Purchase) UnmarshalJSON(b []byte) error {
	var temp struct {
		ID        string    `json:"id"`
		Date      date.Date `json:"date"`
		Price     Money     `json:"price"`
		Amount    Quantity  `json:"amount"`
		Spent     Money     `json:"spent"`
		CreatedAt time.Time `json:"createdAt"`
	}
	if err := json.Unmarshal(b, &temp); err != nil {
		return err
	}
	*p = Purchase(temp)
	return nil
}
