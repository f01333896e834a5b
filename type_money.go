package tracker

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents an amount of US dollars.
//
// Money keeps every digit it was created with; rounding to cents only happens
// when it is displayed or explicitly rounded.
type Money struct {
	value decimal.Decimal // as major unit value
}

type number interface {
	float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal
}

// M returns value dollars.
func M[T number](value T) Money {
	return Money{value: newDecimal(value)}
}

// currency returns the go-money USD currency, used for its formatter.
func currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, money.USD).Currency()
}

// String returns the dollar amount with exactly two fraction digits, like "$1,234.56" or "-$5.00".
func (m Money) String() string {
	cur := currency()
	fraction := int32(cur.Fraction)
	dec := m.value.Round(fraction).Shift(fraction)
	return cur.Formatter().Format(dec.IntPart())
}

// Decimal returns the exact amount.
func (m Money) Decimal() decimal.Decimal { return m.value }

func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool           { return m.value.LessThan(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg()} }
func (m Money) Add(n Money) Money               { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money               { return Money{value: m.value.Sub(n.value)} }
func (m Money) Mul(q Quantity) Money            { return Money{value: m.value.Mul(q.value)} }

// Div returns the price of one unit when m buys q units. Dividing by zero returns zero.
func (m Money) Div(q Quantity) Money {
	if q.IsZero() {
		return Money{}
	}
	return Money{value: m.value.Div(q.value)}
}

// DivPrice returns how many units m buys at price. Dividing by zero returns zero.
func (m Money) DivPrice(price Money) Quantity {
	if price.IsZero() {
		return Quantity{}
	}
	return Quantity{value: m.value.Div(price.value)}
}

// Round returns m rounded to the cent.
func (m Money) Round() Money {
	return Money{value: m.value.Round(int32(currency().Fraction))}
}

// Float64 returns the nearest float64 to m, for charts and ratios only.
func (m Money) Float64() float64 { return m.value.InexactFloat64() }

// SignedString returns the string representation of the money value with an explicit sign.
func (m Money) SignedString() string {
	if m.value.IsNegative() {
		return m.String()
	}
	return "+" + m.String()
}

// MarshalJSON writes the exact amount as a JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return m.value.MarshalJSON()
}

// UnmarshalJSON reads a JSON number or a quoted number.
func (m *Money) UnmarshalJSON(b []byte) error {
	return m.value.UnmarshalJSON(b)
}
