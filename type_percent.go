package tracker

import (
	"fmt"
	"math"
)

// Percent is a ratio times 100: 25 is 25%.
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

// SignedString returns the percentage with an explicit sign and two digits.
// Zero and NaN are "+0.00%".
func (p Percent) SignedString() string {
	if p == 0 || math.IsNaN(float64(p)) {
		return "+0.00%"
	}
	return fmt.Sprintf("%+.2f%%", p)
}
