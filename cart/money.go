package cart

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Paise is an amount in the smallest rupee unit. All cart arithmetic stays in
// Paise; rupees only appear when a value is rendered.
type Paise int64

// Rupees converts p into major units with two decimal places.
func (p Paise) Rupees() decimal.Decimal {
	return decimal.New(int64(p), -2)
}

// MaxRupees is the largest amount ParseRupees accepts (₹1 crore).
var MaxRupees = decimal.New(10_000_000, 0)

func (p Paise) String() string {
	return "₹" + p.Rupees().StringFixed(2)
}

// ParseRupees turns admin input such as "120" or "99.50" into Paise.
// Fractions of a paisa are rounded half away from zero.
func ParseRupees(s string) (Paise, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid rupee amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("negative rupee amount %q", s)
	}
	if d.GreaterThan(MaxRupees) {
		return 0, fmt.Errorf("rupee amount %q exceeds %s", s, MaxRupees.String())
	}
	return Paise(d.Shift(2).Round(0).IntPart()), nil
}
