package domain

import (
	"github.com/shopspring/decimal" // Arbitrary-precision decimals for money
)

// Amount is a decimal money value that travels as a bare JSON number
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps a decimal
func NewAmount(d decimal.Decimal) Amount {
	return Amount{d}
}

// AmountFromFloat converts a float64 amount
func AmountFromFloat(f float64) Amount {
	return Amount{decimal.NewFromFloat(f)}
}

// ParseAmount parses user input such as "10", "10.50" or "1e2"
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	return Amount{d}, nil
}

// MarshalJSON writes the amount as a number, not a quoted string
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// UnmarshalJSON accepts both numbers and quoted numbers
func (a *Amount) UnmarshalJSON(b []byte) error {
	return a.Decimal.UnmarshalJSON(b)
}

// Dollars formats the amount with two decimals, e.g. "$12.50"
func (a Amount) Dollars() string {
	return "$" + a.StringFixed(2)
}
