package models

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"tradeking-trader/internal/errors"
)

// PriceScale is the fixed-point multiplier converting decimal currency
// values to exact integers. Three decimal digits of precision.
const PriceScale = 1000

// Price is a fixed-point currency value backed by an int64. Sums and
// differences of Prices are exact; repeated addition never accumulates
// floating-point error. The zero value is a valid price of 0.
type Price int64

// NewPrice encodes a decimal value as a Price, truncating toward zero
// past the third fractional digit. Non-finite input is rejected with
// ErrInvalidPrice.
func NewPrice(value float64) (Price, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, errors.Wrapf(errors.ErrInvalidPrice, "non-finite value %v", value)
	}
	return Price(int64(value * PriceScale)), nil
}

// MustPrice is like NewPrice but panics on invalid input. Intended for
// constants and tests.
func MustPrice(value float64) Price {
	p, err := NewPrice(value)
	if err != nil {
		panic(err)
	}
	return p
}

// ParsePrice encodes a decimal string as a Price using exact decimal
// arithmetic, so inputs like "0.1" carry no binary-float error.
func ParsePrice(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInvalidPrice, "parse %q", s)
	}
	return Price(d.Mul(decimal.NewFromInt(PriceScale)).IntPart()), nil
}

// Float decodes the Price back to a floating-point decimal value.
func (p Price) Float() float64 {
	return float64(p) / PriceScale
}

// Add returns p + other.
func (p Price) Add(other Price) Price {
	return p + other
}

// Sub returns p - other.
func (p Price) Sub(other Price) Price {
	return p - other
}

// MulInt returns p scaled by an integer factor.
func (p Price) MulInt(n int64) Price {
	return p * Price(n)
}

// Neg returns -p.
func (p Price) Neg() Price {
	return -p
}

func (p Price) String() string {
	return fmt.Sprintf("%g", p.Float())
}

// MaxPrice returns the larger of a and b.
func MaxPrice(a, b Price) Price {
	if a > b {
		return a
	}
	return b
}

// MinPrice returns the smaller of a and b.
func MinPrice(a, b Price) Price {
	if a < b {
		return a
	}
	return b
}
