// Package models provides domain models for option analysis.
package models

import (
	"strings"
	"time"

	"tradeking-trader/internal/errors"
)

// OptionType represents the contract type of an option.
type OptionType string

const (
	Call OptionType = "C"
	Put  OptionType = "P"
)

// ParseOptionType normalizes and validates an option type letter.
func ParseOptionType(s string) (OptionType, error) {
	switch OptionType(strings.ToUpper(s)) {
	case Call:
		return Call, nil
	case Put:
		return Put, nil
	default:
		return "", errors.Wrapf(errors.ErrInvalidOptionType, "type letter %q not one of (C, P)", s)
	}
}

// Direction represents the side of a position.
type Direction string

const (
	Long  Direction = "L"
	Short Direction = "S"
)

// ParseDirection normalizes and validates a direction letter.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToUpper(s)) {
	case Long:
		return Long, nil
	case Short:
		return Short, nil
	default:
		return "", errors.Wrapf(errors.ErrInvalidArgument, "direction %q not one of (L, S)", s)
	}
}

// OptionComponents holds the identity of a single option contract.
type OptionComponents struct {
	Underlying string
	Expiration time.Time
	Type       OptionType
	Strike     Price
}

// Validate checks the component invariants.
func (c OptionComponents) Validate() error {
	if c.Underlying == "" {
		return errors.NewValidationError("underlying", c.Underlying, "must not be empty")
	}
	if c.Type != Call && c.Type != Put {
		return errors.Wrapf(errors.ErrInvalidOptionType, "type %q", c.Type)
	}
	if c.Strike < 0 {
		return errors.NewValidationError("strike", c.Strike, "must not be negative")
	}
	if c.Expiration.IsZero() {
		return errors.NewValidationError("expiration", c.Expiration, "must be set")
	}
	return nil
}

// Quote represents a market quote for one symbol.
type Quote struct {
	Symbol    string
	Bid       Price
	Ask       Price
	Last      Price
	BidSize   int64
	AskSize   int64
	Volume    int64
	Timestamp time.Time
}

// Mid returns the bid/ask midpoint.
func (q Quote) Mid() Price {
	return (q.Bid + q.Ask) / 2
}

// CurvePoint is one sample of a payoff curve: the underlying price and
// the position's intrinsic value at that price.
type CurvePoint struct {
	Price Price
	Value Price
}

// Curve is a payoff curve ordered by ascending price.
type Curve []CurvePoint

// Value returns the curve value at price, or zero if the price is not a
// sampled point.
func (c Curve) Value(price Price) (Price, bool) {
	lo, hi := 0, len(c)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case c[mid].Price < price:
			lo = mid + 1
		case c[mid].Price > price:
			hi = mid
		default:
			return c[mid].Value, true
		}
	}
	return 0, false
}

// Min returns the smallest value on the curve.
func (c Curve) Min() Price {
	if len(c) == 0 {
		return 0
	}
	min := c[0].Value
	for _, pt := range c[1:] {
		if pt.Value < min {
			min = pt.Value
		}
	}
	return min
}

// Max returns the largest value on the curve.
func (c Curve) Max() Price {
	if len(c) == 0 {
		return 0
	}
	max := c[0].Value
	for _, pt := range c[1:] {
		if pt.Value > max {
			max = pt.Value
		}
	}
	return max
}

// Shift returns a copy of the curve with delta added to every value.
// Used to fold cost and premium into a raw payoff curve.
func (c Curve) Shift(delta Price) Curve {
	out := make(Curve, len(c))
	for i, pt := range c {
		out[i] = CurvePoint{Price: pt.Price, Value: pt.Value + delta}
	}
	return out
}
