package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: every decimal value with at most three fractional digits
// survives a ParsePrice round trip exactly.
func TestProperty_ParsePriceRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("ParsePrice round trips 3-digit decimals", prop.ForAll(
		func(units int64) bool {
			sign := ""
			abs := units
			if abs < 0 {
				sign = "-"
				abs = -abs
			}
			s := fmt.Sprintf("%s%d.%03d", sign, abs/PriceScale, abs%PriceScale)

			p, err := ParsePrice(s)
			if err != nil {
				return false
			}
			return p == Price(units)
		},
		gen.Int64Range(-1_000_000_000, 1_000_000_000),
	))

	properties.TestingRun(t)
}

// Property: float encoding lands within one fixed-point unit of the
// exact value, and decoding stays within 1/1000 of the input.
func TestProperty_NewPriceWithinOneUnit(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("NewPrice is within one unit of exact", prop.ForAll(
		func(units int64) bool {
			value := float64(units) / PriceScale
			p, err := NewPrice(value)
			if err != nil {
				return false
			}
			diff := int64(p) - units
			if diff < 0 {
				diff = -diff
			}
			return diff <= 1
		},
		gen.Int64Range(-1_000_000_000, 1_000_000_000),
	))

	properties.Property("sums of encoded prices are exact", prop.ForAll(
		func(a, b int64) bool {
			return Price(a).Add(Price(b)) == Price(a+b)
		},
		gen.Int64Range(-1_000_000_000, 1_000_000_000),
		gen.Int64Range(-1_000_000_000, 1_000_000_000),
	))

	properties.TestingRun(t)
}
