// Package options provides option symbol encoding, payoff curve
// analysis for single and multi-leg positions, and the option chain
// filter query language.
package options

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"tradeking-trader/internal/errors"
	"tradeking-trader/internal/models"
)

// Symbol layout: <UNDERLYING><YYMMDD><C|P><8-digit zero-padded strike*1000>.
const (
	symbolDateLayout = "060102"
	strikeWidth      = 8
	symbolMinLen     = 15 // date(6) + type(1) + strike(8)
)

// Symbol formats an option symbol from its component parts.
func Symbol(underlying string, expiration time.Time, typ models.OptionType, strike models.Price) (string, error) {
	typ, err := models.ParseOptionType(string(typ))
	if err != nil {
		return "", err
	}
	if strike < 0 {
		return "", errors.NewValidationError("strike", strike, "must not be negative")
	}
	return fmt.Sprintf("%s%s%s%0*d",
		strings.ToUpper(underlying),
		expiration.Format(symbolDateLayout),
		typ,
		strikeWidth, int64(strike)), nil
}

// EncodeComponents formats an option symbol from an OptionComponents value.
func EncodeComponents(c models.OptionComponents) (string, error) {
	return Symbol(c.Underlying, c.Expiration, c.Type, c.Strike)
}

// ParseSymbol parses an option symbol into its component parts. The
// layout is fixed-width from the right: the last 8 characters are the
// encoded strike, the 9th-from-last is the type letter, the preceding 6
// are the YYMMDD expiration, and everything before that is the
// underlying.
func ParseSymbol(symbol string) (models.OptionComponents, error) {
	var c models.OptionComponents

	if len(symbol) < symbolMinLen {
		return c, errors.NewSymbolError(symbol, "length",
			fmt.Sprintf("need at least %d characters, have %d", symbolMinLen, len(symbol)), nil)
	}

	strikeDigits := symbol[len(symbol)-strikeWidth:]
	strike, err := strconv.ParseInt(strikeDigits, 10, 64)
	if err != nil || strike < 0 {
		return c, errors.NewSymbolError(symbol, "strike",
			fmt.Sprintf("segment %q is not an unsigned integer", strikeDigits), nil)
	}

	typ, err := models.ParseOptionType(symbol[len(symbol)-strikeWidth-1 : len(symbol)-strikeWidth])
	if err != nil {
		return c, errors.NewSymbolError(symbol, "type", "type letter not one of (C, P)", err)
	}

	dateSegment := symbol[len(symbol)-symbolMinLen : len(symbol)-strikeWidth-1]
	expiration, err := time.Parse(symbolDateLayout, dateSegment)
	if err != nil {
		return c, errors.NewSymbolError(symbol, "expiration",
			fmt.Sprintf("segment %q is not YYMMDD", dateSegment), nil)
	}

	c.Underlying = strings.ToUpper(symbol[:len(symbol)-symbolMinLen])
	c.Expiration = expiration
	c.Type = typ
	c.Strike = models.Price(strike)
	return c, nil
}

// Symbols generates the option symbols for the Cartesian product of
// expirations and strikes, for calls, puts, or both.
func Symbols(underlying string, expirations []time.Time, strikes []models.Price, calls, puts bool) ([]string, error) {
	if !calls && !puts {
		return nil, errors.Wrap(errors.ErrInvalidArgument, "either calls or puts must be selected")
	}

	var types []models.OptionType
	if calls {
		types = append(types, models.Call)
	}
	if puts {
		types = append(types, models.Put)
	}

	symbols := make([]string, 0, len(expirations)*len(types)*len(strikes))
	for _, expiration := range expirations {
		for _, typ := range types {
			for _, strike := range strikes {
				symbol, err := Symbol(underlying, expiration, typ, strike)
				if err != nil {
					return nil, err
				}
				symbols = append(symbols, symbol)
			}
		}
	}
	return symbols, nil
}
