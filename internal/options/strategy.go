package options

import (
	"tradeking-trader/internal/models"
)

// Strategy builders compose Legs into a MultiLeg with fixed type and
// direction conventions. Expiration and strike fall back to whatever
// the symbol encodes when params leaves them unset.

func buildLeg(symbol string, typ models.OptionType, direction models.Direction, params LegParams) (*Leg, error) {
	// The type is forced by the strategy, never taken from the symbol.
	params.Type = typ
	params.Direction = direction
	return NewLeg(symbol, params)
}

func direction(params LegParams) models.Direction {
	if params.Direction == "" {
		return models.Long
	}
	return params.Direction
}

// Call builds a single-leg call position, long unless params says
// otherwise.
func Call(symbol string, params LegParams) (*MultiLeg, error) {
	leg, err := buildLeg(symbol, models.Call, direction(params), params)
	if err != nil {
		return nil, err
	}
	return NewMultiLeg(params, leg)
}

// Put builds a single-leg put position, long unless params says
// otherwise.
func Put(symbol string, params LegParams) (*MultiLeg, error) {
	leg, err := buildLeg(symbol, models.Put, direction(params), params)
	if err != nil {
		return nil, err
	}
	return NewMultiLeg(params, leg)
}

// Straddle builds a put and a call at the same strike and expiration,
// both on the same side.
func Straddle(symbol string, params LegParams) (*MultiLeg, error) {
	side := direction(params)
	put, err := buildLeg(symbol, models.Put, side, params)
	if err != nil {
		return nil, err
	}
	call, err := buildLeg(symbol, models.Call, side, params)
	if err != nil {
		return nil, err
	}
	return NewMultiLeg(params, put, call)
}

// Strangle builds a call at callStrike and a put at putStrike, both on
// the same side, sharing an expiration parsed from the symbol when
// params leaves it unset.
func Strangle(symbol string, callStrike, putStrike models.Price, params LegParams) (*MultiLeg, error) {
	side := direction(params)

	putParams := params
	putParams.Strike = putStrike
	put, err := buildLeg(symbol, models.Put, side, putParams)
	if err != nil {
		return nil, err
	}

	callParams := params
	callParams.Strike = callStrike
	call, err := buildLeg(symbol, models.Call, side, callParams)
	if err != nil {
		return nil, err
	}

	return NewMultiLeg(params, put, call)
}

// Collar builds a long put at putStrike against a short call at
// callStrike. The directions are fixed by the strategy and not
// caller-selectable.
func Collar(symbol string, putStrike, callStrike models.Price, params LegParams) (*MultiLeg, error) {
	putParams := params
	putParams.Strike = putStrike
	put, err := buildLeg(symbol, models.Put, models.Long, putParams)
	if err != nil {
		return nil, err
	}

	callParams := params
	callParams.Strike = callStrike
	call, err := buildLeg(symbol, models.Call, models.Short, callParams)
	if err != nil {
		return nil, err
	}

	return NewMultiLeg(params, put, call)
}
