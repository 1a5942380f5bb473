package options

import (
	"context"
	"sort"
	"sync"
	"time"

	"tradeking-trader/internal/models"
)

// MultiLeg is an ordered collection of Legs analyzed as one position.
// Payoff, cost and premium aggregate over every member leg; insertion
// order is preserved but the aggregates are order-independent sums.
type MultiLeg struct {
	mu       sync.Mutex // guards legs
	legs     []*Leg
	defaults LegParams
	cost     CostModel
	cache    *derivedCache
	ttl      time.Duration
}

// NewMultiLeg creates a MultiLeg. The params become the defaults for
// legs later constructed from bare symbols via AddSymbol, and supply
// the multi-leg cost model and cache TTL.
func NewMultiLeg(params LegParams, legs ...*Leg) (*MultiLeg, error) {
	p := params.withDefaults()
	m := &MultiLeg{
		defaults: params,
		cost:     p.Cost,
		cache:    newDerivedCache(p.Clock),
		ttl:      p.TTL,
	}
	if p.TTL < 0 {
		m.ttl = 0
	}
	for _, leg := range legs {
		if err := m.AddLeg(leg); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// AddLeg appends an externally constructed Leg. Ownership of the leg's
// domain passes to this MultiLeg; a leg already owned by another
// MultiLeg is rejected. All cached aggregates are invalidated.
func (m *MultiLeg) AddLeg(leg *Leg) error {
	if err := leg.adopt(m); err != nil {
		return err
	}
	m.mu.Lock()
	m.legs = append(m.legs, leg)
	m.mu.Unlock()
	m.cache.invalidate()
	return nil
}

// AddSymbol constructs a Leg from an option symbol and appends it. The
// optional params override the MultiLeg's defaults for this leg only.
func (m *MultiLeg) AddSymbol(symbol string, params ...LegParams) error {
	p := m.defaults
	if len(params) > 0 {
		p = params[0]
	}
	leg, err := NewLeg(symbol, p)
	if err != nil {
		return err
	}
	return m.AddLeg(leg)
}

// Legs returns the member legs in insertion order.
func (m *MultiLeg) Legs() []*Leg {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Leg, len(m.legs))
	copy(out, m.legs)
	return out
}

// Payoff evaluates the combined intrinsic value at a single price.
func (m *MultiLeg) Payoff(price models.Price) models.Price {
	var total models.Price
	for _, leg := range m.Legs() {
		total = total.Add(leg.Payoff(price))
	}
	return total
}

// Payoffs returns the aggregate payoff curve over the union of the
// member legs' domains. Every leg is first widened to the union range,
// then the curves are summed point-wise, with a tick missing from a
// leg's curve contributing zero. Cached under TTL; the returned slice
// is the caller's to mutate, the cached copy stays intact.
func (m *MultiLeg) Payoffs() models.Curve {
	curve, _ := m.cache.getOrCompute(cachePayoffs, m.ttl, func() (interface{}, error) {
		legs := m.Legs()
		if len(legs) == 0 {
			return models.Curve{}, nil
		}

		start, stop, _ := legs[0].Domain()
		for _, leg := range legs[1:] {
			s, e, _ := leg.Domain()
			start = models.MinPrice(start, s)
			stop = models.MaxPrice(stop, e)
		}
		for _, leg := range legs {
			leg.resetDomain(start, stop)
		}

		// Legs may sample at different tick sizes; merge by price key.
		totals := make(map[models.Price]models.Price)
		for _, leg := range legs {
			for _, pt := range leg.Payoffs() {
				totals[pt.Price] += pt.Value
			}
		}

		curve := make(models.Curve, 0, len(totals))
		for price, value := range totals {
			curve = append(curve, models.CurvePoint{Price: price, Value: value})
		}
		sort.Slice(curve, func(i, j int) bool { return curve[i].Price < curve[j].Price })
		return curve, nil
	})
	cached := curve.(models.Curve)
	out := make(models.Curve, len(cached))
	copy(out, cached)
	return out
}

// Cost returns the commission for the whole position, cached under TTL.
func (m *MultiLeg) Cost() models.Price {
	cost, _ := m.cache.getOrCompute(cacheCost, m.ttl, func() (interface{}, error) {
		return m.cost.Cost(len(m.Legs())), nil
	})
	return cost.(models.Price)
}

// Premium returns the sum of the member legs' premiums, cached under
// TTL. A failing premium source propagates its error.
func (m *MultiLeg) Premium(ctx context.Context) (models.Price, error) {
	premium, err := m.cache.getOrCompute(cachePremium, m.ttl, func() (interface{}, error) {
		var total models.Price
		for _, leg := range m.Legs() {
			p, err := leg.Premium(ctx)
			if err != nil {
				return nil, err
			}
			total = total.Add(p)
		}
		return total, nil
	})
	if err != nil {
		return 0, err
	}
	return premium.(models.Price), nil
}

// Invalidate drops every cached aggregate regardless of age.
func (m *MultiLeg) Invalidate() {
	m.cache.invalidate()
}
