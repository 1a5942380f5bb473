package options

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tradeking-trader/internal/errors"
	"tradeking-trader/internal/models"
)

// DefaultTTL is the default lifetime of cached derived values.
const DefaultTTL = 300 * time.Second

// NoExpiry as a TTL keeps cached values fresh forever.
const NoExpiry = time.Duration(-1)

// LegParams configures Leg construction. Zero-valued fields take
// defaults; Expiration, Type and Strike are derived from the symbol
// when not supplied.
type LegParams struct {
	Direction  models.Direction
	Expiration time.Time
	Type       models.OptionType
	Strike     models.Price
	PriceRange models.Price // half-width of the payoff domain around the strike
	TickSize   models.Price // payoff curve sampling interval
	TTL        time.Duration
	Cost       CostModel
	Premium    PremiumSource
	Clock      func() time.Time // test hook for the cache clock
	Logger     *zerolog.Logger
}

func (p LegParams) logger() zerolog.Logger {
	if p.Logger != nil {
		return *p.Logger
	}
	return zerolog.Nop()
}

func (p LegParams) withDefaults() LegParams {
	if p.Direction == "" {
		p.Direction = models.Long
	}
	if p.PriceRange == 0 {
		p.PriceRange = models.MustPrice(20)
	}
	if p.TickSize == 0 {
		p.TickSize = models.MustPrice(0.01)
	}
	if p.TTL == 0 {
		p.TTL = DefaultTTL
	}
	if p.Cost == nil {
		p.Cost = DefaultCostModel()
	}
	p.Premium = fallbackPremium(p.Premium, p.logger())
	return p
}

// Leg is a single option contract position. Identity (components and
// direction) is immutable after construction; the payoff domain may be
// widened by an owning MultiLeg when reconciling a shared price range.
type Leg struct {
	components models.OptionComponents
	direction  models.Direction
	symbol     string

	mu    sync.Mutex // guards domain and owner
	start models.Price
	stop  models.Price
	tick  models.Price
	owner *MultiLeg

	ttl     time.Duration
	cost    CostModel
	premium PremiumSource
	cache   *derivedCache
	log     zerolog.Logger
}

// NewLeg constructs a Leg from an option symbol. Components missing
// from params are parsed out of the symbol; when every component is
// supplied, symbol is taken as the bare underlying.
func NewLeg(symbol string, params LegParams) (*Leg, error) {
	p := params.withDefaults()

	if _, err := models.ParseDirection(string(p.Direction)); err != nil {
		return nil, err
	}
	if p.TickSize <= 0 {
		return nil, errors.NewValidationError("tick_size", p.TickSize, "must be positive")
	}
	if p.PriceRange <= 0 {
		return nil, errors.NewValidationError("price_range", p.PriceRange, "must be positive")
	}
	if p.TTL < 0 {
		p.TTL = 0 // cache-level "never expires"
	}

	underlying := symbol
	if p.Expiration.IsZero() || p.Type == "" || p.Strike == 0 {
		parsed, err := ParseSymbol(symbol)
		if err != nil {
			return nil, err
		}
		underlying = parsed.Underlying
		if p.Expiration.IsZero() {
			p.Expiration = parsed.Expiration
		}
		if p.Type == "" {
			p.Type = parsed.Type
		}
		if p.Strike == 0 {
			p.Strike = parsed.Strike
		}
	}

	components := models.OptionComponents{
		Underlying: underlying,
		Expiration: p.Expiration,
		Type:       p.Type,
		Strike:     p.Strike,
	}
	if err := components.Validate(); err != nil {
		return nil, err
	}

	canonical, err := EncodeComponents(components)
	if err != nil {
		return nil, err
	}

	return &Leg{
		components: components,
		direction:  p.Direction,
		symbol:     canonical,
		start:      components.Strike.Sub(p.PriceRange),
		stop:       components.Strike.Add(p.PriceRange) + 1,
		tick:       p.TickSize,
		ttl:        p.TTL,
		cost:       p.Cost,
		premium:    p.Premium,
		cache:      newDerivedCache(p.Clock),
		log:        p.logger().With().Str("symbol", canonical).Logger(),
	}, nil
}

// Symbol returns the canonical encoded option symbol.
func (l *Leg) Symbol() string {
	return l.symbol
}

// Components returns the contract identity.
func (l *Leg) Components() models.OptionComponents {
	return l.components
}

// Direction returns the position side.
func (l *Leg) Direction() models.Direction {
	return l.direction
}

// Domain returns the current payoff sampling range [start, stop) and
// tick size.
func (l *Leg) Domain() (start, stop, tick models.Price) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.start, l.stop, l.tick
}

// Payoff evaluates the intrinsic value of the leg at a single price:
// max(price-strike, 0) for a call, max(strike-price, 0) for a put,
// negated for a short position. Pure, never cached.
func (l *Leg) Payoff(price models.Price) models.Price {
	var payoff models.Price
	switch l.components.Type {
	case models.Put:
		payoff = models.MaxPrice(l.components.Strike.Sub(price), 0)
	default:
		payoff = models.MaxPrice(price.Sub(l.components.Strike), 0)
	}
	if l.direction == models.Short {
		payoff = payoff.Neg()
	}
	return payoff
}

// Payoffs returns the payoff curve sampled at every tick across the
// domain. The curve is cached under the leg's TTL and recomputed when
// the domain changes. The returned slice is the caller's to mutate;
// the cached copy stays intact.
func (l *Leg) Payoffs() models.Curve {
	curve, _ := l.cache.getOrCompute(cachePayoffs, l.ttl, func() (interface{}, error) {
		start, stop, tick := l.Domain()
		curve := make(models.Curve, 0, int((stop-start)/tick)+1)
		for price := start; price < stop; price += tick {
			curve = append(curve, models.CurvePoint{Price: price, Value: l.Payoff(price)})
		}
		return curve, nil
	})
	cached := curve.(models.Curve)
	out := make(models.Curve, len(cached))
	copy(out, cached)
	return out
}

// Cost returns the commission for this leg alone, cached under TTL.
func (l *Leg) Cost() models.Price {
	cost, _ := l.cache.getOrCompute(cacheCost, l.ttl, func() (interface{}, error) {
		return l.cost.Cost(1), nil
	})
	return cost.(models.Price)
}

// Premium returns the market premium for the leg, negated for a short
// position, cached under TTL. Premium source failures propagate.
func (l *Leg) Premium(ctx context.Context) (models.Price, error) {
	premium, err := l.cache.getOrCompute(cachePremium, l.ttl, func() (interface{}, error) {
		premium, err := l.premium.Premium(ctx, l.symbol)
		if err != nil {
			return nil, err
		}
		if l.direction == models.Short {
			premium = premium.Neg()
		}
		return premium, nil
	})
	if err != nil {
		return 0, err
	}
	return premium.(models.Price), nil
}

// Invalidate drops every cached derived value regardless of age.
func (l *Leg) Invalidate() {
	l.cache.invalidate()
}

// resetDomain widens the sampling range for curve aggregation. Only
// the owning MultiLeg calls this; the cached payoff curve is dropped,
// cost and premium are untouched since they do not depend on the
// domain.
func (l *Leg) resetDomain(start, stop models.Price) {
	l.mu.Lock()
	l.start = start
	l.stop = stop
	l.mu.Unlock()
	l.cache.invalidate(cachePayoffs)
}

// adopt records m as the leg's owner. A leg shared across MultiLegs
// would see its domain rewritten by both, so a second owner is
// rejected.
func (l *Leg) adopt(m *MultiLeg) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.owner != nil && l.owner != m {
		return errors.Wrapf(errors.ErrInvalidArgument, "leg %s already belongs to another position", l.symbol)
	}
	l.owner = m
	return nil
}
