package options

import (
	"context"
	"testing"
	"time"

	"tradeking-trader/internal/errors"
	"tradeking-trader/internal/models"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2016, 6, 1, 9, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type countingCost struct {
	calls  int
	base   models.Price
	perLeg models.Price
}

func (c *countingCost) Cost(legCount int) models.Price {
	c.calls++
	return c.base.Add(c.perLeg.MulInt(int64(legCount)))
}

type countingPremium struct {
	calls int
	value models.Price
	err   error
}

func (p *countingPremium) Premium(ctx context.Context, symbol string) (models.Price, error) {
	p.calls++
	if p.err != nil {
		return 0, p.err
	}
	return p.value, nil
}

func newTestLeg(t *testing.T, symbol string, params LegParams) *Leg {
	t.Helper()
	leg, err := NewLeg(symbol, params)
	if err != nil {
		t.Fatal(err)
	}
	return leg
}

func TestLegPayoffCall(t *testing.T) {
	leg := newTestLeg(t, "F160617C00150000", LegParams{})
	strike := models.MustPrice(150)

	for _, price := range []models.Price{0, strike - 1, strike} {
		if got := leg.Payoff(price); got != 0 {
			t.Errorf("Payoff(%d) = %d, want 0", price, got)
		}
	}
	for _, above := range []models.Price{1, 1000, 20000} {
		if got := leg.Payoff(strike + above); got != above {
			t.Errorf("Payoff(strike+%d) = %d, want %d", above, got, above)
		}
	}
}

func TestLegPayoffPut(t *testing.T) {
	leg := newTestLeg(t, "F160617P00150000", LegParams{})
	strike := models.MustPrice(150)

	if got := leg.Payoff(strike + 1000); got != 0 {
		t.Errorf("Payoff above strike = %d, want 0", got)
	}
	if got := leg.Payoff(strike - 5000); got != 5000 {
		t.Errorf("Payoff below strike = %d, want 5000", got)
	}
}

func TestLegShortNegatesPayoff(t *testing.T) {
	long := newTestLeg(t, "F160617C00150000", LegParams{Direction: models.Long})
	short := newTestLeg(t, "F160617C00150000", LegParams{Direction: models.Short})

	for _, price := range []models.Price{100000, 150000, 160000, 175500} {
		if long.Payoff(price) != short.Payoff(price).Neg() {
			t.Errorf("short payoff at %d is not the negated long payoff", price)
		}
	}
}

func TestLegPayoffsCurveShape(t *testing.T) {
	leg := newTestLeg(t, "F160617C00150000", LegParams{
		PriceRange: models.MustPrice(20),
		TickSize:   models.MustPrice(1),
	})

	curve := leg.Payoffs()
	if len(curve) != 41 {
		t.Fatalf("len(curve) = %d, want 41", len(curve))
	}

	strike := models.MustPrice(150)
	if curve[0].Price != strike.Sub(models.MustPrice(20)) {
		t.Errorf("first point at %d", curve[0].Price)
	}
	if curve[40].Price != strike.Add(models.MustPrice(20)) {
		t.Errorf("last point at %d", curve[40].Price)
	}
	for _, pt := range curve {
		want := models.MaxPrice(pt.Price.Sub(strike), 0)
		if pt.Value != want {
			t.Errorf("value at %d = %d, want %d", pt.Price, pt.Value, want)
		}
	}
}

func TestLegComponentsFromParams(t *testing.T) {
	leg := newTestLeg(t, "F", LegParams{
		Expiration: june17,
		Type:       models.Put,
		Strike:     models.MustPrice(13.5),
	})
	if leg.Symbol() != "F160617P00013500" {
		t.Errorf("symbol = %q", leg.Symbol())
	}
}

func TestLegPartialParamsFillFromSymbol(t *testing.T) {
	leg := newTestLeg(t, "F160617C00150000", LegParams{Strike: models.MustPrice(155)})
	c := leg.Components()
	if c.Strike != models.MustPrice(155) {
		t.Errorf("strike = %d, want override", c.Strike)
	}
	if !c.Expiration.Equal(june17) || c.Type != models.Call {
		t.Errorf("components = %+v", c)
	}
}

func TestLegRejectsBadParams(t *testing.T) {
	if _, err := NewLeg("F160617C00150000", LegParams{TickSize: models.Price(-1)}); !errors.Is(err, errors.ErrInvalidArgument) {
		t.Errorf("negative tick error = %v", err)
	}
	if _, err := NewLeg("garbage", LegParams{}); !errors.Is(err, errors.ErrMalformedSymbol) {
		t.Errorf("bad symbol error = %v", err)
	}
}

func TestLegDerivedValuesExpireWithTTL(t *testing.T) {
	clock := newFakeClock()
	cost := &countingCost{base: models.MustPrice(4.95), perLeg: models.MustPrice(0.65)}
	premium := &countingPremium{value: models.MustPrice(1)}
	leg := newTestLeg(t, "F160617C00150000", LegParams{
		TTL:     300 * time.Second,
		Cost:    cost,
		Premium: premium,
		Clock:   clock.Now,
	})

	leg.Cost()
	leg.Premium(context.Background())
	clock.Advance(299 * time.Second)
	leg.Cost()
	leg.Premium(context.Background())
	if cost.calls != 1 || premium.calls != 1 {
		t.Errorf("reads within TTL recomputed: %d/%d calls", cost.calls, premium.calls)
	}

	clock.Advance(2 * time.Second) // past the 300s TTL
	leg.Cost()
	leg.Premium(context.Background())
	if cost.calls != 2 || premium.calls != 2 {
		t.Errorf("reads after TTL did not recompute: %d/%d calls", cost.calls, premium.calls)
	}
}

func TestLegInvalidateForcesRecompute(t *testing.T) {
	cost := &countingCost{base: models.MustPrice(4.95), perLeg: models.MustPrice(0.65)}
	leg := newTestLeg(t, "F160617C00150000", LegParams{Cost: cost})

	leg.Cost()
	leg.Invalidate()
	leg.Cost()
	if cost.calls != 2 {
		t.Errorf("cost calls = %d, want 2 after invalidation", cost.calls)
	}
}

func TestLegPayoffsReturnsCopy(t *testing.T) {
	leg := newTestLeg(t, "F160617C00150000", LegParams{TickSize: models.MustPrice(1)})

	curve := leg.Payoffs()
	want := curve[40].Value
	curve[40].Value = models.MustPrice(-999)

	again := leg.Payoffs()
	if again[40].Value != want {
		t.Errorf("mutating a returned curve leaked into the cache: %d", again[40].Value)
	}
}

func TestLegNeverExpiringTTL(t *testing.T) {
	clock := newFakeClock()
	cost := &countingCost{base: models.MustPrice(4.95), perLeg: models.MustPrice(0.65)}
	leg := newTestLeg(t, "F160617C00150000", LegParams{
		TTL:   NoExpiry,
		Cost:  cost,
		Clock: clock.Now,
	})

	leg.Cost()
	clock.Advance(1000 * time.Hour)
	leg.Cost()
	if cost.calls != 1 {
		t.Errorf("cost calls = %d, want 1", cost.calls)
	}
}

func TestLegCost(t *testing.T) {
	cost := &countingCost{base: models.MustPrice(4.95), perLeg: models.MustPrice(0.65)}
	leg := newTestLeg(t, "F160617C00150000", LegParams{Cost: cost})

	if got := leg.Cost(); got != models.MustPrice(5.60) {
		t.Errorf("Cost() = %d, want %d", got, models.MustPrice(5.60))
	}
	leg.Cost()
	if cost.calls != 1 {
		t.Errorf("cost calls = %d, want 1", cost.calls)
	}
}

func TestLegPremiumSignFlip(t *testing.T) {
	ctx := context.Background()

	long := newTestLeg(t, "F160617C00150000", LegParams{
		Premium: &countingPremium{value: models.MustPrice(2.5)},
	})
	short := newTestLeg(t, "F160617C00150000", LegParams{
		Direction: models.Short,
		Premium:   &countingPremium{value: models.MustPrice(2.5)},
	})

	p, err := long.Premium(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if p != models.MustPrice(2.5) {
		t.Errorf("long premium = %d", p)
	}

	p, err = short.Premium(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if p != models.MustPrice(-2.5) {
		t.Errorf("short premium = %d", p)
	}
}

func TestLegPremiumErrorPropagates(t *testing.T) {
	src := &countingPremium{err: errors.ErrMarketDataUnavailable}
	leg := newTestLeg(t, "F160617C00150000", LegParams{Premium: src})

	if _, err := leg.Premium(context.Background()); !errors.Is(err, errors.ErrMarketDataUnavailable) {
		t.Errorf("error = %v, want ErrMarketDataUnavailable", err)
	}
	// Failures are not cached; the next read tries again.
	leg.Premium(context.Background())
	if src.calls != 2 {
		t.Errorf("premium calls = %d, want 2", src.calls)
	}
}

func TestLegZeroPremiumFallback(t *testing.T) {
	// No premium source configured: the zero source substitutes.
	leg := newTestLeg(t, "F160617C00150000", LegParams{})
	p, err := leg.Premium(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if p != 0 {
		t.Errorf("premium = %d, want 0", p)
	}
}

func TestLegResetDomainInvalidatesOnlyPayoffs(t *testing.T) {
	cost := &countingCost{base: models.MustPrice(4.95), perLeg: models.MustPrice(0.65)}
	premium := &countingPremium{value: models.MustPrice(1)}
	leg := newTestLeg(t, "F160617C00150000", LegParams{
		TickSize: models.MustPrice(1),
		Cost:     cost,
		Premium:  premium,
	})

	before := leg.Payoffs()
	leg.Cost()
	leg.Premium(context.Background())

	leg.resetDomain(models.MustPrice(100), models.MustPrice(200))

	after := leg.Payoffs()
	if after[0].Price == before[0].Price {
		t.Error("payoff curve should resample after a domain reset")
	}
	if after[0].Price != models.MustPrice(100) {
		t.Errorf("first point at %d after reset", after[0].Price)
	}
	start, stop, _ := leg.Domain()
	if start != models.MustPrice(100) || stop != models.MustPrice(200) {
		t.Errorf("domain = [%d, %d)", start, stop)
	}

	leg.Cost()
	leg.Premium(context.Background())
	if cost.calls != 1 || premium.calls != 1 {
		t.Errorf("cost/premium recomputed: %d/%d calls", cost.calls, premium.calls)
	}
}
