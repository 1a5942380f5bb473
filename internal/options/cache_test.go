package options

import (
	"context"
	"sync"
	"testing"
	"time"

	"tradeking-trader/internal/errors"
	"tradeking-trader/internal/models"
)

func TestDerivedCacheHitsWithinTTL(t *testing.T) {
	clock := newFakeClock()
	cache := newDerivedCache(clock.Now)

	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	v, err := cache.getOrCompute("k", 300*time.Second, compute)
	if err != nil {
		t.Fatal(err)
	}
	clock.Advance(300 * time.Second) // age == ttl is still fresh
	v2, _ := cache.getOrCompute("k", 300*time.Second, compute)
	if v != v2 || calls != 1 {
		t.Errorf("read within TTL recomputed: %v -> %v, %d calls", v, v2, calls)
	}

	clock.Advance(time.Second)
	v3, _ := cache.getOrCompute("k", 300*time.Second, compute)
	if v3 == v || calls != 2 {
		t.Errorf("read after TTL did not recompute: %v, %d calls", v3, calls)
	}
}

func TestDerivedCacheZeroTTLNeverExpires(t *testing.T) {
	clock := newFakeClock()
	cache := newDerivedCache(clock.Now)

	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	cache.getOrCompute("k", 0, compute)
	clock.Advance(10000 * time.Hour)
	cache.getOrCompute("k", 0, compute)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDerivedCacheInvalidate(t *testing.T) {
	cache := newDerivedCache(nil)

	calls := map[string]int{}
	compute := func(key string) func() (interface{}, error) {
		return func() (interface{}, error) {
			calls[key]++
			return calls[key], nil
		}
	}

	cache.getOrCompute("a", 0, compute("a"))
	cache.getOrCompute("b", 0, compute("b"))

	cache.invalidate("a")
	cache.getOrCompute("a", 0, compute("a"))
	cache.getOrCompute("b", 0, compute("b"))
	if calls["a"] != 2 || calls["b"] != 1 {
		t.Errorf("keyed invalidation: a=%d b=%d", calls["a"], calls["b"])
	}

	cache.invalidate()
	cache.getOrCompute("a", 0, compute("a"))
	cache.getOrCompute("b", 0, compute("b"))
	if calls["a"] != 3 || calls["b"] != 2 {
		t.Errorf("full invalidation: a=%d b=%d", calls["a"], calls["b"])
	}
}

func TestDerivedCacheDoesNotCacheErrors(t *testing.T) {
	cache := newDerivedCache(nil)

	calls := 0
	_, err := cache.getOrCompute("k", 0, func() (interface{}, error) {
		calls++
		return nil, errors.ErrMarketDataUnavailable
	})
	if !errors.Is(err, errors.ErrMarketDataUnavailable) {
		t.Fatalf("error = %v", err)
	}

	cache.getOrCompute("k", 0, func() (interface{}, error) {
		calls++
		return "ok", nil
	})
	if calls != 2 {
		t.Errorf("calls = %d, want the failure retried", calls)
	}
}

func TestDerivedCacheConcurrentAccess(t *testing.T) {
	cache := newDerivedCache(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				v, err := cache.getOrCompute("k", 0, func() (interface{}, error) {
					return 42, nil
				})
				if err != nil || v.(int) != 42 {
					t.Errorf("got %v, %v", v, err)
					return
				}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 200; j++ {
			cache.invalidate()
		}
	}()
	wg.Wait()
}

func TestLegConcurrentReads(t *testing.T) {
	cost := &syncCountingCost{}
	leg := newTestLeg(t, "F160617C00150000", LegParams{
		TickSize: models.MustPrice(1),
		Cost:     cost,
		Premium:  syncPremium{},
	})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				curve := leg.Payoffs()
				if len(curve) != 41 {
					t.Errorf("len(curve) = %d", len(curve))
					return
				}
				if got := leg.Cost(); got != models.MustPrice(5.60) {
					t.Errorf("Cost() = %d", got)
					return
				}
				p, err := leg.Premium(context.Background())
				if err != nil || p != models.MustPrice(2.5) {
					t.Errorf("Premium() = %d, %v", p, err)
					return
				}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 100; j++ {
			leg.Invalidate()
		}
	}()
	wg.Wait()
}

// syncCountingCost is safe to call from concurrent readers.
type syncCountingCost struct {
	mu    sync.Mutex
	calls int
}

func (c *syncCountingCost) Cost(legCount int) models.Price {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return models.MustPrice(4.95).Add(models.MustPrice(0.65).MulInt(int64(legCount)))
}

type syncPremium struct{}

func (syncPremium) Premium(context.Context, string) (models.Price, error) {
	return models.MustPrice(2.5), nil
}
