package options

import (
	"testing"

	"tradeking-trader/internal/models"
)

func TestCallForcesType(t *testing.T) {
	// The put symbol is overridden to a call by the builder.
	m, err := Call("F160617P00150000", LegParams{})
	if err != nil {
		t.Fatal(err)
	}
	legs := m.Legs()
	if len(legs) != 1 {
		t.Fatalf("len(legs) = %d", len(legs))
	}
	if legs[0].Symbol() != "F160617C00150000" {
		t.Errorf("symbol = %q", legs[0].Symbol())
	}
	if legs[0].Direction() != models.Long {
		t.Errorf("direction = %s, want long", legs[0].Direction())
	}
}

func TestCallEndToEndCurve(t *testing.T) {
	m, err := Call("F160617C00150000", LegParams{TickSize: models.MustPrice(1)})
	if err != nil {
		t.Fatal(err)
	}

	curve := m.Payoffs()
	if len(curve) != 41 {
		t.Fatalf("len(curve) = %d, want 41", len(curve))
	}
	strike := models.MustPrice(150)
	for _, pt := range curve {
		want := models.MaxPrice(pt.Price.Sub(strike), 0)
		if pt.Value != want {
			t.Errorf("value at %s = %s, want %s", pt.Price, pt.Value, want)
		}
	}
}

func TestPutShort(t *testing.T) {
	m, err := Put("F160617P00150000", LegParams{Direction: models.Short})
	if err != nil {
		t.Fatal(err)
	}
	leg := m.Legs()[0]
	if leg.Direction() != models.Short {
		t.Errorf("direction = %s", leg.Direction())
	}
	if got := m.Payoff(models.MustPrice(140)); got != models.MustPrice(-10) {
		t.Errorf("short put payoff at 140 = %s", got)
	}
}

func TestStraddleLegs(t *testing.T) {
	m, err := Straddle("F160617C00150000", LegParams{})
	if err != nil {
		t.Fatal(err)
	}
	legs := m.Legs()
	if len(legs) != 2 {
		t.Fatalf("len(legs) = %d", len(legs))
	}
	if legs[0].Components().Type != models.Put || legs[1].Components().Type != models.Call {
		t.Errorf("leg types = %s, %s; want put then call",
			legs[0].Components().Type, legs[1].Components().Type)
	}
	for _, leg := range legs {
		if leg.Components().Strike != models.MustPrice(150) {
			t.Errorf("leg %s strike = %s", leg.Symbol(), leg.Components().Strike)
		}
	}

	// Default commission model: 4.95 base plus 0.65 per leg.
	if got := m.Cost(); got != models.MustPrice(6.25) {
		t.Errorf("Cost() = %s, want 6.25", got)
	}
}

func TestStrangleStrikes(t *testing.T) {
	m, err := Strangle("F160617C00150000",
		models.MustPrice(160), models.MustPrice(140), LegParams{})
	if err != nil {
		t.Fatal(err)
	}
	legs := m.Legs()
	if len(legs) != 2 {
		t.Fatalf("len(legs) = %d", len(legs))
	}
	if legs[0].Symbol() != "F160617P00140000" {
		t.Errorf("put symbol = %q", legs[0].Symbol())
	}
	if legs[1].Symbol() != "F160617C00160000" {
		t.Errorf("call symbol = %q", legs[1].Symbol())
	}
}

func TestCollarDirectionsFixed(t *testing.T) {
	// A caller-supplied direction must not override the structure.
	m, err := Collar("F160617C00150000",
		models.MustPrice(90), models.MustPrice(110),
		LegParams{Direction: models.Short})
	if err != nil {
		t.Fatal(err)
	}
	legs := m.Legs()
	if len(legs) != 2 {
		t.Fatalf("len(legs) = %d", len(legs))
	}

	put, call := legs[0], legs[1]
	if put.Components().Type != models.Put || put.Direction() != models.Long {
		t.Errorf("put leg = %s %s", put.Direction(), put.Components().Type)
	}
	if put.Components().Strike != models.MustPrice(90) {
		t.Errorf("put strike = %s", put.Components().Strike)
	}
	if call.Components().Type != models.Call || call.Direction() != models.Short {
		t.Errorf("call leg = %s %s", call.Direction(), call.Components().Type)
	}
	if call.Components().Strike != models.MustPrice(110) {
		t.Errorf("call strike = %s", call.Components().Strike)
	}
}

func TestStrategyBadSymbol(t *testing.T) {
	if _, err := Straddle("bogus", LegParams{}); err == nil {
		t.Error("expected error for malformed symbol")
	}
}
