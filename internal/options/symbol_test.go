package options

import (
	"testing"
	"time"

	"tradeking-trader/internal/errors"
	"tradeking-trader/internal/models"
)

var june17 = time.Date(2016, 6, 17, 0, 0, 0, 0, time.UTC)

func TestSymbolEncode(t *testing.T) {
	symbol, err := Symbol("F", june17, models.Call, models.MustPrice(150))
	if err != nil {
		t.Fatal(err)
	}
	if symbol != "F160617C00150000" {
		t.Errorf("symbol = %q, want F160617C00150000", symbol)
	}

	symbol, err = Symbol("goog", june17, models.Put, models.MustPrice(701.5))
	if err != nil {
		t.Fatal(err)
	}
	if symbol != "GOOG160617P00701500" {
		t.Errorf("symbol = %q, want GOOG160617P00701500", symbol)
	}
}

func TestSymbolEncodeRejectsBadType(t *testing.T) {
	if _, err := Symbol("F", june17, "X", models.MustPrice(150)); !errors.Is(err, errors.ErrInvalidOptionType) {
		t.Errorf("error = %v, want ErrInvalidOptionType", err)
	}
}

func TestSymbolEncodeRejectsNegativeStrike(t *testing.T) {
	if _, err := Symbol("F", june17, models.Call, models.Price(-1)); !errors.Is(err, errors.ErrInvalidArgument) {
		t.Errorf("error = %v, want ErrInvalidArgument", err)
	}
}

func TestParseSymbol(t *testing.T) {
	c, err := ParseSymbol("F160617C00150000")
	if err != nil {
		t.Fatal(err)
	}
	if c.Underlying != "F" {
		t.Errorf("underlying = %q", c.Underlying)
	}
	if !c.Expiration.Equal(june17) {
		t.Errorf("expiration = %v", c.Expiration)
	}
	if c.Type != models.Call {
		t.Errorf("type = %q", c.Type)
	}
	if c.Strike != models.MustPrice(150) {
		t.Errorf("strike = %d", c.Strike)
	}
}

func TestParseSymbolLowercases(t *testing.T) {
	c, err := ParseSymbol("goog160617p00701500")
	if err != nil {
		t.Fatal(err)
	}
	if c.Underlying != "GOOG" || c.Type != models.Put {
		t.Errorf("components = %+v", c)
	}
}

func TestParseSymbolErrors(t *testing.T) {
	tests := []struct {
		name   string
		symbol string
	}{
		{"too short", "F1606C0015000"},
		{"bad strike digits", "F160617C0015000x"},
		{"bad type letter", "F160617X00150000"},
		{"bad date", "F16ab17C00150000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSymbol(tt.symbol); !errors.Is(err, errors.ErrMalformedSymbol) && !errors.Is(err, errors.ErrInvalidOptionType) {
				t.Errorf("ParseSymbol(%q) error = %v", tt.symbol, err)
			}
		})
	}
}

func TestSymbolsCartesianProduct(t *testing.T) {
	expirations := []time.Time{june17, time.Date(2016, 7, 15, 0, 0, 0, 0, time.UTC)}
	strikes := []models.Price{models.MustPrice(10), models.MustPrice(12.5)}

	symbols, err := Symbols("F", expirations, strikes, true, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(symbols) != 8 {
		t.Fatalf("len = %d, want 8", len(symbols))
	}

	want := []string{
		"F160617C00010000",
		"F160617C00012500",
		"F160617P00010000",
		"F160617P00012500",
		"F160715C00010000",
		"F160715C00012500",
		"F160715P00010000",
		"F160715P00012500",
	}
	for i, symbol := range symbols {
		if symbol != want[i] {
			t.Errorf("symbols[%d] = %q, want %q", i, symbol, want[i])
		}
	}
}

func TestSymbolsCallsOnly(t *testing.T) {
	symbols, err := Symbols("F", []time.Time{june17}, []models.Price{models.MustPrice(10)}, true, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(symbols) != 1 || symbols[0] != "F160617C00010000" {
		t.Errorf("symbols = %v", symbols)
	}
}

func TestSymbolsRequiresASide(t *testing.T) {
	if _, err := Symbols("F", []time.Time{june17}, []models.Price{models.MustPrice(10)}, false, false); !errors.Is(err, errors.ErrInvalidArgument) {
		t.Errorf("error = %v, want ErrInvalidArgument", err)
	}
}
