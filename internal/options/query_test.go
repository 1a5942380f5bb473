package options

import (
	"testing"

	"tradeking-trader/internal/errors"
)

func TestNewQueryDropsUnknownFields(t *testing.T) {
	q, err := NewQuery([]string{
		"strikeprice > 100",
		"foobar > 1",
		"xyear = 2016",
	})
	if err != nil {
		t.Fatal(err)
	}
	if q.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", q.Len())
	}
	want := "strikeprice-gt:100 AND xyear-eq:2016"
	if got := q.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestNewQueryOperatorAliases(t *testing.T) {
	tests := []struct {
		expression string
		want       string
	}{
		{"strikeprice < 50", "strikeprice-lt:50"},
		{"strikeprice lt 50", "strikeprice-lt:50"},
		{"strikeprice >= 50", "strikeprice-gte:50"},
		{"strikeprice <= 50", "strikeprice-lte:50"},
		{"put_call = put", "put_call-eq:put"},
		{"put_call == put", "put_call-eq:put"},
		{"put_call eq put", "put_call-eq:put"},
	}
	for _, tt := range tests {
		q, err := NewQuery([]string{tt.expression})
		if err != nil {
			t.Fatal(err)
		}
		if got := q.String(); got != tt.want {
			t.Errorf("NewQuery(%q).String() = %q, want %q", tt.expression, got, tt.want)
		}
	}
}

func TestNewQueryFieldCaseInsensitive(t *testing.T) {
	q, err := NewQuery([]string{"StrikePrice > 100"})
	if err != nil {
		t.Fatal(err)
	}
	if got := q.String(); got != "strikeprice-gt:100" {
		t.Errorf("String() = %q", got)
	}
}

func TestNewQueryXDateNormalization(t *testing.T) {
	for _, value := range []string{"20160617", "2016-06-17", "2016/06/17", "06/17/2016", "160617"} {
		q, err := NewQuery([]string{"xdate = " + value})
		if err != nil {
			t.Fatal(err)
		}
		if got := q.String(); got != "xdate-eq:20160617" {
			t.Errorf("xdate %q serialized as %q", value, got)
		}
	}
}

func TestNewQueryDropsBadTokenCounts(t *testing.T) {
	q, err := NewQuery([]string{
		"strikeprice>100",
		"strikeprice > 100 extra",
		"",
	})
	if err != nil {
		t.Fatal(err)
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
	if got := q.String(); got != "" {
		t.Errorf("String() = %q, want empty", got)
	}
}

func TestNewQueryStrictMode(t *testing.T) {
	tests := []string{
		"foobar > 1",
		"strikeprice ~ 100",
		"strikeprice>100",
		"xdate = junk",
	}
	for _, expression := range tests {
		if _, err := NewQuery([]string{expression}, WithStrictFilters()); !errors.Is(err, errors.ErrInvalidArgument) {
			t.Errorf("strict NewQuery(%q) error = %v, want ErrInvalidArgument", expression, err)
		}
	}

	// Valid expressions still pass in strict mode.
	q, err := NewQuery([]string{"unique = strikeprice"}, WithStrictFilters())
	if err != nil {
		t.Fatal(err)
	}
	if got := q.String(); got != "unique-eq:strikeprice" {
		t.Errorf("String() = %q", got)
	}
}

func TestNewQueryPreservesOrder(t *testing.T) {
	q, err := NewQuery([]string{
		"xyear = 2016",
		"xmonth = 6",
		"strikeprice >= 100",
	})
	if err != nil {
		t.Fatal(err)
	}
	want := "xyear-eq:2016 AND xmonth-eq:6 AND strikeprice-gte:100"
	if got := q.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
