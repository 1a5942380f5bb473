package broker

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"tradeking-trader/internal/models"
	"tradeking-trader/internal/options"
)

// The API delivers every field as a string, numbers sometimes dressed
// with $, % or thousands separators, and collapses single-element
// arrays into bare objects. The row types below absorb both quirks.

func cleanNumber(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '$', ',', '%':
			return -1
		}
		return r
	}, s)
}

// parsePriceField parses a numeric field leniently; unparsable or empty
// input yields zero, matching the feed's habit of omitting fields.
func parsePriceField(s string) models.Price {
	s = cleanNumber(strings.TrimSpace(s))
	if s == "" {
		return 0
	}
	p, err := models.ParsePrice(s)
	if err != nil {
		return 0
	}
	return p
}

func parseIntField(s string) int64 {
	s = cleanNumber(strings.TrimSpace(s))
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func parseFloatField(s string) float64 {
	s = cleanNumber(strings.TrimSpace(s))
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

var dateFieldLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"20060102",
	"2006/01/02",
}

func parseDateField(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	// Unix-seconds timestamps arrive as bare integers.
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 10_000_000 {
		return time.Unix(n, 0).UTC()
	}
	for _, layout := range dateFieldLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// unmarshalOneOrMany decodes either a JSON array of objects or a single
// bare object into a slice.
func unmarshalOneOrMany(data []byte, single interface{}, appendFn func()) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var raws []json.RawMessage
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return err
		}
		for _, raw := range raws {
			if err := json.Unmarshal(raw, single); err != nil {
				return err
			}
			appendFn()
		}
		return nil
	}
	if err := json.Unmarshal(trimmed, single); err != nil {
		return err
	}
	appendFn()
	return nil
}

// stringRows accepts "x", ["x", "y"], or numbers for string list fields.
type stringRows []string

func (s *stringRows) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var raws []json.RawMessage
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return err
		}
		for _, raw := range raws {
			*s = append(*s, rawToString(raw))
		}
		return nil
	}
	*s = append(*s, rawToString(trimmed))
	return nil
}

func rawToString(raw []byte) string {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	return string(raw)
}

type quoteRow struct {
	Symbol       string `json:"symbol"`
	Bid          string `json:"bid"`
	Ask          string `json:"ask"`
	Last         string `json:"last"`
	BidSize      string `json:"bidsz"`
	AskSize      string `json:"asksz"`
	Volume       string `json:"vl"`
	Timestamp    string `json:"timestamp"`
	StrikePrice  string `json:"strikeprice"`
	XDate        string `json:"xdate"`
	PutCall      string `json:"put_call"`
	RootSymbol   string `json:"rootsymbol"`
	OpenInterest string `json:"openinterest"`
}

type quoteRows []quoteRow

func (q *quoteRows) UnmarshalJSON(data []byte) error {
	var row quoteRow
	return unmarshalOneOrMany(data, &row, func() {
		*q = append(*q, row)
		row = quoteRow{}
	})
}

func (r quoteRow) toQuote() models.Quote {
	return models.Quote{
		Symbol:    r.Symbol,
		Bid:       parsePriceField(r.Bid),
		Ask:       parsePriceField(r.Ask),
		Last:      parsePriceField(r.Last),
		BidSize:   parseIntField(r.BidSize),
		AskSize:   parseIntField(r.AskSize),
		Volume:    parseIntField(r.Volume),
		Timestamp: parseDateField(r.Timestamp),
	}
}

func (r quoteRow) toOptionQuote(underlying string) OptionQuote {
	if r.RootSymbol != "" {
		underlying = r.RootSymbol
	}
	quote := OptionQuote{
		Symbol:       r.Symbol,
		Underlying:   underlying,
		Strike:       parsePriceField(r.StrikePrice),
		Expiration:   parseDateField(r.XDate),
		PutCall:      strings.ToUpper(r.PutCall),
		Bid:          parsePriceField(r.Bid),
		Ask:          parsePriceField(r.Ask),
		Last:         parsePriceField(r.Last),
		OpenInterest: parseIntField(r.OpenInterest),
		Volume:       parseIntField(r.Volume),
	}
	// The feed's chain rows sometimes omit component fields; the
	// symbol itself is authoritative.
	if components, err := options.ParseSymbol(r.Symbol); err == nil {
		if quote.Strike == 0 {
			quote.Strike = components.Strike
		}
		if quote.Expiration.IsZero() {
			quote.Expiration = components.Expiration
		}
		if quote.PutCall == "" {
			quote.PutCall = string(components.Type)
		}
	}
	return quote
}

type articleRow struct {
	ID       string `json:"@id"`
	Headline string `json:"headline"`
	Story    string `json:"story"`
	Date     string `json:"date"`
}

type articleRows []articleRow

func (a *articleRows) UnmarshalJSON(data []byte) error {
	var row articleRow
	return unmarshalOneOrMany(data, &row, func() {
		*a = append(*a, row)
		row = articleRow{}
	})
}

func (r articleRow) toArticle() NewsArticle {
	return NewsArticle{
		ID:       r.ID,
		Headline: r.Headline,
		Story:    r.Story,
		Date:     parseDateField(r.Date),
	}
}

type holdingRow struct {
	Instrument struct {
		Sym string `json:"sym"`
	} `json:"instrument"`
	Qty         string `json:"qty"`
	CostBasis   string `json:"costbasis"`
	MarketValue string `json:"marketvalue"`
	GainLoss    string `json:"gainloss"`
}

type holdingRows []holdingRow

func (h *holdingRows) UnmarshalJSON(data []byte) error {
	var row holdingRow
	return unmarshalOneOrMany(data, &row, func() {
		*h = append(*h, row)
		row = holdingRow{}
	})
}

func (r holdingRow) toHolding() Holding {
	return Holding{
		Symbol:      r.Instrument.Sym,
		Quantity:    parseFloatField(r.Qty),
		CostBasis:   parsePriceField(r.CostBasis),
		MarketValue: parsePriceField(r.MarketValue),
		GainLoss:    parsePriceField(r.GainLoss),
	}
}

type transactionRow struct {
	Date        string `json:"date"`
	Activity    string `json:"activity"`
	Symbol      string `json:"symbol"`
	Description string `json:"desc"`
	Amount      string `json:"amount"`
}

type transactionRows []transactionRow

func (t *transactionRows) UnmarshalJSON(data []byte) error {
	var row transactionRow
	return unmarshalOneOrMany(data, &row, func() {
		*t = append(*t, row)
		row = transactionRow{}
	})
}

func (r transactionRow) toTransaction() Transaction {
	return Transaction{
		Date:        parseDateField(r.Date),
		Activity:    r.Activity,
		Symbol:      r.Symbol,
		Description: r.Description,
		Amount:      parsePriceField(r.Amount),
	}
}

type orderRow struct {
	OrderID  string `json:"orderid"`
	Symbol   string `json:"sym"`
	Status   string `json:"status"`
	Received string `json:"date"`
}

type orderRows []orderRow

func (o *orderRows) UnmarshalJSON(data []byte) error {
	var row orderRow
	return unmarshalOneOrMany(data, &row, func() {
		*o = append(*o, row)
		row = orderRow{}
	})
}

func (r orderRow) toOrderStatus() OrderStatus {
	return OrderStatus{
		OrderID:  r.OrderID,
		Symbol:   r.Symbol,
		Status:   r.Status,
		Received: parseDateField(r.Received),
	}
}
