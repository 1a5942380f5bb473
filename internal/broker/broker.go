// Package broker provides brokerage API integration interfaces and
// implementations.
package broker

import (
	"context"
	"time"

	"tradeking-trader/internal/models"
	"tradeking-trader/internal/options"
)

// MarketData defines the market data operations of the brokerage API.
type MarketData interface {
	// Quotes fetches quotes for a batch of symbols in one call.
	Quotes(ctx context.Context, symbols []string) (map[string]models.Quote, error)
	// Clock returns the market clock state.
	Clock(ctx context.Context) (*MarketClock, error)
	// Toplist returns a market mover list, e.g. "toppctgainers".
	Toplist(ctx context.Context, listType string) ([]models.Quote, error)

	// OptionExpirations lists the expiration dates available for an
	// underlying.
	OptionExpirations(ctx context.Context, underlying string) ([]time.Time, error)
	// OptionStrikes lists the strike prices available for an underlying.
	OptionStrikes(ctx context.Context, underlying string) ([]models.Price, error)
	// SearchOptions scans the option chain for an underlying with a
	// filter query.
	SearchOptions(ctx context.Context, underlying string, query *options.Query, fields []string) ([]OptionQuote, error)
}

// NewsService defines the market news operations.
type NewsService interface {
	SearchNews(ctx context.Context, req NewsSearchRequest) ([]NewsArticle, error)
	Article(ctx context.Context, articleID string) (*NewsArticle, error)
}

// AccountService defines the account retrieval operations.
type AccountService interface {
	Balances(ctx context.Context, accountID string) (*Balance, error)
	Holdings(ctx context.Context, accountID string) ([]Holding, error)
	History(ctx context.Context, accountID string, req HistoryRequest) ([]Transaction, error)
	Orders(ctx context.Context, accountID string) ([]OrderStatus, error)
}

// MarketClock represents the market clock state.
type MarketClock struct {
	Date    time.Time
	Status  string
	Message string
}

// OptionQuote is one row from an option chain search.
type OptionQuote struct {
	Symbol       string
	Underlying   string
	Strike       models.Price
	Expiration   time.Time
	PutCall      string
	Bid          models.Price
	Ask          models.Price
	Last         models.Price
	OpenInterest int64
	Volume       int64
}

// NewsSearchRequest holds news search criteria. At least one of
// Keywords or Symbols is required; StartDate and EndDate must be given
// together.
type NewsSearchRequest struct {
	Keywords  []string
	Symbols   []string
	MaxHits   int
	StartDate string
	EndDate   string
}

// NewsArticle represents a market news article.
type NewsArticle struct {
	ID       string
	Headline string
	Story    string
	Date     time.Time
}

// HistoryRequest holds account history criteria.
type HistoryRequest struct {
	DateRange    string // "all", "today", "current_week", ...
	Transactions string // "all", "trade", "bookkeeping"
}

// Balance represents account balance figures.
type Balance struct {
	AccountID    string
	AccountValue models.Price
	CashBalance  models.Price
	BuyingPower  models.Price
	MarketValue  models.Price
}

// Holding represents one account holding.
type Holding struct {
	Symbol      string
	Quantity    float64
	CostBasis   models.Price
	MarketValue models.Price
	GainLoss    models.Price
}

// Transaction represents one account history entry.
type Transaction struct {
	Date        time.Time
	Activity    string
	Symbol      string
	Description string
	Amount      models.Price
}

// OrderStatus represents the status of one account order.
type OrderStatus struct {
	OrderID  string
	Symbol   string
	Status   string
	Received time.Time
}
