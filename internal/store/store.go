// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"tradeking-trader/internal/models"
)

// DataStore defines the interface for local persistence: saved chain
// filter queries and a short-lived quote cache.
type DataStore interface {
	// Saved chain filter queries
	SaveQuery(ctx context.Context, name string, expressions []string) error
	GetQuery(ctx context.Context, name string) ([]string, error)
	ListQueries(ctx context.Context) ([]string, error)
	DeleteQuery(ctx context.Context, name string) error

	// Quote cache
	SaveQuotes(ctx context.Context, quotes []models.Quote) error
	GetQuote(ctx context.Context, symbol string, maxAge time.Duration) (*models.Quote, error)

	// Lifecycle
	Close() error
}
